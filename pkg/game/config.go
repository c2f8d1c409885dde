package game

import "time"

// Config holds the timing knobs for a match. Production uses the defaults;
// tests shrink them to keep timer paths fast.
type Config struct {
	TurnTimeout   time.Duration
	ChaosInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		TurnTimeout:   15 * time.Second,
		ChaosInterval: 60 * time.Second,
	}
}
