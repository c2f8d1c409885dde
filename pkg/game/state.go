package game

import (
	"fmt"
	"math/rand/v2"
)

const (
	BoardSize   = 100
	snakeCount  = 5
	ladderCount = 5
)

// Effect reports a forced position change applied to a settled player after
// a board regeneration.
type Effect struct {
	NewPos int
	Kind   string // "snake" or "ladder"
}

// State is the authoritative board and turn state for one match. It is not
// goroutine safe; the owning room serializes all access.
type State struct {
	Snakes    map[int]int
	Ladders   map[int]int
	Positions map[string]int
	Colors    map[string]string
	TurnOrder []string
	TurnIndex int
	Winner    string
	LastRoll  int

	rng *rand.Rand
}

// NewState places every player on cell 1, assigns colors and generates the
// initial board. Turn order starts as the given player order until
// SetTurnOrder replaces it.
func NewState(playerIDs []string, rng *rand.Rand) *State {
	s := &State{
		Snakes:    make(map[int]int),
		Ladders:   make(map[int]int),
		Positions: make(map[string]int, len(playerIDs)),
		Colors:    make(map[string]string, len(playerIDs)),
		TurnOrder: append([]string(nil), playerIDs...),
		rng:       rng,
	}
	for _, id := range playerIDs {
		s.Positions[id] = 1
		s.Colors[id] = s.randomColor()
	}
	s.generateBoard()
	return s
}

// SetTurnOrder replaces the turn sequence and rewinds to its first entry.
func (s *State) SetTurnOrder(ordered []string) {
	s.TurnOrder = append([]string(nil), ordered...)
	s.TurnIndex = 0
}

// CurrentPlayer returns the player whose turn it is, or "" for an empty order.
func (s *State) CurrentPlayer() string {
	if len(s.TurnOrder) == 0 {
		return ""
	}
	return s.TurnOrder[s.TurnIndex%len(s.TurnOrder)]
}

// Regenerate discards the board and rolls a fresh set of snakes and ladders.
// Player positions are untouched; callers re-check them with
// CheckPositionEffect.
func (s *State) Regenerate() {
	s.Snakes = make(map[int]int)
	s.Ladders = make(map[int]int)
	s.generateBoard()
}

// generateBoard samples snakes then ladders until exactly five of each are
// placed. A candidate is rejected when its start cell already acts as a
// source or a destination, or when its end cell already acts as a source.
// That keeps every feature single-hop: no destination ever triggers another
// feature.
func (s *State) generateBoard() {
	for len(s.Snakes) < snakeCount {
		start := s.rng.IntN(89) + 11 // [11, 99]
		end := s.rng.IntN(start-2) + 2
		if s.fits(start, end) {
			s.Snakes[start] = end
		}
	}
	for len(s.Ladders) < ladderCount {
		start := s.rng.IntN(88) + 2 // [2, 89]
		end := s.rng.IntN(99-start) + start + 1
		if s.fits(start, end) {
			s.Ladders[start] = end
		}
	}
}

func (s *State) fits(start, end int) bool {
	if s.isSource(start) || s.isSource(end) {
		return false
	}
	return !s.isDestination(start)
}

func (s *State) isSource(cell int) bool {
	if _, ok := s.Snakes[cell]; ok {
		return true
	}
	_, ok := s.Ladders[cell]
	return ok
}

func (s *State) isDestination(cell int) bool {
	for _, end := range s.Snakes {
		if end == cell {
			return true
		}
	}
	for _, end := range s.Ladders {
		if end == cell {
			return true
		}
	}
	return false
}

// RollDice rolls a d6 and records it as the last roll.
func (s *State) RollDice() int {
	s.LastRoll = s.rng.IntN(6) + 1
	return s.LastRoll
}

// MovePlayer advances a player by moveAmount cells. Overshooting cell 100
// bounces back off the top, then a single snake or ladder hop is applied.
// Landing exactly on 100 latches the winner. Once a winner is set the call
// is a no-op. Returns the player's settled position.
func (s *State) MovePlayer(playerID string, moveAmount int) int {
	if s.Winner != "" {
		return s.Positions[playerID]
	}

	newPos := s.Positions[playerID] + moveAmount
	if newPos > BoardSize {
		newPos = BoardSize - (newPos - BoardSize)
	}

	if end, ok := s.Snakes[newPos]; ok {
		newPos = end
	} else if end, ok := s.Ladders[newPos]; ok {
		newPos = end
	}

	s.Positions[playerID] = newPos
	if newPos == BoardSize {
		s.Winner = playerID
	}
	return newPos
}

// CheckPositionEffect re-evaluates a player's settled position against the
// current board without any dice movement. Used after a board regeneration
// to catch players whose cell became a snake or ladder source. Returns nil
// when the position triggers nothing or the game is already won.
func (s *State) CheckPositionEffect(playerID string) *Effect {
	if s.Winner != "" {
		return nil
	}

	pos := s.Positions[playerID]
	if end, ok := s.Snakes[pos]; ok {
		s.commit(playerID, end)
		return &Effect{NewPos: end, Kind: "snake"}
	}
	if end, ok := s.Ladders[pos]; ok {
		s.commit(playerID, end)
		return &Effect{NewPos: end, Kind: "ladder"}
	}
	return nil
}

func (s *State) commit(playerID string, pos int) {
	s.Positions[playerID] = pos
	if pos == BoardSize {
		s.Winner = playerID
	}
}

// NextTurn advances the turn index circularly over the turn order.
func (s *State) NextTurn() {
	s.TurnIndex = (s.TurnIndex + 1) % len(s.TurnOrder)
}

func (s *State) randomColor() string {
	return fmt.Sprintf("#%06x", s.rng.IntN(0x1000000))
}
