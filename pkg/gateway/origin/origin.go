package origin

import (
	"regexp"
	"strings"
)

// Patterns is a compiled origin allow-list. Entries may use '*' as a
// wildcard; anything else is matched literally.
type Patterns []*regexp.Regexp

// Compile turns the configured allow-list into matchable patterns. Entries
// that fail to compile are skipped.
func Compile(allowedHosts []string) Patterns {
	patterns := make(Patterns, 0, len(allowedHosts))
	for _, host := range allowedHosts {
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(host), `\*`, `.*`) + "$"
		if regex, err := regexp.Compile(expr); err == nil {
			patterns = append(patterns, regex)
		}
	}
	return patterns
}

// Allows reports whether the given Origin header value matches any pattern.
func (p Patterns) Allows(host string) bool {
	for _, pattern := range p {
		if pattern.MatchString(host) {
			return true
		}
	}
	return false
}
