// Package identity gatekeeps sign-up: only institutional email addresses
// pass. The check is a pure predicate with no side effects, used both for
// form validation and as a guard before account creation or password reset.
package identity

import (
	"regexp"
	"strings"
)

type Gate struct {
	domains []string
	re      *regexp.Regexp
}

// NewGate builds a gate accepting local-part@domain for each given domain.
func NewGate(domains []string) *Gate {
	escaped := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			escaped = append(escaped, regexp.QuoteMeta(d))
		}
	}
	re := regexp.MustCompile(`^[^\s@]+@(` + strings.Join(escaped, "|") + `)$`)
	return &Gate{domains: domains, re: re}
}

// ValidEmail reports whether the trimmed address belongs to an accepted
// domain. Empty input is invalid, not an error.
func (g *Gate) ValidEmail(email string) bool {
	return g.re.MatchString(strings.TrimSpace(email))
}

// Domains returns the accepted domain list, for user-facing hints.
func (g *Gate) Domains() []string { return g.domains }
