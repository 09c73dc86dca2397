package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	gate := NewGate([]string{"ucla.edu", "g.ucla.edu"})

	tests := []struct {
		email string
		want  bool
	}{
		{"joebruin@ucla.edu", true},
		{"joebruin@g.ucla.edu", true},
		{"  joebruin@ucla.edu  ", true},
		{"first.last+tag@ucla.edu", true},
		{"", false},
		{"joebruin", false},
		{"joebruin@gmail.com", false},
		{"joebruin@bruin.ucla.edu", false},
		{"joebruin@ucla.edu.evil.com", false},
		{"@ucla.edu", false},
		{"joe bruin@ucla.edu", false},
		{"joe@bruin@ucla.edu", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gate.ValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestValidEmailSingleDomain(t *testing.T) {
	gate := NewGate([]string{"example.edu"})
	assert.True(t, gate.ValidEmail("a@example.edu"))
	assert.False(t, gate.ValidEmail("a@ucla.edu"))
}

func TestDomainsEscaped(t *testing.T) {
	// The dot in a domain must not act as a regex wildcard.
	gate := NewGate([]string{"ucla.edu"})
	assert.False(t, gate.ValidEmail("a@uclaxedu"))
}
