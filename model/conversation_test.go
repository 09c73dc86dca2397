package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDDirectionIndependent(t *testing.T) {
	a := ConversationID("buyer", "seller", "listing-1")
	b := ConversationID("seller", "buyer", "listing-1")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, ConversationID("buyer", "seller", "listing-2"))
	assert.NotEqual(t, a, ConversationID("buyer", "other", "listing-1"))
}

func TestSortPair(t *testing.T) {
	lo, hi := SortPair("zed", "amy")
	assert.Equal(t, "amy", lo)
	assert.Equal(t, "zed", hi)

	lo, hi = SortPair("amy", "zed")
	assert.Equal(t, "amy", lo)
	assert.Equal(t, "zed", hi)
}
