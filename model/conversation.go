package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Conversation links exactly two participants to one listing. Participants
// are persisted as a sorted pair so equality lookups are
// direction-independent, and UnreadBy is always a subset of Participants.
// ListingTitle is a snapshot, not synced with later listing edits.
type Conversation struct {
	ID              string    `json:"id"`
	Participants    []string  `json:"participants"`
	ListingID       string    `json:"listingId"`
	ListingTitle    string    `json:"listingTitle"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadBy        []string  `json:"unreadBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ConversationID derives the document key from the canonical participant
// pair and the listing. Both participants compute the same id, so
// concurrent first-contact attempts converge on a single row instead of
// racing a check-then-insert.
func ConversationID(a, b, listingID string) string {
	lo, hi := SortPair(a, b)
	sum := sha256.Sum256([]byte(lo + "|" + hi + "|" + listingID))
	return hex.EncodeToString(sum[:])
}

// SortPair returns the two ids in canonical order.
func SortPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
