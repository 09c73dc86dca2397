package model

import "time"

// Message belongs to exactly one conversation and is append-only: created,
// never edited, deleted only when its conversation is deleted.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"timestamp"`
}
