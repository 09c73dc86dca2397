package dao

import (
	"database/sql"
	"fmt"

	"bazaar-backend/model"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Insert(m *model.Message) error {
	query := `INSERT INTO messages (id, conversation_id, sender_id, body, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, m.ID, m.ConversationID, m.SenderID, m.Text, m.CreatedAt)
	return err
}

// ListByConversation returns the conversation's messages in timestamp
// order, oldest first. limit <= 0 means no cap (the live subscription
// always delivers the full sequence).
func (r *MessageRepository) ListByConversation(conversationID string, limit int) ([]model.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := r.db.Query(query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
