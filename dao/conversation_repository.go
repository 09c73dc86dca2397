package dao

import (
	"database/sql"
	"time"

	"bazaar-backend/model"
)

// ConversationRepository persists conversations keyed by their
// content-derived id (see model.ConversationID). The participant pair is
// stored in canonical order as two columns; the unread-by set collapses
// to one flag per slot since a conversation has exactly two participants.
type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = "id, participant_low, participant_high, listing_id, listing_title, last_message, last_message_time, unread_low, unread_high, created_at"

func (r *ConversationRepository) GetByID(id string) (*model.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = ?
	`
	c, err := scanConversation(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// InsertIfAbsent writes the conversation only when no row exists for its
// id. Because the id is derived from {canonical pair, listing}, concurrent
// first-contact attempts from both participants land on the same row and
// the loser's insert is a no-op.
func (r *ConversationRepository) InsertIfAbsent(c *model.Conversation) error {
	lo, hi := model.SortPair(c.Participants[0], c.Participants[1])
	query := `
		INSERT IGNORE INTO conversations
			(id, participant_low, participant_high, listing_id, listing_title, last_message, last_message_time, unread_low, unread_high, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, FALSE, ?)
	`
	_, err := r.db.Exec(query, c.ID, lo, hi, c.ListingID, c.ListingTitle,
		c.LastMessage, c.LastMessageTime, c.CreatedAt)
	return err
}

// ListForUser returns the user's conversations, most recent activity
// first, capped at limit. No pagination cursor: the contract is
// deliberately narrower than the listing stores'.
func (r *ConversationRepository) ListForUser(userID string, limit int) ([]model.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE participant_low = ? OR participant_high = ?
		ORDER BY last_message_time DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []model.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *c)
	}
	return convs, rows.Err()
}

// UpdateOnSend stamps the preview and recomputes the unread-by set as
// "every participant except the sender". Comparing against the stored
// participant columns keeps the set derived from ground truth rather than
// caller input.
func (r *ConversationRepository) UpdateOnSend(id, lastMessage string, at time.Time, senderID string) error {
	query := `
		UPDATE conversations SET
			last_message = ?,
			last_message_time = ?,
			unread_low = (participant_low <> ?),
			unread_high = (participant_high <> ?)
		WHERE id = ?
	`
	_, err := r.db.Exec(query, lastMessage, at, senderID, senderID, id)
	return err
}

// MarkRead clears the participant's unread flag. Already-clear flags make
// this a no-op; unknown ids match no row and are equally silent.
func (r *ConversationRepository) MarkRead(id, userID string) error {
	query := `
		UPDATE conversations SET
			unread_low = IF(participant_low = ?, FALSE, unread_low),
			unread_high = IF(participant_high = ?, FALSE, unread_high)
		WHERE id = ?
	`
	_, err := r.db.Exec(query, userID, userID, id)
	return err
}

// DeleteWithMessages removes the conversation and every message in it as
// one all-or-nothing transaction. An orphaned message sub-collection is a
// worse failure mode than the orphaned photo blobs tolerated elsewhere,
// so this is the one multi-row atomic path in the system.
func (r *ConversationRepository) DeleteWithMessages(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanConversation(row rowScanner) (*model.Conversation, error) {
	var c model.Conversation
	var lo, hi string
	var unreadLo, unreadHi bool
	err := row.Scan(&c.ID, &lo, &hi, &c.ListingID, &c.ListingTitle, &c.LastMessage,
		&c.LastMessageTime, &unreadLo, &unreadHi, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Participants = []string{lo, hi}
	c.UnreadBy = []string{}
	if unreadLo {
		c.UnreadBy = append(c.UnreadBy, lo)
	}
	if unreadHi {
		c.UnreadBy = append(c.UnreadBy, hi)
	}
	return &c, nil
}
