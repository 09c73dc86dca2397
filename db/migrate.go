package db

import "database/sql"

// Migrate creates the schema. Statements are idempotent so the script can
// run on every deploy.
func Migrate(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL DEFAULT '',
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			year VARCHAR(32),
			major VARCHAR(128),
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP(6) NOT NULL,
			updated_at TIMESTAMP(6) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			user_id CHAR(26) NOT NULL,
			seller_name VARCHAR(255) NOT NULL DEFAULT '',
			seller_email VARCHAR(255) NOT NULL DEFAULT '',
			title VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL DEFAULT 0,
			category VARCHAR(64) NOT NULL,
			item_condition VARCHAR(32),
			description TEXT,
			image_urls TEXT,
			meetup_spots TEXT,
			urgency_tags TEXT,
			bruin_lift BOOLEAN NOT NULL DEFAULT FALSE,
			sold BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP(6) NOT NULL,
			updated_at TIMESTAMP(6) NOT NULL,
			INDEX idx_listings_board (sold, category, created_at),
			INDEX idx_listings_owner (user_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS isos (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			user_id CHAR(26) NOT NULL,
			seller_name VARCHAR(255) NOT NULL DEFAULT '',
			seller_email VARCHAR(255) NOT NULL DEFAULT '',
			title VARCHAR(255) NOT NULL,
			category VARCHAR(64) NOT NULL,
			description TEXT,
			image_urls TEXT,
			meetup_spots TEXT,
			urgency_tags TEXT,
			bruin_lift BOOLEAN NOT NULL DEFAULT FALSE,
			found BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP(6) NOT NULL,
			updated_at TIMESTAMP(6) NOT NULL,
			INDEX idx_isos_board (found, category, created_at),
			INDEX idx_isos_owner (user_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id CHAR(64) PRIMARY KEY COMMENT 'sha256(pair, listing)',
			participant_low CHAR(26) NOT NULL,
			participant_high CHAR(26) NOT NULL,
			listing_id CHAR(26) NOT NULL,
			listing_title VARCHAR(255) NOT NULL DEFAULT '',
			last_message VARCHAR(100) NOT NULL DEFAULT '',
			last_message_time TIMESTAMP(6) NOT NULL,
			unread_low BOOLEAN NOT NULL DEFAULT FALSE,
			unread_high BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP(6) NOT NULL,
			UNIQUE KEY uq_conversations_pair (participant_low, participant_high, listing_id),
			INDEX idx_conversations_low (participant_low, last_message_time),
			INDEX idx_conversations_high (participant_high, last_message_time)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			conversation_id CHAR(64) NOT NULL,
			sender_id CHAR(26) NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP(6) NOT NULL,
			INDEX idx_messages_conversation (conversation_id, created_at),
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
