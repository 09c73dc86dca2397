package dao

import (
	"database/sql"
	"time"

	"bazaar-backend/model"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Insert writes the full profile row, overwriting unconditionally if one
// already exists at that key (a "set", not an "insert-if-absent").
func (r *UserRepository) Insert(u *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, year, major, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			password_hash = VALUES(password_hash),
			display_name = VALUES(display_name),
			year = VALUES(year),
			major = VALUES(major),
			email_verified = VALUES(email_verified),
			updated_at = VALUES(updated_at)
	`
	_, err := r.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Year, u.Major,
		u.EmailVerified, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, year, major, email_verified, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, year, major, email_verified, created_at, updated_at
		FROM users
		WHERE email = ?
	`
	return r.scanOne(r.db.QueryRow(query, email))
}

// UpdateProfile patches the three mutable profile fields. Nil pointers are
// left untouched; the update timestamp is stamped only when something is
// written, which the caller guarantees by not calling with all nils.
func (r *UserRepository) UpdateProfile(id string, displayName, year, major *string) error {
	query := `
		UPDATE users SET
			display_name = COALESCE(?, display_name),
			year = COALESCE(?, year),
			major = COALESCE(?, major),
			updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, displayName, year, major, time.Now().UTC(), id)
	return err
}

func (r *UserRepository) SetVerified(id string) error {
	_, err := r.db.Exec(`UPDATE users SET email_verified = TRUE, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

func (r *UserRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	return err
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	var year, major sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &year, &major,
		&u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}
	u.Year = year.String
	u.Major = major.String
	return &u, nil
}
