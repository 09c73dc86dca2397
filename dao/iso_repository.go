package dao

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bazaar-backend/model"
)

// ISORepository mirrors ListingRepository for wanted posts; the closing
// flag is "found" instead of "sold".
type ISORepository struct {
	db *sql.DB
}

func NewISORepository(db *sql.DB) *ISORepository {
	return &ISORepository{db: db}
}

const isoColumns = "id, user_id, seller_name, seller_email, title, category, description, image_urls, meetup_spots, urgency_tags, bruin_lift, found, created_at, updated_at"

func (r *ISORepository) GetByID(id string) (*model.ISO, error) {
	query := fmt.Sprintf(`SELECT %s FROM isos WHERE id = ?`, isoColumns)
	row := r.db.QueryRow(query, id)
	iso, err := scanISO(row)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return iso, nil
}

func (r *ISORepository) List(category string, found bool, cursor *PageCursor) ([]model.ISO, error) {
	query := fmt.Sprintf(`SELECT %s FROM isos WHERE found = ?`, isoColumns)
	args := []any{found}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query, args = appendPage(query, args, cursor)
	return r.queryISOs(query, args...)
}

func (r *ISORepository) ListByOwner(ownerID string, includeFound bool, cursor *PageCursor) ([]model.ISO, error) {
	query := fmt.Sprintf(`SELECT %s FROM isos WHERE user_id = ?`, isoColumns)
	args := []any{ownerID}
	if !includeFound {
		query += ` AND found = FALSE`
	}
	query, args = appendPage(query, args, cursor)
	return r.queryISOs(query, args...)
}

func (r *ISORepository) Insert(iso *model.ISO) error {
	query := fmt.Sprintf(`INSERT INTO isos (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, isoColumns)
	_, err := r.db.Exec(query,
		iso.ID, iso.UserID, iso.SellerName, iso.SellerEmail, iso.Title, iso.Category,
		iso.Description, marshalStrings(iso.ImageURLs), marshalStrings(iso.MeetupSpots),
		marshalStrings(iso.UrgencyTags), iso.BruinLift, iso.Found, iso.CreatedAt, iso.UpdatedAt)
	return err
}

var isoPatchColumns = map[string]string{
	"title":       "title",
	"category":    "category",
	"description": "description",
	"imageUrls":   "image_urls",
	"meetupSpots": "meetup_spots",
	"urgencyTags": "urgency_tags",
	"bruinLift":   "bruin_lift",
	"found":       "found",
}

func (r *ISORepository) Update(id string, fields map[string]any) error {
	sets, args := buildPatch(isoPatchColumns, fields)
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)
	query := fmt.Sprintf(`UPDATE isos SET %s WHERE id = ?`, strings.Join(sets, ", "))
	_, err := r.db.Exec(query, args...)
	return err
}

func (r *ISORepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM isos WHERE id = ?`, id)
	return err
}

func (r *ISORepository) queryISOs(query string, args ...any) ([]model.ISO, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var isos []model.ISO
	for rows.Next() {
		iso, err := scanISO(rows)
		if err != nil {
			return nil, err
		}
		isos = append(isos, *iso)
	}
	return isos, rows.Err()
}

func scanISO(row rowScanner) (*model.ISO, error) {
	var iso model.ISO
	var imageURLs, meetupSpots, urgencyTags string
	err := row.Scan(&iso.ID, &iso.UserID, &iso.SellerName, &iso.SellerEmail, &iso.Title,
		&iso.Category, &iso.Description, &imageURLs, &meetupSpots, &urgencyTags,
		&iso.BruinLift, &iso.Found, &iso.CreatedAt, &iso.UpdatedAt)
	if err != nil {
		return nil, err
	}
	iso.ImageURLs = unmarshalStrings(imageURLs)
	iso.MeetupSpots = unmarshalStrings(meetupSpots)
	iso.UrgencyTags = unmarshalStrings(urgencyTags)
	return &iso, nil
}
