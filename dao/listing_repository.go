package dao

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bazaar-backend/model"
)

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = "id, user_id, seller_name, seller_email, title, price, category, item_condition, description, image_urls, meetup_spots, urgency_tags, bruin_lift, sold, created_at, updated_at"

func (r *ListingRepository) GetByID(id string) (*model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = ?`, listingColumns)
	row := r.db.QueryRow(query, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// List fetches a bulletin-board page. The sold flag and optional category
// are equality filters and must precede the order clause; newest first,
// PageSize rows, keyset continuation via cursor.
func (r *ListingRepository) List(category string, sold bool, cursor *PageCursor) ([]model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE sold = ?`, listingColumns)
	args := []any{sold}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query, args = appendPage(query, args, cursor)
	return r.queryListings(query, args...)
}

// ListByOwner scopes the same page shape to one owner. Closed items are
// included unless the caller filters them out.
func (r *ListingRepository) ListByOwner(ownerID string, includeSold bool, cursor *PageCursor) ([]model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE user_id = ?`, listingColumns)
	args := []any{ownerID}
	if !includeSold {
		query += ` AND sold = FALSE`
	}
	query, args = appendPage(query, args, cursor)
	return r.queryListings(query, args...)
}

func (r *ListingRepository) Insert(l *model.Listing) error {
	query := fmt.Sprintf(`INSERT INTO listings (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, listingColumns)
	_, err := r.db.Exec(query,
		l.ID, l.UserID, l.SellerName, l.SellerEmail, l.Title, l.Price, l.Category, l.Condition,
		l.Description, marshalStrings(l.ImageURLs), marshalStrings(l.MeetupSpots),
		marshalStrings(l.UrgencyTags), l.BruinLift, l.Sold, l.CreatedAt, l.UpdatedAt)
	return err
}

// listingPatchColumns maps patchable field names to columns. Anything else
// in a patch is dropped by Update.
var listingPatchColumns = map[string]string{
	"title":       "title",
	"price":       "price",
	"category":    "category",
	"condition":   "item_condition",
	"description": "description",
	"imageUrls":   "image_urls",
	"meetupSpots": "meetup_spots",
	"urgencyTags": "urgency_tags",
	"bruinLift":   "bruin_lift",
	"sold":        "sold",
}

// Update merge-patches the given fields and always stamps updated_at.
func (r *ListingRepository) Update(id string, fields map[string]any) error {
	sets, args := buildPatch(listingPatchColumns, fields)
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)
	query := fmt.Sprintf(`UPDATE listings SET %s WHERE id = ?`, strings.Join(sets, ", "))
	_, err := r.db.Exec(query, args...)
	return err
}

func (r *ListingRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	return err
}

func (r *ListingRepository) queryListings(query string, args ...any) ([]model.Listing, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*model.Listing, error) {
	var l model.Listing
	var condition sql.NullString
	var imageURLs, meetupSpots, urgencyTags string
	err := row.Scan(&l.ID, &l.UserID, &l.SellerName, &l.SellerEmail, &l.Title, &l.Price,
		&l.Category, &condition, &l.Description, &imageURLs, &meetupSpots, &urgencyTags,
		&l.BruinLift, &l.Sold, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Condition = condition.String
	l.ImageURLs = unmarshalStrings(imageURLs)
	l.MeetupSpots = unmarshalStrings(meetupSpots)
	l.UrgencyTags = unmarshalStrings(urgencyTags)
	return &l, nil
}

// appendPage adds the keyset predicate and the shared order/limit tail.
// Equality filters are already in place by the time this runs.
func appendPage(query string, args []any, cursor *PageCursor) (string, []any) {
	if cursor != nil {
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, PageSize)
	return query, args
}

func buildPatch(allowed map[string]string, fields map[string]any) ([]string, []any) {
	var sets []string
	var args []any
	for field, col := range allowed {
		v, ok := fields[field]
		if !ok {
			continue
		}
		if ss, isStrings := v.([]string); isStrings {
			v = marshalStrings(ss)
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	return sets, args
}
