package model

import "time"

// ISO ("in search of") is a wanted post. Same shape as a listing minus
// price and condition, with "found" as the closing flag.
type ISO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SellerName  string    `json:"sellerName"`
	SellerEmail string    `json:"sellerEmail"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURLs   []string  `json:"imageUrls"`
	MeetupSpots []string  `json:"meetupSpots"`
	UrgencyTags []string  `json:"urgencyTags"`
	BruinLift   bool      `json:"bruinLift"`
	Found       bool      `json:"found"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
