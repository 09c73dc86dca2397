package model

import "time"

// Listing is a "for sale" post. SellerName and SellerEmail are snapshots
// taken at creation and deliberately not re-synced with later profile
// edits.
type Listing struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SellerName  string    `json:"sellerName"`
	SellerEmail string    `json:"sellerEmail"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	ImageURLs   []string  `json:"imageUrls"`
	MeetupSpots []string  `json:"meetupSpots"`
	UrgencyTags []string  `json:"urgencyTags"`
	BruinLift   bool      `json:"bruinLift"`
	Sold        bool      `json:"sold"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fixed sets offered by the listing wizard.
var (
	Categories  = []string{"Textbooks", "Furniture", "Electronics", "Clothing", "Tickets", "Other"}
	Conditions  = []string{"New", "Like New", "Good", "Fair", "Poor"}
	MeetupSpots = []string{"The Hill", "North Village", "On-Campus", "Westwood Village", "Other"}
	UrgencyTags = []string{"Moving out soon", "Must go today", "Price negotiable"}
)
