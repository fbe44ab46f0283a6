package models

import (
	"time"
)

// WishlistItem is a saved listing with enough of the listing card to render
// the wishlist page without extra queries.
type WishlistItem struct {
	UserID       int       `json:"user_id"`
	ListingID    int       `json:"listing_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        float64   `json:"price"`
	LocationCity string    `json:"location_city"`
	Status       string    `json:"status"`
	ImagePath    *string   `json:"image_path,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}
