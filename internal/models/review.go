package models

import (
	"time"
)

type Review struct {
	ID                 int       `json:"id"`
	ReviewerID         int       `json:"reviewer_id"`
	SellerID           int       `json:"seller_id"`
	ListingID          int       `json:"listing_id"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	ReviewerName       string    `json:"reviewer_name,omitempty"`
	ReviewerAvatarPath *string   `json:"reviewer_avatar_path,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// SellerRating is the aggregate for a seller. Average is nil when the seller
// has no reviews, never zero.
type SellerRating struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// Purchase is a sold listing the user is the inferred buyer of, with the flag
// the review page needs.
type Purchase struct {
	Listing     CarListing `json:"listing"`
	HasReviewed bool       `json:"has_reviewed"`
}
