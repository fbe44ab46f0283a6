package models

import (
	"time"
)

// Listing statuses. A listing is created as pending_approval, an admin moves
// it to active or rejected, and the seller moves an active listing to sold.
const (
	StatusPendingApproval = "pending_approval"
	StatusActive          = "active"
	StatusSold            = "sold"
	StatusRejected        = "rejected"
)

const (
	TransmissionAutomatic = "Automatic"
	TransmissionManual    = "Manual"
)

var FuelTypes = []string{"Petrol", "Diesel", "Electric", "CNG", "LPG"}

type CarListing struct {
	ID       int    `json:"id"`
	SellerID int    `json:"seller_id"`
	Seller   struct {
		ID           int      `json:"id"`
		Name         string   `json:"name"`
		Phone        string   `json:"phone,omitempty"`
		City         string   `json:"city,omitempty"`
		AvatarPath   *string  `json:"avatar_path,omitempty"`
		ReviewRating *float64 `json:"review_rating,omitempty"`
		ReviewsCount int      `json:"reviews_count"`
	} `json:"seller"`
	Make         string     `json:"make"`
	Model        string     `json:"model"`
	Year         int        `json:"year"`
	Price        float64    `json:"price"`
	KmsDriven    int        `json:"kms_driven"`
	Mileage      float64    `json:"mileage"`
	Transmission string     `json:"transmission"`
	FuelType     string     `json:"fuel_type"`
	NocAvailable bool       `json:"noc_available"`
	Description  string     `json:"description"`
	LocationCity string     `json:"location_city"`
	Status       string     `json:"status"`
	Views        int        `json:"views"`
	Wishlisted   bool       `json:"wishlisted"`
	Images       []CarImage `json:"images"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// CarImage is a supplementary photo owned by exactly one listing and deleted
// together with it.
type CarImage struct {
	ID        int    `json:"id"`
	ListingID int    `json:"listing_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Type      string `json:"type"`
}

// ListingFilter carries the search criteria for the listing collection.
// Zero values mean "no filter"; all supplied criteria are combined with AND.
type ListingFilter struct {
	Query        string  `json:"q"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuel_type"`
	Make         string  `json:"make"`
	City         string  `json:"location_city"`
	Year         int     `json:"year"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

type ListingPage struct {
	Listings []CarListing `json:"listings"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Total    int          `json:"total"`
}

// FilterOptions holds the dropdown values derived from active listings.
type FilterOptions struct {
	Makes  []string `json:"makes"`
	Cities []string `json:"cities"`
}

func ValidTransmission(v string) bool {
	return v == TransmissionAutomatic || v == TransmissionManual
}

func ValidFuelType(v string) bool {
	for _, f := range FuelTypes {
		if f == v {
			return true
		}
	}
	return false
}

func ValidStatus(v string) bool {
	switch v {
	case StatusPendingApproval, StatusActive, StatusSold, StatusRejected:
		return true
	}
	return false
}
