package models

// DashboardStats is the admin dashboard payload: simple grouped counts.
type DashboardStats struct {
	ListingsByStatus map[string]int `json:"listings_by_status"`
	ListingsByMake   map[string]int `json:"listings_by_make"`
	TotalListings    int            `json:"total_listings"`
	TotalUsers       int            `json:"total_users"`
	TotalMessages    int            `json:"total_messages"`
	TotalReviews     int            `json:"total_reviews"`
}
