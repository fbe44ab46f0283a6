package repositories

import (
	"context"
	"database/sql"

	"carspotBack/internal/models"
)

type AnalyticsRepository struct {
	DB *sql.DB
}

func (r *AnalyticsRepository) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	stats := models.DashboardStats{
		ListingsByStatus: map[string]int{},
		ListingsByMake:   map[string]int{},
	}

	byStatus, err := r.groupedCount(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats.ListingsByStatus = byStatus

	byMake, err := r.groupedCount(ctx, `SELECT make, COUNT(*) FROM listings GROUP BY make ORDER BY COUNT(*) DESC`)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats.ListingsByMake = byMake

	totals := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM listings`, &stats.TotalListings},
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM messages`, &stats.TotalMessages},
		{`SELECT COUNT(*) FROM reviews`, &stats.TotalReviews},
	}
	for _, t := range totals {
		if err := r.DB.QueryRowContext(ctx, t.query).Scan(t.dest); err != nil {
			return models.DashboardStats{}, err
		}
	}
	return stats, nil
}

func (r *AnalyticsRepository) groupedCount(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
