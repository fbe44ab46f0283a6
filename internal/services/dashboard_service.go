package services

import (
	"context"

	"carspotBack/internal/models"
)

type AnalyticsRepo interface {
	GetDashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// DashboardService serves the admin overview. The analytics repository is
// injected so the aggregation queries can be swapped without touching callers.
type DashboardService struct {
	AnalyticsRepo AnalyticsRepo
}

func (s *DashboardService) GetDashboard(ctx context.Context) (models.DashboardStats, error) {
	return s.AnalyticsRepo.GetDashboardStats(ctx)
}
