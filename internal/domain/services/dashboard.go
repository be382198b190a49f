package services

import (
	"context"

	"projectdash/internal/domain/models"
)

// DashboardService computes read-only aggregates over the project store.
// No method mutates state.
type DashboardService interface {
	StatusCounts(ctx context.Context) (*models.StatusCounts, error)
	BudgetUtilization(ctx context.Context) (*models.BudgetUtilization, error)
	DistinctAssigneeCount(ctx context.Context) (int, error)
	MonthlyTrend(ctx context.Context) ([]models.MonthlyCount, error)
	RecentProjects(ctx context.Context, n int) ([]models.ProjectSummary, error)
	WeeklyActivity(ctx context.Context) (*models.WeeklyActivity, error)

	// Stats returns only the headline numbers
	Stats(ctx context.Context) (*models.DashboardStats, error)

	// Summary returns the full dashboard payload
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}
