package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"projectdash/internal/config"
	"projectdash/internal/domain/models"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/domain/services"
)

// DashboardOptions configures the aggregation engine
type DashboardOptions struct {
	RecentCount int
	// Snapshot runs each read set sequentially inside one read-only
	// transaction instead of fanning out over the pool.
	Snapshot          bool
	SyntheticActivity bool
	Location          *time.Location
}

// DashboardOptionsFromConfig reads the dashboard settings from configuration
func DashboardOptionsFromConfig(cfg *config.Config) DashboardOptions {
	return DashboardOptions{
		RecentCount:       cfg.DashboardRecentCount,
		Snapshot:          cfg.DashboardSnapshot,
		SyntheticActivity: cfg.DashboardSyntheticActivity,
		Location:          cfg.Location(),
	}
}

// weekday placeholders with the demo value range [min, min+spread)
var activityDays = []struct {
	day    string
	min    int
	spread int
}{
	{"Mon", 5, 15},
	{"Tue", 5, 15},
	{"Wed", 5, 15},
	{"Thu", 5, 15},
	{"Fri", 5, 15},
	{"Sat", 2, 10},
	{"Sun", 1, 8},
}

// query is one read of a dashboard read set
type query func(ctx context.Context) error

// dashboardService implements the DashboardService interface
type dashboardService struct {
	store     repositories.ProjectStore
	txManager repositories.TransactionManager
	opts      DashboardOptions
	now       func() time.Time
	intN      func(n int) int
	logger    *slog.Logger
}

// NewDashboardService creates a new dashboard service. txManager is only
// used when opts.Snapshot is set.
func NewDashboardService(
	store repositories.ProjectStore,
	txManager repositories.TransactionManager,
	opts DashboardOptions,
	logger *slog.Logger,
) services.DashboardService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RecentCount < 1 {
		opts.RecentCount = 5
	}
	return &dashboardService{
		store:     store,
		txManager: txManager,
		opts:      opts,
		now:       time.Now,
		intN:      rand.IntN,
		logger:    logger,
	}
}

// run executes a read set either concurrently or inside one snapshot
func (s *dashboardService) run(ctx context.Context, queries ...query) error {
	if s.opts.Snapshot && s.txManager != nil {
		return s.txManager.ExecSnapshot(ctx, func(ctx context.Context) error {
			for _, q := range queries {
				if err := q(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		g.Go(func() error {
			return q(gctx)
		})
	}
	return g.Wait()
}

func (s *dashboardService) countQueries(counts *models.StatusCounts) []query {
	queries := []query{
		func(ctx context.Context) (err error) {
			counts.Total, err = s.store.Count(ctx, models.ProjectFilter{})
			return err
		},
	}
	for _, status := range models.AllStatuses {
		target := statusCountField(counts, status)
		queries = append(queries, func(ctx context.Context) (err error) {
			*target, err = s.store.Count(ctx, models.ProjectFilter{Status: &status})
			return err
		})
	}
	return queries
}

func statusCountField(counts *models.StatusCounts, status models.Status) *int {
	switch status {
	case models.StatusOnHold:
		return &counts.OnHold
	case models.StatusCompleted:
		return &counts.Completed
	default:
		return &counts.Active
	}
}

func (s *dashboardService) budgetQueries(budget *models.BudgetUtilization) []query {
	return []query{
		func(ctx context.Context) (err error) {
			budget.TotalBudget, err = s.store.SumBudget(ctx, nil)
			return err
		},
		func(ctx context.Context) (err error) {
			budget.UtilizedBudget, err = s.store.SumBudget(ctx, models.UtilizedStatuses)
			return err
		},
	}
}

func (s *dashboardService) assigneeQuery(n *int) query {
	return func(ctx context.Context) (err error) {
		*n, err = s.store.CountDistinctAssignees(ctx)
		return err
	}
}

func (s *dashboardService) trendQuery(now time.Time, out *[]models.MonthlyCount) query {
	return func(ctx context.Context) error {
		times, err := s.store.ListCreatedSince(ctx, now.Add(-TrendWindow))
		if err != nil {
			return err
		}
		*out = BucketByMonth(times, now, s.opts.Location)
		return nil
	}
}

func (s *dashboardService) recentQuery(n int, out *[]models.ProjectSummary) query {
	return func(ctx context.Context) (err error) {
		*out, err = s.store.ListRecentlyUpdated(ctx, n)
		return err
	}
}

// StatusCounts returns per-status project counts plus the total
func (s *dashboardService) StatusCounts(ctx context.Context) (*models.StatusCounts, error) {
	var counts models.StatusCounts
	if err := s.run(ctx, s.countQueries(&counts)...); err != nil {
		return nil, err
	}
	return &counts, nil
}

// BudgetUtilization returns total and utilized budget with the percentage
func (s *dashboardService) BudgetUtilization(ctx context.Context) (*models.BudgetUtilization, error) {
	var budget models.BudgetUtilization
	if err := s.run(ctx, s.budgetQueries(&budget)...); err != nil {
		return nil, err
	}
	budget.Utilization = UtilizationPercent(budget.TotalBudget, budget.UtilizedBudget)
	return &budget, nil
}

// DistinctAssigneeCount counts distinct assignedTo values
func (s *dashboardService) DistinctAssigneeCount(ctx context.Context) (int, error) {
	var n int
	if err := s.run(ctx, s.assigneeQuery(&n)); err != nil {
		return 0, err
	}
	return n, nil
}

// MonthlyTrend returns the trailing-12-months creation histogram
func (s *dashboardService) MonthlyTrend(ctx context.Context) ([]models.MonthlyCount, error) {
	var trend []models.MonthlyCount
	if err := s.run(ctx, s.trendQuery(s.now(), &trend)); err != nil {
		return nil, err
	}
	return trend, nil
}

// RecentProjects returns the n most recently updated projects
func (s *dashboardService) RecentProjects(ctx context.Context, n int) ([]models.ProjectSummary, error) {
	if n < 1 {
		n = s.opts.RecentCount
	}
	var recent []models.ProjectSummary
	if err := s.run(ctx, s.recentQuery(n, &recent)); err != nil {
		return nil, err
	}
	return recent, nil
}

// WeeklyActivity returns the weekday activity placeholder. Task completions
// are not tracked, so counts are zero unless synthetic demo data is enabled.
func (s *dashboardService) WeeklyActivity(_ context.Context) (*models.WeeklyActivity, error) {
	activity := &models.WeeklyActivity{
		Source: models.ActivitySourceNone,
		Days:   make([]models.DayActivity, 0, len(activityDays)),
	}
	if s.opts.SyntheticActivity {
		activity.Source = models.ActivitySourceSynthetic
	}

	for _, d := range activityDays {
		tasks := 0
		if s.opts.SyntheticActivity {
			tasks = d.min + s.intN(d.spread)
		}
		activity.Days = append(activity.Days, models.DayActivity{Day: d.day, Tasks: tasks})
	}
	return activity, nil
}

// Stats returns the headline numbers of the dashboard
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var counts models.StatusCounts
	var budget models.BudgetUtilization
	var team int

	queries := append(s.countQueries(&counts), s.budgetQueries(&budget)...)
	queries = append(queries, s.assigneeQuery(&team))
	if err := s.run(ctx, queries...); err != nil {
		return nil, err
	}

	stats := buildStats(counts, budget, team)
	return &stats, nil
}

// Summary returns the full dashboard payload from a single read set
func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	now := s.now()

	var counts models.StatusCounts
	var budget models.BudgetUtilization
	var team int
	var trend []models.MonthlyCount
	var recent []models.ProjectSummary

	queries := append(s.countQueries(&counts), s.budgetQueries(&budget)...)
	queries = append(queries,
		s.assigneeQuery(&team),
		s.trendQuery(now, &trend),
		s.recentQuery(s.opts.RecentCount, &recent),
	)
	if err := s.run(ctx, queries...); err != nil {
		return nil, err
	}

	activity, err := s.WeeklyActivity(ctx)
	if err != nil {
		return nil, err
	}

	statusData := make([]models.StatusSlice, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		statusData = append(statusData, models.StatusSlice{
			Name:  status.Label(),
			Value: counts.Of(status),
			Color: status.Color(),
		})
	}

	return &models.DashboardSummary{
		Stats:          buildStats(counts, budget, team),
		RecentProjects: recent,
		Charts: models.DashboardCharts{
			MonthlyData:    trend,
			StatusData:     statusData,
			WeeklyActivity: *activity,
		},
	}, nil
}

func buildStats(counts models.StatusCounts, budget models.BudgetUtilization, team int) models.DashboardStats {
	return models.DashboardStats{
		TotalProjects:     counts.Total,
		ActiveProjects:    counts.Active,
		OnHoldProjects:    counts.OnHold,
		CompletedProjects: counts.Completed,
		TotalBudget:       budget.TotalBudget,
		UtilizedBudget:    budget.UtilizedBudget,
		BudgetUtilization: UtilizationPercent(budget.TotalBudget, budget.UtilizedBudget),
		TeamMembers:       team,
	}
}

// UtilizationPercent returns round(100 * utilized / total), rounding half
// away from zero, or 0 when total is zero.
func UtilizationPercent(total, utilized models.Money) int {
	if total.IsZero() {
		return 0
	}
	return int(utilized.Mul(decimal.NewFromInt(100)).Div(total.Decimal).Round(0).IntPart())
}
