package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectdash/internal/domain"
	"projectdash/internal/domain/models"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/domain/services"
	"projectdash/internal/repository/sqlite"
)

type projectSeed struct {
	name      string
	status    models.Status
	budget    int64
	assignee  string
	createdAt time.Time
}

func insertProjects(t *testing.T, store repositories.ProjectStore, seeds ...projectSeed) {
	t.Helper()
	for _, s := range seeds {
		createdAt := s.createdAt
		if createdAt.IsZero() {
			createdAt = fixedNow.Add(-time.Hour)
		}
		assignee := s.assignee
		if assignee == "" {
			assignee = "Jane Doe"
		}
		name := s.name
		if name == "" {
			name = "Project"
		}
		err := store.Create(context.Background(), &models.Project{
			Name:       name,
			Status:     s.status,
			Deadline:   fixedNow.AddDate(0, 1, 0),
			AssignedTo: assignee,
			Budget:     models.MoneyFromInt(s.budget),
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		})
		require.NoError(t, err)
	}
}

func newTestDashboard(store *sqlite.Store, opts DashboardOptions) *dashboardService {
	svc := NewDashboardService(store, sqlite.NewTransactionManager(store), opts, discardLogger()).(*dashboardService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestStatusCountsAndBudgetScenario(t *testing.T) {
	for _, snapshot := range []bool{false, true} {
		t.Run(map[bool]string{false: "concurrent", true: "snapshot"}[snapshot], func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)
			insertProjects(t, store,
				projectSeed{status: models.StatusActive, budget: 1000},
				projectSeed{status: models.StatusActive, budget: 2000},
				projectSeed{status: models.StatusCompleted, budget: 3000},
			)
			svc := newTestDashboard(store, DashboardOptions{Snapshot: snapshot})

			counts, err := svc.StatusCounts(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.StatusCounts{Total: 3, Active: 2, OnHold: 0, Completed: 1}, *counts)

			budget, err := svc.BudgetUtilization(ctx)
			require.NoError(t, err)
			assert.Equal(t, "6000", budget.TotalBudget.String())
			assert.Equal(t, "6000", budget.UtilizedBudget.String())
			assert.Equal(t, 100, budget.Utilization)
		})
	}
}

func TestBudgetUtilizationExcludesOnHold(t *testing.T) {
	store := newTestStore(t)
	insertProjects(t, store,
		projectSeed{status: models.StatusActive, budget: 100},
		projectSeed{status: models.StatusOnHold, budget: 50},
		projectSeed{status: models.StatusCompleted, budget: 50},
	)
	svc := newTestDashboard(store, DashboardOptions{})

	budget, err := svc.BudgetUtilization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "200", budget.TotalBudget.String())
	assert.Equal(t, "150", budget.UtilizedBudget.String())
	assert.Equal(t, 75, budget.Utilization)
}

func TestBudgetUtilizationEmptyStore(t *testing.T) {
	svc := newTestDashboard(newTestStore(t), DashboardOptions{})

	budget, err := svc.BudgetUtilization(context.Background())
	require.NoError(t, err)
	assert.True(t, budget.TotalBudget.IsZero())
	assert.Equal(t, 0, budget.Utilization)
}

func TestUtilizationPercent(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		utilized int64
		want     int
	}{
		{name: "zero total", total: 0, utilized: 0, want: 0},
		{name: "exact", total: 200, utilized: 150, want: 75},
		{name: "half rounds up", total: 8, utilized: 1, want: 13},
		{name: "two thirds", total: 3, utilized: 2, want: 67},
		{name: "one third", total: 3, utilized: 1, want: 33},
		{name: "all", total: 6000, utilized: 6000, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UtilizationPercent(models.MoneyFromInt(tt.total), models.MoneyFromInt(tt.utilized))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistinctAssigneeCount(t *testing.T) {
	store := newTestStore(t)
	insertProjects(t, store,
		projectSeed{status: models.StatusActive, assignee: "Jane Doe"},
		projectSeed{status: models.StatusActive, assignee: "Jane Doe"},
		projectSeed{status: models.StatusActive, assignee: "jane doe"},
		projectSeed{status: models.StatusOnHold, assignee: "Sam Lee"},
	)
	svc := newTestDashboard(store, DashboardOptions{})

	n, err := svc.DistinctAssigneeCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBucketByMonth(t *testing.T) {
	times := []time.Time{
		time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
	}

	trend := BucketByMonth(times, fixedNow, time.UTC)
	require.Len(t, trend, 12)
	assert.Equal(t, "Jul", trend[0].Name)
	assert.Equal(t, "Jun", trend[11].Name)

	byName := map[string]int{}
	total := 0
	for _, m := range trend {
		byName[m.Name] = m.Projects
		total += m.Projects
	}
	assert.Equal(t, 2, byName["Jun"], "same-named months collapse")
	assert.Equal(t, 1, byName["Jan"])
	assert.Equal(t, 1, byName["Jul"])
	assert.Equal(t, 0, byName["May"], "outside the window")
	assert.Equal(t, 4, total)
}

func TestBucketByMonthUsesLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, time.March, 1, 2, 0, 0, 0, time.UTC)
	created := time.Date(2026, time.March, 1, 1, 0, 0, 0, time.UTC)

	utcTrend := BucketByMonth([]time.Time{created}, now, time.UTC)
	assert.Equal(t, "Mar", utcTrend[11].Name)
	assert.Equal(t, 1, utcTrend[11].Projects)

	estTrend := BucketByMonth([]time.Time{created}, now, est)
	assert.Equal(t, "Feb", estTrend[11].Name)
	assert.Equal(t, 1, estTrend[11].Projects)
}

func TestMonthlyTrendFromStore(t *testing.T) {
	store := newTestStore(t)
	insertProjects(t, store,
		projectSeed{status: models.StatusActive, createdAt: fixedNow.AddDate(0, -1, 0)},
		projectSeed{status: models.StatusActive, createdAt: fixedNow.AddDate(0, -1, 2)},
		projectSeed{status: models.StatusActive, createdAt: fixedNow.AddDate(-2, 0, 0)},
	)
	svc := newTestDashboard(store, DashboardOptions{})

	trend, err := svc.MonthlyTrend(context.Background())
	require.NoError(t, err)
	require.Len(t, trend, 12)
	assert.Equal(t, models.MonthlyCount{Name: "May", Projects: 2}, trend[10])
	assert.Equal(t, models.MonthlyCount{Name: "Jun", Projects: 0}, trend[11])
}

func TestRecentProjects(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 7; i++ {
		insertProjects(t, store, projectSeed{
			name:      string(rune('A' + i)),
			status:    models.StatusActive,
			createdAt: fixedNow.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := newTestDashboard(store, DashboardOptions{})

	recent, err := svc.RecentProjects(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "G", recent[0].Name)
	assert.Equal(t, "C", recent[4].Name)

	three, err := svc.RecentProjects(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)
}

func TestWeeklyActivity(t *testing.T) {
	svc := newTestDashboard(newTestStore(t), DashboardOptions{})

	activity, err := svc.WeeklyActivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ActivitySourceNone, activity.Source)
	require.Len(t, activity.Days, 7)
	assert.Equal(t, "Mon", activity.Days[0].Day)
	assert.Equal(t, "Sun", activity.Days[6].Day)
	for _, d := range activity.Days {
		assert.Zero(t, d.Tasks)
	}
}

func TestWeeklyActivitySynthetic(t *testing.T) {
	svc := newTestDashboard(newTestStore(t), DashboardOptions{SyntheticActivity: true})
	svc.intN = func(n int) int { return n - 1 }

	activity, err := svc.WeeklyActivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ActivitySourceSynthetic, activity.Source)
	assert.Equal(t, 19, activity.Days[0].Tasks)
	assert.Equal(t, 11, activity.Days[5].Tasks)
	assert.Equal(t, 8, activity.Days[6].Tasks)
}

func TestSummary(t *testing.T) {
	for _, snapshot := range []bool{false, true} {
		t.Run(map[bool]string{false: "concurrent", true: "snapshot"}[snapshot], func(t *testing.T) {
			store := newTestStore(t)
			insertProjects(t, store,
				projectSeed{name: "A", status: models.StatusActive, budget: 100, assignee: "Ana"},
				projectSeed{name: "B", status: models.StatusOnHold, budget: 50, assignee: "Ben"},
				projectSeed{name: "C", status: models.StatusCompleted, budget: 50, assignee: "Ana"},
			)
			svc := newTestDashboard(store, DashboardOptions{Snapshot: snapshot})

			summary, err := svc.Summary(context.Background())
			require.NoError(t, err)

			assert.Equal(t, models.DashboardStats{
				TotalProjects:     3,
				ActiveProjects:    1,
				OnHoldProjects:    1,
				CompletedProjects: 1,
				TotalBudget:       summary.Stats.TotalBudget,
				UtilizedBudget:    summary.Stats.UtilizedBudget,
				BudgetUtilization: 75,
				TeamMembers:       2,
			}, summary.Stats)
			assert.Equal(t, "200", summary.Stats.TotalBudget.String())
			assert.Equal(t, "150", summary.Stats.UtilizedBudget.String())

			assert.Len(t, summary.RecentProjects, 3)
			assert.Len(t, summary.Charts.MonthlyData, 12)
			assert.Equal(t, 3, summary.Charts.MonthlyData[11].Projects)
			assert.Equal(t, []models.StatusSlice{
				{Name: "Active", Value: 1, Color: "#22c55e"},
				{Name: "On Hold", Value: 1, Color: "#eab308"},
				{Name: "Completed", Value: 1, Color: "#6366f1"},
			}, summary.Charts.StatusData)
			assert.Equal(t, models.ActivitySourceNone, summary.Charts.WeeklyActivity.Source)
		})
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	insertProjects(t, store, projectSeed{status: models.StatusOnHold, budget: 10})
	svc := newTestDashboard(store, DashboardOptions{})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.OnHoldProjects)
	assert.Equal(t, 0, stats.BudgetUtilization)
	assert.Equal(t, 1, stats.TeamMembers)
}

// failingStore breaks one aggregate query
type failingStore struct {
	repositories.ProjectStore
}

func (f failingStore) SumBudget(ctx context.Context, statuses []models.Status) (models.Money, error) {
	return models.Money{}, domain.NewStorageError("sum budget", errors.New("connection reset"))
}

func TestSummaryPropagatesStorageError(t *testing.T) {
	store := newTestStore(t)
	var svc services.DashboardService = NewDashboardService(failingStore{store}, nil, DashboardOptions{}, discardLogger())

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, err = svc.BudgetUtilization(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}
