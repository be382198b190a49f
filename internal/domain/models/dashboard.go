package models

// StatusCounts holds the number of projects per status. Counts come from
// independent queries, so Total may briefly disagree with the sum of the
// per-status counts under concurrent writes.
type StatusCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	OnHold    int `json:"onHold"`
	Completed int `json:"completed"`
}

// Of returns the count for a single status.
func (c StatusCounts) Of(s Status) int {
	switch s {
	case StatusActive:
		return c.Active
	case StatusOnHold:
		return c.OnHold
	case StatusCompleted:
		return c.Completed
	}
	return 0
}

// BudgetUtilization is the share of the total budget held by projects in
// UtilizedStatuses, as a whole percentage.
type BudgetUtilization struct {
	TotalBudget    Money `json:"totalBudget"`
	UtilizedBudget Money `json:"utilizedBudget"`
	Utilization    int   `json:"utilization"`
}

// MonthlyCount is one bucket of the trailing-12-months creation histogram.
type MonthlyCount struct {
	Name     string `json:"name"`
	Projects int    `json:"projects"`
}

// StatusSlice is one segment of the status distribution chart.
type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ActivitySource tells clients where weekly activity numbers came from.
type ActivitySource string

const (
	// ActivitySourceNone means no activity tracking exists; all counts are zero.
	ActivitySourceNone ActivitySource = "none"
	// ActivitySourceSynthetic means the counts are randomly generated demo data.
	ActivitySourceSynthetic ActivitySource = "synthetic"
)

// DayActivity is the task count for one weekday.
type DayActivity struct {
	Day   string `json:"day"`
	Tasks int    `json:"tasks"`
}

// WeeklyActivity is a placeholder chart until task completions are tracked.
type WeeklyActivity struct {
	Source ActivitySource `json:"source"`
	Days   []DayActivity  `json:"days"`
}

// DashboardStats is the headline numbers block of the dashboard.
type DashboardStats struct {
	TotalProjects     int   `json:"totalProjects"`
	ActiveProjects    int   `json:"activeProjects"`
	OnHoldProjects    int   `json:"onHoldProjects"`
	CompletedProjects int   `json:"completedProjects"`
	TotalBudget       Money `json:"totalBudget"`
	UtilizedBudget    Money `json:"utilizedBudget"`
	BudgetUtilization int   `json:"budgetUtilization"`
	TeamMembers       int   `json:"teamMembers"`
}

// DashboardCharts groups the chart series.
type DashboardCharts struct {
	MonthlyData    []MonthlyCount `json:"monthlyData"`
	StatusData     []StatusSlice  `json:"statusData"`
	WeeklyActivity WeeklyActivity `json:"weeklyActivity"`
}

// DashboardSummary is the full dashboard payload.
type DashboardSummary struct {
	Stats          DashboardStats   `json:"stats"`
	RecentProjects []ProjectSummary `json:"recentProjects"`
	Charts         DashboardCharts  `json:"charts"`
}
