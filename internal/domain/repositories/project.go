package repositories

import (
	"context"
	"time"

	"projectdash/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a project, assigning its ID. CreatedAt and UpdatedAt
	// must already be set by the caller.
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// Patch writes the supplied fields of patch to one project in a single
	// statement and returns the stored result
	Patch(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)

	// Delete permanently removes a project
	Delete(ctx context.Context, id string) error

	// List returns one page of projects matching filter, newest first
	List(ctx context.Context, filter models.ProjectFilter, page models.Page) ([]models.Project, error)

	// Count returns the number of projects matching filter
	Count(ctx context.Context, filter models.ProjectFilter) (int, error)

	// DeleteAll removes every project and returns how many were removed
	DeleteAll(ctx context.Context) (int64, error)
}

// ProjectStatsReader defines the read-only aggregate queries behind the dashboard
type ProjectStatsReader interface {
	// SumBudget sums budgets of projects in statuses; nil means all statuses
	SumBudget(ctx context.Context, statuses []models.Status) (models.Money, error)

	// CountDistinctAssignees counts distinct assignedTo values
	CountDistinctAssignees(ctx context.Context) (int, error)

	// ListCreatedSince returns creation timestamps at or after since
	ListCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)

	// ListRecentlyUpdated returns the limit most recently updated projects
	ListRecentlyUpdated(ctx context.Context, limit int) ([]models.ProjectSummary, error)
}

// ProjectStore is implemented by each storage backend.
type ProjectStore interface {
	ProjectRepository
	ProjectStatsReader
}
