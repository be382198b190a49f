package services

import (
	"context"

	"projectdash/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name       string
	Status     models.Status
	Deadline   string // RFC 3339 timestamp or YYYY-MM-DD
	AssignedTo string
	Budget     *models.Money
	Progress   *int // defaults to 0
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged
type UpdateProjectRequest struct {
	Name       *string
	Status     *models.Status
	Deadline   *string
	AssignedTo *string
	Budget     *models.Money
	Progress   *int
}

// ListProjectsRequest carries raw list query parameters. Empty strings mean
// "not supplied".
type ListProjectsRequest struct {
	Status string
	Search string
	Page   string
	Limit  string
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	// CreateProject validates and stores a new project
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// ListProjects returns a filtered, paginated page of projects
	ListProjects(ctx context.Context, req *ListProjectsRequest) (*models.ProjectPage, error)

	// UpdateProject applies a partial update
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject permanently removes a project
	DeleteProject(ctx context.Context, id string) error
}
