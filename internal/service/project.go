package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"projectdash/internal/config"
	"projectdash/internal/domain/models"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/domain/services"
)

// ListLimits bounds the page size of project listings
type ListLimits struct {
	Default int
	Max     int
}

// ListLimitsFromConfig reads the listing limits from configuration
func ListLimitsFromConfig(cfg *config.Config) ListLimits {
	return ListLimits{Default: cfg.ListDefaultLimit, Max: cfg.ListMaxLimit}
}

// ProjectServiceOption customises a project service
type ProjectServiceOption func(*projectService)

// WithClock replaces the clock used for createdAt/updatedAt
func WithClock(now func() time.Time) ProjectServiceOption {
	return func(s *projectService) {
		s.now = now
	}
}

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	limits      ListLimits
	now         func() time.Time
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	limits ListLimits,
	logger *slog.Logger,
	opts ...ProjectServiceOption,
) services.ProjectService {
	s := &projectService{
		projectRepo: projectRepo,
		limits:      limits,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProject validates and stores a new project
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	assignedTo := strings.TrimSpace(req.AssignedTo)

	err := validation.Errors{
		"name":       validation.Validate(name, nameRules...),
		"status":     validation.Validate(req.Status, statusRules...),
		"deadline":   validation.Validate(req.Deadline, deadlineRules...),
		"assignedTo": validation.Validate(assignedTo, assigneeRules...),
		"budget":     validation.Validate(req.Budget, budgetRules...),
		"progress":   validation.Validate(req.Progress, progressRules...),
	}.Filter()
	if err != nil {
		return nil, newValidationError("Validation failed", err)
	}

	deadline, _ := parseDeadline(req.Deadline)
	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}

	now := s.now().UTC()
	project := &models.Project{
		Name:       name,
		Status:     req.Status,
		Deadline:   deadline,
		AssignedTo: assignedTo,
		Budget:     *req.Budget,
		Progress:   progress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"status", project.Status,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects parses the raw query, then returns the requested page
func (s *projectService) ListProjects(ctx context.Context, req *services.ListProjectsRequest) (*models.ProjectPage, error) {
	filter, page, err := s.parseListRequest(req)
	if err != nil {
		return nil, err
	}

	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	projects := []models.Project{}
	if !page.PastEnd(total) {
		projects, err = s.projectRepo.List(ctx, filter, page)
		if err != nil {
			return nil, err
		}
	}

	return &models.ProjectPage{
		Projects: projects,
		Meta:     models.NewPageMeta(total, page),
	}, nil
}

// parseListRequest validates list parameters. The limit is capped rather
// than rejected when it exceeds the maximum.
func (s *projectService) parseListRequest(req *services.ListProjectsRequest) (models.ProjectFilter, models.Page, error) {
	var filter models.ProjectFilter
	errs := validation.Errors{}

	if raw := strings.TrimSpace(req.Status); raw != "" && raw != models.StatusAll {
		status, err := models.ParseStatus(raw)
		if err != nil {
			errs["status"] = validation.NewError("validation_status", "must be one of ALL, ACTIVE, ON_HOLD, COMPLETED")
		} else {
			filter.Status = &status
		}
	}

	filter.Search = strings.TrimSpace(req.Search)
	errs["search"] = validation.Validate(filter.Search,
		validation.RuneLength(0, config.MaxSearchLength).Error("must be at most 100 characters"))

	number, err := parsePositiveInt(req.Page, 1)
	errs["page"] = err

	limit, err := parsePositiveInt(req.Limit, s.limits.Default)
	errs["limit"] = err
	if limit > s.limits.Max {
		limit = s.limits.Max
	}

	if err := errs.Filter(); err != nil {
		return filter, models.Page{}, newValidationError("Invalid query parameters", err)
	}
	return filter, models.Page{Number: number, Limit: limit}, nil
}

// UpdateProject validates the supplied fields, then writes only those
func (s *projectService) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	var name, assignedTo string
	errs := validation.Errors{}

	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		errs["name"] = validation.Validate(name, nameRules...)
	}
	if req.Status != nil {
		errs["status"] = validation.Validate(*req.Status, statusRules...)
	}
	if req.Deadline != nil {
		errs["deadline"] = validation.Validate(*req.Deadline, deadlineRules...)
	}
	if req.AssignedTo != nil {
		assignedTo = strings.TrimSpace(*req.AssignedTo)
		errs["assignedTo"] = validation.Validate(assignedTo, assigneeRules...)
	}
	if req.Budget != nil {
		errs["budget"] = validation.Validate(req.Budget, budgetRules...)
	}
	if req.Progress != nil {
		errs["progress"] = validation.Validate(*req.Progress, progressRules...)
	}
	if err := errs.Filter(); err != nil {
		return nil, newValidationError("Validation failed", err)
	}

	patch := models.ProjectPatch{
		Status:    req.Status,
		Budget:    req.Budget,
		Progress:  req.Progress,
		UpdatedAt: s.now().UTC(),
	}
	if req.Name != nil {
		patch.Name = &name
	}
	if req.AssignedTo != nil {
		patch.AssignedTo = &assignedTo
	}
	if req.Deadline != nil {
		deadline, _ := parseDeadline(*req.Deadline)
		patch.Deadline = &deadline
	}

	project, err := s.projectRepo.Patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"name", project.Name,
		"status", project.Status,
	)

	return project, nil
}

// DeleteProject permanently removes a project
func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}
