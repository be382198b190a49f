package handler

import (
	"log/slog"
	"net/http"

	"projectdash/internal/domain"
	"projectdash/internal/domain/models"
	"projectdash/internal/domain/services"
	"projectdash/internal/httputil"
)

// projectBody is the JSON body of create and update requests. Every field
// tracks presence so explicit nulls can be rejected.
type projectBody struct {
	Name       httputil.Optional[string]        `json:"name"`
	Status     httputil.Optional[models.Status] `json:"status"`
	Deadline   httputil.Optional[string]        `json:"deadline"`
	AssignedTo httputil.Optional[string]        `json:"assignedTo"`
	Budget     httputil.Optional[models.Money]  `json:"budget"`
	Progress   httputil.Optional[int]           `json:"progress"`
}

// nullFields reports fields that were sent as JSON null
func (b *projectBody) nullFields() error {
	fields := map[string]string{}
	check := func(name string, null bool) {
		if null {
			fields[name] = "must not be null"
		}
	}
	check("name", b.Name.Null)
	check("status", b.Status.Null)
	check("deadline", b.Deadline.Null)
	check("assignedTo", b.AssignedTo.Null)
	check("budget", b.Budget.Null)
	check("progress", b.Progress.Null)

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Message: "Validation failed", Fields: fields}
}

func (b *projectBody) toCreateRequest() *services.CreateProjectRequest {
	return &services.CreateProjectRequest{
		Name:       b.Name.Value,
		Status:     b.Status.Value,
		Deadline:   b.Deadline.Value,
		AssignedTo: b.AssignedTo.Value,
		Budget:     b.Budget.Ptr(),
		Progress:   b.Progress.Ptr(),
	}
}

func (b *projectBody) toUpdateRequest() *services.UpdateProjectRequest {
	return &services.UpdateProjectRequest{
		Name:       b.Name.Ptr(),
		Status:     b.Status.Ptr(),
		Deadline:   b.Deadline.Ptr(),
		AssignedTo: b.AssignedTo.Ptr(),
		Budget:     b.Budget.Ptr(),
		Progress:   b.Progress.Ptr(),
	}
}

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListProjects returns a filtered page of projects
// GET /api/projects?status=&search=&page=&limit=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &services.ListProjectsRequest{
		Status: query.Get("status"),
		Search: query.Get("search"),
		Page:   query.Get("page"),
		Limit:  query.Get("limit"),
	}

	page, err := h.projectService.ListProjects(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch projects")
		return
	}

	httputil.RespondSuccessWithMeta(w, page.Projects, page.Meta)
}

// CreateProject creates a new project
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		respondBodyError(w, err)
		return
	}
	if err := body.nullFields(); err != nil {
		handleError(w, r, h.logger, err, "Failed to create project")
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), body.toCreateRequest())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to create project")
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID
// GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch project")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, project)
}

// UpdateProject applies a partial update
// PATCH /api/projects/{id} (PUT is accepted as an alias)
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		respondBodyError(w, err)
		return
	}
	if err := body.nullFields(); err != nil {
		handleError(w, r, h.logger, err, "Failed to update project")
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), r.PathValue("id"), body.toUpdateRequest())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to update project")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, project)
}

// DeleteProject permanently deletes a project
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, h.logger, err, "Failed to delete project")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
