package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
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

var fixedNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestProjectService(repo repositories.ProjectRepository, now *time.Time) services.ProjectService {
	return NewProjectService(repo, ListLimits{Default: 10, Max: 100}, discardLogger(),
		WithClock(func() time.Time { return *now }))
}

func money(v int64) *models.Money {
	m := models.MoneyFromInt(v)
	return &m
}

func parsedMoney(t *testing.T, raw string) *models.Money {
	t.Helper()
	m, err := models.ParseMoney(raw)
	require.NoError(t, err)
	return &m
}

func validCreate() *services.CreateProjectRequest {
	return &services.CreateProjectRequest{
		Name:       "Website Redesign",
		Status:     models.StatusActive,
		Deadline:   "2026-12-31",
		AssignedTo: "Jane Doe",
		Budget:     money(50000),
	}
}

// recordingRepo counts store calls and fails every one of them
type recordingRepo struct {
	repositories.ProjectRepository
	calls int
}

func (r *recordingRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.calls++
	return nil, errors.New("unexpected store access")
}

func (r *recordingRepo) Create(ctx context.Context, p *models.Project) error {
	r.calls++
	return errors.New("unexpected store access")
}

func (r *recordingRepo) Count(ctx context.Context, f models.ProjectFilter) (int, error) {
	r.calls++
	return 0, errors.New("unexpected store access")
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	req := validCreate()
	req.Name = "  Website Redesign  "
	project, err := svc.CreateProject(ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "Website Redesign", project.Name)
	assert.Equal(t, 0, project.Progress)
	assert.True(t, project.Deadline.Equal(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, project.CreatedAt.Equal(fixedNow))
	assert.True(t, project.UpdatedAt.Equal(fixedNow))

	got, err := svc.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.Name, got.Name)
	assert.Equal(t, project.Status, got.Status)
	assert.True(t, project.Budget.Equal(got.Budget.Decimal))
	assert.True(t, project.Deadline.Equal(got.Deadline))
}

func TestCreateProjectUniqueIDs(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		project, err := svc.CreateProject(ctx, validCreate())
		require.NoError(t, err)
		assert.False(t, seen[project.ID])
		seen[project.ID] = true
	}
}

func TestCreateProjectValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *services.CreateProjectRequest)
		field  string
	}{
		{name: "empty name", mutate: func(r *services.CreateProjectRequest) { r.Name = "" }, field: "name"},
		{name: "blank name", mutate: func(r *services.CreateProjectRequest) { r.Name = "   " }, field: "name"},
		{name: "long name", mutate: func(r *services.CreateProjectRequest) { r.Name = strings.Repeat("a", 101) }, field: "name"},
		{name: "unknown status", mutate: func(r *services.CreateProjectRequest) { r.Status = "ARCHIVED" }, field: "status"},
		{name: "missing status", mutate: func(r *services.CreateProjectRequest) { r.Status = "" }, field: "status"},
		{name: "bad deadline", mutate: func(r *services.CreateProjectRequest) { r.Deadline = "next week" }, field: "deadline"},
		{name: "missing deadline", mutate: func(r *services.CreateProjectRequest) { r.Deadline = "" }, field: "deadline"},
		{name: "blank assignee", mutate: func(r *services.CreateProjectRequest) { r.AssignedTo = " " }, field: "assignedTo"},
		{name: "missing budget", mutate: func(r *services.CreateProjectRequest) { r.Budget = nil }, field: "budget"},
		{name: "negative budget", mutate: func(r *services.CreateProjectRequest) { r.Budget = money(-1) }, field: "budget"},
		{name: "budget too large", mutate: func(r *services.CreateProjectRequest) { r.Budget = money(1_000_000_000) }, field: "budget"},
		{name: "huge exponent", mutate: func(r *services.CreateProjectRequest) { r.Budget = parsedMoney(t, "1e999999999") }, field: "budget"},
		{name: "tiny exponent", mutate: func(r *services.CreateProjectRequest) { r.Budget = parsedMoney(t, "1e-999999999") }, field: "budget"},
		{name: "fraction above max", mutate: func(r *services.CreateProjectRequest) { r.Budget = parsedMoney(t, "999999999.01") }, field: "budget"},
		{name: "progress too large", mutate: func(r *services.CreateProjectRequest) { p := 101; r.Progress = &p }, field: "progress"},
		{name: "negative progress", mutate: func(r *services.CreateProjectRequest) { p := -1; r.Progress = &p }, field: "progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &recordingRepo{}
			now := fixedNow
			svc := newTestProjectService(repo, &now)

			req := validCreate()
			tt.mutate(req)
			_, err := svc.CreateProject(context.Background(), req)

			require.ErrorIs(t, err, domain.ErrValidation)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Fields, tt.field)
			assert.Len(t, vErr.Fields, 1)
			assert.Zero(t, repo.calls, "store must not be reached")
		})
	}
}

func TestCreateProjectBoundaryValues(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	req := validCreate()
	req.Name = strings.Repeat("é", 100)
	req.Budget = money(999_999_999)
	req.Deadline = "2020-01-01T08:30:00+02:00"
	progress := 100
	req.Progress = &progress

	project, err := svc.CreateProject(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 100, project.Progress)
	assert.True(t, project.Deadline.Equal(time.Date(2020, time.January, 1, 6, 30, 0, 0, time.UTC)))

	req = validCreate()
	req.Budget = money(0)
	_, err = svc.CreateProject(ctx, req)
	assert.NoError(t, err)

	req = validCreate()
	req.Budget = parsedMoney(t, "0.000000000000000001")
	_, err = svc.CreateProject(ctx, req)
	assert.NoError(t, err)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	created, err := svc.CreateProject(ctx, validCreate())
	require.NoError(t, err)

	now = fixedNow.Add(time.Hour)
	status := models.StatusCompleted
	progress := 100
	updated, err := svc.UpdateProject(ctx, created.ID, &services.UpdateProjectRequest{
		Status:   &status,
		Progress: &progress,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.AssignedTo, updated.AssignedTo)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.Equal(now))
}

func TestUpdateProjectEmptyPartialOnlyTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	created, err := svc.CreateProject(ctx, validCreate())
	require.NoError(t, err)

	now = fixedNow.Add(24 * time.Hour)
	_, err = svc.UpdateProject(ctx, created.ID, &services.UpdateProjectRequest{})
	require.NoError(t, err)

	got, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Status, got.Status)
	assert.True(t, created.Deadline.Equal(got.Deadline))
	assert.Equal(t, created.AssignedTo, got.AssignedTo)
	assert.True(t, created.Budget.Equal(got.Budget.Decimal))
	assert.Equal(t, created.Progress, got.Progress)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(now))
}

// gatedRepo holds the first Patch until release is closed
type gatedRepo struct {
	repositories.ProjectRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRepo) Patch(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.ProjectRepository.Patch(ctx, id, patch)
}

func TestUpdateProjectInterleavedPartialsKeepBothFields(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	repo := &gatedRepo{
		ProjectRepository: newTestStore(t),
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	svc := newTestProjectService(repo, &now)

	created, err := svc.CreateProject(ctx, validCreate())
	require.NoError(t, err)

	renamed := make(chan error, 1)
	go func() {
		name := "Renamed"
		_, err := svc.UpdateProject(ctx, created.ID, &services.UpdateProjectRequest{Name: &name})
		renamed <- err
	}()

	<-repo.entered
	_, err = svc.UpdateProject(ctx, created.ID, &services.UpdateProjectRequest{Budget: money(7)})
	require.NoError(t, err)
	close(repo.release)
	require.NoError(t, <-renamed)

	got, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "7", got.Budget.String())
}

func TestUpdateProjectConcurrentPartials(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	created, err := svc.CreateProject(ctx, validCreate())
	require.NoError(t, err)

	name := "Renamed"
	status := models.StatusOnHold
	deadline := "2027-03-01"
	assignee := "John Roe"
	progress := 55
	updates := []*services.UpdateProjectRequest{
		{Name: &name},
		{Status: &status},
		{Deadline: &deadline},
		{AssignedTo: &assignee},
		{Budget: money(7)},
		{Progress: &progress},
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(updates))
	for _, req := range updates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateProject(ctx, created.ID, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, status, got.Status)
	assert.True(t, got.Deadline.Equal(time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, assignee, got.AssignedTo)
	assert.Equal(t, "7", got.Budget.String())
	assert.Equal(t, progress, got.Progress)
}

func TestUpdateProjectValidatesBeforeLookup(t *testing.T) {
	repo := &recordingRepo{}
	now := fixedNow
	svc := newTestProjectService(repo, &now)

	empty := ""
	_, err := svc.UpdateProject(context.Background(), "missing", &services.UpdateProjectRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.calls)
}

func TestUpdateProjectNotFound(t *testing.T) {
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	name := "Renamed"
	_, err := svc.UpdateProject(context.Background(), "00000000-0000-4000-8000-000000000000",
		&services.UpdateProjectRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	created, err := svc.CreateProject(ctx, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, created.ID))

	_, err = svc.GetProject(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProject(ctx, created.ID), domain.ErrNotFound)
}

func seedProjects(t *testing.T, svc services.ProjectService, now *time.Time, n int, status models.Status) {
	t.Helper()
	for i := 0; i < n; i++ {
		req := validCreate()
		req.Name = fmt.Sprintf("%s project %02d", status, i)
		req.Status = status
		_, err := svc.CreateProject(context.Background(), req)
		require.NoError(t, err)
		*now = now.Add(time.Minute)
	}
}

func TestListProjectsPagination(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)
	seedProjects(t, svc, &now, 15, models.StatusActive)

	page, err := svc.ListProjects(ctx, &services.ListProjectsRequest{Page: "2", Limit: "10"})
	require.NoError(t, err)
	assert.Len(t, page.Projects, 5)
	assert.Equal(t, models.PageMeta{Total: 15, Page: 2, Limit: 10, TotalPages: 2}, page.Meta)

	beyond, err := svc.ListProjects(ctx, &services.ListProjectsRequest{Page: "9", Limit: "10"})
	require.NoError(t, err)
	assert.Empty(t, beyond.Projects)
	assert.NotNil(t, beyond.Projects)
	assert.Equal(t, 15, beyond.Meta.Total)

	defaults, err := svc.ListProjects(ctx, &services.ListProjectsRequest{})
	require.NoError(t, err)
	assert.Len(t, defaults.Projects, 10)
	assert.Equal(t, 1, defaults.Meta.Page)
	assert.Equal(t, 10, defaults.Meta.Limit)
	assert.Equal(t, "ACTIVE project 14", defaults.Projects[0].Name)
}

func TestListProjectsHugePage(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)
	seedProjects(t, svc, &now, 3, models.StatusActive)

	for _, limit := range []string{"10", "100"} {
		page, err := svc.ListProjects(ctx, &services.ListProjectsRequest{
			Page:  strconv.Itoa(math.MaxInt),
			Limit: limit,
		})
		require.NoError(t, err, "limit %s", limit)
		assert.Empty(t, page.Projects, "limit %s", limit)
		assert.NotNil(t, page.Projects)
		assert.Equal(t, 3, page.Meta.Total)
		assert.Equal(t, math.MaxInt, page.Meta.Page)
		assert.Equal(t, 1, page.Meta.TotalPages)
	}
}

func TestListProjectsCapsLimit(t *testing.T) {
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	page, err := svc.ListProjects(context.Background(), &services.ListProjectsRequest{Limit: "1000"})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Meta.Limit)
	assert.Equal(t, 0, page.Meta.TotalPages)
}

func TestListProjectsFilters(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)
	seedProjects(t, svc, &now, 3, models.StatusActive)
	seedProjects(t, svc, &now, 2, models.StatusOnHold)

	onHold, err := svc.ListProjects(ctx, &services.ListProjectsRequest{Status: "ON_HOLD"})
	require.NoError(t, err)
	assert.Equal(t, 2, onHold.Meta.Total)
	for _, p := range onHold.Projects {
		assert.Equal(t, models.StatusOnHold, p.Status)
	}

	all, err := svc.ListProjects(ctx, &services.ListProjectsRequest{Status: "ALL"})
	require.NoError(t, err)
	assert.Equal(t, 5, all.Meta.Total)

	search, err := svc.ListProjects(ctx, &services.ListProjectsRequest{Search: "on_hold PROJECT 01"})
	require.NoError(t, err)
	require.Equal(t, 1, search.Meta.Total)
	assert.Equal(t, "ON_HOLD project 01", search.Projects[0].Name)
}

func TestListProjectsSearchFoldsUnicodeCase(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := newTestProjectService(newTestStore(t), &now)

	req := validCreate()
	req.Name = "Überprojekt Émile"
	_, err := svc.CreateProject(ctx, req)
	require.NoError(t, err)
	seedProjects(t, svc, &now, 2, models.StatusActive)

	for _, search := range []string{"überprojekt", "ÜBERPROJEKT", "émile", "ÉMILE"} {
		page, err := svc.ListProjects(ctx, &services.ListProjectsRequest{Search: search})
		require.NoError(t, err)
		require.Equal(t, 1, page.Meta.Total, "search %q", search)
		assert.Equal(t, "Überprojekt Émile", page.Projects[0].Name)
	}
}

func TestListProjectsInvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		req   services.ListProjectsRequest
		field string
	}{
		{name: "unknown status", req: services.ListProjectsRequest{Status: "DONE"}, field: "status"},
		{name: "page zero", req: services.ListProjectsRequest{Page: "0"}, field: "page"},
		{name: "negative page", req: services.ListProjectsRequest{Page: "-2"}, field: "page"},
		{name: "non-integer page", req: services.ListProjectsRequest{Page: "two"}, field: "page"},
		{name: "fractional limit", req: services.ListProjectsRequest{Limit: "2.5"}, field: "limit"},
		{name: "limit zero", req: services.ListProjectsRequest{Limit: "0"}, field: "limit"},
		{name: "long search", req: services.ListProjectsRequest{Search: strings.Repeat("x", 101)}, field: "search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &recordingRepo{}
			now := fixedNow
			svc := newTestProjectService(repo, &now)

			_, err := svc.ListProjects(context.Background(), &tt.req)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Contains(t, vErr.Fields, tt.field)
			assert.Zero(t, repo.calls)
		})
	}
}
