package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projectdash/internal/domain"
	"projectdash/internal/domain/models"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/repository"
)

const projectColumns = `id::text, name, status, deadline, assigned_to, budget::text, progress, created_at, updated_at`

// PostgresProjectRepository implements the ProjectStore interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectStore {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new project with a freshly generated ID
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, status, deadline, assigned_to, budget, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`, r.tables.Projects)

	id := uuid.New()
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		id,
		project.Name,
		string(project.Status),
		project.Deadline,
		project.AssignedTo,
		project.Budget.String(),
		project.Progress,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("project %s: %w", id, domain.ErrConflict)
		}
		if IsPgCheckViolation(err) {
			return checkViolation(err)
		}
		return domain.NewStorageError("create project", err)
	}

	return nil
}

// GetByID retrieves a project by ID. Malformed IDs are reported as not found.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFound("project", id)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, projectColumns, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	project, err := scanProject(executor.QueryRow(ctx, query, uid))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("project", id)
		}
		return nil, domain.NewStorageError("get project", err)
	}

	return project, nil
}

// Patch updates only the supplied columns so concurrent partial updates
// of different fields do not overwrite each other
func (r *PostgresProjectRepository) Patch(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFound("project", id)
	}

	sets, args := buildProjectSet(patch)
	args = append(args, uid)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		r.tables.Projects, strings.Join(sets, ", "), len(args), projectColumns)

	executor := GetExecutor(ctx, r.pool)
	project, err := scanProject(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("project", id)
		}
		if IsPgCheckViolation(err) {
			return nil, checkViolation(err)
		}
		return nil, domain.NewStorageError("update project", err)
	}

	return project, nil
}

// buildProjectSet renders the SET list for patch with positional arguments
// starting at $1.
func buildProjectSet(patch models.ProjectPatch) ([]string, []any) {
	var sets []string
	var args []any
	set := func(column, cast string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}

	if patch.Name != nil {
		set("name", "", *patch.Name)
	}
	if patch.Status != nil {
		set("status", "", string(*patch.Status))
	}
	if patch.Deadline != nil {
		set("deadline", "", *patch.Deadline)
	}
	if patch.AssignedTo != nil {
		set("assigned_to", "", *patch.AssignedTo)
	}
	if patch.Budget != nil {
		set("budget", "::numeric", patch.Budget.String())
	}
	if patch.Progress != nil {
		set("progress", "", *patch.Progress)
	}
	set("updated_at", "", patch.UpdatedAt)

	return sets, args
}

// Delete permanently removes a project
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.NewNotFound("project", id)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, uid)
	if err != nil {
		return domain.NewStorageError("delete project", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("project", id)
	}

	return nil
}

// List returns one page of matching projects, newest first
func (r *PostgresProjectRepository) List(ctx context.Context, filter models.ProjectFilter, page models.Page) ([]models.Project, error) {
	where, args := buildProjectWhere(filter)
	args = append(args, page.Limit, page.Offset())

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, projectColumns, r.tables.Projects, where, len(args)-1, len(args))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list projects", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan project", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate projects", err)
	}

	return projects, nil
}

// Count returns the number of projects matching filter
func (r *PostgresProjectRepository) Count(ctx context.Context, filter models.ProjectFilter) (int, error) {
	where, args := buildProjectWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Projects, where)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, domain.NewStorageError("count projects", err)
	}
	return count, nil
}

// DeleteAll removes every project
func (r *PostgresProjectRepository) DeleteAll(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query)
	if err != nil {
		return 0, domain.NewStorageError("delete all projects", err)
	}
	return result.RowsAffected(), nil
}

// SumBudget sums budgets of projects in statuses; nil means all statuses
func (r *PostgresProjectRepository) SumBudget(ctx context.Context, statuses []models.Status) (models.Money, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(budget), 0)::text FROM %s`, r.tables.Projects)
	var args []any
	if statuses != nil {
		query += ` WHERE status = ANY($1)`
		args = append(args, statusStrings(statuses))
	}

	var total string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return models.Money{}, domain.NewStorageError("sum budget", err)
	}

	money, err := models.ParseMoney(total)
	if err != nil {
		return models.Money{}, domain.NewStorageError("parse budget sum", err)
	}
	return money, nil
}

// CountDistinctAssignees counts distinct assigned_to values
func (r *PostgresProjectRepository) CountDistinctAssignees(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(DISTINCT assigned_to) FROM %s`, r.tables.Projects)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, domain.NewStorageError("count assignees", err)
	}
	return count, nil
}

// ListCreatedSince returns creation timestamps at or after since
func (r *PostgresProjectRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	query := fmt.Sprintf(`SELECT created_at FROM %s WHERE created_at >= $1`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, since)
	if err != nil {
		return nil, domain.NewStorageError("list creation times", err)
	}

	times, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, domain.NewStorageError("collect creation times", err)
	}
	for i := range times {
		times[i] = times[i].UTC()
	}
	return times, nil
}

// ListRecentlyUpdated returns the most recently updated projects
func (r *PostgresProjectRepository) ListRecentlyUpdated(ctx context.Context, limit int) ([]models.ProjectSummary, error) {
	query := fmt.Sprintf(`
		SELECT id::text, name, status, progress, deadline
		FROM %s
		ORDER BY updated_at DESC, id DESC
		LIMIT $1
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit)
	if err != nil {
		return nil, domain.NewStorageError("list recent projects", err)
	}
	defer rows.Close()

	summaries := []models.ProjectSummary{}
	for rows.Next() {
		var s models.ProjectSummary
		var status string
		if err := rows.Scan(&s.ID, &s.Name, &status, &s.Progress, &s.Deadline); err != nil {
			return nil, domain.NewStorageError("scan recent project", err)
		}
		s.Status = models.Status(status)
		s.Deadline = s.Deadline.UTC()
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate recent projects", err)
	}
	return summaries, nil
}

// buildProjectWhere renders the WHERE clause for a filter with positional
// arguments starting at $1.
func buildProjectWhere(filter models.ProjectFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, repository.ContainsPattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func statusStrings(statuses []models.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// scanProject scans a row selected with projectColumns
func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var status, budget string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&status,
		&p.Deadline,
		&p.AssignedTo,
		&budget,
		&p.Progress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = models.Status(status)
	p.Deadline = p.Deadline.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.Budget, err = models.ParseMoney(budget); err != nil {
		return nil, fmt.Errorf("parse budget %q: %w", budget, err)
	}
	return &p, nil
}
