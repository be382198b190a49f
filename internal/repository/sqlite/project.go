package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"projectdash/internal/domain"
	"projectdash/internal/domain/models"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/repository"
)

const projectColumns = `id, name, status, deadline, assigned_to, budget, progress, created_at, updated_at`

var _ repositories.ProjectStore = (*Store)(nil)

// Create inserts a project with a freshly generated ID.
func (s *Store) Create(ctx context.Context, project *models.Project) error {
	id := uuid.NewString()
	project.Deadline = truncateMillis(project.Deadline)
	project.CreatedAt = truncateMillis(project.CreatedAt)
	project.UpdatedAt = truncateMillis(project.UpdatedAt)

	_, err := s.executor(ctx).ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		project.Name,
		string(project.Status),
		toMillis(project.Deadline),
		project.AssignedTo,
		project.Budget.String(),
		project.Progress,
		toMillis(project.CreatedAt),
		toMillis(project.UpdatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("project %s: %w", id, domain.ErrConflict)
		}
		return domain.NewStorageError("create project", err)
	}

	project.ID = id
	return nil
}

// GetByID retrieves a project by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := s.executor(ctx).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("project", id)
		}
		return nil, domain.NewStorageError("get project", err)
	}
	return project, nil
}

// Patch updates only the supplied columns and returns the stored row.
func (s *Store) Patch(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	sets, args := buildProjectSet(patch)
	args = append(args, id)

	row := s.executor(ctx).QueryRowContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+projectColumns,
		args...)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("project", id)
		}
		return nil, domain.NewStorageError("update project", err)
	}
	return project, nil
}

func buildProjectSet(patch models.ProjectPatch) ([]string, []any) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Deadline != nil {
		set("deadline", toMillis(*patch.Deadline))
	}
	if patch.AssignedTo != nil {
		set("assigned_to", *patch.AssignedTo)
	}
	if patch.Budget != nil {
		set("budget", patch.Budget.String())
	}
	if patch.Progress != nil {
		set("progress", *patch.Progress)
	}
	set("updated_at", toMillis(patch.UpdatedAt))

	return sets, args
}

// Delete permanently removes a project.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.executor(ctx).ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return domain.NewStorageError("delete project", err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("rows affected", err)
	}
	if n == 0 {
		return domain.NewNotFound("project", id)
	}
	return nil
}

// List returns one page of matching projects, newest first.
func (s *Store) List(ctx context.Context, filter models.ProjectFilter, page models.Page) ([]models.Project, error) {
	where, args := buildProjectWhere(filter)
	args = append(args, page.Limit, page.Offset())

	rows, err := s.executor(ctx).QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects `+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		args...)
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

// Count returns the number of projects matching filter.
func (s *Store) Count(ctx context.Context, filter models.ProjectFilter) (int, error) {
	where, args := buildProjectWhere(filter)

	var count int
	err := s.executor(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM projects `+where, args...).Scan(&count)
	if err != nil {
		return 0, domain.NewStorageError("count projects", err)
	}
	return count, nil
}

// DeleteAll removes every project.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.executor(ctx).ExecContext(ctx, `DELETE FROM projects`)
	if err != nil {
		return 0, domain.NewStorageError("delete all projects", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("rows affected", err)
	}
	return n, nil
}

// SumBudget sums budgets of projects in statuses; nil means all statuses.
// Budgets are stored as text, so the sum is computed exactly in Go.
func (s *Store) SumBudget(ctx context.Context, statuses []models.Status) (models.Money, error) {
	query := `SELECT budget FROM projects`
	var args []any
	if statuses != nil {
		if len(statuses) == 0 {
			return models.MoneyFromInt(0), nil
		}
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}

	rows, err := s.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return models.Money{}, domain.NewStorageError("sum budget", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return models.Money{}, domain.NewStorageError("scan budget", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return models.Money{}, domain.NewStorageError("parse budget", err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return models.Money{}, domain.NewStorageError("iterate budgets", err)
	}
	return models.NewMoney(total), nil
}

// CountDistinctAssignees counts distinct assigned_to values.
func (s *Store) CountDistinctAssignees(ctx context.Context) (int, error) {
	var count int
	err := s.executor(ctx).QueryRowContext(ctx, `SELECT COUNT(DISTINCT assigned_to) FROM projects`).Scan(&count)
	if err != nil {
		return 0, domain.NewStorageError("count assignees", err)
	}
	return count, nil
}

// ListCreatedSince returns creation timestamps at or after since.
func (s *Store) ListCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := s.executor(ctx).QueryContext(ctx,
		`SELECT created_at FROM projects WHERE created_at >= ?`, toMillis(since))
	if err != nil {
		return nil, domain.NewStorageError("list creation times", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var millis int64
		if err := rows.Scan(&millis); err != nil {
			return nil, domain.NewStorageError("scan creation time", err)
		}
		times = append(times, fromMillis(millis))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate creation times", err)
	}
	return times, nil
}

// ListRecentlyUpdated returns the most recently updated projects.
func (s *Store) ListRecentlyUpdated(ctx context.Context, limit int) ([]models.ProjectSummary, error) {
	rows, err := s.executor(ctx).QueryContext(ctx, `
		SELECT id, name, status, progress, deadline
		FROM projects
		ORDER BY updated_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewStorageError("list recent projects", err)
	}
	defer rows.Close()

	summaries := []models.ProjectSummary{}
	for rows.Next() {
		var summary models.ProjectSummary
		var status string
		var deadline int64
		if err := rows.Scan(&summary.ID, &summary.Name, &status, &summary.Progress, &deadline); err != nil {
			return nil, domain.NewStorageError("scan recent project", err)
		}
		summary.Status = models.Status(status)
		summary.Deadline = fromMillis(deadline)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate recent projects", err)
	}
	return summaries, nil
}

// buildProjectWhere renders the WHERE clause for a filter. SQLite's LIKE
// folds ASCII case only, so both sides are case-folded first.
func buildProjectWhere(filter models.ProjectFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Search != "" {
		conditions = append(conditions, foldCaseFunc+`(name) LIKE ? ESCAPE '`+repository.LikeEscape+`'`)
		args = append(args, repository.ContainsPattern(foldCase(filter.Search)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var status, budget string
	var deadline, createdAt, updatedAt int64
	err := row.Scan(
		&p.ID,
		&p.Name,
		&status,
		&deadline,
		&p.AssignedTo,
		&budget,
		&p.Progress,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = models.Status(status)
	p.Deadline = fromMillis(deadline)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	if p.Budget, err = models.ParseMoney(budget); err != nil {
		return nil, fmt.Errorf("parse budget %q: %w", budget, err)
	}
	return &p, nil
}
