package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"projectdash/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgCheckViolation checks if error is a CHECK constraint violation
func IsPgCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23514 = check_violation
		return pgErr.Code == "23514"
	}
	return false
}

// checkViolation reports a row the schema's CHECK constraints rejected.
// Services validate first, so this only fires when the two disagree.
func checkViolation(err error) error {
	var pgErr *pgconn.PgError
	errors.As(err, &pgErr)
	return &domain.ValidationError{
		Message: "Validation failed",
		Fields:  map[string]string{"constraint": fmt.Sprintf("violates %s", pgErr.ConstraintName)},
	}
}
