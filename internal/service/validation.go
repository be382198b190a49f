package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"projectdash/internal/config"
	"projectdash/internal/domain"
	"projectdash/internal/domain/models"
)

// dateOnly is the calendar-date layout accepted for deadlines
const dateOnly = "2006-01-02"

var maxBudget = decimal.NewFromInt(config.MaxBudget)

var (
	nameRules = []validation.Rule{
		validation.Required.Error("is required"),
		validation.RuneLength(1, config.MaxProjectNameLength).Error("must be at most 100 characters"),
	}
	assigneeRules = []validation.Rule{
		validation.Required.Error("is required"),
		validation.RuneLength(1, config.MaxAssigneeLength).Error("must be at most 100 characters"),
	}
	statusRules = []validation.Rule{
		validation.Required.Error("is required"),
		validation.In(models.StatusActive, models.StatusOnHold, models.StatusCompleted).
			Error("must be one of ACTIVE, ON_HOLD, COMPLETED"),
	}
	deadlineRules = []validation.Rule{
		validation.Required.Error("is required"),
		validation.By(validateDeadline),
	}
	budgetRules = []validation.Rule{
		validation.NotNil.Error("is required"),
		validation.By(validateBudget),
	}
	progressRules = []validation.Rule{
		validation.Min(0).Error("must be between 0 and 100"),
		validation.Max(config.MaxProgress).Error("must be between 0 and 100"),
	}
)

// parseDeadline accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date,
// the latter meaning midnight UTC.
func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid date format")
}

func validateDeadline(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return errors.New("invalid date format")
	}
	_, err := parseDeadline(raw)
	return err
}

func validateBudget(value interface{}) error {
	var amount models.Money
	switch v := value.(type) {
	case models.Money:
		amount = v
	case *models.Money:
		if v == nil {
			return nil
		}
		amount = *v
	default:
		return errors.New("must be a number")
	}

	if amount.IsNegative() {
		return errors.New("must not be negative")
	}
	if amount.IsZero() {
		return nil
	}
	// Bound the exponent before any comparison rescales the coefficient.
	exp := int64(amount.Exponent())
	if exp < -config.MaxBudgetScale {
		return errors.New("must have at most 18 decimal places")
	}
	if int64(amount.NumDigits())+exp > config.MaxBudgetDigits {
		return errors.New("must be at most 999999999")
	}
	if amount.GreaterThan(maxBudget) {
		return errors.New("must be at most 999999999")
	}
	return nil
}

// newValidationError converts ozzo field errors into a domain ValidationError.
// Errors that are not validation results are returned unchanged.
func newValidationError(message string, err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		fields[field] = fieldErr.Error()
	}
	return &domain.ValidationError{Message: message, Fields: fields}
}

// parsePositiveInt parses an optional query integer that must be >= 1.
func parsePositiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if err := validation.Validate(raw, is.Int); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer number")
	}
	if n < 1 {
		return 0, errors.New("must be at least 1")
	}
	return n, nil
}
