package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"projectdash/internal/domain"
	"projectdash/internal/domain/models"
	"projectdash/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Storage failures and
// anything unexpected are logged and reported with the generic failure
// message only.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, failure string) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondErrorWithDetails(w, http.StatusBadRequest, validationErr.Message, fieldDetails(validationErr.Fields))
	case errors.As(err, &notFoundErr):
		httputil.RespondError(w, http.StatusNotFound, resourceName(notFoundErr.Resource)+" not found")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, "Resource already exists")
	default:
		logger.Error(failure,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r),
		)
		httputil.RespondError(w, http.StatusInternalServerError, failure)
	}
}

// respondBodyError reports a body that could not be decoded
func respondBodyError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		httputil.RespondErrorWithDetails(w, http.StatusBadRequest, "Validation failed",
			map[string]string{typeErr.Field: typeMessage(typeErr.Type)})
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
}

var moneyType = reflect.TypeOf(models.Money{})

func typeMessage(t reflect.Type) string {
	if t == moneyType {
		return "must be a number"
	}
	switch t.Kind() {
	case reflect.String:
		return "must be a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	default:
		return "has the wrong type"
	}
}

func fieldDetails(fields map[string]string) interface{} {
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func resourceName(resource string) string {
	if resource == "" {
		return "Resource"
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}
