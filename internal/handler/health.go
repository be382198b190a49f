package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"projectdash/internal/httputil"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	store   Pinger
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, version: version, logger: logger}
}

// HealthCheck reports service and store status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, storeStatus, code := "ok", "ok", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check: store unreachable", "error", err)
		status, storeStatus, code = "degraded", "unreachable", http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, code, map[string]string{
		"status":  status,
		"service": "projectdash",
		"version": h.version,
		"store":   storeStatus,
	})
}
