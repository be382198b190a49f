package handler

import (
	"log/slog"
	"net/http"

	"projectdash/internal/domain/services"
	"projectdash/internal/httputil"
)

// DashboardHandler serves the aggregate dashboard views
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetSummary returns stats, recent projects and chart series
// GET /api/dashboard
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch dashboard data")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, summary)
}

// GetStats returns only the headline numbers
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch dashboard stats")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
