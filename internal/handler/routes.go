package handler

import "net/http"

// Routes holds every handler served by the API.
type Routes struct {
	Projects  *ProjectHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
	Metrics   http.Handler
}

// Register adds all routes to mux. API routes are wrapped with protect;
// /health and /metrics stay public.
func (rt *Routes) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	api := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protect(h))
	}

	mux.HandleFunc("GET /health", rt.Health.HealthCheck)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	// Project routes
	api("GET /api/projects", rt.Projects.ListProjects)
	api("POST /api/projects", rt.Projects.CreateProject)
	api("GET /api/projects/{id}", rt.Projects.GetProject)
	api("PATCH /api/projects/{id}", rt.Projects.UpdateProject)
	api("PUT /api/projects/{id}", rt.Projects.UpdateProject)
	api("DELETE /api/projects/{id}", rt.Projects.DeleteProject)

	// Dashboard routes
	api("GET /api/dashboard", rt.Dashboard.GetSummary)
	api("GET /api/dashboard/stats", rt.Dashboard.GetStats)
}
