package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"projectdash/internal/auth"
	"projectdash/internal/config"
	"projectdash/internal/handler"
	"projectdash/internal/metrics"
	"projectdash/internal/middleware"
	"projectdash/internal/repository/backend"
	"projectdash/internal/service"
)

func main() {
	// Load configuration (.env is optional)
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateAuth()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"version", cfg.Version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create JWT verifier
	jwtVerifier, err := auth.NewVerifier(cfg.JWKSURL, cfg.JWTSecret, auth.Options{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Open the project store
	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Create services
	projectService := service.NewProjectService(store.Store, service.ListLimitsFromConfig(cfg), logger)
	dashboardService := service.NewDashboardService(store.Store, store.TxManager,
		service.DashboardOptionsFromConfig(cfg), logger)

	m := metrics.New()
	routes := &handler.Routes{
		Projects:  handler.NewProjectHandler(projectService, logger),
		Dashboard: handler.NewDashboardHandler(dashboardService, logger),
		Health:    handler.NewHealthHandler(store, cfg.Version, logger),
		Metrics:   m.Handler(),
	}

	logger.Info("services initialized")

	// API routes require a bearer token and are rate limited per client
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authenticate := middleware.Auth(jwtVerifier, logger)
	protect := func(h http.Handler) http.Handler {
		return authenticate(limiter.Middleware(h))
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	routes.Register(mux, protect)

	// Build middleware chain
	// Order: CORS → Request ID → Instrument → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.Instrument(logger, m)(h)
	h = middleware.RequestID(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
