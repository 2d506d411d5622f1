// Package server provides the HTTP server and routing for Yieldwise.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/di"
	analysishandlers "github.com/aristath/yieldwise/internal/modules/analysis/handlers"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	comparableshandlers "github.com/aristath/yieldwise/internal/modules/comparables/handlers"
	settingshandlers "github.com/aristath/yieldwise/internal/modules/settings/handlers"
	"github.com/aristath/yieldwise/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	systemHandlers *SystemHandlers
	analysis       *analysishandlers.Handler
	started        time.Time
}

// New creates a new HTTP server
func New(cfg Config) (*Server, error) {
	container := cfg.Container

	analysisHandler, err := analysishandlers.NewHandler(container.AnalysisService, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis handlers: %w", err)
	}

	// A nil *ReloadComparablesJob must not become a non-nil scheduler.Job
	var reloadJob scheduler.Job
	if cfg.Jobs != nil && cfg.Jobs.ReloadComparables != nil {
		reloadJob = cfg.Jobs.ReloadComparables
	}

	systemHandlers := NewSystemHandlers(
		cfg.Log,
		container.DB,
		container.ComparablesRepo,
		reloadJob,
		Features{
			RentModel:    container.RentModel != nil,
			RentCache:    container.Redis != nil,
			ObjectStore:  container.ObjectStore != nil,
			ScheduledJob: cfg.Config.Comparables.ReloadSchedule != "",
		},
	)

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Config,
		container:      container,
		systemHandlers: systemHandlers,
		analysis:       analysisHandler,
		started:        time.Now(),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging and request metrics
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(30 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.container.Registry, promhttp.HandlerOpts{}))

	profile := s.container.Profile
	comparablesHandler := comparableshandlers.NewHandler(
		s.container.ComparablesRepo,
		comparables.NewFilter(profile.Comparables),
		profile.Land.DevelopmentCostPerSqft,
		s.log,
	)
	settingsHandler := settingshandlers.NewHandler(profile, s.log)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		s.analysis.RegisterRoutes(r)
		comparablesHandler.RegisterRoutes(r)
		settingsHandler.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Post("/jobs/reload-comparables", s.systemHandlers.HandleTriggerReload)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests and records them in the metrics.
// Requests are labelled by route pattern to keep label cardinality bounded.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		if s.container.Telemetry != nil {
			s.container.Telemetry.ObserveHTTP(r.Method, route, status, elapsed)
		}

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", elapsed).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
