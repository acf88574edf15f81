// Package server provides the HTTP server implementation for the robotics API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nekazari/nkz-module-robotics/internal/config"
	apierrors "github.com/nekazari/nkz-module-robotics/internal/errors"
	"github.com/nekazari/nkz-module-robotics/internal/handler"
	"github.com/nekazari/nkz-module-robotics/internal/health"
	"github.com/nekazari/nkz-module-robotics/internal/metrics"
	"github.com/nekazari/nkz-module-robotics/internal/middleware"
	"github.com/nekazari/nkz-module-robotics/internal/robotconfig"
	"go.uber.org/zap"
)

// APIPrefix is the path prefix of the robotics routes.
const APIPrefix = "/api/robotics"

// Server represents the HTTP server.
type Server struct {
	router       *mux.Router
	httpServer   *http.Server
	handlers     *handler.Handlers
	healthCheck  *health.HealthCheck
	errorHandler *apierrors.Handler
	metrics      *metrics.Metrics
	logger       *zap.Logger
	cfg          *config.Config
}

// NewServer creates a new HTTP server. m may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	generator *robotconfig.Generator,
	healthCheck *health.HealthCheck,
	m *metrics.Metrics,
	version string,
	logger *zap.Logger,
) *Server {
	router := mux.NewRouter()
	errorHandler := apierrors.NewHandler(logger)

	var recorder handler.GenerationRecorder
	if m != nil {
		recorder = m
	}
	handlers := handler.NewHandlers(generator, errorHandler, recorder, logger, version)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		router:       router,
		httpServer:   httpServer,
		handlers:     handlers,
		healthCheck:  healthCheck,
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// SetupRoutes configures all HTTP routes.
func (s *Server) SetupRoutes() {
	middlewareChain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logging(s.logger),
		middleware.CORS(s.cfg.CORS.AllowedOrigins),
		middleware.Timeout(s.cfg.Server.RequestTimeout),
	}

	if s.metrics != nil {
		middlewareChain = append(middlewareChain, metrics.MetricsMiddleware(s.metrics))
	}

	if s.cfg.RateLimiter.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.cfg.RateLimiter.RequestsPerSecond,
			s.cfg.RateLimiter.BurstSize,
			s.errorHandler,
			s.logger,
		)
		middlewareChain = append(middlewareChain, rateLimiter.Limit)
	}

	chain := middleware.Chain(middlewareChain...)
	s.router.Use(func(next http.Handler) http.Handler {
		return chain(next)
	})

	// Probes
	s.router.HandleFunc("/health", s.healthCheck.LivenessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.healthCheck.ReadinessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handlers.Index).Methods(http.MethodGet)

	api := s.router.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/devices/{robot_id}/config", s.handlers.GetRobotConfig).Methods(http.MethodGet, http.MethodOptions)

	// mux only runs middleware on matched routes, so wrap the fallbacks explicitly
	s.router.NotFoundHandler = chain(http.HandlerFunc(s.errorHandler.NotFound))
	s.router.MethodNotAllowedHandler = chain(http.HandlerFunc(s.errorHandler.MethodNotAllowed))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.Int("port", s.cfg.Server.Port),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the http.Handler for the server.
func (s *Server) GetHandler() http.Handler {
	return s.router
}
