// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/product-catalog/internal/config"
	"github.com/vyrodovalexey/product-catalog/internal/handler"
	"github.com/vyrodovalexey/product-catalog/internal/middleware"
	"github.com/vyrodovalexey/product-catalog/internal/store"
)

// Server runs the catalog API and, optionally, a separate probe listener.
type Server struct {
	httpServer  *http.Server
	probeServer *http.Server
	router      *mux.Router
	probeRouter *mux.Router
	config      *config.Config
	logger      *zap.Logger
	wsHandler   *handler.WebSocketHandler
	middlewares []middleware.Middleware
}

// Timeouts shared by the API and probe servers.
const (
	readTimeout       = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// New creates a new Server instance.
func New(cfg *config.Config, logger *zap.Logger, productStore store.Store) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		probeRouter: mux.NewRouter(),
		config:      cfg,
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes(productStore)
	s.setupHTTPServers()

	return s
}

// setupMiddleware configures the middleware chain.
func (s *Server) setupMiddleware() {
	// First applied = outermost. RequestID runs before Recovery so panics
	// are logged with the request ID.
	s.middlewares = []middleware.Middleware{
		middleware.RequestID(),
		middleware.Recovery(s.logger),
	}
	if s.config.MetricsEnabled {
		s.middlewares = append(s.middlewares, middleware.Metrics())
	}
	s.middlewares = append(s.middlewares, middleware.Logging(s.logger))

	for _, mw := range s.middlewares {
		s.router.Use(mux.MiddlewareFunc(mw))
	}
}

// setupRoutes configures the API and probe routes.
func (s *Server) setupRoutes(productStore store.Store) {
	var publisher handler.EventPublisher
	if s.config.WebSocketEnabled {
		s.wsHandler = handler.NewWebSocketHandler(s.logger)
		s.wsHandler.RegisterRoutes(s.router)
		publisher = s.wsHandler
	}

	restHandler := handler.NewRESTHandler(productStore, publisher, s.logger)
	restHandler.RegisterRoutes(s.router)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	// mux skips router middleware for unmatched requests, so the fallbacks
	// get the same chain explicitly.
	chain := middleware.Chain(s.middlewares...)
	s.router.NotFoundHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "resource not found", s.logger)
	}))
	s.router.MethodNotAllowedHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", s.logger)
	}))

	handler.NewProbeHandler(productStore, s.logger).RegisterRoutes(s.probeRouter)
}

// setupHTTPServers configures the API and probe HTTP servers.
func (s *Server) setupHTTPServers() {
	allowedMethods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowedHeaders := []string{
		"Content-Type",
		middleware.RequestIDHeader,
	}

	// CORS wraps the router so preflight requests are answered before
	// method matching rejects OPTIONS.
	cors := middleware.CORS(s.config.CORSAllowedOrigins, allowedMethods, allowedHeaders)

	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           cors(s.router),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	if s.config.ProbePort != 0 {
		s.probeServer = &http.Server{
			Addr:              s.config.ProbeAddress(),
			Handler:           s.probeRouter,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		}
	}
}

// Start starts the API server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
		zap.Bool("websocket_enabled", s.config.WebSocketEnabled),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen and serve: %w", err)
	}

	return nil
}

// StartProbe starts the probe server and blocks until it stops.
// It returns immediately when the probe port is disabled.
func (s *Server) StartProbe() error {
	if s.probeServer == nil {
		return nil
	}

	s.logger.Info("starting probe server", zap.String("address", s.config.ProbeAddress()))

	if err := s.probeServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("probe server listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down both servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.wsHandler != nil {
		s.wsHandler.CloseAllConnections()
	}

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if s.probeServer != nil {
		if err := s.probeServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("probe server shutdown: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Handler returns the API handler, including CORS, for testing purposes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ProbeHandler returns the probe router for testing purposes.
func (s *Server) ProbeHandler() http.Handler {
	return s.probeRouter
}
