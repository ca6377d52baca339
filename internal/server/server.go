// Package server provides the HTTP server that wires all services together.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/relscore/relscore/internal/bus"
	"github.com/relscore/relscore/internal/config"
	"github.com/relscore/relscore/internal/evaluation"
	"github.com/relscore/relscore/internal/pkg/logger"
	"github.com/relscore/relscore/internal/pkg/middleware"
	"github.com/relscore/relscore/internal/resultstore"
)

// Server is the main HTTP server that wires all services together.
type Server struct {
	cfg        *config.Config
	version    string
	log        *logger.Logger
	httpServer *http.Server

	// Services
	bus       bus.Bus
	store     resultstore.Store
	evaluator *evaluation.Evaluator

	// Handlers
	evalHandler *EvalHandler

	rateLimiter *middleware.RateLimiter

	mu      sync.RWMutex
	started bool
}

// New creates a new server with all dependencies.
func New(cfg *config.Config, version string, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}

	s := &Server{
		cfg:     cfg,
		version: version,
		log:     log,
	}

	// Initialize event bus
	b, err := bus.NewBus(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	s.bus = bus.NewLoggedBus(b, log)

	// Initialize result store. An unreachable Redis degrades to in-memory
	// history rather than failing startup.
	store, err := resultstore.New(cfg.Results)
	if err != nil {
		if cfg.Results.Backend != "redis" {
			return nil, fmt.Errorf("failed to create result store: %w", err)
		}
		log.Warn("redis result store unavailable, falling back to memory",
			"error", err)
		store = resultstore.NewMemoryStore()
	}
	s.store = store

	// Initialize evaluator
	s.evaluator = evaluation.NewEvaluator(log)

	// Initialize handlers
	s.evalHandler = NewEvalHandler(s.evaluator, s.store, s.bus, cfg, log)

	if cfg.Security.RateLimit > 0 {
		rlCfg := middleware.DefaultRateLimiterConfig()
		rlCfg.RequestsPerSecond = float64(cfg.Security.RateLimit)
		rlCfg.Burst = cfg.Security.RateLimit * 2
		s.rateLimiter = middleware.NewRateLimiter(rlCfg)
	}

	return s, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.started = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	addr := s.cfg.Address()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.log.Info("Starting HTTP server", "addr", addr, "version", s.version)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("HTTP shutdown error", "error", err)
		}
	}

	// Close services
	if s.bus != nil {
		s.bus.Close()
	}
	if s.store != nil {
		s.store.Close()
	}

	s.started = false
	s.log.Info("Server stopped")

	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/healthz", s.handleHealth)

	// Evaluation endpoints
	s.evalHandler.RegisterRoutes(mux)

	var handler http.Handler = mux
	if s.rateLimiter != nil {
		handler = s.rateLimiter.Middleware(handler)
	}

	return wrapWithLogging(handler, s.log)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// wrapWithLogging returns a handler with request logging.
func wrapWithLogging(handler http.Handler, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the response writer to capture the status code
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		handler.ServeHTTP(wrapped, r)

		log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Health returns the server health status.
func (s *Server) Health() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
