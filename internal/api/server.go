// Package api provides the JSON HTTP interface to the knowledge
// assistant.
package api

import (
	"errors"
	"log/slog"
	"net/http"
)

// Server is the HTTP server for the knowledge assistant API.
type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	retriever Retriever
	graph     Graph
	ingestor  Ingestor
	stats     StatsProvider
	deleter   Deleter
	pinger    Pinger
	limiter   *RateLimiter
	cors      func(http.Handler) http.Handler
}

// ServerConfig contains the dependencies for a Server.
type ServerConfig struct {
	Logger    *slog.Logger
	Retriever Retriever
	Graph     Graph
	Ingestor  Ingestor
	Stats     StatsProvider
	Deleter   Deleter
	Pinger    Pinger

	// CORSOrigins restricts cross-origin access. Empty allows any origin.
	CORSOrigins []string

	// RateRPS/RateBurst bound per-IP request rates. Zero RateRPS
	// disables limiting.
	RateRPS   float64
	RateBurst int
}

// NewServer creates a Server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Retriever == nil || cfg.Graph == nil {
		return nil, errors.New("retriever and graph are required")
	}
	if cfg.Ingestor == nil || cfg.Stats == nil || cfg.Deleter == nil || cfg.Pinger == nil {
		return nil, errors.New("ingestor, stats, deleter, and pinger are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		retriever: cfg.Retriever,
		graph:     cfg.Graph,
		ingestor:  cfg.Ingestor,
		stats:     cfg.Stats,
		deleter:   cfg.Deleter,
		pinger:    cfg.Pinger,
		cors:      CORSMiddleware(cfg.CORSOrigins),
	}
	if cfg.RateRPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateRPS, cfg.RateBurst, logger)
	}

	// Probe routes stay outside the rate limiter.
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)

	s.mux.HandleFunc("POST /api/v1/query", s.handleQuery)
	s.mux.HandleFunc("POST /api/v1/ingest", s.handleIngest)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	s.mux.HandleFunc("DELETE /api/v1/documents/{id}", s.handleDeleteDocument)

	return s, nil
}

// ServeHTTP implements http.Handler with the middleware stack:
// Recovery → RequestID → Logging → CORS → RateLimit → Routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var handler http.Handler = s.mux
	if s.limiter != nil && r.URL.Path != "/health" && r.URL.Path != "/ready" {
		handler = s.limiter.Middleware(handler)
	}
	handler = s.cors(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(s.logger)(handler)

	handler.ServeHTTP(w, r)
}
