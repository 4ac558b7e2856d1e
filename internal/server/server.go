// Package server exposes the computed population-change layers and
// tables over a JSON HTTP API consumed by the dashboard frontend.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/censuslab/popatlas/internal/config"
	"github.com/censuslab/popatlas/internal/pipeline"
)

// Server serves the dashboard API from an immutable snapshot. The
// snapshot is shared read-only across requests; every selection is
// recomputed per request.
type Server struct {
	snap    *pipeline.Snapshot
	cfg     config.ServerConfig
	limiter *rate.Limiter
}

// New creates a Server over the loaded snapshot.
func New(snap *pipeline.Snapshot, cfg config.ServerConfig) *Server {
	s := &Server{snap: snap, cfg: cfg}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	if s.limiter != nil {
		r.Use(s.throttle)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/table", s.handleTable)
		r.Get("/change", s.handleChange)
	})

	return r
}
