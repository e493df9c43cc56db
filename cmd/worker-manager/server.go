// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"country-match-workers/internal/common/logger"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readinessCheck reports whether one dependency is usable.
type readinessCheck func(ctx context.Context) error

type healthServer struct {
	checks  map[string]readinessCheck
	mounts  map[string]http.Handler
	timeout time.Duration
	version string
	logger  logger.Logger
}

func newHealthServer(version string, log logger.Logger) *healthServer {
	return &healthServer{
		checks:  make(map[string]readinessCheck),
		mounts:  make(map[string]http.Handler),
		timeout: 2 * time.Second,
		version: version,
		logger:  log,
	}
}

func (s *healthServer) addCheck(name string, check readinessCheck) {
	s.checks[name] = check
}

// mount serves h under pattern next to the health endpoints.
func (s *healthServer) mount(pattern string, h http.Handler) {
	s.mounts[pattern] = h
}

func (s *healthServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())
	for pattern, h := range s.mounts {
		r.Mount(pattern, h)
	}
	return r
}

func (s *healthServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *healthServer) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			s.logger.Warn("readiness check failed", map[string]interface{}{"check": name, "error": err})
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": results})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
