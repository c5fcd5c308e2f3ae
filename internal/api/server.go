// SPDX-License-Identifier: MIT

// Package api exposes the admin HTTP surface: health, metrics and the
// debug reset endpoint.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/alertgw/internal/anomaly"
	"github.com/ManuGH/alertgw/internal/log"
)

// PollerStatus reports whether the poll loop is alive.
type PollerStatus interface {
	Running() bool
}

// Server holds the admin HTTP handler state.
type Server struct {
	detector *anomaly.Detector
	poller   PollerStatus
	version  string
}

// NewServer wires the admin surface to the detector and poller.
func NewServer(detector *anomaly.Detector, poller PollerStatus, version string) *Server {
	return &Server{detector: detector, poller: poller, version: version}
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(httprate.Limit(60, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/debug/reset", s.handleReset)
	return r
}

// requestID attaches a correlation id to the request context and response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(log.ContextWithRequestID(r.Context(), id)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.version,
		"poller_running": s.poller.Running(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.detector.Reset()
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str("event", "detector.reset").
		Msg("detector state cleared")
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
