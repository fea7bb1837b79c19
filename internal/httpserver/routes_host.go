package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/kagithamanoj/boggle/internal/host"
)

// mountHostRoutes registers the operator endpoints under /host.
// Everything except login requires a host token and shares one rate limiter.
func (s *Server) mountHostRoutes(r chi.Router) {
	limiter := rate.NewLimiter(10, 50) // 10 req/sec, burst of 50

	r.Route("/host", func(r chi.Router) {
		r.Use(rateLimit(limiter))
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireHost())
			r.Post("/start", s.command(s.host.Start))
			r.Post("/end", s.command(s.host.End))
			r.Post("/lobby", s.command(s.host.ReturnToLobby))
			r.Get("/state", s.handleState)
		})
	})
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				http.Error(w, `{"error":"rate_limit_exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// command runs one host transition and replies with the resulting state.
// A transition that is not valid in the current phase answers 409.
func (s *Server) command(do func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := do(r.Context())
		switch {
		case errors.Is(err, host.ErrNotApplied):
			http.Error(w, `{"error":"wrong_phase"}`, http.StatusConflict)
			return
		case errors.Is(err, host.ErrStopped):
			http.Error(w, `{"error":"host_stopped"}`, http.StatusServiceUnavailable)
			return
		case err != nil:
			http.Error(w, `{"error":"timeout"}`, http.StatusGatewayTimeout)
			return
		}
		s.handleState(w, r)
	}
}

// handleState returns the host view: phase, countdown, board, players, feed.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.host.State(r.Context())
	if errors.Is(err, host.ErrStopped) {
		http.Error(w, `{"error":"host_stopped"}`, http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"timeout"}`, http.StatusGatewayTimeout)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}
