// internal/httpserver/server.go
//
// HTTP server wiring for the game host.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words", "/join-link".
//   - Client endpoint: "/ws" (websocket upgrade, handled by the transport).
//   - Host operator endpoints: /host/login, /host/start, /host/end,
//     /host/lobby, /host/state (auth.go, routes_host.go).
//   - Round history: /rounds, /rounds/{id}.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so the host cookie works).
//   - The websocket route sits outside the timeout and JSON middleware; it is
//     long-lived and speaks its own framing.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kagithamanoj/boggle/internal/game"
	"github.com/kagithamanoj/boggle/internal/store"
)

// Host is the operator surface of the host event loop.
type Host interface {
	Start(ctx context.Context) error
	End(ctx context.Context) error
	ReturnToLobby(ctx context.Context) error
	State(ctx context.Context) (game.Snapshot, error)
}

// WordCounter reports the size of the loaded dictionary.
type WordCounter interface {
	Len() int
}

// Options configure a Server.
type Options struct {
	HostID       string       // identifies this host in the join link
	PublicURL    string       // base URL clients open, without trailing slash
	ClientOrigin string       // CORS origin
	HostPassword string       // empty leaves the host routes open
	JWTSecret    string       // signs host tokens
	WS           http.Handler // serves /ws
	Words        WordCounter
	Logger       zerolog.Logger
}

// Server bundles router, host loop, and round archive.
type Server struct {
	r     *chi.Mux
	host  Host
	store store.Store
	opts  Options
	auth  *hostAuth
	log   zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(h Host, st store.Store, opts Options) (*Server, error) {
	auth, err := newHostAuth(opts.HostPassword, opts.JWTSecret)
	if err != nil {
		return nil, err
	}
	s := &Server{r: chi.NewRouter(), host: h, store: st, opts: opts, auth: auth, log: opts.Logger}
	if !auth.enabled() {
		s.log.Warn().Msg("HOST_PASSWORD unset: host routes are open to anyone who can reach this server")
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors(opts.ClientOrigin))

	if opts.WS != nil {
		s.r.Handle("/ws", opts.WS)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"boggle-host","endpoints":["/health","/ws","/join-link","/host/*","/rounds"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			n := 0
			if opts.Words != nil {
				n = opts.Words.Len()
			}
			_ = json.NewEncoder(w).Encode(map[string]int{"words": n})
		})

		r.Get("/join-link", s.handleJoinLink)
		s.mountHostRoutes(r)

		r.Get("/rounds", s.handleRecentRounds)
		r.Get("/rounds/{id}", s.handleGetRound)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s, nil
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ JOIN LINK ----------------------------------

type joinLinkRes struct {
	URL    string `json:"url"`
	HostID string `json:"hostId"`
}

// handleJoinLink returns the URL players open to join this host.
// It stands in for a QR code: render it however the front end likes.
func (s *Server) handleJoinLink(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(joinLinkRes{
		URL:    s.opts.PublicURL + "/?host=" + s.opts.HostID,
		HostID: s.opts.HostID,
	})
}

// ------------------------------- ROUNDS ------------------------------------

// handleRecentRounds lists archived rounds, newest first. ?limit=N (default 20, max 100).
func (s *Server) handleRecentRounds(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, 100)
	}
	rounds, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list rounds")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rounds)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	round, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get round")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(round)
}
