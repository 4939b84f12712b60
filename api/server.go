// Package api exposes the HTTP surface of the service: account management,
// assignment CRUD, plan suggestions, settings and statistics.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/studyflow/studyflow/auth"
	"github.com/studyflow/studyflow/core/events"
	"github.com/studyflow/studyflow/core/logger"
	"github.com/studyflow/studyflow/core/model"
	"github.com/studyflow/studyflow/core/planner"
	"github.com/studyflow/studyflow/storage"
)

// Login and registration attempts are counted over fixed windows per
// client host: at most authLimit attempts per authWindow, with the counter
// resetting only when the window expires.
const (
	authWindow = 15 * time.Minute
	authLimit  = 10
)

// Server wires the HTTP handlers to the store, planner and token manager.
type Server struct {
	store   *storage.Store
	planner *planner.Service
	auth    *auth.Manager
	pub     events.Publisher
	log     logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	windows map[string]*hostWindow
}

// hostWindow tracks auth attempts by one host inside the current window.
type hostWindow struct {
	count int
	start time.Time
}

// New creates a Server. pub may be nil when no event bus is attached.
func New(store *storage.Store, pl *planner.Service, am *auth.Manager, pub events.Publisher, log logger.Logger) *Server {
	return &Server{
		store:   store,
		planner: pl,
		auth:    am,
		pub:     pub,
		log:     log,
		now:     time.Now,
		windows: make(map[string]*hostWindow),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", s.rateLimited(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.rateLimited(s.handleLogin))
	mux.HandleFunc("POST /api/suggest", s.handleSuggest)
	mux.HandleFunc("POST /api/assignments", s.authenticated(s.handleCreateAssignment))
	mux.HandleFunc("GET /api/assignments", s.authenticated(s.requireRole(s.handleListAssignments, model.RoleTeacher, model.RoleAdmin)))
	mux.HandleFunc("GET /api/users", s.authenticated(s.requireRole(s.handleListUsers, model.RoleAdmin)))
	mux.HandleFunc("POST /api/update-user", s.authenticated(s.requireRole(s.handleUpdateUser, model.RoleAdmin)))
	mux.HandleFunc("POST /api/update-profile", s.authenticated(s.handleUpdateProfile))
	mux.HandleFunc("GET /api/settings", s.authenticated(s.handleGetSettings))
	mux.HandleFunc("POST /api/settings", s.authenticated(s.handleSetSettings))
	mux.HandleFunc("GET /api/stats", s.authenticated(s.handleStats))
	return mux
}

// authenticated verifies the bearer token and hands the claims to the
// wrapped handler.
func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request, *auth.Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.VerifyBearer(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, claims)
	}
}

// requireRole restricts a handler to the listed roles.
func (s *Server) requireRole(next func(http.ResponseWriter, *http.Request, *auth.Claims), roles ...model.Role) func(http.ResponseWriter, *http.Request, *auth.Claims) {
	return func(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
		for _, role := range roles {
			if claims.Role == role {
				next(w, r, claims)
				return
			}
		}
		writeError(w, http.StatusForbidden, "forbidden")
	}
}

// rateLimited throttles credential endpoints per client host.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.allowAuthAttempt(clientHost(r)) {
			writeError(w, http.StatusTooManyRequests, "too many attempts, try again later")
			return
		}
		next(w, r)
	}
}

// allowAuthAttempt counts the attempt against the host's current fixed
// window. The count does not refill mid-window; a fresh window starts only
// once the previous one has fully elapsed. Expired windows of other hosts
// are evicted on the way.
func (s *Server) allowAuthAttempt(host string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, w := range s.windows {
		if h != host && now.Sub(w.start) >= authWindow {
			delete(s.windows, h)
		}
	}
	w := s.windows[host]
	if w == nil || now.Sub(w.start) >= authWindow {
		s.windows[host] = &hostWindow{count: 1, start: now}
		return true
	}
	if w.count >= authLimit {
		return false
	}
	w.count++
	return true
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) publish(e any) {
	if s.pub != nil {
		s.pub.Publish(e)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
