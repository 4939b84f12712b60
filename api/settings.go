package api

import (
	"encoding/json"
	"net/http"

	"github.com/studyflow/studyflow/auth"
	"github.com/studyflow/studyflow/core/stats"
)

// handleGetSettings returns the caller's dashboard settings, an empty object
// when none were saved.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	settings, err := s.store.Settings(claims.UserID)
	if err != nil {
		s.log.Errorf("load settings for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "settings": settings})
}

// handleSetSettings replaces the caller's dashboard settings.
func (s *Server) handleSetSettings(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var settings map[string]any
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.store.SetSettings(claims.UserID, settings); err != nil {
		s.log.Errorf("save settings for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "settings": settings})
}

// handleStats summarizes the caller's assignment workload.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	assignments, err := s.store.AssignmentsForUser(claims.UserID)
	if err != nil {
		s.log.Errorf("list assignments for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"stats": stats.Summarize(assignments, s.now()),
	})
}
