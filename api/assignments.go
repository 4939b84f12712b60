package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/studyflow/studyflow/auth"
	"github.com/studyflow/studyflow/core/events"
	"github.com/studyflow/studyflow/core/model"
	"github.com/studyflow/studyflow/core/planner"
)

// handleCreateAssignment persists a new assignment for the caller and
// returns it together with a suggested study plan.
func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var a model.Assignment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	a.ID = uuid.NewString()
	a.UserID = claims.UserID
	a.CreatedAt = s.now()
	if err := a.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.store.AssignmentsForUser(claims.UserID)
	if err != nil {
		s.log.Errorf("list assignments for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if err := s.store.AddAssignment(a); err != nil {
		s.log.Errorf("persist assignment: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	s.publish(events.AssignmentCreated{Assignment: a, Time: a.CreatedAt})

	plan := s.planner.Plan(r.Context(), planner.Request{
		Assignment:  a,
		Commitments: model.AssignmentTimes(existing),
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":         true,
		"assignment": a,
		"plan":       plan,
	})
}

// handleListAssignments returns every stored assignment. Restricted to
// teacher and admin roles.
func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	assignments, err := s.store.Assignments()
	if err != nil {
		s.log.Errorf("list assignments: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "assignments": assignments})
}

type suggestRequest struct {
	Assignment          model.Assignment  `json:"assignment"`
	UserProfile         model.UserProfile `json:"userProfile"`
	ExistingAssignments []map[string]any  `json:"existingAssignments"`
}

// handleSuggest produces a plan without persisting anything. The endpoint is
// open; when a valid token is supplied and no commitments are given, the
// caller's stored assignments serve as commitments.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Assignment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	commitments := model.CommitmentTimes(req.ExistingAssignments)
	if len(req.ExistingAssignments) == 0 {
		if claims, err := s.auth.VerifyBearer(r.Header.Get("Authorization")); err == nil {
			if stored, err := s.store.AssignmentsForUser(claims.UserID); err == nil {
				commitments = model.AssignmentTimes(stored)
			}
		}
	}

	plan := s.planner.Plan(r.Context(), planner.Request{
		Assignment:  req.Assignment,
		Profile:     req.UserProfile,
		Commitments: commitments,
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "plan": plan})
}
