package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studyflow/studyflow/auth"
	"github.com/studyflow/studyflow/core/model"
	"github.com/studyflow/studyflow/storage"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Institution string `json:"institution"`
	Major       string `json:"major"`
}

// handleRegister creates a new student account and returns a signed token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		s.log.Errorf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	u := model.User{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Password:    hash,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Institution: req.Institution,
		Major:       req.Major,
		Role:        model.RoleStudent,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddUser(u); err != nil {
		if err == storage.ErrDuplicateEmail {
			writeError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		s.log.Errorf("persist user: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := s.auth.SignToken(u)
	if err != nil {
		s.log.Errorf("sign token: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":    true,
		"user":  u.Sanitized(),
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and returns a signed token. Unknown
// accounts and wrong passwords produce the same response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.store.FindUserByEmail(req.Email)
	if err != nil || !s.auth.CheckPassword(req.Password, u.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	token, err := s.auth.SignToken(u)
	if err != nil {
		s.log.Errorf("sign token: %v", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"user":  u.Sanitized(),
		"token": token,
	})
}

// handleListUsers returns all accounts without password hashes. Admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	users, err := s.store.Users()
	if err != nil {
		s.log.Errorf("list users: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	sanitized := make([]model.User, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitized()
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "users": sanitized})
}

type updateUserRequest struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// handleUpdateUser changes an account's role, matched by id or email. Admin
// only.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" && req.Email == "" {
		writeError(w, http.StatusBadRequest, "id or email is required")
		return
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.store.UpdateUser(
		func(u model.User) bool { return u.ID == req.ID || (req.Email != "" && u.Email == req.Email) },
		func(u *model.User) { u.Role = req.Role },
	)
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.log.Errorf("update user: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": u.Sanitized()})
}

type updateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Institution *string `json:"institution"`
	Major       *string `json:"major"`
}

// handleUpdateProfile updates the caller's own profile fields. Absent fields
// are left untouched.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := s.store.UpdateUser(
		func(u model.User) bool { return u.ID == claims.UserID },
		func(u *model.User) {
			if req.FirstName != nil {
				u.FirstName = *req.FirstName
			}
			if req.LastName != nil {
				u.LastName = *req.LastName
			}
			if req.Institution != nil {
				u.Institution = *req.Institution
			}
			if req.Major != nil {
				u.Major = *req.Major
			}
		},
	)
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.log.Errorf("update profile: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": u.Sanitized()})
}
