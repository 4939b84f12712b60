// Package storage persists dashboard state as JSON documents on disk. The
// store is a collaborator of the planner, not part of it: plans themselves
// are never persisted.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/studyflow/studyflow/core/model"
)

const (
	assignmentsFile = "assignments.json"
	usersFile       = "users.json"
	settingsFile    = "settings.json"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = fmt.Errorf("not found")

// ErrDuplicateEmail is returned when registering an email that already has
// an account.
var ErrDuplicateEmail = fmt.Errorf("email already registered")

// Store is a mutex-guarded JSON file store. Writes go through a temp file
// and rename so a crash cannot leave a half-written document.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the data directory if needed and seeds empty documents.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}
	seeds := map[string]string{
		assignmentsFile: "[]",
		usersFile:       "[]",
		settingsFile:    "{}",
	}
	for name, seed := range seeds {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
				return nil, fmt.Errorf("seed %s: %w", name, err)
			}
		}
	}
	return s, nil
}

// Assignments returns all stored assignments.
func (s *Store) Assignments() ([]model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Assignment
	if err := s.read(assignmentsFile, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AssignmentsForUser returns the assignments created by the given user.
func (s *Store) AssignmentsForUser(userID string) ([]model.Assignment, error) {
	all, err := s.Assignments()
	if err != nil {
		return nil, err
	}
	var list []model.Assignment
	for _, a := range all {
		if a.UserID == userID {
			list = append(list, a)
		}
	}
	return list, nil
}

// AddAssignment appends the assignment to the stored list.
func (s *Store) AddAssignment(a model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Assignment
	if err := s.read(assignmentsFile, &list); err != nil {
		return err
	}
	list = append(list, a)
	return s.write(assignmentsFile, list)
}

// Users returns all stored users, hashes included.
func (s *Store) Users() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.User
	if err := s.read(usersFile, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddUser appends a user. The email must not already be registered.
func (s *Store) AddUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.User
	if err := s.read(usersFile, &list); err != nil {
		return err
	}
	for _, existing := range list {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	list = append(list, u)
	return s.write(usersFile, list)
}

// FindUserByEmail looks a user up by email.
func (s *Store) FindUserByEmail(email string) (model.User, error) {
	users, err := s.Users()
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// FindUserByID looks a user up by id.
func (s *Store) FindUserByID(id string) (model.User, error) {
	users, err := s.Users()
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// UpdateUser replaces the stored user with the same id or email and returns
// the updated record.
func (s *Store) UpdateUser(match func(model.User) bool, update func(*model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.User
	if err := s.read(usersFile, &list); err != nil {
		return model.User{}, err
	}
	for i := range list {
		if match(list[i]) {
			update(&list[i])
			if err := s.write(usersFile, list); err != nil {
				return model.User{}, err
			}
			return list[i], nil
		}
	}
	return model.User{}, ErrNotFound
}

// Settings returns the settings blob stored for the user, or an empty map.
func (s *Store) Settings(userID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := map[string]map[string]any{}
	if err := s.read(settingsFile, &all); err != nil {
		return nil, err
	}
	if v, ok := all[userID]; ok {
		return v, nil
	}
	return map[string]any{}, nil
}

// SetSettings replaces the settings blob stored for the user.
func (s *Store) SetSettings(userID string, settings map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := map[string]map[string]any{}
	if err := s.read(settingsFile, &all); err != nil {
		return err
	}
	all[userID] = settings
	return s.write(settingsFile, all)
}

func (s *Store) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
