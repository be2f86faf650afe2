// Package memory provides the in-process user store. It keeps the service
// runnable without external dependencies and backs most of the test suite.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"userhub/internal/user/models"
	"userhub/internal/user/store"
	"userhub/pkg/platform/sentinel"
)

// Store is a mutex-guarded map of user records with a username index for the
// uniqueness constraint. It favors clarity over performance.
type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	byUsername map[string]string
}

func New() *Store {
	return &Store{
		users:      make(map[string]models.User),
		byUsername: make(map[string]string),
	}
}

// Create assigns a fresh UUID and stores a copy of the record. Username
// collisions fail with sentinel.ErrConflict, matching the constraint the
// MongoDB store enforces through its unique index.
func (s *Store) Create(_ context.Context, user *models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return "", sentinel.ErrConflict
	}

	id := uuid.NewString()
	record := *user
	record.ID = id
	s.users[id] = record
	s.byUsername[record.Username] = id
	return id, nil
}

func (s *Store) FindOne(_ context.Context, filter store.Filter) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := filter[store.FieldID]; ok {
		user, found := s.users[id]
		if !found || !matches(user, filter) {
			return nil, sentinel.ErrNotFound
		}
		return copyOf(user), nil
	}

	for _, user := range s.users {
		if matches(user, filter) {
			return copyOf(user), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func matches(user models.User, filter store.Filter) bool {
	for field, value := range filter {
		switch field {
		case store.FieldID:
			if user.ID != value {
				return false
			}
		case store.FieldUsername:
			if user.Username != value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func copyOf(user models.User) *models.User {
	return &user
}
