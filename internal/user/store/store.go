// Package store defines the persistence contract for user records. Stores are
// interface-driven so the in-memory and MongoDB implementations can be swapped
// without rewiring business code.
package store

import (
	"context"

	"userhub/internal/user/models"
)

// Filter is a field-to-exact-match-value mapping for lookups. Supported
// fields are FieldID and FieldUsername; an unknown field matches nothing.
type Filter map[string]string

const (
	FieldID       = "id"
	FieldUsername = "username"
)

// Store persists and retrieves user records.
//
// Create assigns and returns a new unique identifier, rejecting username
// collisions with sentinel.ErrConflict. Every implementation enforces the
// uniqueness constraint so callers see one contract regardless of backing.
//
// FindOne returns the first record matching all filter fields, or
// sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, user *models.User) (string, error)
	FindOne(ctx context.Context, filter Filter) (*models.User, error)
}

// HealthChecker is implemented by stores that can report connectivity to
// their backing resource.
type HealthChecker interface {
	Health(ctx context.Context) error
}
