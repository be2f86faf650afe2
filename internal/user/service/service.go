// Package service implements the user business operations on top of the
// pluggable record store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"userhub/internal/platform/metrics"
	"userhub/internal/user/models"
	"userhub/internal/user/store"
	dErrors "userhub/pkg/domain-errors"
	"userhub/pkg/platform/sentinel"
)

// Service orchestrates user record lifecycle. The store implementation is
// chosen once at startup and injected here; the service never inspects which
// variant it got.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Create stores a new user record and returns it with the store-assigned ID.
// The supplied password is bcrypt-hashed before it reaches the store; the
// plaintext is never persisted. The record is re-read by its new ID so the
// caller sees exactly what the store holds.
func (s *Service) Create(ctx context.Context, payload *models.User) (*models.User, error) {
	username := strings.TrimSpace(payload.Username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username is required")
	}

	record := *payload
	record.ID = ""
	record.Username = username

	if record.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(record.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
		}
		record.Password = string(hash)
	}

	id, err := s.store.Create(ctx, &record)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "username already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	created, err := s.store.FindOne(ctx, store.Filter{store.FieldID: id})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read back created user")
	}

	s.metrics.IncrementUsersCreated()
	s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// Get looks up a user by its store-assigned identifier.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}
	user, err := s.store.FindOne(ctx, store.Filter{store.FieldID: id})
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return user, nil
}

// GetByUsername looks up a user by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username is required")
	}
	user, err := s.store.FindOne(ctx, store.Filter{store.FieldUsername: username})
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return user, nil
}

func wrapLookupErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
}
