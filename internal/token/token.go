// Package token issues and validates signed bearer tokens, resolving
// identities through the user service.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"userhub/internal/platform/metrics"
	"userhub/internal/user/models"
	dErrors "userhub/pkg/domain-errors"
)

// Claims is the identity payload embedded in an issued token.
type Claims struct {
	UserID    string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// UserResolver is the slice of the user service the token service needs.
type UserResolver interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service signs and verifies HS256 bearer tokens with a shared secret.
type Service struct {
	users      UserResolver
	signingKey []byte
	ttl        time.Duration
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(users UserResolver, signingKey string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		users:      users,
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue resolves the user by username, verifies the supplied password against
// the stored hash, and returns a signed token embedding the identity claims.
// An unknown username fails with ErrMissingUser, never with a decode error.
func (s *Service) Issue(ctx context.Context, creds models.Credentials) (string, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return "", ErrMissingUser
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})

	signed, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	s.metrics.IncrementTokensIssued()
	return signed, nil
}

// Validate verifies the token signature and claims, then resolves the current
// record for the token's subject. Decode failures carry one of the four
// reasons; a subject that no longer resolves fails with ErrMissingUser.
func (s *Service) Validate(ctx context.Context, tokenString string) (*models.User, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		decodeErr := classify(err)
		s.metrics.IncrementTokenValidationFailure(string(decodeErr.Reason))
		return nil, decodeErr
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		decodeErr := newDecodeError(ReasonInvalid, nil)
		s.metrics.IncrementTokenValidationFailure(string(decodeErr.Reason))
		return nil, decodeErr
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeBadRequest) {
			return nil, ErrMissingUser
		}
		return nil, err
	}
	return user, nil
}

func classify(err error) *DecodeError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return newDecodeError(ReasonExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return newDecodeError(ReasonImmature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newDecodeError(ReasonMalformed, err)
	default:
		return newDecodeError(ReasonInvalid, err)
	}
}
