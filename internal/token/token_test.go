package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/user/models"
	"userhub/internal/user/service"
	"userhub/internal/user/store/memory"
)

const signingKey = "test-signing-key"

func newFixture(t *testing.T, ttl time.Duration) (*Service, *models.User) {
	t.Helper()

	users := service.New(memory.New())
	created, err := users.Create(context.Background(), &models.User{
		Username:  "tom",
		Email:     "tom@test.com",
		Password:  "ilovesnakes",
		FirstName: "Tom",
		LastName:  "Riddle",
	})
	require.NoError(t, err)

	return New(users, signingKey, ttl), created
}

func TestIssueAndValidate(t *testing.T) {
	svc, created := newFixture(t, time.Hour)
	ctx := context.Background()

	signed, err := svc.Issue(ctx, models.Credentials{Username: "tom", Password: "ilovesnakes"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	user, err := svc.Validate(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "Tom", user.FirstName)
	assert.Equal(t, "Riddle", user.LastName)
}

func TestIssueEmbedsIdentityClaims(t *testing.T) {
	svc, created := newFixture(t, time.Hour)

	signed, err := svc.Issue(context.Background(), models.Credentials{Username: "tom", Password: "ilovesnakes"})
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (any, error) {
		return []byte(signingKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "Tom", claims.FirstName)
	assert.Equal(t, "Riddle", claims.LastName)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueUnknownUserFailsWithMissingUser(t *testing.T) {
	svc, _ := newFixture(t, time.Hour)

	_, err := svc.Issue(context.Background(), models.Credentials{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, ErrMissingUser)

	var decodeErr *DecodeError
	assert.False(t, errors.As(err, &decodeErr))
}

func TestIssueWrongPassword(t *testing.T) {
	svc, _ := newFixture(t, time.Hour)

	_, err := svc.Issue(context.Background(), models.Credentials{Username: "tom", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateMalformedToken(t *testing.T) {
	svc, _ := newFixture(t, time.Hour)

	_, err := svc.Validate(context.Background(), "wrong token")

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ReasonMalformed, decodeErr.Reason)
}

func TestValidateForeignSignature(t *testing.T) {
	svc, created := newFixture(t, time.Hour)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: created.ID})
	signed, err := foreign.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), signed)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ReasonInvalid, decodeErr.Reason)
}

func TestValidateExpiredToken(t *testing.T) {
	svc, _ := newFixture(t, -time.Hour)

	signed, err := svc.Issue(context.Background(), models.Credentials{Username: "tom", Password: "ilovesnakes"})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), signed)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ReasonExpired, decodeErr.Reason)
}

func TestValidateImmatureToken(t *testing.T) {
	svc, created := newFixture(t, time.Hour)

	future := time.Now().Add(time.Hour)
	premature := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: created.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(future),
			ExpiresAt: jwt.NewNumericDate(future.Add(time.Hour)),
		},
	})
	signed, err := premature.SignedString([]byte(signingKey))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), signed)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ReasonImmature, decodeErr.Reason)
}

func TestValidateUnresolvedSubject(t *testing.T) {
	svc, _ := newFixture(t, time.Hour)

	orphan := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := orphan.SignedString([]byte(signingKey))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), signed)
	require.ErrorIs(t, err, ErrMissingUser)
}
