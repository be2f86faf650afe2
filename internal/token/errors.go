package token

import (
	dErrors "userhub/pkg/domain-errors"
)

// Reason classifies why a presented token failed to decode. The four kinds
// stay distinguishable all the way to the caller.
type Reason string

const (
	ReasonExpired   Reason = "expired"
	ReasonImmature  Reason = "immature"
	ReasonMalformed Reason = "malformed"
	ReasonInvalid   Reason = "invalid"
)

var reasonMessages = map[Reason]string{
	ReasonExpired:   "expired JWT token",
	ReasonImmature:  "immature JWT token",
	ReasonMalformed: "error decoding JWT token",
	ReasonInvalid:   "invalid JWT token",
}

// DecodeError reports a token that failed signature verification or claim
// validation, carrying the required sub-reason.
type DecodeError struct {
	Reason Reason
	cause  error
}

func newDecodeError(reason Reason, cause error) *DecodeError {
	return &DecodeError{Reason: reason, cause: cause}
}

func (e *DecodeError) Error() string {
	return reasonMessages[e.Reason]
}

func (e *DecodeError) Unwrap() error { return e.cause }

var (
	// ErrMissingUser signals a token or credential referencing an identity
	// that does not resolve.
	ErrMissingUser = dErrors.New(dErrors.CodeNotFound, "missing user")

	// ErrInvalidCredentials signals a password that does not match the
	// stored hash.
	ErrInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
)
