package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a bearer token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the caller proven by a verified bearer token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Verifier checks a bearer token against an identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
