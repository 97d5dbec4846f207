package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapshift/internal/config"
)

func TestNewVerifier(t *testing.T) {
	ctx := context.Background()

	_, err := newVerifier(ctx, &config.Config{IdentityProvider: "jwt", JWTSecret: config.DefaultJWTSecret})
	assert.ErrorIs(t, err, config.ErrDefaultJWTSecret)

	verifier, err := newVerifier(ctx, &config.Config{IdentityProvider: "jwt", JWTSecret: "private"})
	require.NoError(t, err)
	assert.NotNil(t, verifier)

	_, err = newVerifier(ctx, &config.Config{IdentityProvider: "ldap"})
	assert.Error(t, err)
}
