package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapshift/internal/auth"
	"zapshift/internal/config"
)

func TestDevTokenVerifies(t *testing.T) {
	t.Setenv("JWT_SECRET", "devtoken-test")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--email", "Rider@Zap.example", "--ttl", "5m"})

	require.NoError(t, cmd.Execute())

	identity, err := auth.NewJWTService("devtoken-test").Verify(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "rider@zap.example", identity.Email)
}

func TestDevTokenRequiresEmail(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)

	assert.Error(t, cmd.Execute())
}

func TestDevTokenRefusesDefaultSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--email", "rider@zap.example"})

	assert.ErrorIs(t, cmd.Execute(), config.ErrDefaultJWTSecret)
}
