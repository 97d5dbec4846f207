package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapshift/internal/auth"
	"zapshift/internal/model"
)

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	email, ok := f[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{UID: token, Email: email}, nil
}

type fakeRoles struct {
	roles map[string]model.Role
	err   error
}

func (f fakeRoles) GetRole(_ context.Context, email string) (model.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	if role, ok := f.roles[email]; ok {
		return role, nil
	}
	return model.RoleUser, nil
}

func newTestServer(roles fakeRoles) *echo.Echo {
	logger := log.New("test")
	logger.SetOutput(io.Discard)

	e := echo.New()
	verifier := fakeVerifier{"tok-admin": "admin@zap.example", "tok-user": "user@zap.example"}
	g := e.Group("", Identity(verifier))
	g.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentIdentity(c).Email)
	})
	g.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAdmin(roles, logger))
	return e
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdentity(t *testing.T) {
	e := newTestServer(fakeRoles{})

	rec := do(e, "/me", "tok-user")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@zap.example", rec.Body.String())

	for _, token := range []string{"", "forged"} {
		rec = do(e, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"unauthorized access","code":"UNAUTHORIZED"}`, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	e := newTestServer(fakeRoles{roles: map[string]model.Role{"admin@zap.example": model.RoleAdmin}})

	assert.Equal(t, http.StatusNoContent, do(e, "/admin", "tok-admin").Code)

	rec := do(e, "/admin", "tok-user")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"forbidden access","code":"FORBIDDEN"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(e, "/admin", "").Code)
}

func TestRequireAdminLookupFailure(t *testing.T) {
	e := newTestServer(fakeRoles{err: errors.New("server selection timeout")})

	assert.Equal(t, http.StatusInternalServerError, do(e, "/admin", "tok-admin").Code)
}
