// Package middleware holds the request gates placed in front of protected routes.
package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"zapshift/internal/auth"
	apperrors "zapshift/internal/errors"
	"zapshift/internal/model"
	"zapshift/internal/service"
)

const identityKey = "identity"

// Identity verifies the bearer token with verifier and stores the caller
// in the request context. Missing or rejected tokens end the request with 401.
func Identity(verifier auth.Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			identity, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			if identity.Email == "" {
				return nil, auth.ErrInvalidToken
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: apperrors.ErrUnauthorized.Error(),
				Code:    "UNAUTHORIZED",
			})
		},
	})
}

// CurrentIdentity returns the verified caller, or nil outside Identity.
func CurrentIdentity(c echo.Context) *auth.Identity {
	identity, _ := c.Get(identityKey).(*auth.Identity)
	return identity
}

// RequireAdmin lets the request through only when the verified caller
// holds the admin role. It must run after Identity.
func RequireAdmin(roles service.RoleLookup, logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := CurrentIdentity(c)
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Message: apperrors.ErrUnauthorized.Error(),
					Code:    "UNAUTHORIZED",
				})
			}
			role, err := roles.GetRole(c.Request().Context(), identity.Email)
			if err != nil {
				logger.Errorj(log.JSON{"msg": "role lookup failed", "email": identity.Email, "error": err.Error()})
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Message: apperrors.ErrForbidden.Error(),
					Code:    "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
