package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "wrapped not found", err: fmt.Errorf("load parcel: %w", ErrParcelNotFound), wantStatus: http.StatusNotFound, wantCode: "PARCEL_NOT_FOUND"},
		{name: "owner", err: ErrOwnerProtected, wantStatus: http.StatusForbidden, wantCode: "OWNER_PROTECTED"},
		{name: "forbidden", err: ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "unauthorized", err: ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "validation", err: Invalid("region and district are required"), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "unknown", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestInvalidKeepsReason(t *testing.T) {
	err := Invalid("riderEmail is required when role=%s", "rider")

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "invalid input: riderEmail is required when role=rider", MapErrorToHTTP(err).Message)
}

func TestUnknownErrorsDoNotLeakDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:27017: i/o timeout"))

	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Message)
}
