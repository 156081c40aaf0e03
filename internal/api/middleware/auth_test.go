package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewave/appointment-service/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func callerEcho(t *testing.T, captured *domain.Caller) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		require.True(t, ok)
		*captured = caller
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidHeaders(t *testing.T) {
	var captured domain.Caller
	handler := Auth(nopLogger{})(callerEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	req.Header.Set("X-User-ID", "42")
	req.Header.Set("X-User-Role", "provider")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Caller{ID: 42, Role: domain.RoleProvider}, captured)
}

func TestAuth_RejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   string
	}{
		{"no headers", "", ""},
		{"missing role", "42", ""},
		{"missing user id", "", "patient"},
		{"non-numeric user id", "abc", "patient"},
		{"zero user id", "0", "patient"},
		{"negative user id", "-5", "patient"},
		{"unknown role", "42", "superuser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(nopLogger{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			if tt.role != "" {
				req.Header.Set("X-User-Role", tt.role)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCallerFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := CallerFromContext(req.Context())
	assert.False(t, ok)
}
