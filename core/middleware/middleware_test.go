package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetgrid/core/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrganizerRoute(t *testing.T, tokens *utils.TokenManager) *echo.Echo {
	t.Helper()
	e := echo.New()
	mw := NewMiddleware(tokens, nil)
	e.PUT("/events/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, mw.OrganizerMiddleware())
	return e
}

func TestOrganizerMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	token, _, err := tokens.IssueOrganizerToken("evtAAAAAAA")
	require.NoError(t, err)
	e := newOrganizerRoute(t, tokens)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid", "/events/evtAAAAAAA", "Bearer " + token, http.StatusNoContent},
		{"missing header", "/events/evtAAAAAAA", "", http.StatusUnauthorized},
		{"wrong scheme", "/events/evtAAAAAAA", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "/events/evtAAAAAAA", "Bearer nope", http.StatusUnauthorized},
		{"other event", "/events/evtBBBBBBB", "Bearer " + token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(1, 2)
	now := time.Date(2026, 1, 25, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	assert.Equal(t, 2, rl.Cleanup())
}

func TestAdminMiddleware(t *testing.T) {
	handler := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	open := echo.New()
	open.GET("/admin", handler, NewMiddleware(nil, nil).AdminMiddleware())
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	guarded := echo.New()
	guarded.GET("/admin", handler, NewMiddleware(nil, nil).WithAdminToken("s3cret").AdminMiddleware())

	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(HeaderAdminToken, "s3cret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
