// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authgate/internal/ratelimit"
)

func newRateLimitedApp(limit int) *echo.Echo {
	e := echo.New()
	g := e.Group("/api/auth", rateLimiter(ratelimit.NewStore(limit, time.Minute)))
	g.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	e := newRateLimitedApp(3)

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	e := newRateLimitedApp(3)

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t,
		`{"success":false,"message":"Too many requests, please try again later"}`,
		rec.Body.String())
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	e := newRateLimitedApp(1)

	first := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	first.Header.Set(echo.HeaderXRealIP, "198.51.100.1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	blocked := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	blocked.Header.Set(echo.HeaderXRealIP, "198.51.100.1")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, blocked)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client still has its own budget.
	other := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	other.Header.Set(echo.HeaderXRealIP, "198.51.100.2")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
