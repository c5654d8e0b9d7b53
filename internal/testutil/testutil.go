// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"codeberg.org/oliverandrich/authgate/internal/config"
	"codeberg.org/oliverandrich/authgate/internal/database"
	"codeberg.org/oliverandrich/authgate/internal/models"
	"codeberg.org/oliverandrich/authgate/internal/repository"
	"codeberg.org/oliverandrich/authgate/internal/services/password"
	"codeberg.org/oliverandrich/authgate/internal/services/token"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestConfig returns a development-mode configuration suitable for
// handler tests.
func NewTestConfig() *config.Config {
	return &config.Config{
		Mode: "development",
		Auth: config.AuthConfig{
			JWTSecret:  "test-signing-secret",
			TokenTTL:   time.Hour,
			Issuer:     "authgate",
			Audience:   "authgate-users",
			CookieName: "authToken",
		},
		RateLimit: config.RateLimitConfig{
			Window:      time.Minute,
			MaxRequests: 100,
			AuthWindow:  time.Minute,
			AuthMax:     10,
		},
	}
}

// NewHasher returns a hasher with the cheapest cost for fast tests.
func NewHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}

// NewTokenService creates a token service from the test configuration.
func NewTokenService(t *testing.T) *token.Service {
	t.Helper()
	cfg := NewTestConfig()
	svc, err := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	require.NoError(t, err)
	return svc
}

// NewTestUser creates a user with the given plaintext password hashed at
// minimum cost.
func NewTestUser(t *testing.T, repo *repository.Repository, email, plaintext string) *models.User {
	t.Helper()
	hash, err := NewHasher().Hash(plaintext)
	require.NoError(t, err)
	user, err := repo.CreateUser(context.Background(), email, hash)
	require.NoError(t, err)
	return user
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
