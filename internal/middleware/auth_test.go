// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authgate/internal/auth"
	"codeberg.org/oliverandrich/authgate/internal/middleware"
	"codeberg.org/oliverandrich/authgate/internal/repository"
	"codeberg.org/oliverandrich/authgate/internal/services/token"
	"codeberg.org/oliverandrich/authgate/internal/testutil"
)

const cookieName = "authToken"

func newApp(t *testing.T) (*echo.Echo, *repository.Repository, *token.Service) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	tokens := testutil.NewTokenService(t)

	e := echo.New()
	g := e.Group("/api/user", middleware.RequireToken(tokens, repo, cookieName))
	g.GET("/dashboard", func(c echo.Context) error {
		ctx := c.Request().Context()
		user := auth.GetUser(ctx)
		claims := auth.GetClaims(ctx)
		require.NotNil(t, user)
		require.NotNil(t, claims)
		require.Equal(t, user.Email, claims.Email)
		return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
	})

	return e, repo, tokens
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireToken_NoToken(t *testing.T) {
	e, _, _ := newApp(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied. No token provided.")
}

func TestRequireToken_BearerHeader(t *testing.T) {
	e, repo, tokens := newApp(t)
	user := testutil.NewTestUser(t, repo, "a@b.com", "Abc12345!")

	signed, err := tokens.Issue(user.ID, user.Email, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := do(e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.com")
}

func TestRequireToken_Cookie(t *testing.T) {
	e, repo, tokens := newApp(t)
	user := testutil.NewTestUser(t, repo, "a@b.com", "Abc12345!")

	signed, err := tokens.Issue(user.ID, user.Email, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: signed})
	rec := do(e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireToken_Expired(t *testing.T) {
	e, repo, tokens := newApp(t)
	user := testutil.NewTestUser(t, repo, "a@b.com", "Abc12345!")

	signed, err := tokens.Issue(user.ID, user.Email, time.Millisecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := do(e, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}

func TestRequireToken_Malformed(t *testing.T) {
	e, _, _ := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.token")
	rec := do(e, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestRequireToken_UserDeleted(t *testing.T) {
	e, repo, tokens := newApp(t)
	user := testutil.NewTestUser(t, repo, "a@b.com", "Abc12345!")

	signed, err := tokens.Issue(user.ID, user.Email, 0)
	require.NoError(t, err)

	// Token was issued, then the account disappeared.
	require.NoError(t, repo.DeleteUser(context.Background(), user.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := do(e, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token invalid - user not found")
}
