// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware contains the echo middleware making up the request
// pipeline: input sanitization and token authentication.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/authgate/internal/auth"
	"codeberg.org/oliverandrich/authgate/internal/models"
	"codeberg.org/oliverandrich/authgate/internal/repository"
	"codeberg.org/oliverandrich/authgate/internal/services/token"
)

const bearerPrefix = "Bearer "

// UserResolver loads the token subject from the credential store.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireToken authenticates a request from a bearer token. The token is
// taken from the Authorization header, falling back to the named cookie.
// On success the resolved user and claims are attached to the request
// context; every failure is a 401 with a uniform body shape while the
// server log records the exact kind.
func RequireToken(tokens *token.Service, users UserResolver, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := extractToken(c, cookieName)
			if tokenString == "" {
				slog.Warn("token_rejected", "reason", "missing", "path", c.Path())
				return unauthorized(c, "Access denied. No token provided.")
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrExpired):
					slog.Warn("token_rejected", "reason", "expired", "path", c.Path())
					return unauthorized(c, "Token expired")
				case errors.Is(err, token.ErrIssuer), errors.Is(err, token.ErrAudience):
					slog.Warn("token_rejected", "reason", "claims_mismatch", "error", err, "path", c.Path())
					return unauthorized(c, "Invalid token")
				default:
					slog.Warn("token_rejected", "reason", "malformed", "path", c.Path())
					return unauthorized(c, "Invalid token")
				}
			}

			userID, err := claims.UserID()
			if err != nil {
				slog.Warn("token_rejected", "reason", "bad_subject", "error", err)
				return unauthorized(c, "Invalid token")
			}

			user, err := users.GetUserByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// The account was deleted after the token was issued.
					slog.Warn("token_rejected", "reason", "user_not_found", "user_id", userID)
					return unauthorized(c, "Token invalid - user not found")
				}
				slog.Error("auth_middleware_error", "error", err)
				return c.JSON(http.StatusInternalServerError, map[string]any{
					"success": false,
					"message": "Internal server error",
				})
			}

			ctx := auth.SetUser(c.Request().Context(), user, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func extractToken(c echo.Context, cookieName string) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": message,
	})
}
