// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/authgate/internal/config"
	authsvc "codeberg.org/oliverandrich/authgate/internal/services/auth"
)

// AuthHandlers contains handlers for registration, login and logout.
type AuthHandlers struct {
	service *authsvc.Service
	cfg     *config.Config
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(service *authsvc.Service, cfg *config.Config) *AuthHandlers {
	return &AuthHandlers{service: service, cfg: cfg}
}

// credentialsRequest is the request body for register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body",
		})
	}

	_, err := h.service.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		var validationErr *authsvc.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return c.JSON(http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  validationErr.Errors,
			})
		case errors.Is(err, authsvc.ErrUserExists):
			return c.JSON(http.StatusConflict, map[string]any{
				"success": false,
				"message": "User already exists",
			})
		default:
			slog.Error("register_error", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": "Internal server error",
			})
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
	})
}

// Login authenticates credentials and hands out a bearer token, both in
// the response body and as an HttpOnly cookie for browser clients.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body",
		})
	}

	tokenString, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		var validationErr *authsvc.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return c.JSON(http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  validationErr.Errors,
			})
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "Invalid credentials",
			})
		default:
			slog.Error("login_error", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": "Internal server error",
			})
		}
	}

	c.SetCookie(h.tokenCookie(tokenString, h.cfg.Auth.TokenTTL))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"token":   tokenString,
		"user": map[string]string{
			"email": user.Email,
		},
	})
}

// Logout clears the token cookie. There is no server-side token state,
// so this always succeeds.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.tokenCookie("", -time.Second))
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandlers) tokenCookie(value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if value == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     h.cfg.Auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	}
}
