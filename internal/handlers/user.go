// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/authgate/internal/auth"
)

// Dashboard is a protected route; the auth middleware has already
// resolved the user into the request context.
func (h *Handlers) Dashboard(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Access denied. No token provided.",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Welcome %s!", user.Email),
	})
}
