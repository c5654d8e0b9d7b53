// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler returns the final error boundary. Unknown routes get
// the JSON 404 shape; everything else is logged and collapsed to a
// generic 500, with the underlying detail exposed only outside
// production.
func HTTPErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.Code {
			case http.StatusNotFound:
				_ = c.JSON(http.StatusNotFound, map[string]string{
					"message": "Route not found",
				})
			case http.StatusMethodNotAllowed:
				_ = c.JSON(http.StatusMethodNotAllowed, map[string]string{
					"message": "Route not found",
				})
			default:
				_ = c.JSON(httpErr.Code, map[string]any{
					"message": http.StatusText(httpErr.Code),
				})
			}
			return
		}

		slog.Error("unhandled_error", "error", err, "path", c.Request().URL.Path)

		body := map[string]any{"message": "Something went wrong!"}
		if !production {
			body["error"] = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, body)
	}
}
