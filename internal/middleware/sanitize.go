// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/authgate/internal/sanitize"
)

// SanitizeBody strips markup from every string field of a JSON object
// body before any other processing. Bodies that are not JSON objects are
// passed through untouched; malformed JSON is left for the handler's
// bind step to reject.
func SanitizeBody() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || !isJSONRequest(c) {
				return next(c)
			}

			body, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			_ = req.Body.Close()

			sanitized := sanitizeJSONObject(body)
			req.Body = io.NopCloser(bytes.NewReader(sanitized))
			req.ContentLength = int64(len(sanitized))

			return next(c)
		}
	}
}

func isJSONRequest(c echo.Context) bool {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

// sanitizeJSONObject rewrites a JSON object with its string fields
// sanitized. Anything that does not decode into an object is returned
// unchanged.
func sanitizeJSONObject(body []byte) []byte {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}

	out, err := json.Marshal(sanitize.Fields(fields))
	if err != nil {
		return body
	}
	return out
}
