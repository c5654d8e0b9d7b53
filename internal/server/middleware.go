// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"codeberg.org/oliverandrich/authgate/internal/config"
	"codeberg.org/oliverandrich/authgate/internal/middleware"
	"codeberg.org/oliverandrich/authgate/internal/ratelimit"
)

// setupMiddleware wires the global pipeline. Order matters: sanitize
// first, then the lenient global rate limit; the stricter auth-route
// limit is attached per route group.
func setupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(corsMiddleware(cfg))
	e.Use(middleware.SanitizeBody())
	e.Use(rateLimiter(ratelimit.NewStore(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)))
}

// corsMiddleware allows the configured frontend origin with credentials,
// so the token cookie survives cross-origin requests.
func corsMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORS.FrontendOrigin},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	})
}

// rateLimiter adapts a fixed-window store into echo's limiter middleware
// with the 429 body shape of this API.
func rateLimiter(store *ratelimit.Store) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			retryAfter := store.RetryAfter(identifier)
			c.Response().Header().Set("Retry-After",
				strconv.FormatInt(int64(retryAfter.Seconds()), 10))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		},
	})
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			} else {
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}
