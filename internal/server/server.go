// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server assembles the HTTP service and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"codeberg.org/oliverandrich/authgate/internal/config"
	"codeberg.org/oliverandrich/authgate/internal/database"
	"codeberg.org/oliverandrich/authgate/internal/handlers"
	"codeberg.org/oliverandrich/authgate/internal/middleware"
	"codeberg.org/oliverandrich/authgate/internal/ratelimit"
	"codeberg.org/oliverandrich/authgate/internal/repository"
	authsvc "codeberg.org/oliverandrich/authgate/internal/services/auth"
	"codeberg.org/oliverandrich/authgate/internal/services/password"
	"codeberg.org/oliverandrich/authgate/internal/services/token"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Mode,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// Repository and services
	repo := repository.New(db)
	hasher := password.NewHasher(cfg.BcryptCost())
	tokens, err := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	authService := authsvc.NewService(repo, hasher, tokens)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(cfg.IsProduction())

	setupMiddleware(e, cfg)
	setupRoutes(e, cfg, repo, tokens, authService)

	return startWithGracefulShutdown(ctx, e, cfg)
}

func setupRoutes(e *echo.Echo, cfg *config.Config, repo *repository.Repository, tokens *token.Service, authService *authsvc.Service) {
	h := handlers.New(repo)
	authHandlers := handlers.NewAuth(authService, cfg)

	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	api := e.Group("/api")

	// Authentication endpoints get the stricter rate limit to blunt
	// credential stuffing and brute force.
	authRoutes := api.Group("/auth",
		rateLimiter(ratelimit.NewStore(cfg.RateLimit.AuthMax, cfg.RateLimit.AuthWindow)))
	authRoutes.POST("/register", authHandlers.Register)
	authRoutes.POST("/login", authHandlers.Login)
	authRoutes.POST("/logout", authHandlers.Logout)

	userRoutes := api.Group("/user",
		middleware.RequireToken(tokens, repo, cfg.Auth.CookieName))
	userRoutes.GET("/dashboard", h.Dashboard)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
		return err
	}

	slog.Info("server stopped")
	return nil
}
