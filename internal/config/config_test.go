// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

// load runs the CLI with the given args and captures the resulting
// configuration.
func load(t *testing.T, args ...string) *Config {
	t.Helper()
	var cfg *Config
	cmd := &cli.Command{
		Flags: Flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg = NewFromCLI(c)
			return nil
		},
	}
	err := cmd.Run(context.Background(), append([]string{"authgate"}, args...))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := load(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "authgate", cfg.Auth.Issuer)
	assert.Equal(t, "authgate-users", cfg.Auth.Audience)
	assert.Equal(t, "authToken", cfg.Auth.CookieName)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 10, cfg.RateLimit.AuthMax)
	assert.Equal(t, "http://localhost:3000", cfg.CORS.FrontendOrigin)
	assert.Equal(t, "development", cfg.Mode)
}

func TestFlagsOverride(t *testing.T) {
	cfg := load(t,
		"--port", "8081",
		"--jwt-secret", "s3cret",
		"--token-ttl", "30m",
		"--mode", "production",
	)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.IsProduction())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")

	cfg := load(t)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestBcryptCost(t *testing.T) {
	production := &Config{Mode: ModeProduction}
	development := &Config{Mode: "development"}

	// Production pays more per hash to resist offline brute force.
	assert.Equal(t, 12, production.BcryptCost())
	assert.Equal(t, bcrypt.DefaultCost, development.BcryptCost())
	assert.Greater(t, production.BcryptCost(), development.BcryptCost())
}
