// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package config holds the typed application configuration and the CLI
// flag definitions it is populated from.
package config

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

var configFile = altsrc.StringSourcer("config.toml")

// ModeProduction enables the hardened settings: higher bcrypt cost,
// Secure cookies and generic error bodies.
const ModeProduction = "production"

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Mode      string // production, development
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// AuthConfig configures token issuance and the session cookie. The
// signing secret is loaded once at startup and never logged.
type AuthConfig struct { //nolint:govet // fieldalignment not critical
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	Audience   string
	CookieName string
}

// RateLimitConfig holds the two fixed-window policies: a lenient global
// one and a stricter one for the authentication endpoints.
type RateLimitConfig struct { //nolint:govet // fieldalignment not critical
	Window      time.Duration
	MaxRequests int
	AuthWindow  time.Duration
	AuthMax     int
}

type CORSConfig struct {
	FrontendOrigin string
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// BcryptCost returns the hashing cost factor for the current mode.
// Production trades latency for offline brute-force resistance.
func (c *Config) BcryptCost() int {
	if c.IsProduction() {
		return 12
	}
	return bcrypt.DefaultCost
}

// NewFromCLI builds the configuration from parsed CLI flags.
func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Auth: AuthConfig{
			JWTSecret:  cmd.String("jwt-secret"),
			TokenTTL:   cmd.Duration("token-ttl"),
			Issuer:     cmd.String("token-issuer"),
			Audience:   cmd.String("token-audience"),
			CookieName: cmd.String("cookie-name"),
		},
		RateLimit: RateLimitConfig{
			Window:      cmd.Duration("rate-limit-window"),
			MaxRequests: int(cmd.Int("rate-limit-max")),
			AuthWindow:  cmd.Duration("auth-rate-limit-window"),
			AuthMax:     int(cmd.Int("auth-rate-limit-max")),
		},
		CORS: CORSConfig{
			FrontendOrigin: cmd.String("frontend-origin"),
		},
		Mode: cmd.String("mode"),
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   5000,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/authgate.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "Secret key for signing bearer tokens (required)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET"), toml.TOML("auth.jwt_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-ttl",
			Value:   time.Hour,
			Usage:   "Lifetime of issued bearer tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_TTL"), toml.TOML("auth.token_ttl", configFile)),
		},
		&cli.StringFlag{
			Name:    "token-issuer",
			Value:   "authgate",
			Usage:   "Issuer claim embedded in tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_ISSUER"), toml.TOML("auth.issuer", configFile)),
		},
		&cli.StringFlag{
			Name:    "token-audience",
			Value:   "authgate-users",
			Usage:   "Audience claim embedded in tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_AUDIENCE"), toml.TOML("auth.audience", configFile)),
		},
		&cli.StringFlag{
			Name:    "cookie-name",
			Value:   "authToken",
			Usage:   "Name of the token cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_NAME"), toml.TOML("auth.cookie_name", configFile)),
		},
		&cli.DurationFlag{
			Name:    "rate-limit-window",
			Value:   15 * time.Minute,
			Usage:   "Window for the global rate limit",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RATE_LIMIT_WINDOW"), toml.TOML("rate_limit.window", configFile)),
		},
		&cli.IntFlag{
			Name:    "rate-limit-max",
			Value:   100,
			Usage:   "Maximum requests per client in the global window",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RATE_LIMIT_MAX"), toml.TOML("rate_limit.max", configFile)),
		},
		&cli.DurationFlag{
			Name:    "auth-rate-limit-window",
			Value:   15 * time.Minute,
			Usage:   "Window for the authentication endpoint rate limit",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AUTH_RATE_LIMIT_WINDOW"), toml.TOML("rate_limit.auth_window", configFile)),
		},
		&cli.IntFlag{
			Name:    "auth-rate-limit-max",
			Value:   10,
			Usage:   "Maximum requests per client on authentication endpoints",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AUTH_RATE_LIMIT_MAX"), toml.TOML("rate_limit.auth_max", configFile)),
		},
		&cli.StringFlag{
			Name:    "frontend-origin",
			Value:   "http://localhost:3000",
			Usage:   "Allowed CORS origin for the frontend",
			Sources: cli.NewValueSourceChain(cli.EnvVar("FRONTEND_ORIGIN"), toml.TOML("cors.frontend_origin", configFile)),
		},
		&cli.StringFlag{
			Name:    "mode",
			Value:   "development",
			Usage:   "Deployment mode (production, development)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MODE"), toml.TOML("mode", configFile)),
		},
	}
}
