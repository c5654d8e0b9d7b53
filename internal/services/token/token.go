// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues and verifies the signed bearer tokens used for
// session credentials. Tokens are self-contained HS256 JWTs; there is no
// server-side revocation, a token simply expires.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures, distinguished so callers can log them apart
// while returning a uniform 401 to the client.
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token malformed or signature invalid")
	ErrIssuer    = errors.New("token issuer mismatch")
	ErrAudience  = errors.New("token audience mismatch")
)

// Claims are the fields embedded in every issued token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim as the numeric user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return id, nil
}

// Service signs and verifies tokens with a process-wide secret that is
// loaded once at startup.
type Service struct {
	secret     []byte
	issuer     string
	audience   string
	defaultTTL time.Duration
}

// NewService creates a token Service. The secret must not be empty.
func NewService(secret, issuer, audience string, defaultTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Service{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		defaultTTL: defaultTTL,
	}, nil
}

// Issue creates a signed token for the given user. A non-positive ttl
// falls back to the service default.
func (s *Service) Issue(userID int64, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// TTL returns the default token lifetime.
func (s *Service) TTL() time.Duration {
	return s.defaultTTL
}

// Verify parses the token string and validates signature, expiry, issuer
// and audience. It returns one of the tagged sentinel errors on failure.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrIssuer
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrAudience
		default:
			return nil, ErrMalformed
		}
	}

	return claims, nil
}
