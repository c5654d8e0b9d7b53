// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"codeberg.org/oliverandrich/authgate/internal/auth"
	"codeberg.org/oliverandrich/authgate/internal/models"
	"codeberg.org/oliverandrich/authgate/internal/services/token"
)

func TestUserRoundtrip(t *testing.T) {
	user := &models.User{ID: 42, Email: "a@b.com"}
	claims := &token.Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "42",
		},
	}

	ctx := auth.SetUser(context.Background(), user, claims)

	assert.Equal(t, user, auth.GetUser(ctx))
	assert.Equal(t, claims, auth.GetClaims(ctx))
	assert.True(t, auth.IsAuthenticated(ctx))
}

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, auth.GetUser(ctx))
	assert.Nil(t, auth.GetClaims(ctx))
	assert.False(t, auth.IsAuthenticated(ctx))
}
