// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authgate/internal/services/token"
)

func newService(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService("test-signing-secret", "authgate", "authgate-users", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := token.NewService("", "authgate", "authgate-users", time.Hour)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newService(t)

	signed, err := svc.Issue(42, "a@b.com", 0)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "authgate", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	svc := newService(t)

	first, err := svc.Issue(1, "a@b.com", 0)
	require.NoError(t, err)
	second, err := svc.Issue(1, "a@b.com", 0)
	require.NoError(t, err)

	firstClaims, err := svc.Verify(first)
	require.NoError(t, err)
	secondClaims, err := svc.Verify(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestVerify_Expired(t *testing.T) {
	svc := newService(t)

	signed, err := svc.Issue(42, "a@b.com", time.Second)
	require.NoError(t, err)

	// Accepted while fresh.
	_, err = svc.Verify(signed)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestVerify_Malformed(t *testing.T) {
	svc := newService(t)

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, token.ErrMalformed)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, token.ErrMalformed)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newService(t)
	other, err := token.NewService("a-different-secret", "authgate", "authgate-users", time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue(42, "a@b.com", 0)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrMalformed)
}

func TestVerify_IssuerMismatch(t *testing.T) {
	svc := newService(t)
	other, err := token.NewService("test-signing-secret", "someone-else", "authgate-users", time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue(42, "a@b.com", 0)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrIssuer)
}

func TestVerify_AudienceMismatch(t *testing.T) {
	svc := newService(t)
	other, err := token.NewService("test-signing-secret", "authgate", "other-audience", time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue(42, "a@b.com", 0)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrAudience)
}
