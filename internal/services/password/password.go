// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package password wraps bcrypt hashing behind a small, cost-configurable
// hasher. Salts are generated per password inside bcrypt; the digest
// encodes algorithm, cost and salt, so verification needs no side lookup.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash is returned by Verify when the stored digest cannot
// be decoded at all. A plain mismatch is not an error.
var ErrMalformedHash = errors.New("malformed password hash")

// Hasher hashes and verifies passwords with a fixed cost factor.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs outside bcrypt's supported range are
// clamped to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the configured cost factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash derives a salted digest from the plaintext password.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest. The comparison
// is constant-time. A mismatch returns (false, nil); only an undecodable
// digest yields ErrMalformedHash.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
