// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth orchestrates registration and login on top of the
// repository, the password hasher and the token service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/oliverandrich/authgate/internal/models"
	"codeberg.org/oliverandrich/authgate/internal/repository"
	"codeberg.org/oliverandrich/authgate/internal/sanitize"
	"codeberg.org/oliverandrich/authgate/internal/services/password"
	"codeberg.org/oliverandrich/authgate/internal/services/token"
)

var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash is used for constant-time login to prevent timing attacks
// when the email is unknown.
var dummyHash string

func init() {
	h := password.NewHasher(0)
	dummyHash, _ = h.Hash("dummy-password-for-timing")
}

// Service implements the authentication pipeline.
type Service struct {
	repo              *repository.Repository
	hasher            *password.Hasher
	tokens            *token.Service
	passwordValidator *PasswordValidator
}

// NewService creates the authentication service.
func NewService(repo *repository.Repository, hasher *password.Hasher, tokens *token.Service) *Service {
	return &Service{
		repo:              repo,
		hasher:            hasher,
		tokens:            tokens,
		passwordValidator: DefaultPasswordValidator(),
	}
}

// PasswordValidator returns the password policy for use in handlers.
func (s *Service) PasswordValidator() *PasswordValidator {
	return s.passwordValidator
}

// Register creates a new user account. The email must be well-formed and
// unused; the password must satisfy the complexity policy.
func (s *Service) Register(ctx context.Context, email, plaintext string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var fieldErrs []FieldError
	if !sanitize.ValidEmail(email) {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	fieldErrs = append(fieldErrs, s.passwordValidator.Validate(plaintext)...)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	// Existence check is an optimization; the unique index in the store
	// is the authoritative guard against concurrent duplicates.
	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Login authenticates the credentials and issues a bearer token. Unknown
// emails and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, plaintext string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !sanitize.ValidEmail(email) || plaintext == "" {
		return "", nil, &ValidationError{Errors: []FieldError{
			{Field: "credentials", Message: "Email and password are required"},
		}}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison so the
			// response latency does not reveal whether the email exists.
			_, _ = s.hasher.Verify(plaintext, dummyHash)
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return "", nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		slog.Warn("last_login_update_failed", "user_id", user.ID, "error", err)
	}

	signed, err := s.tokens.Issue(user.ID, user.Email, 0)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", user.Email)

	return signed, user, nil
}
