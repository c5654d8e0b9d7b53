// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// specialChars is the fixed set of symbols accepted by the password
// complexity policy.
const specialChars = "@$!%*?&"

// PasswordValidator validates passwords against the complexity policy.
type PasswordValidator struct {
	MinLength      int
	MaxLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// DefaultPasswordValidator returns the policy enforced at registration.
func DefaultPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		MinLength:      8,
		MaxLength:      128,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSpecial: true,
	}
}

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationError wraps all validation failures of one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0].Message
}

// Validate checks a password against the configured policy.
func (v *PasswordValidator) Validate(password string) []FieldError {
	var errs []FieldError

	if len(password) < v.MinLength || len(password) > v.MaxLength {
		errs = append(errs, FieldError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be between %d and %d characters", v.MinLength, v.MaxLength),
		})
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if v.RequireUpper && !hasUpper {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one uppercase letter"})
	}
	if v.RequireLower && !hasLower {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one lowercase letter"})
	}
	if v.RequireDigit && !hasDigit {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one digit"})
	}
	if v.RequireSpecial && !hasSpecial {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one special character (" + specialChars + ")"})
	}

	return errs
}
