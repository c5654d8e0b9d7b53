// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql"
	"time"
)

// User is a registered account. The email is stored lowercased and is
// unique across all users; PasswordHash is the bcrypt digest and never
// leaves the server.
type User struct { //nolint:govet // fieldalignment not critical for models
	ID           int64        `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	LastLogin    sql.NullTime `db:"last_login" json:"last_login"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}
