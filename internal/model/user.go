// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Post, Category, Location and Comment.
package model

import (
	"database/sql"
	"strings"
	"time"
)

// User represents a registered author.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// ProfileURL returns the canonical profile page URL for the user.
// Always built from the username string, never from the user record itself.
func (u *User) ProfileURL() string {
	return "/profile/" + u.Username
}
