// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/hikari-tv/hikari/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Hikari platform.
type User struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string         `json:"display_name"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	Bio          string         `json:"bio,omitempty"`
	Role         sec.UserRole   `json:"role"`
	IsActive     bool           `json:"is_active"`
	Preferences  map[string]any    `json:"preferences"`
	WatchHistory []WatchHistoryRef `json:"watch_history"` // Denormalized progress entries, most recent last.
	Favorites    []string          `json:"favorites"`     // Denormalized anime IDs.
	LastLoginAt  *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// WatchHistoryRef is one progress entry embedded on the account, keyed by
// (anime, episode). The library layer rewrites it in the same transaction
// as the normalized watch-history row, so the two can never disagree.
type WatchHistoryRef struct {
	AnimeID   string    `json:"anime_id"`
	Episode   int       `json:"episode"`
	Progress  float64   `json:"progress"`
	Duration  int       `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents an active server-side session bound to one device.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TokenHash  string    `json:"-"` // Hashed value of the session token. Omitted for security.
	RememberMe bool      `json:"remember_me"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsRevoked  bool      `json:"is_revoked"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldRememberMe      = "remember_me"
	FieldResetToken      = "reset_token"
)
