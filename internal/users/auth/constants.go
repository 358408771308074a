// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// SessionTTL is the default lifetime of a session token.
	SessionTTL = 24 * time.Hour

	// RememberMeSessionTTL is the extended session lifetime for users who
	// ticked "remember me" at login.
	RememberMeSessionTTL = 30 * 24 * time.Hour

	// SessionTokenLength is the byte length of the random secure session token.
	SessionTokenLength = 32

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// ExpiryCheckInterval is how often the session reaper scans for and
	// removes expired sessions.
	ExpiryCheckInterval = 1 * time.Minute
)
