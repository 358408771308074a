// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from user registration and secure password hashing to
session lifecycle management via JWT and server-side session tokens.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Recovery).
  - Repository: Abstracted interfaces for Postgres (Users, Sessions) and Redis (Reset tokens).
  - Security: Leverages Bcrypt hashing and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/internal/platform/middleware"
	"github.com/hikari-tv/hikari/internal/platform/sec"
	"github.com/hikari-tv/hikari/internal/platform/validate"
	"github.com/hikari-tv/hikari/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// ActivityRecorder defines the contract for best-effort activity logging.
//
// Implementations must never fail the calling flow; recording errors are
// swallowed and logged internally.
type ActivityRecorder interface {
	Record(context context.Context, userID, action string, details map[string]any, ipAddress, userAgent string)
}

// PendingWatchClearer removes a user's stashed watch intent on logout.
type PendingWatchClearer interface {
	Clear(context context.Context, userID string) error
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	sessionRepository    SessionRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	activity             ActivityRecorder
	pendingWatch         PendingWatchClearer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
	activity ActivityRecorder,
	pendingWatch PendingWatchClearer,
) *Service {
	return &Service{
		userRepository:       userRepo,
		sessionRepository:    sessionRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		activity:             activity,
		pendingWatch:         pendingWatch,
	}
}

// passwordPolicy enforces the minimum-length floor on new passwords at the
// operation itself, independent of the HTTP-layer validator.
func passwordPolicy(password string) error {
	if utf8.RuneCountInString(password) < validate.MinPasswordLength {
		return apperr.ValidationError(
			fmt.Sprintf("Password must be at least %d characters", validate.MinPasswordLength),
			apperr.FieldError{
				Field:   FieldNewPassword,
				Message: fmt.Sprintf("Minimum %d characters", validate.MinPasswordLength),
			},
		)
	}
	return nil
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	IPAddress   string
	UserAgent   string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling password hashing and
duplicate-identity detection. The pre-flight lookups give friendly messages;
the unique indexes on the account table guarantee correctness under races.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Role:         sec.RoleUser,
		IsActive:     true,
		Preferences:  map[string]any{},
		WatchHistory: []WatchHistoryRef{},
		Favorites:    []string{},
	}

	// Persist the user to the database. The repository maps unique violations
	// to apperr.Conflict, closing the pre-flight race window.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.activity.Record(context, user.ID, "register", map[string]any{
		"username": user.Username,
	}, input.IPAddress, input.UserAgent)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login      string // Can be Username or Email
	Password   string
	RememberMe bool
	UserAgent  string
	IPAddress  string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken      string
	SessionToken     string
	SessionExpiresAt time.Time
	User             *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
revokes any prior session (a user occupies exactly one session slot), and
initializes a new session sized by the remember-me choice.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	var user *User
	var err error
	// Flexible login: look up by Email or Username
	user, err = service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.BadCredential()
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.BadCredential()
	}

	// Deactivated accounts get the same generic answer as bad credentials.
	if !user.IsActive {
		return nil, apperr.BadCredential()
	}

	// Single session slot: a fresh login displaces any session the account
	// still holds, on this device or another.
	if err := service.sessionRepository.RevokeAll(context, user.ID); err != nil {
		return nil, fmt.Errorf("auth_service_session_displace_failed: %w", err)
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate the long-lived session token
	sessionToken, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_token_failed: %w", err)
	}

	// Session lifetime depends on the remember-me choice
	ttl := SessionTTL
	if input.RememberMe {
		ttl = RememberMeSessionTTL
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(ttl)
	session := &Session{
		ID:         uuidv7.New(),
		UserID:     user.ID,
		TokenHash:  sec.HashToken(sessionToken),
		RememberMe: input.RememberMe,
		UserAgent:  input.UserAgent,
		IPAddress:  input.IPAddress,
		ExpiresAt:  expiresAt,
		IsRevoked:  false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	// Stamp the successful authentication. Non-critical, so failures only log.
	now := time.Now()
	_ = service.userRepository.TouchLastLogin(context, user.ID, now)
	user.LastLoginAt = &now

	service.activity.Record(context, user.ID, "login", map[string]any{
		"remember_me": input.RememberMe,
	}, input.IPAddress, input.UserAgent)

	return &LoginSession{
		AccessToken:      accessToken,
		SessionToken:     sessionToken,
		SessionExpiresAt: expiresAt,
		User:             user,
	}, nil
}

/*
CurrentUser resolves a session token into the authenticated account.

Description: The restore path for returning clients. An invalid or expired
token answers with a 401 carrying the expiry-marker redirect so the client
lands on the entry point with the "signed out" notice.

Parameters:
  - context: context.Context
  - sessionToken: string

Returns:
  - *User: Authenticated account
  - *Session: The live session backing the token
  - err: Unauthorized (with redirect) or storage failures
*/
func (service *Service) CurrentUser(context context.Context, sessionToken string) (*User, *Session, error) {

	// Hash the session token to look it up
	tokenHash := sec.HashToken(sessionToken)

	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil, nil, apperr.UnauthorizedRedirect("Session expired or invalid", middleware.LogoutRedirect())
	}

	if session.ExpiresAt.Before(time.Now()) {
		// Expiry detected here, not by the reaper: tear the session down now.
		_ = service.sessionRepository.Revoke(context, session.ID)
		service.activity.Record(context, session.UserID, "session_expired", nil, session.IPAddress, session.UserAgent)
		return nil, nil, apperr.UnauthorizedRedirect("Session expired or invalid", middleware.LogoutRedirect())
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		// Orphaned session: the account is gone, so the session goes too.
		_ = service.sessionRepository.Revoke(context, session.ID)
		return nil, nil, apperr.UnauthorizedRedirect("Session expired or invalid", middleware.LogoutRedirect())
	}

	if !user.IsActive {
		_ = service.sessionRepository.Revoke(context, session.ID)
		return nil, nil, apperr.UnauthorizedRedirect("Account is deactivated", middleware.LogoutRedirect())
	}

	return user, session, nil
}

/*
Logout permanently revokes the user's active session.

Description: Ensures that a session token can never be used again and clears
the user's volatile pending-watch stash.

Parameters:
  - context: context.Context
  - sessionToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, sessionToken string) error {

	// Hash the session token
	tokenHash := sec.HashToken(sessionToken)

	// Find the session by token hash
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) session is already gone or invalid, we consider logout successful (idempotent operation).
	if err != nil {
		return nil
	}

	// If (err == nil) Revoke the session
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	// Volatile state does not outlive the session
	_ = service.pendingWatch.Clear(context, session.UserID)

	service.activity.Record(context, session.UserID, "logout", nil, session.IPAddress, session.UserAgent)

	return nil
}

// # Session Management

/*
RefreshSession implements the session token rotation mechanism.

Description: Verifies the existing session token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens. The
remember-me choice of the original session carries over.

Parameters:
  - context: context.Context
  - sessionToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, sessionToken, userAgent, ipAddress string) (*LoginSession, error) {

	// Hash the incoming session token to look it up
	tokenHash := sec.HashToken(sessionToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either already revoked or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired session token")
	}

	// An expired session cannot be rotated; tear it down at detection.
	if session.ExpiresAt.Before(time.Now()) {
		_ = service.sessionRepository.Revoke(context, session.ID)
		return nil, apperr.Unauthorized("Invalid or expired session token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	// Generate a fresh Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	// Generate a fresh session token for the rotation
	newSessionToken, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_secure_token_failed: %w", err)
	}

	// Persist the new session, preserving the remember-me lifetime
	ttl := SessionTTL
	if session.RememberMe {
		ttl = RememberMeSessionTTL
	}

	expiresAt := time.Now().Add(ttl)
	newSession := &Session{
		ID:         uuidv7.New(),
		UserID:     user.ID,
		TokenHash:  sec.HashToken(newSessionToken),
		RememberMe: session.RememberMe,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		ExpiresAt:  expiresAt,
		IsRevoked:  false,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:      accessToken,
		SessionToken:     newSessionToken,
		SessionExpiresAt: expiresAt,
		User:             user,
	}, nil
}

// # Profile Management

// ProfileInput holds the mutable profile fields of an account.
//
// Nil pointers mean "leave unchanged". Identity (id, email) and credential
// fields have no representation here and can never be altered through this path.
type ProfileInput struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	Preferences map[string]any
}

/*
UpdateProfile applies a partial update to the user's profile.

Description: Merges the provided fields into the stored account. Preferences
merge key-wise rather than replacing the whole object.

Parameters:
  - context: context.Context
  - userID: string
  - input: ProfileInput

Returns:
  - *User: Updated entity
  - err: NotFound or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input ProfileInput) (*User, error) {

	// Fetch the current account state
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply only the provided fields
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Preferences != nil {
		if user.Preferences == nil {
			user.Preferences = map[string]any{}
		}
		for key, value := range input.Preferences {
			user.Preferences[key] = value
		}
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_update_profile_failed: %w", err)
	}

	return user, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Discovery token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and revokes all active sessions for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	if err := passwordPolicy(newPassword); err != nil {
		return err
	}

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: Revoke EVERY active session for this user
	_ = service.sessionRepository.RevokeAll(context, userID)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	service.activity.Record(context, userID, "password_reset", nil, "", "")

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password and then rotates all OTHER sessions
to ensure high security across devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentSessionToken: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentSessionToken string) error {

	// Policy floor enforced at the operation, not just the HTTP validator
	if err := passwordPolicy(newPassword); err != nil {
		return err
	}

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all other sessions to force re-login on other devices
	tokenHash := sec.HashToken(currentSessionToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = service.sessionRepository.RevokeOthers(context, userID, session.ID)
	}

	service.activity.Record(context, userID, "password_change", nil, "", "")

	return nil
}
