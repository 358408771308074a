// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/internal/platform/sec"
	"github.com/hikari-tv/hikari/internal/users/auth"
	"github.com/hikari-tv/hikari/pkg/pointer"
)

// # In-Memory Fakes

// fakeUserRepository mimics the Postgres user store, including the
// case-insensitive identity lookups backed by the lower() indexes.
type fakeUserRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Username, username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) || strings.EqualFold(existing.Username, user.Username) {
			return apperr.Conflict("Resource already exists")
		}
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *fakeUserRepository) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLoginAt = &at
	return nil
}

func (repo *fakeUserRepository) Count(_ context.Context) (int, error) {
	return len(repo.users), nil
}

// fakeSessionRepository mimics the Postgres session store. FindByTokenHash
// applies the same filter as the real query: revoked rows never match, while
// expired rows still surface so the service can tear them down at detection.
type fakeSessionRepository struct {
	sessions map[string]*auth.Session // keyed by ID
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (repo *fakeSessionRepository) Create(_ context.Context, session *auth.Session) error {
	copied := *session
	repo.sessions[session.ID] = &copied
	return nil
}

func (repo *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range repo.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked {
			copied := *session
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	session, ok := repo.sessions[sessionID]
	if !ok {
		return apperr.NotFound("Session")
	}
	session.IsRevoked = true
	return nil
}

func (repo *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepository) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepository) DeleteExpired(_ context.Context) ([]string, error) {
	var userIDs []string
	for id, session := range repo.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			userIDs = append(userIDs, session.UserID)
			delete(repo.sessions, id)
		}
	}
	return userIDs, nil
}

// activeCount reports live sessions for a user, mirroring the liveness filter.
func (repo *fakeSessionRepository) activeCount(userID string) int {
	count := 0
	for _, session := range repo.sessions {
		if session.UserID == userID && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			count++
		}
	}
	return count
}

// fakeResetTokenRepository is an in-memory stand-in for the Redis token store.
type fakeResetTokenRepository struct {
	tokens map[string]string // token -> userID
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: map[string]string{}}
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.tokens[token] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	if userID, ok := repo.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repo.tokens, token)
	return nil
}

// fakeTokenProvider issues predictable access tokens.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access-token-" + userID, nil
}

// fakeActivityRecorder captures recorded actions for assertions.
type fakeActivityRecorder struct {
	actions []string
}

func (recorder *fakeActivityRecorder) Record(_ context.Context, _, action string, _ map[string]any, _, _ string) {
	recorder.actions = append(recorder.actions, action)
}

// fakePendingWatchClearer tracks which users had their stash cleared.
type fakePendingWatchClearer struct {
	cleared []string
}

func (clearer *fakePendingWatchClearer) Clear(_ context.Context, userID string) error {
	clearer.cleared = append(clearer.cleared, userID)
	return nil
}

// # Test Harness

type authFixture struct {
	service      *auth.Service
	users        *fakeUserRepository
	sessions     *fakeSessionRepository
	resetTokens  *fakeResetTokenRepository
	activity     *fakeActivityRecorder
	pendingWatch *fakePendingWatchClearer
}

func newAuthFixture() *authFixture {
	fixture := &authFixture{
		users:        newFakeUserRepository(),
		sessions:     newFakeSessionRepository(),
		resetTokens:  newFakeResetTokenRepository(),
		activity:     &fakeActivityRecorder{},
		pendingWatch: &fakePendingWatchClearer{},
	}
	fixture.service = auth.NewService(
		fixture.users,
		fixture.sessions,
		fixture.resetTokens,
		fakeTokenProvider{},
		fixture.activity,
		fixture.pendingWatch,
	)
	return fixture
}

// register creates an account through the real registration flow so that the
// stored password hash is a genuine bcrypt digest.
func (fixture *authFixture) register(t *testing.T, username, email, password string) *auth.User {
	t.Helper()
	user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register verifies enrollment defaults and hashing.
*/
func TestService_Register(t *testing.T) {
	fixture := newAuthFixture()

	user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: "aoi",
		Email:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	// Display name falls back to the username when omitted.
	assert.Equal(t, "aoi", user.DisplayName)

	// Plain-text password is never stored.
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("password123", user.PasswordHash))

	assert.Contains(t, fixture.activity.actions, "register")
}

/*
TestService_Register_DuplicateIdentity verifies conflict detection for both
identity fields, case-insensitively.
*/
func TestService_Register_DuplicateIdentity(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: "someone",
		Email:    "AOI@hikari.tv",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CONFLICT"))

	_, err = fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: "Aoi",
		Email:    "other@hikari.tv",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
}

// # Login

/*
TestService_Login verifies the happy path by both email and username.
*/
func TestService_Login(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	// By email
	session, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token-"+registered.ID, session.AccessToken)
	assert.NotEmpty(t, session.SessionToken)
	assert.NotNil(t, session.User.LastLoginAt)

	// By username
	session, err = fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, session.User.ID)

	assert.Contains(t, fixture.activity.actions, "login")
}

/*
TestService_Login_BadCredentials verifies that unknown identity, wrong
password, and deactivated accounts all answer with the same generic message.
*/
func TestService_Login_BadCredentials(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	cases := []struct {
		name  string
		setup func()
		input auth.LoginInput
	}{
		{
			name:  "unknown_identity",
			setup: func() {},
			input: auth.LoginInput{Login: "ghost@hikari.tv", Password: "password123"},
		},
		{
			name:  "wrong_password",
			setup: func() {},
			input: auth.LoginInput{Login: "aoi@hikari.tv", Password: "nope nope"},
		},
		{
			name: "deactivated_account",
			setup: func() {
				fixture.users.users[registered.ID].IsActive = false
			},
			input: auth.LoginInput{Login: "aoi@hikari.tv", Password: "password123"},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			session, err := fixture.service.Login(context.Background(), tt.input)
			assert.Nil(t, session)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

/*
TestService_Login_SingleSessionSlot verifies that a fresh login displaces
the previous session.
*/
func TestService_Login_SingleSessionSlot(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	first, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	// Exactly one live session remains.
	assert.Equal(t, 1, fixture.sessions.activeCount(registered.ID))

	// The first token no longer resolves.
	_, _, err = fixture.service.CurrentUser(context.Background(), first.SessionToken)
	assert.Error(t, err)
}

/*
TestService_Login_RememberMe verifies the session lifetime choice.
*/
func TestService_Login_RememberMe(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	short, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	long, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:      "aoi@hikari.tv",
		Password:   "password123",
		RememberMe: true,
	})
	require.NoError(t, err)

	// 24h vs 30d, generously bracketed to avoid clock sensitivity.
	assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), short.SessionExpiresAt, time.Minute)
	assert.WithinDuration(t, time.Now().Add(auth.RememberMeSessionTTL), long.SessionExpiresAt, time.Minute)
}

// # Session Restore

/*
TestService_CurrentUser verifies token resolution and the expiry redirect.
*/
func TestService_CurrentUser(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	user, session, err := fixture.service.CurrentUser(context.Background(), login.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, registered.ID, session.UserID)

	// Unknown token answers 401 with the signed-out redirect marker.
	_, _, err = fixture.service.CurrentUser(context.Background(), "bogus-token")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, "/login?logout=true", ae.Redirect)
}

/*
TestService_CurrentUser_DeactivatedAccount verifies the session is revoked
when the backing account has been disabled.
*/
func TestService_CurrentUser_DeactivatedAccount(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	fixture.users.users[registered.ID].IsActive = false

	_, _, err = fixture.service.CurrentUser(context.Background(), login.SessionToken)
	require.Error(t, err)
	assert.Equal(t, 0, fixture.sessions.activeCount(registered.ID))
}

/*
TestService_CurrentUser_ExpiredSession verifies that expiry detected at the
check tears the session down immediately instead of leaving the row for the
reaper's next sweep.
*/
func TestService_CurrentUser_ExpiredSession(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	// 1. Force the stored session past its expiry
	for _, session := range fixture.sessions.sessions {
		session.ExpiresAt = time.Now().Add(-1 * time.Hour)
	}

	// 2. The check fails with the signed-out redirect marker
	_, _, err = fixture.service.CurrentUser(context.Background(), login.SessionToken)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, "/login?logout=true", ae.Redirect)

	// 3. The expired row is revoked at detection and the teardown is logged
	for _, session := range fixture.sessions.sessions {
		assert.True(t, session.IsRevoked)
	}
	assert.Equal(t, 0, fixture.sessions.activeCount(registered.ID))
	assert.Contains(t, fixture.activity.actions, "session_expired")
}

/*
TestService_RefreshSession_Expired verifies an expired session cannot be
rotated and is torn down when the refresh detects the expiry.
*/
func TestService_RefreshSession_Expired(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	for _, session := range fixture.sessions.sessions {
		session.ExpiresAt = time.Now().Add(-1 * time.Minute)
	}

	_, err = fixture.service.RefreshSession(context.Background(), login.SessionToken, "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
	assert.Equal(t, 0, fixture.sessions.activeCount(registered.ID))

	for _, session := range fixture.sessions.sessions {
		assert.True(t, session.IsRevoked)
	}
}

// # Logout

/*
TestService_Logout verifies revocation, stash cleanup, and idempotency.
*/
func TestService_Logout(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), login.SessionToken))
	assert.Equal(t, 0, fixture.sessions.activeCount(registered.ID))
	assert.Contains(t, fixture.pendingWatch.cleared, registered.ID)
	assert.Contains(t, fixture.activity.actions, "logout")

	// Logging out twice (or with garbage) is not an error.
	assert.NoError(t, fixture.service.Logout(context.Background(), login.SessionToken))
	assert.NoError(t, fixture.service.Logout(context.Background(), "bogus-token"))
}

// # Refresh

/*
TestService_RefreshSession verifies token rotation and replay prevention.
*/
func TestService_RefreshSession(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:      "aoi@hikari.tv",
		Password:   "password123",
		RememberMe: true,
	})
	require.NoError(t, err)

	rotated, err := fixture.service.RefreshSession(context.Background(), login.SessionToken, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, login.SessionToken, rotated.SessionToken)
	assert.Equal(t, registered.ID, rotated.User.ID)

	// The remember-me lifetime carries over through rotation.
	assert.WithinDuration(t, time.Now().Add(auth.RememberMeSessionTTL), rotated.SessionExpiresAt, time.Minute)

	// The old token is dead after rotation.
	_, err = fixture.service.RefreshSession(context.Background(), login.SessionToken, "ua", "127.0.0.1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
}

// # Profile

/*
TestService_UpdateProfile verifies partial updates and preference merging.
*/
func TestService_UpdateProfile(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	// Seed a preference that must survive a partial merge.
	_, err := fixture.service.UpdateProfile(context.Background(), registered.ID, auth.ProfileInput{
		Preferences: map[string]any{"language": "id", "autoplay": true},
	})
	require.NoError(t, err)

	updated, err := fixture.service.UpdateProfile(context.Background(), registered.ID, auth.ProfileInput{
		DisplayName: pointer.To("Aoi Midori"),
		Preferences: map[string]any{"quality": "1080p"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Aoi Midori", updated.DisplayName)

	// Key-wise merge: old keys remain, new key lands.
	assert.Equal(t, "id", updated.Preferences["language"])
	assert.Equal(t, true, updated.Preferences["autoplay"])
	assert.Equal(t, "1080p", updated.Preferences["quality"])

	// Untouched fields stay as they were.
	assert.Equal(t, registered.Email, updated.Email)

	_, err = fixture.service.UpdateProfile(context.Background(), "missing-id", auth.ProfileInput{})
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

// # Password Recovery

/*
TestService_PasswordReset verifies the full two-phase recovery flow.
*/
func TestService_PasswordReset(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	token, err := fixture.service.RequestPasswordReset(context.Background(), "aoi@hikari.tv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, fixture.service.ResetPassword(context.Background(), token, "new-password-9"))

	// The new password works; the old one does not; all sessions are gone.
	_, err = fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "new-password-9",
	})
	assert.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	assert.Error(t, err)

	_, _, err = fixture.service.CurrentUser(context.Background(), login.SessionToken)
	assert.Error(t, err)

	// Tokens are single-use.
	err = fixture.service.ResetPassword(context.Background(), token, "another-pass-9")
	assert.Error(t, err)

	assert.Contains(t, fixture.activity.actions, "password_reset")
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the anti-enumeration
behavior: no token, no error.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	fixture := newAuthFixture()

	token, err := fixture.service.RequestPasswordReset(context.Background(), "ghost@hikari.tv")
	assert.NoError(t, err)
	assert.Empty(t, token)
}

/*
TestService_ChangePassword verifies the authenticated credential rotation.
*/
func TestService_ChangePassword(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	// Wrong current password is rejected.
	err = fixture.service.ChangePassword(context.Background(), registered.ID, "wrong", "new-password-9", login.SessionToken)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))

	// Correct current password rotates the credential and keeps this session.
	err = fixture.service.ChangePassword(context.Background(), registered.ID, "password123", "new-password-9", login.SessionToken)
	require.NoError(t, err)

	_, _, err = fixture.service.CurrentUser(context.Background(), login.SessionToken)
	assert.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "new-password-9",
	})
	assert.NoError(t, err)

	assert.Contains(t, fixture.activity.actions, "password_change")
}

/*
TestService_ChangePassword_PolicyFloor verifies the minimum-length policy is
enforced by the operation itself, not only by the HTTP validator.
*/
func TestService_ChangePassword_PolicyFloor(t *testing.T) {
	fixture := newAuthFixture()
	registered := fixture.register(t, "aoi", "aoi@hikari.tv", "password123")

	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	require.NoError(t, err)

	err = fixture.service.ChangePassword(context.Background(), registered.ID, "password123", "short", login.SessionToken)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	// The credential is untouched.
	_, err = fixture.service.Login(context.Background(), auth.LoginInput{
		Login:    "aoi@hikari.tv",
		Password: "password123",
	})
	assert.NoError(t, err)

	// The reset flow carries the same floor.
	token, err := fixture.service.RequestPasswordReset(context.Background(), "aoi@hikari.tv")
	require.NoError(t, err)
	err = fixture.service.ResetPassword(context.Background(), token, "short")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}
