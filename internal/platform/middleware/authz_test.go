// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikari-tv/hikari/internal/platform/ctxutil"
	"github.com/hikari-tv/hikari/internal/platform/middleware"
	"github.com/hikari-tv/hikari/internal/platform/respond"
	"github.com/hikari-tv/hikari/internal/platform/sec"
)

// fakeVerifier resolves a fixed token to fixed claims.
type fakeVerifier struct {
	token  string
	claims *sec.AuthClaims
}

func (v fakeVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr == v.token {
		return v.claims, nil
	}
	return nil, errors.New("invalid token")
}

// echoClaims is a terminal handler that reports the authenticated user.
func echoClaims(t *testing.T, captured **sec.AuthClaims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestAuthenticate verifies header parsing and claims injection.
*/
func TestAuthenticate(t *testing.T) {
	verifier := fakeVerifier{
		token:  "good-token",
		claims: &sec.AuthClaims{UserID: "user-1", Username: "aoi", Role: "user"},
	}

	t.Run("valid_bearer", func(t *testing.T) {
		var captured *sec.AuthClaims
		handler := middleware.Authenticate(verifier)(echoClaims(t, &captured))

		request := httptest.NewRequest("GET", "/api/v1/anime", nil)
		request.Header.Set("Authorization", "Bearer good-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "user-1", captured.UserID)
	})

	t.Run("no_header_is_anonymous", func(t *testing.T) {
		var captured *sec.AuthClaims
		handler := middleware.Authenticate(verifier)(echoClaims(t, &captured))

		request := httptest.NewRequest("GET", "/api/v1/anime", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		// Anonymous requests pass through without claims.
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Nil(t, captured)
	})

	t.Run("malformed_header", func(t *testing.T) {
		var captured *sec.AuthClaims
		handler := middleware.Authenticate(verifier)(echoClaims(t, &captured))

		request := httptest.NewRequest("GET", "/api/v1/anime", nil)
		request.Header.Set("Authorization", "Token abc")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid_token", func(t *testing.T) {
		var captured *sec.AuthClaims
		handler := middleware.Authenticate(verifier)(echoClaims(t, &captured))

		request := httptest.NewRequest("GET", "/api/v1/anime", nil)
		request.Header.Set("Authorization", "Bearer forged")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Nil(t, captured)
	})
}

/*
TestRequireAuth verifies the gated-destination redirect contract.
*/
func TestRequireAuth(t *testing.T) {
	terminal := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous_gets_redirect", func(t *testing.T) {
		handler := middleware.RequireAuth(terminal)

		request := httptest.NewRequest("GET", "/api/v1/library/history?limit=10", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		envelope := decodeError(t, recorder)
		assert.Equal(t, "UNAUTHORIZED", envelope.Code)

		// The redirect echoes the url-escaped destination, query included.
		assert.Equal(t, "/login?redirect=%2Fapi%2Fv1%2Flibrary%2Fhistory%3Flimit%3D10", envelope.Redirect)
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		handler := middleware.RequireAuth(terminal)

		request := httptest.NewRequest("GET", "/api/v1/library/history", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-1", Role: "user"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestRequireRole verifies the role gate, including the implied auth check.
*/
func TestRequireRole(t *testing.T) {
	terminal := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireRole(sec.RoleAdmin)(terminal)

	t.Run("admin_passes", func(t *testing.T) {
		request := httptest.NewRequest("POST", "/api/v1/anime", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "admin-1", Role: "admin"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("user_forbidden", func(t *testing.T) {
		request := httptest.NewRequest("POST", "/api/v1/anime", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-1", Role: "user"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, "FORBIDDEN", decodeError(t, recorder).Code)
	})

	t.Run("anonymous_unauthorized", func(t *testing.T) {
		request := httptest.NewRequest("POST", "/api/v1/anime", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

/*
TestRedirectBuilders verifies the two entry-point target builders.
*/
func TestRedirectBuilders(t *testing.T) {
	assert.Equal(t, "/login?redirect=%2Fwatch%2Fabc", middleware.LoginRedirect("/watch/abc"))
	assert.Equal(t, "/login?logout=true", middleware.LogoutRedirect())
}
