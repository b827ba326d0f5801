// ABOUTME: Tests for the GoTrue auth client
// ABOUTME: Verifies the password grant exchange and token-to-profile resolution

package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SignInWithPassword(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-test-key", r.Header.Get("Authorization"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ana@example.com", creds["email"])
		assert.Equal(t, "hunter2", creds["password"])

		io.WriteString(w, `{
			"access_token": "session-token-abc",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": "user-1", "email": "ana@example.com", "created_at": "2024-01-01T00:00:00Z"}
		}`)
	}))

	sess, err := client.SignInWithPassword(context.Background(), "ana@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "session-token-abc", sess.AccessToken)
	assert.Equal(t, "bearer", sess.TokenType)
	assert.Equal(t, 3600, sess.ExpiresIn)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "ana@example.com", sess.Email)
}

func TestClient_SignInWithPassword_BadCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`)
	}))

	_, err := client.SignInWithPassword(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "invalid_credentials", reqErr.Code)
	assert.Equal(t, "Invalid login credentials", reqErr.Message)
	assert.False(t, reqErr.Recoverable())
}

func TestClient_SignInWithPassword_EmptySession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))

	_, err := client.SignInWithPassword(context.Background(), "ana@example.com", "hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable session")
}

func TestClient_GetUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer session-token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-test-key", r.Header.Get("apikey"))

		io.WriteString(w, `{
			"id": "user-1",
			"email": "ana@example.com",
			"created_at": "2024-01-01T00:00:00Z",
			"email_confirmed_at": "2024-01-02T00:00:00Z"
		}`)
	}))

	profile, err := client.GetUser(context.Background(), "session-token-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "2024-01-01T00:00:00Z", profile.CreatedAt)
	assert.Equal(t, "2024-01-02T00:00:00Z", profile.EmailConfirmedAt)
}

func TestClient_GetUser_InvalidToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":401,"error_code":"bad_jwt","msg":"invalid JWT: token is expired"}`)
	}))

	_, err := client.GetUser(context.Background(), "stale-token")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	assert.Equal(t, "bad_jwt", reqErr.Code)
}
