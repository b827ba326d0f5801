// ABOUTME: Account pack: credential sign-in, sign-out and profile tools.
// ABOUTME: authenticate_user is the only tool that installs a session.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/luvya/luvya-gateway/internal/session"
	"github.com/luvya/luvya-gateway/internal/store"
)

// AccountPack creates the account pack with sign-in, sign-out and profile
// tools. Sessions installed by authenticate_user carry the provider's access
// token and expire when the provider says the token does.
func AccountPack(provider store.AuthProvider) *Pack {
	h := &accountHandlers{provider: provider}
	return &Pack{
		ID: "builtin:account",
		Tools: []*Tool{
			{
				Definition: &Definition{
					Name:        "authenticate_user",
					Description: "Authenticate a user with email and password and start a session",
					InputSchema: `{"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}},"required":["email","password"]}`,
				},
				Handler: h.Authenticate,
			},
			{
				Definition: &Definition{
					Name:        "logout",
					Description: "Sign out and clear the current session",
					InputSchema: `{"type":"object","properties":{}}`,
				},
				Handler: h.Logout,
			},
			{
				Definition: &Definition{
					Name:        "get_user_profile",
					Description: "Get profile information for the authenticated user",
					InputSchema: `{"type":"object","properties":{}}`,
				},
				Handler: h.Profile,
			},
		},
	}
}

type accountHandlers struct {
	provider store.AuthProvider
}

type authenticateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *accountHandlers) Authenticate(ctx context.Context, gate *session.Gate, input json.RawMessage) (json.RawMessage, error) {
	var in authenticateInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, validationError("invalid input: %v", err)
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return nil, validationError("email is required")
	}
	if in.Password == "" {
		return nil, validationError("password is required")
	}

	auth, err := h.provider.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		// Wrong credentials and provider outages both leave the gate closed.
		return nil, authError(err)
	}

	now := time.Now()
	sess := &session.Session{
		UserID:      auth.UserID,
		Email:       auth.Email,
		AccessToken: auth.AccessToken,
		IssuedAt:    now,
	}
	if auth.ExpiresIn > 0 {
		sess.ExpiresAt = now.Add(time.Duration(auth.ExpiresIn) * time.Second)
	}
	gate.Install(sess)

	return json.Marshal(map[string]any{
		"success": true,
		"user_id": auth.UserID,
		"email":   auth.Email,
		"message": "Authentication successful",
	})
}

func (h *accountHandlers) Logout(ctx context.Context, gate *session.Gate, _ json.RawMessage) (json.RawMessage, error) {
	if !gate.Clear() {
		return json.Marshal(map[string]any{
			"success": true,
			"message": "No active session",
		})
	}
	return json.Marshal(map[string]any{
		"success": true,
		"message": "Logged out",
	})
}

func (h *accountHandlers) Profile(ctx context.Context, gate *session.Gate, _ json.RawMessage) (json.RawMessage, error) {
	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	profile, err := h.provider.GetUser(ctx, sess.AccessToken)
	if err != nil {
		// A rejected access token means the session went stale on the
		// provider side; the caller recovers by authenticating again.
		var reqErr *store.RequestError
		if errors.As(err, &reqErr) && (reqErr.Status == 401 || reqErr.Status == 403) {
			return nil, authError(err)
		}
		return nil, err
	}

	return json.Marshal(profile)
}
