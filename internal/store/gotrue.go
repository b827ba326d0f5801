// ABOUTME: GoTrue auth client implementing the AuthProvider interface
// ABOUTME: Exchanges email/password credentials and resolves token profiles

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// gotrueUser is the subset of the auth provider's user object we use.
type gotrueUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	CreatedAt        string `json:"created_at"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
}

// SignInWithPassword exchanges an email/password pair for an access token.
// Bad credentials come back as a *RequestError with the provider's status.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	body := map[string]string{"email": email, "password": password}

	data, err := c.auth(ctx, http.MethodPost, "token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		AccessToken string     `json:"access_token"`
		TokenType   string     `json:"token_type"`
		ExpiresIn   int        `json:"expires_in"`
		User        gotrueUser `json:"user"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("auth provider returned no usable session")
	}

	return &AuthSession{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
		UserID:      resp.User.ID,
		Email:       resp.User.Email,
	}, nil
}

// GetUser resolves the profile behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*Profile, error) {
	data, err := c.auth(ctx, http.MethodGet, "user", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var user gotrueUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decoding user profile: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("auth provider returned no user")
	}

	return &Profile{
		UserID:           user.ID,
		Email:            user.Email,
		CreatedAt:        user.CreatedAt,
		EmailConfirmedAt: user.EmailConfirmedAt,
	}, nil
}

// auth performs one request against the auth API and returns the raw body.
// bearer overrides the anonymous key as the Authorization token when set.
func (c *Client) auth(ctx context.Context, method, path, bearer string, body any) ([]byte, error) {
	endpoint := c.baseURL + "/auth/v1/" + path

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding auth request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("building auth request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("auth request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newRequestError(resp.StatusCode, data)
	}
	return data, nil
}
