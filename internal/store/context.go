// ABOUTME: Context carrier for the per-session access token
// ABOUTME: Lets tool handlers scope store requests to the authenticated user

package store

import "context"

type accessTokenKey struct{}

// WithAccessToken returns a context carrying the session's access token.
// The hosted database applies its own row-level policies based on this
// token; requests without one fall back to the anonymous key.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext extracts the access token, if present.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}
