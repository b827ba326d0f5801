// Package auth provides token verification and minting for luvya-gateway.
//
// # Tokens
//
// Transport identity is an HS256 JWT signed with the configured jwt_secret.
// The OAuth token endpoint mints them, the MCP transport verifies them, and
// cmd/luvya-token mints them directly for development.
//
//	verifier := auth.NewJWTVerifier(secret, baseURL)
//	token, err := verifier.GenerateForClient(userID, clientID, scope, time.Hour)
//	userID, err := verifier.Verify(token)
//
// When a base URL is configured, tokens are bound to the deployment: the
// issuer claim is the base URL and the audience is its /mcp endpoint, and
// Verify enforces both. With an empty base URL (development), the claims are
// omitted and not checked.
//
// # Identity Layers
//
// The verified subject is only the transport principal. It identifies who
// may hold an MCP session; access to travel rows still requires a
// Supabase sign-in through the authenticate_user tool inside that session.
package auth
