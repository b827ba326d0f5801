// Package oauth implements the OAuth 2.1 authorization server that fronts
// the MCP endpoint for ChatGPT-style clients.
//
// The surface is deliberately small: RFC 8414 discovery metadata, a JWKS
// descriptor for the symmetric signing key, RFC 7591 dynamic client
// registration, an authorization endpoint that renders an embedded consent
// page, and a token endpoint guarded by PKCE (S256 only). Clients are
// public; there are no client secrets, and the code verifier is the only
// proof binding the token exchange to the authorization request.
//
// All state lives in memory. Authorization codes are single-use and expire
// after five minutes; registered clients last for the process lifetime.
// Access tokens are HS256 JWTs minted through internal/auth so the MCP
// transport can verify them with the same secret.
package oauth
