// ABOUTME: OAuth 2.1 authorization server for the ChatGPT-facing MCP surface.
// ABOUTME: Serves RFC 8414 metadata, dynamic registration, PKCE authorize and token.

package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// defaultTokenTTL is the lifetime of minted access tokens when the
// deployment does not configure one.
const defaultTokenTTL = time.Hour

// defaultSubject is the identity bound to approved grants when no subject is
// configured. There is no browser login in front of the consent page, so the
// deployment decides who the grant speaks for.
const defaultSubject = "demo-user"

// defaultScope mirrors the scope the production client requests.
const defaultScope = "user"

// TokenSigner mints access tokens for completed authorization flows.
// *auth.JWTVerifier satisfies this.
type TokenSigner interface {
	GenerateForClient(userID, clientID, scope string, expiresIn time.Duration) (string, error)
}

// Config holds configuration for the OAuth server.
type Config struct {
	// BaseURL is the public issuer URL, without a trailing slash.
	BaseURL string
	Signer  TokenSigner
	Logger  *slog.Logger
	// Subject is the user identity bound to approved grants. Defaults to
	// defaultSubject.
	Subject string
	// TokenTTL is the lifetime of minted access tokens, reported to the
	// client as expires_in. Defaults to defaultTokenTTL.
	TokenTTL time.Duration
}

// Server implements the OAuth 2.1 + PKCE surface that fronts the MCP
// endpoint. All state is held in memory; codes are single-use with a short
// TTL.
type Server struct {
	baseURL  string
	signer   TokenSigner
	logger   *slog.Logger
	subject  string
	tokenTTL time.Duration
	clients  *clientStore
	codes    *codeStore
	consent  *template.Template
}

// NewServer creates the OAuth server and parses the consent template.
func NewServer(cfg Config) (*Server, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cfg.Signer == nil {
		return nil, errors.New("token signer is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	subject := cfg.Subject
	if subject == "" {
		subject = defaultSubject
	}
	tokenTTL := cfg.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = defaultTokenTTL
	}

	consent, err := template.ParseFS(templateFS, "templates/consent.html")
	if err != nil {
		return nil, fmt.Errorf("parsing consent template: %w", err)
	}

	return &Server{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		signer:   cfg.Signer,
		logger:   logger,
		subject:  subject,
		tokenTTL: tokenTTL,
		clients:  newClientStore(),
		codes:    newCodeStore(),
		consent:  consent,
	}, nil
}

// RegisterRoutes registers the OAuth endpoints on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/.well-known/oauth-authorization-server", s.handleMetadata)
	mux.HandleFunc("/.well-known/jwks.json", s.handleJWKS)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/authorize", s.handleAuthorize)
	mux.HandleFunc("/token", s.handleToken)
}

// handleMetadata serves RFC 8414 authorization server metadata.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]any{
		"issuer":                                s.baseURL,
		"authorization_endpoint":                s.baseURL + "/authorize",
		"token_endpoint":                        s.baseURL + "/token",
		"jwks_uri":                              s.baseURL + "/.well-known/jwks.json",
		"registration_endpoint":                 s.baseURL + "/register",
		"response_types_supported":              []string{"code"},
		"grant_types_supported":                 []string{"authorization_code"},
		"code_challenge_methods_supported":      []string{"S256"},
		"token_endpoint_auth_methods_supported": []string{"none"},
	})
}

// handleJWKS serves the key set descriptor. Tokens are HS256 signed, so the
// set carries a single symmetric key reference rather than key material.
func (s *Server) handleJWKS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]any{
			{
				"kty": "oct",
				"kid": "luvya-mcp-key",
				"use": "sig",
				"alg": "HS256",
			},
		},
	})
}

// registerRequest is the RFC 7591 client metadata we accept.
type registerRequest struct {
	RedirectURIs []string `json:"redirect_uris"`
	ClientName   string   `json:"client_name"`
	Scope        string   `json:"scope"`
}

// handleRegister implements RFC 7591 dynamic client registration. Clients
// are public (no secret) and authenticate the token exchange with PKCE
// alone.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body registers a client with no redirect URIs; some clients
	// probe the endpoint before configuring themselves.
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_client_metadata")
		return
	}

	scope := req.Scope
	if scope == "" {
		scope = defaultScope
	}

	client := &Client{
		ID:           uuid.New().String(),
		Name:         req.ClientName,
		RedirectURIs: req.RedirectURIs,
		Scope:        scope,
		CreatedAt:    time.Now(),
	}
	s.clients.add(client)

	s.logger.Info("OAuth client registered",
		"client_id", client.ID,
		"client_name", client.Name,
		"redirect_uris", client.RedirectURIs,
	)

	s.sendJSON(w, http.StatusCreated, map[string]any{
		"client_id":                  client.ID,
		"client_id_issued_at":        client.CreatedAt.Unix(),
		"client_secret_expires_at":   0,
		"redirect_uris":              client.RedirectURIs,
		"grant_types":                []string{"authorization_code"},
		"response_types":             []string{"code"},
		"token_endpoint_auth_method": "none",
		"scope":                      scope,
	})
}

// consentData feeds the consent page template.
type consentData struct {
	RedirectURI string
	Code        string
	State       string
}

// handleAuthorize validates the authorization request, mints a single-use
// code bound to the PKCE challenge, and renders the consent page. The page's
// Allow button redirects back with the code; Deny redirects with
// error=access_denied.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	responseType := q.Get("response_type")
	if responseType == "" {
		responseType = "code"
	}
	clientID := q.Get("client_id")
	redirectURI := q.Get("redirect_uri")
	scope := q.Get("scope")
	if scope == "" {
		scope = defaultScope
	}
	state := q.Get("state")
	codeChallenge := q.Get("code_challenge")
	challengeMethod := q.Get("code_challenge_method")
	if challengeMethod == "" {
		challengeMethod = "S256"
	}

	if responseType != "code" {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_response_type")
		return
	}
	if clientID == "" || redirectURI == "" || codeChallenge == "" {
		s.sendOAuthError(w, http.StatusBadRequest, "missing_required_parameters")
		return
	}
	if challengeMethod != "S256" {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_code_challenge_method")
		return
	}

	code, err := newAuthCodeValue()
	if err != nil {
		s.logger.Error("failed to mint authorization code", "error", err)
		s.sendOAuthError(w, http.StatusInternalServerError, "server_error")
		return
	}

	s.codes.put(&authCode{
		code:          code,
		clientID:      clientID,
		redirectURI:   redirectURI,
		codeChallenge: codeChallenge,
		scope:         scope,
		state:         state,
		subject:       s.subject,
		expiresAt:     time.Now().Add(codeTTL),
	})

	s.logger.Info("authorization code issued",
		"client_id", clientID,
		"scope", scope,
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.consent.Execute(w, consentData{
		RedirectURI: redirectURI,
		Code:        code,
		State:       state,
	}); err != nil {
		s.logger.Warn("failed to render consent page", "error", err)
	}
}

// handleToken exchanges an authorization code for an access token,
// validating expiry, redirect URI, and the PKCE verifier. Expired codes are
// deleted on sight; successful exchanges consume the code.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	grantType := r.Form.Get("grant_type")
	if grantType == "" {
		grantType = "authorization_code"
	}
	code := r.Form.Get("code")
	redirectURI := r.Form.Get("redirect_uri")
	verifier := r.Form.Get("code_verifier")

	if grantType != "authorization_code" {
		s.sendOAuthError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}
	if code == "" || verifier == "" {
		s.sendOAuthError(w, http.StatusBadRequest, "missing_required_parameters")
		return
	}

	stored, ok := s.codes.get(code)
	if !ok {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_grant")
		return
	}

	if time.Now().After(stored.expiresAt) {
		s.codes.delete(code)
		s.sendOAuthError(w, http.StatusBadRequest, "expired_code")
		return
	}

	if stored.redirectURI != redirectURI {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_redirect_uri")
		return
	}

	if !VerifyS256(verifier, stored.codeChallenge) {
		s.sendOAuthError(w, http.StatusBadRequest, "invalid_code_verifier")
		return
	}

	token, err := s.signer.GenerateForClient(stored.subject, stored.clientID, stored.scope, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err)
		s.sendOAuthError(w, http.StatusInternalServerError, "server_error")
		return
	}

	s.codes.delete(code)

	s.logger.Info("access token issued",
		"client_id", stored.clientID,
		"subject", stored.subject,
		"scope", stored.scope,
	)

	s.sendJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(s.tokenTTL.Seconds()),
		"scope":        stored.scope,
	})
}

// sendJSON writes a JSON response with the given status.
func (s *Server) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode OAuth response", "error", err)
	}
}

// sendOAuthError writes the {"error": code} document OAuth clients expect.
func (s *Server) sendOAuthError(w http.ResponseWriter, status int, code string) {
	s.sendJSON(w, status, map[string]string{"error": code})
}
