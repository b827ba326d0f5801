// ABOUTME: In-memory stores for registered OAuth clients and authorization codes.
// ABOUTME: Codes are single-use and expire five minutes after issuance.

package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// codeTTL is how long an authorization code stays exchangeable.
const codeTTL = 5 * time.Minute

// Client is a dynamically registered OAuth client.
type Client struct {
	ID           string
	Name         string
	RedirectURIs []string
	Scope        string
	CreatedAt    time.Time
}

type clientStore struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func newClientStore() *clientStore {
	return &clientStore{clients: make(map[string]*Client)}
}

func (s *clientStore) add(c *Client) {
	s.mu.Lock()
	s.clients[c.ID] = c
	s.mu.Unlock()
}

func (s *clientStore) get(id string) (*Client, bool) {
	s.mu.RLock()
	c, ok := s.clients[id]
	s.mu.RUnlock()
	return c, ok
}

// authCode is a pending authorization grant awaiting exchange at the token
// endpoint. The PKCE challenge binds the exchange to whoever started the
// flow.
type authCode struct {
	code          string
	clientID      string
	redirectURI   string
	codeChallenge string
	scope         string
	state         string
	subject       string
	expiresAt     time.Time
}

type codeStore struct {
	mu    sync.Mutex
	codes map[string]*authCode
}

func newCodeStore() *codeStore {
	return &codeStore{codes: make(map[string]*authCode)}
}

func (s *codeStore) put(c *authCode) {
	s.mu.Lock()
	s.codes[c.code] = c
	s.mu.Unlock()
}

func (s *codeStore) get(code string) (*authCode, bool) {
	s.mu.Lock()
	c, ok := s.codes[code]
	s.mu.Unlock()
	return c, ok
}

func (s *codeStore) delete(code string) {
	s.mu.Lock()
	delete(s.codes, code)
	s.mu.Unlock()
}

// newAuthCodeValue mints an unguessable authorization code.
func newAuthCodeValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
