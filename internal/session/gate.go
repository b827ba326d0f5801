// ABOUTME: Per-connection authentication gate guarding data-access tools
// ABOUTME: Two states: unauthenticated (initial) and authenticated

package session

import (
	"errors"
	"sync"
	"time"
)

// Gate errors
var (
	ErrNotAuthenticated = errors.New("not authenticated: call authenticate_user with your email and password, then retry")
	ErrSessionExpired   = errors.New("session expired: call authenticate_user again to continue")
)

// Gate tracks the authentication state of a single connection. It starts
// unauthenticated and becomes authenticated when a session is installed.
// Exactly one session is active at a time; installing a new one replaces
// the old. The gate returns to unauthenticated on Clear or when an expired
// session is observed.
type Gate struct {
	mu   sync.Mutex
	sess *Session
}

// NewGate creates a gate in the unauthenticated state.
func NewGate() *Gate {
	return &Gate{}
}

// Install stores the session for this connection, replacing any previous one.
func (g *Gate) Install(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sess = s
}

// Require returns the active session, or a gate error telling the caller to
// authenticate. An expired session is cleared before the error is returned,
// so the next call reports not-authenticated rather than expired.
func (g *Gate) Require() (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sess == nil {
		return nil, ErrNotAuthenticated
	}
	if g.sess.Expired(time.Now()) {
		g.sess = nil
		return nil, ErrSessionExpired
	}
	return g.sess, nil
}

// Clear removes the active session and reports whether one was present.
func (g *Gate) Clear() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	had := g.sess != nil
	g.sess = nil
	return had
}

// Authenticated reports whether a live session is installed.
func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sess != nil && !g.sess.Expired(time.Now())
}
