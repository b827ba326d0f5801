// ABOUTME: Session type representing one authenticated caller
// ABOUTME: Carries the provider-issued access token and its expiry

package session

import "time"

// Session identifies one authenticated caller for the lifetime of a
// connection. It is created by a successful credential exchange and carries
// the access token the auth provider issued for that user.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
	IssuedAt    time.Time
	// ExpiresAt is the provider-reported token expiry. Zero means the
	// provider did not report one.
	ExpiresAt time.Time
}

// Expired reports whether the session's access token has expired.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
