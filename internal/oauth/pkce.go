// ABOUTME: PKCE S256 challenge computation and verification.
// ABOUTME: Challenges are base64url-encoded SHA-256 digests without padding.

package oauth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// ChallengeS256 computes the S256 code challenge for a verifier.
func ChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// VerifyS256 reports whether the verifier matches the stored challenge.
func VerifyS256(verifier, challenge string) bool {
	computed := ChallengeS256(verifier)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}
