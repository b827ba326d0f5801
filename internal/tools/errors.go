// ABOUTME: Error taxonomy for tool failures: gate, auth, validation, store, not found.
// ABOUTME: Classify maps raw handler errors onto exactly one kind for transports.

package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/luvya/luvya-gateway/internal/session"
	"github.com/luvya/luvya-gateway/internal/store"
)

// Kind classifies a tool failure.
type Kind string

const (
	// KindGate means the call was blocked because no live session exists.
	KindGate Kind = "gate"
	// KindAuth means credential verification failed or the auth provider did.
	KindAuth Kind = "auth"
	// KindValidation means the tool arguments were malformed or incomplete.
	KindValidation Kind = "validation"
	// KindStore means the hosted database rejected or failed the request.
	KindStore Kind = "store"
	// KindNotFound means the referenced row does not exist for this user.
	// Rows owned by other users report the same kind and message.
	KindNotFound Kind = "not_found"
)

// Error is a tool failure tagged with its taxonomy kind. Message is safe to
// return to the caller. Recoverable reports whether retrying the call, after
// fixing whatever the kind implies, can succeed.
type Error struct {
	Kind        Kind
	Message     string
	Recoverable bool

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// gateError wraps a session gate refusal. The caller recovers by
// authenticating and retrying.
func gateError(cause error) *Error {
	return &Error{Kind: KindGate, Message: cause.Error(), Recoverable: true, cause: cause}
}

// authError wraps a failed credential exchange or auth provider failure.
func authError(cause error) *Error {
	return &Error{Kind: KindAuth, Message: cause.Error(), Recoverable: true, cause: cause}
}

// validationError reports malformed or missing tool arguments.
func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Recoverable: true}
}

// storeError wraps a hosted database failure, carrying the store's own
// recoverable/fatal split when it reported one.
func storeError(cause error, recoverable bool) *Error {
	return &Error{Kind: KindStore, Message: cause.Error(), Recoverable: recoverable, cause: cause}
}

// notFoundError reports a row that is absent or not visible to the caller.
// Both cases produce the identical error.
func notFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Classify maps any error returned by a tool handler onto the taxonomy.
// Errors that already carry a kind pass through unchanged.
func Classify(err error) *Error {
	var terr *Error
	if errors.As(err, &terr) {
		return terr
	}
	if errors.Is(err, session.ErrNotAuthenticated) || errors.Is(err, session.ErrSessionExpired) {
		return gateError(err)
	}
	if errors.Is(err, store.ErrNotFound) {
		return &Error{Kind: KindNotFound, Message: err.Error(), cause: err}
	}
	var reqErr *store.RequestError
	if errors.As(err, &reqErr) {
		return storeError(err, reqErr.Recoverable())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return storeError(err, true)
	}
	// Anything unrecognized reached the network or the store; retrying may
	// help, correcting the call will not.
	return storeError(err, true)
}
