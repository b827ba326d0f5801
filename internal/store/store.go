// ABOUTME: Store interfaces and data types for the hosted travel database
// ABOUTME: Defines Trip, Event, Notification rows and the Store/AuthProvider contracts

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the requesting user. The two cases are deliberately
// indistinguishable so callers cannot probe for other users' rows.
var ErrNotFound = errors.New("not found")

// Trip represents one row in the trips table. Dates are calendar dates in
// ISO 8601 form (2006-01-02), stored and returned as strings.
type Trip struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	UserID      string `json:"user_id"`
}

// Event represents one row in the trip_events table.
type Event struct {
	ID          string `json:"id,omitempty"`
	TripID      string `json:"trip_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
}

// Notification represents one row in the notifications table. Rows are
// created elsewhere in the product; this system only reads them and flips
// the read flag.
type Notification struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Profile holds the account fields the auth provider exposes for a user.
type Profile struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	CreatedAt        string `json:"created_at,omitempty"`
	EmailConfirmedAt string `json:"email_confirmed_at,omitempty"`
}

// AuthSession is the result of a successful credential exchange with the
// auth provider.
type AuthSession struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // seconds
	UserID      string
	Email       string
}

// Store defines row-level access to the hosted travel tables. All reads and
// scoped writes take the owning user's ID so each call resolves to a single
// owner-filtered request against the hosted database.
type Store interface {
	// ListTrips returns the trips owned by the given user.
	ListTrips(ctx context.Context, userID string) ([]*Trip, error)
	// CreateTrip inserts one trip row and returns the stored representation.
	CreateTrip(ctx context.Context, trip *Trip) (*Trip, error)
	// GetTrip fetches one trip scoped to its owner. A trip that is absent
	// or owned by someone else returns ErrNotFound.
	GetTrip(ctx context.Context, tripID, userID string) (*Trip, error)

	// ListTripEvents returns the events attached to a trip. Callers must
	// verify trip ownership first via GetTrip.
	ListTripEvents(ctx context.Context, tripID string) ([]*Event, error)
	// CreateTripEvent inserts one event row and returns the stored representation.
	CreateTripEvent(ctx context.Context, event *Event) (*Event, error)

	// ListNotifications returns the notifications owned by the given user.
	ListNotifications(ctx context.Context, userID string) ([]*Notification, error)
	// MarkNotificationRead sets read=true on one owner-scoped notification
	// and returns the updated row. Absent or foreign rows return ErrNotFound.
	// Marking an already-read notification succeeds and keeps the flag set.
	MarkNotificationRead(ctx context.Context, notificationID, userID string) (*Notification, error)

	// Ping verifies the hosted database is reachable.
	Ping(ctx context.Context) error
}

// AuthProvider defines the credential exchange with the hosted auth service.
type AuthProvider interface {
	// SignInWithPassword exchanges an email/password pair for an access
	// token and the authenticated user's identity.
	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)
	// GetUser resolves the profile behind an access token.
	GetUser(ctx context.Context, accessToken string) (*Profile, error)
}

// RequestError is a non-2xx response from the hosted service.
type RequestError struct {
	Status  int
	Code    string // service-reported error code, if any
	Message string
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store request failed: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("store request failed: %d: %s", e.Status, e.Message)
}

// Recoverable reports whether retrying the same request later could
// plausibly succeed. Server-side failures and throttling are recoverable;
// client errors are not.
func (e *RequestError) Recoverable() bool {
	return e.Status >= 500 || e.Status == 429
}
