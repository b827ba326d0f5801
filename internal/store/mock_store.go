// ABOUTME: Mock Store and AuthProvider implementation for testing
// ABOUTME: In-memory rows with seed helpers and per-method call counting

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type mockUser struct {
	id        string
	email     string
	password  string
	createdAt string
}

// MockStore is an in-memory Store and AuthProvider implementation for
// testing. It mirrors the hosted database's owner filtering and counts
// calls per method so tests can assert how often the store was touched.
type MockStore struct {
	mu            sync.RWMutex
	trips         map[string]*Trip
	events        map[string][]*Event // keyed by trip ID
	notifications map[string]*Notification
	users         map[string]*mockUser // keyed by email
	tokens        map[string]string    // access token -> user ID
	calls         map[string]int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		trips:         make(map[string]*Trip),
		events:        make(map[string][]*Event),
		notifications: make(map[string]*Notification),
		users:         make(map[string]*mockUser),
		tokens:        make(map[string]string),
		calls:         make(map[string]int),
	}
}

// SeedUser registers an account the mock auth provider will accept.
func (m *MockStore) SeedUser(id, email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email] = &mockUser{id: id, email: email, password: password, createdAt: "2024-01-01T00:00:00Z"}
}

// SeedTrip stores a trip row directly, assigning an ID if absent.
func (m *MockStore) SeedTrip(trip *Trip) *Trip {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := *trip
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.trips[t.ID] = &t

	result := t
	return &result
}

// SeedEvent stores an event row directly, assigning an ID if absent.
func (m *MockStore) SeedEvent(event *Event) *Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := *event
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.events[e.TripID] = append(m.events[e.TripID], &e)

	result := e
	return &result
}

// SeedNotification stores a notification row directly, assigning an ID if absent.
func (m *MockStore) SeedNotification(n *Notification) *Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := *n
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	m.notifications[row.ID] = &row

	result := row
	return &result
}

// CallCount reports how many times the named store method was invoked.
func (m *MockStore) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// TotalCalls reports how many store method invocations happened in total.
// Auth provider calls are counted separately and not included.
func (m *MockStore) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for method, n := range m.calls {
		if method == "SignInWithPassword" || method == "GetUser" {
			continue
		}
		total += n
	}
	return total
}

func (m *MockStore) countCall(method string) {
	m.calls[method]++
}

// ListTrips returns the trips owned by the given user.
func (m *MockStore) ListTrips(ctx context.Context, userID string) ([]*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("ListTrips")

	var trips []*Trip
	for _, t := range m.trips {
		if t.UserID != userID {
			continue
		}
		row := *t
		trips = append(trips, &row)
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].StartDate < trips[j].StartDate })
	return trips, nil
}

// CreateTrip stores a new trip row.
func (m *MockStore) CreateTrip(ctx context.Context, trip *Trip) (*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("CreateTrip")

	t := *trip
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.trips[t.ID] = &t

	result := t
	return &result, nil
}

// GetTrip retrieves an owner-scoped trip.
func (m *MockStore) GetTrip(ctx context.Context, tripID, userID string) (*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("GetTrip")

	t, ok := m.trips[tripID]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}

	result := *t
	return &result, nil
}

// ListTripEvents returns the events attached to a trip.
func (m *MockStore) ListTripEvents(ctx context.Context, tripID string) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("ListTripEvents")

	var events []*Event
	for _, e := range m.events[tripID] {
		row := *e
		events = append(events, &row)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, nil
}

// CreateTripEvent stores a new event row.
func (m *MockStore) CreateTripEvent(ctx context.Context, event *Event) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("CreateTripEvent")

	e := *event
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.events[e.TripID] = append(m.events[e.TripID], &e)

	result := e
	return &result, nil
}

// ListNotifications returns the notifications owned by the given user.
func (m *MockStore) ListNotifications(ctx context.Context, userID string) ([]*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("ListNotifications")

	var notifications []*Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		row := *n
		notifications = append(notifications, &row)
	}
	sort.Slice(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		switch {
		case a.CreatedAt == nil:
			return false
		case b.CreatedAt == nil:
			return true
		default:
			return a.CreatedAt.After(*b.CreatedAt)
		}
	})
	return notifications, nil
}

// MarkNotificationRead sets read=true on an owner-scoped notification.
func (m *MockStore) MarkNotificationRead(ctx context.Context, notificationID, userID string) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("MarkNotificationRead")

	n, ok := m.notifications[notificationID]
	if !ok || n.UserID != userID {
		return nil, ErrNotFound
	}
	n.Read = true

	result := *n
	return &result, nil
}

// Ping always succeeds.
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("Ping")
	return nil
}

// SignInWithPassword checks the seeded accounts and mints a mock token.
func (m *MockStore) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("SignInWithPassword")

	user, ok := m.users[email]
	if !ok || user.password != password {
		return nil, &RequestError{Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"}
	}

	token := "mock-token-" + uuid.NewString()
	m.tokens[token] = user.id

	return &AuthSession{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   3600,
		UserID:      user.id,
		Email:       user.email,
	}, nil
}

// GetUser resolves a mock token back to its account profile.
func (m *MockStore) GetUser(ctx context.Context, accessToken string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCall("GetUser")

	userID, ok := m.tokens[accessToken]
	if !ok {
		return nil, &RequestError{Status: 401, Code: "bad_jwt", Message: "invalid JWT"}
	}

	for _, user := range m.users {
		if user.id == userID {
			return &Profile{
				UserID:           user.id,
				Email:            user.email,
				CreatedAt:        user.createdAt,
				EmailConfirmedAt: user.createdAt,
			}, nil
		}
	}
	return nil, &RequestError{Status: 401, Code: "bad_jwt", Message: "user no longer exists"}
}
