// ABOUTME: Tests for the Supabase rows client
// ABOUTME: Verifies query shapes, auth headers, and error mapping against a fake PostgREST

package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-test-key", 5*time.Second, testLogger())
}

func TestClient_ListTrips(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/trips", r.URL.Path)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "start_date.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon-test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"trip-1","title":"Lisbon","start_date":"2026-03-01","end_date":"2026-03-08","user_id":"user-1"},
			{"id":"trip-2","title":"Kyoto","start_date":"2026-04-10","end_date":"2026-04-20","user_id":"user-1"}
		]`)
	}))

	trips, err := client.ListTrips(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "trip-1", trips[0].ID)
	assert.Equal(t, "Lisbon", trips[0].Title)
	assert.Equal(t, "user-1", trips[1].UserID)
}

func TestClient_SessionTokenOverridesBearer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer session-token-abc", r.Header.Get("Authorization"))
		io.WriteString(w, `[]`)
	}))

	ctx := WithAccessToken(context.Background(), "session-token-abc")
	_, err := client.ListTrips(ctx, "user-1")
	require.NoError(t, err)
}

func TestClient_CreateTrip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/trips", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var trip Trip
		require.NoError(t, json.NewDecoder(r.Body).Decode(&trip))
		assert.Equal(t, "Lisbon", trip.Title)
		assert.Equal(t, "user-1", trip.UserID)
		assert.Empty(t, trip.ID)

		trip.ID = "trip-9"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]*Trip{&trip})
	}))

	created, err := client.CreateTrip(context.Background(), &Trip{
		Title:     "Lisbon",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-08",
		UserID:    "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "trip-9", created.ID)
	assert.Equal(t, "Lisbon", created.Title)
}

func TestClient_GetTrip(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "eq.trip-1", r.URL.Query().Get("id"))
			assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			io.WriteString(w, `[{"id":"trip-1","title":"Lisbon","start_date":"2026-03-01","end_date":"2026-03-08","user_id":"user-1"}]`)
		}))

		trip, err := client.GetTrip(context.Background(), "trip-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, "trip-1", trip.ID)
	})

	t.Run("absent or foreign rows are not found", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[]`)
		}))

		_, err := client.GetTrip(context.Background(), "trip-1", "user-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClient_ListTripEvents(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/trip_events", r.URL.Path)
		assert.Equal(t, "eq.trip-1", r.URL.Query().Get("trip_id"))
		assert.Equal(t, "date.asc", r.URL.Query().Get("order"))
		io.WriteString(w, `[{"id":"ev-1","trip_id":"trip-1","title":"Museum","date":"2026-03-02","location":"Belem"}]`)
	}))

	events, err := client.ListTripEvents(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Museum", events[0].Title)
	assert.Equal(t, "Belem", events[0].Location)
}

func TestClient_CreateTripEvent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/trip_events", r.URL.Path)

		var event Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		event.ID = "ev-7"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]*Event{&event})
	}))

	created, err := client.CreateTripEvent(context.Background(), &Event{
		TripID: "trip-1",
		Title:  "Dinner",
		Date:   "2026-03-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "ev-7", created.ID)
	assert.Equal(t, "trip-1", created.TripID)
}

func TestClient_ListNotifications(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/notifications", r.URL.Path)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		io.WriteString(w, `[{"id":"n-1","user_id":"user-1","title":"Reminder","message":"Pack your bags","read":false,"created_at":"2026-03-01T09:30:00Z"}]`)
	}))

	notifications, err := client.ListNotifications(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)
	require.NotNil(t, notifications[0].CreatedAt)
	assert.Equal(t, 2026, notifications[0].CreatedAt.Year())
}

func TestClient_MarkNotificationRead(t *testing.T) {
	t.Run("updates the owner-scoped row", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/rest/v1/notifications", r.URL.Path)
			assert.Equal(t, "eq.n-1", r.URL.Query().Get("id"))
			assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"read":true}`, string(body))

			io.WriteString(w, `[{"id":"n-1","user_id":"user-1","title":"Reminder","message":"Pack your bags","read":true}]`)
		}))

		updated, err := client.MarkNotificationRead(context.Background(), "n-1", "user-1")
		require.NoError(t, err)
		assert.True(t, updated.Read)
	})

	t.Run("no matching row is not found", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[]`)
		}))

		_, err := client.MarkNotificationRead(context.Background(), "n-1", "someone-else")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClient_RequestErrorParsing(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantCode        string
		wantMessage     string
		wantRecoverable bool
	}{
		{
			name:            "postgrest error body",
			status:          http.StatusInternalServerError,
			body:            `{"code":"PGRST301","details":null,"hint":null,"message":"connection failure"}`,
			wantCode:        "PGRST301",
			wantMessage:     "connection failure",
			wantRecoverable: true,
		},
		{
			name:            "client error is fatal",
			status:          http.StatusBadRequest,
			body:            `{"code":"22P02","message":"invalid input syntax for type uuid"}`,
			wantCode:        "22P02",
			wantMessage:     "invalid input syntax for type uuid",
			wantRecoverable: false,
		},
		{
			name:            "throttling is recoverable",
			status:          http.StatusTooManyRequests,
			body:            `{"message":"over request rate limit"}`,
			wantMessage:     "over request rate limit",
			wantRecoverable: true,
		},
		{
			name:            "non-JSON body kept verbatim",
			status:          http.StatusBadGateway,
			body:            "upstream unavailable",
			wantMessage:     "upstream unavailable",
			wantRecoverable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			_, err := client.ListTrips(context.Background(), "user-1")
			require.Error(t, err)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr), "error should be a *RequestError, got %T", err)
			assert.Equal(t, tt.status, reqErr.Status)
			assert.Equal(t, tt.wantCode, reqErr.Code)
			assert.Equal(t, tt.wantMessage, reqErr.Message)
			assert.Equal(t, tt.wantRecoverable, reqErr.Recoverable())
		})
	}
}

func TestClient_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/", r.URL.Path)
			io.WriteString(w, `{}`)
		}))
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := NewClient(srv.URL, "anon-test-key", time.Second, testLogger())
		assert.Error(t, client.Ping(context.Background()))
	})
}
