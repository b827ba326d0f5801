// ABOUTME: Supabase PostgREST client implementing the Store interface
// ABOUTME: Issues owner-scoped row requests over HTTPS with the project keys

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = 10 * time.Second

	// maxResponseSize caps how much of a store response is read.
	maxResponseSize = 4 << 20 // 4 MiB
)

// Client talks to a Supabase project's REST surfaces: the rows API
// (PostgREST) and the auth API (GoTrue). It implements both Store and
// AuthProvider.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the given project URL and anonymous key.
// A non-positive timeout selects the default.
func NewClient(baseURL, anonKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "store"),
	}
}

// ListTrips returns the trips owned by the given user, earliest start first.
func (c *Client) ListTrips(ctx context.Context, userID string) ([]*Trip, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("order", "start_date.asc")

	data, err := c.rest(ctx, http.MethodGet, "trips", query, nil)
	if err != nil {
		return nil, err
	}

	var trips []*Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("decoding trips: %w", err)
	}
	return trips, nil
}

// CreateTrip inserts one trip row and returns the stored representation.
func (c *Client) CreateTrip(ctx context.Context, trip *Trip) (*Trip, error) {
	data, err := c.rest(ctx, http.MethodPost, "trips", nil, trip)
	if err != nil {
		return nil, err
	}

	var trips []*Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("decoding created trip: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("store returned no representation for created trip")
	}
	return trips[0], nil
}

// GetTrip fetches one trip scoped to its owner. Absent and foreign trips
// both return ErrNotFound.
func (c *Client) GetTrip(ctx context.Context, tripID, userID string) (*Trip, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+tripID)
	query.Set("user_id", "eq."+userID)
	query.Set("limit", "1")

	data, err := c.rest(ctx, http.MethodGet, "trips", query, nil)
	if err != nil {
		return nil, err
	}

	var trips []*Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("decoding trip: %w", err)
	}
	if len(trips) == 0 {
		return nil, ErrNotFound
	}
	return trips[0], nil
}

// ListTripEvents returns the events attached to a trip in date order.
func (c *Client) ListTripEvents(ctx context.Context, tripID string) ([]*Event, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("trip_id", "eq."+tripID)
	query.Set("order", "date.asc")

	data, err := c.rest(ctx, http.MethodGet, "trip_events", query, nil)
	if err != nil {
		return nil, err
	}

	var events []*Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decoding trip events: %w", err)
	}
	return events, nil
}

// CreateTripEvent inserts one event row and returns the stored representation.
func (c *Client) CreateTripEvent(ctx context.Context, event *Event) (*Event, error) {
	data, err := c.rest(ctx, http.MethodPost, "trip_events", nil, event)
	if err != nil {
		return nil, err
	}

	var events []*Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decoding created trip event: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("store returned no representation for created trip event")
	}
	return events[0], nil
}

// ListNotifications returns the notifications owned by the given user,
// newest first.
func (c *Client) ListNotifications(ctx context.Context, userID string) ([]*Notification, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("order", "created_at.desc")

	data, err := c.rest(ctx, http.MethodGet, "notifications", query, nil)
	if err != nil {
		return nil, err
	}

	var notifications []*Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag on one owner-scoped notification.
// The owner filter rides in the update itself, so a foreign or absent row
// matches nothing and returns ErrNotFound in a single round trip.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID, userID string) (*Notification, error) {
	query := url.Values{}
	query.Set("id", "eq."+notificationID)
	query.Set("user_id", "eq."+userID)

	data, err := c.rest(ctx, http.MethodPatch, "notifications", query, map[string]bool{"read": true})
	if err != nil {
		return nil, err
	}

	var notifications []*Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		return nil, fmt.Errorf("decoding notification: %w", err)
	}
	if len(notifications) == 0 {
		return nil, ErrNotFound
	}
	return notifications[0], nil
}

// Ping verifies the rows API answers at all. The root endpoint serves the
// schema description, which is enough to prove reachability and key validity.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rest(ctx, http.MethodGet, "", nil, nil)
	return err
}

// rest performs one request against the rows API and returns the raw body.
func (c *Client) rest(ctx context.Context, method, table string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("building store request: %w", err)
	}

	c.setAuthHeaders(ctx, req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	c.logger.Debug("store request", "method", method, "table", table)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newRequestError(resp.StatusCode, data)
	}
	return data, nil
}

// setAuthHeaders attaches the project key and the bearer token. When the
// context carries a session access token the hosted database evaluates its
// row policies as that user; otherwise the anonymous key is the bearer.
func (c *Client) setAuthHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("apikey", c.anonKey)

	bearer := c.anonKey
	if token, ok := AccessTokenFromContext(ctx); ok {
		bearer = token
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
}

// newRequestError builds a RequestError from a failed response, pulling the
// code and message out of the service's JSON error body when present.
// PostgREST uses {code, message}; GoTrue uses {error_code, msg} or the older
// {error, error_description}.
func newRequestError(status int, body []byte) *RequestError {
	reqErr := &RequestError{Status: status, Message: strings.TrimSpace(string(body))}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return reqErr
	}

	for _, key := range []string{"message", "msg", "error_description"} {
		if s, ok := fields[key].(string); ok && s != "" {
			reqErr.Message = s
			break
		}
	}
	for _, key := range []string{"code", "error_code", "error"} {
		if s, ok := fields[key].(string); ok && s != "" {
			reqErr.Code = s
			break
		}
	}
	return reqErr
}
