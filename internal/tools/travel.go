// ABOUTME: Travel pack: trip, event and notification tools over the hosted store.
// ABOUTME: Every data tool requires a session and scopes its query to that user.

package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/luvya/luvya-gateway/internal/session"
	"github.com/luvya/luvya-gateway/internal/store"
)

// helloMessage is the fixed connectivity check acknowledgement.
const helloMessage = "Hello, world! This is the Luvya Travel App MCP server with Supabase integration!"

// TravelPack creates the travel pack with the connectivity check and the
// trip, event and notification tools.
func TravelPack(s store.Store) *Pack {
	h := &travelHandlers{store: s}
	return &Pack{
		ID: "builtin:travel",
		Tools: []*Tool{
			{
				Definition: &Definition{
					Name:        "hello_world",
					Description: "Say hello to the world",
					InputSchema: `{"type":"object","properties":{}}`,
				},
				Handler: h.Hello,
			},
			// Trip tools
			{
				Definition: &Definition{
					Name:        "get_trips",
					Description: "Get all trips for the authenticated user",
					InputSchema: `{"type":"object","properties":{}}`,
				},
				Handler: h.GetTrips,
			},
			{
				Definition: &Definition{
					Name:        "create_trip",
					Description: "Create a new trip",
					InputSchema: `{"type":"object","properties":{"title":{"type":"string"},"description":{"type":"string"},"start_date":{"type":"string","format":"date"},"end_date":{"type":"string","format":"date"}},"required":["title","start_date","end_date"]}`,
				},
				Handler: h.CreateTrip,
			},
			// Event tools
			{
				Definition: &Definition{
					Name:        "get_trip_events",
					Description: "Get all events for a specific trip",
					InputSchema: `{"type":"object","properties":{"trip_id":{"type":"string"}},"required":["trip_id"]}`,
				},
				Handler: h.GetTripEvents,
			},
			{
				Definition: &Definition{
					Name:        "create_trip_event",
					Description: "Create a new event for a trip",
					InputSchema: `{"type":"object","properties":{"trip_id":{"type":"string"},"title":{"type":"string"},"description":{"type":"string"},"date":{"type":"string"},"location":{"type":"string"}},"required":["trip_id","title","date"]}`,
				},
				Handler: h.CreateTripEvent,
			},
			// Notification tools
			{
				Definition: &Definition{
					Name:        "get_notifications",
					Description: "Get all notifications for the authenticated user",
					InputSchema: `{"type":"object","properties":{}}`,
				},
				Handler: h.GetNotifications,
			},
			{
				Definition: &Definition{
					Name:        "mark_notification_read",
					Description: "Mark a notification as read",
					InputSchema: `{"type":"object","properties":{"notification_id":{"type":"string"}},"required":["notification_id"]}`,
				},
				Handler: h.MarkNotificationRead,
			},
		},
	}
}

type travelHandlers struct {
	store store.Store
}

func (h *travelHandlers) Hello(ctx context.Context, gate *session.Gate, _ json.RawMessage) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"message": helloMessage})
}

// Trip handlers

func (h *travelHandlers) GetTrips(ctx context.Context, gate *session.Gate, _ json.RawMessage) (json.RawMessage, error) {
	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	ctx = store.WithAccessToken(ctx, sess.AccessToken)
	trips, err := h.store.ListTrips(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	trips = ownTrips(trips, sess.UserID)

	return json.Marshal(map[string]any{"trips": trips, "count": len(trips)})
}

type createTripInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (h *travelHandlers) CreateTrip(ctx context.Context, gate *session.Gate, input json.RawMessage) (json.RawMessage, error) {
	var in createTripInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, validationError("invalid input: %v", err)
	}
	if in.Title == "" {
		return nil, validationError("title is required")
	}
	if in.StartDate == "" {
		return nil, validationError("start_date is required")
	}
	if in.EndDate == "" {
		return nil, validationError("end_date is required")
	}

	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	// The owning user comes from the session, never from the caller.
	ctx = store.WithAccessToken(ctx, sess.AccessToken)
	trip, err := h.store.CreateTrip(ctx, &store.Trip{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		UserID:      sess.UserID,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(trip)
}

// Event handlers

type getTripEventsInput struct {
	TripID string `json:"trip_id"`
}

func (h *travelHandlers) GetTripEvents(ctx context.Context, gate *session.Gate, input json.RawMessage) (json.RawMessage, error) {
	var in getTripEventsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, validationError("invalid input: %v", err)
	}
	if in.TripID == "" {
		return nil, validationError("trip_id is required")
	}

	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	// Verify ownership first. An absent trip and another user's trip
	// produce the identical error.
	ctx = store.WithAccessToken(ctx, sess.AccessToken)
	if _, err := h.store.GetTrip(ctx, in.TripID, sess.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("trip")
		}
		return nil, err
	}

	events, err := h.store.ListTripEvents(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	events = ownEvents(events, in.TripID)

	return json.Marshal(map[string]any{"events": events, "count": len(events)})
}

type createTripEventInput struct {
	TripID      string `json:"trip_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

func (h *travelHandlers) CreateTripEvent(ctx context.Context, gate *session.Gate, input json.RawMessage) (json.RawMessage, error) {
	var in createTripEventInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, validationError("invalid input: %v", err)
	}
	if in.TripID == "" {
		return nil, validationError("trip_id is required")
	}
	if in.Title == "" {
		return nil, validationError("title is required")
	}
	if in.Date == "" {
		return nil, validationError("date is required")
	}

	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	// Verify the trip belongs to this user before inserting anything.
	ctx = store.WithAccessToken(ctx, sess.AccessToken)
	if _, err := h.store.GetTrip(ctx, in.TripID, sess.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("trip")
		}
		return nil, err
	}

	event, err := h.store.CreateTripEvent(ctx, &store.Event{
		TripID:      in.TripID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(event)
}

// Notification handlers

func (h *travelHandlers) GetNotifications(ctx context.Context, gate *session.Gate, _ json.RawMessage) (json.RawMessage, error) {
	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	ctx = store.WithAccessToken(ctx, sess.AccessToken)
	notifications, err := h.store.ListNotifications(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	notifications = ownNotifications(notifications, sess.UserID)

	return json.Marshal(map[string]any{"notifications": notifications, "count": len(notifications)})
}

type markNotificationReadInput struct {
	NotificationID string `json:"notification_id"`
}

func (h *travelHandlers) MarkNotificationRead(ctx context.Context, gate *session.Gate, input json.RawMessage) (json.RawMessage, error) {
	var in markNotificationReadInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, validationError("invalid input: %v", err)
	}
	if in.NotificationID == "" {
		return nil, validationError("notification_id is required")
	}

	sess, err := gate.Require()
	if err != nil {
		return nil, err
	}

	ctx = store.WithAccessToken(ctx, sess.AccessToken)
	notification, err := h.store.MarkNotificationRead(ctx, in.NotificationID, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("notification")
		}
		return nil, err
	}

	return json.Marshal(notification)
}

// ownTrips keeps only rows owned by the given user, whatever the store
// returned.
func ownTrips(trips []*store.Trip, userID string) []*store.Trip {
	out := make([]*store.Trip, 0, len(trips))
	for _, t := range trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// ownEvents keeps only rows attached to the given trip, whatever the store
// returned. The trip's ownership was already verified.
func ownEvents(events []*store.Event, tripID string) []*store.Event {
	out := make([]*store.Event, 0, len(events))
	for _, e := range events {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out
}

// ownNotifications keeps only rows owned by the given user, whatever the
// store returned.
func ownNotifications(notifications []*store.Notification, userID string) []*store.Notification {
	out := make([]*store.Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
