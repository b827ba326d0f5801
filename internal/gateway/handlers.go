// ABOUTME: HTTP handlers the gateway serves beside the MCP and OAuth surfaces
// ABOUTME: Health and readiness probes plus browser previews of the widgets

package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luvya/luvya-gateway/internal/store"
	"github.com/luvya/luvya-gateway/internal/widgets"
)

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the hosted database answers.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := g.store.Ping(r.Context()); err != nil {
		g.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unreachable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleWidgetPreview renders a widget with sample rows so the documents can
// be inspected in a browser without an MCP client. MCP clients read the same
// documents, empty, through resources/read.
func (g *Gateway) handleWidgetPreview(w http.ResponseWriter, r *http.Request) {
	uri := "widget://" + chi.URLParam(r, "name")
	html, err := g.widgets.Render(uri, previewData(uri))
	if errors.Is(err, widgets.ErrUnknownWidget) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		g.logger.Error("rendering widget preview", "uri", uri, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// previewData returns sample rows for a widget URI, nil for unknown URIs.
func previewData(uri string) any {
	switch uri {
	case widgets.TripsURI:
		return widgets.TripsData{Trips: previewTrips()}
	case widgets.EventsURI:
		return widgets.EventsData{Trip: previewTrips()[0], Events: previewEvents()}
	case widgets.NotificationsURI:
		return widgets.NotificationsData{Notifications: previewNotifications()}
	default:
		return nil
	}
}

func previewTrips() []*store.Trip {
	return []*store.Trip{
		{
			ID:          "preview-trip-1",
			Title:       "Tokyo Spring",
			Description: "Cherry blossom week with a **Kyoto** day trip.",
			StartDate:   "2026-04-01",
			EndDate:     "2026-04-10",
		},
		{
			ID:          "preview-trip-2",
			Title:       "Lisbon Weekend",
			Description: "Pasteis, *miradouros*, and the coast train to Cascais.",
			StartDate:   "2026-05-15",
			EndDate:     "2026-05-18",
		},
	}
}

func previewEvents() []*store.Event {
	return []*store.Event{
		{
			ID:          "preview-event-1",
			TripID:      "preview-trip-1",
			Title:       "Omakase Dinner",
			Description: "Counter seats, booked **months** ahead.",
			Date:        "2026-04-02",
			Location:    "Ginza",
		},
		{
			ID:       "preview-event-2",
			TripID:   "preview-trip-1",
			Title:    "Ueno Park Hanami",
			Date:     "2026-04-03",
			Location: "Ueno",
		},
	}
}

func previewNotifications() []*store.Notification {
	return []*store.Notification{
		{
			ID:      "preview-note-1",
			Title:   "Trip reminder",
			Message: "Your trip **Tokyo Spring** starts in 3 days.",
			Read:    false,
		},
		{
			ID:      "preview-note-2",
			Title:   "Welcome to Luvya",
			Message: "Plan your first trip to get started.",
			Read:    true,
		},
	}
}
