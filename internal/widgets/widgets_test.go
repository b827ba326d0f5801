// ABOUTME: Tests for the embedded widget catalog.
// ABOUTME: Covers listing, shell rendering, row rendering and markdown handling.

package widgets

import (
	"errors"
	"strings"
	"testing"

	"github.com/luvya/luvya-gateway/internal/store"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := New()
	if err != nil {
		t.Fatalf("failed to parse widget templates: %v", err)
	}
	return catalog
}

func TestListDescriptors(t *testing.T) {
	catalog := newTestCatalog(t)

	resources := catalog.List()
	if len(resources) != 3 {
		t.Fatalf("expected 3 widgets, got %d", len(resources))
	}

	wantURIs := []string{TripsURI, EventsURI, NotificationsURI}
	for i, want := range wantURIs {
		if resources[i].URI != want {
			t.Errorf("resource %d: expected URI %s, got %s", i, want, resources[i].URI)
		}
		if resources[i].MimeType != "text/html" {
			t.Errorf("resource %d: expected text/html, got %s", i, resources[i].MimeType)
		}
		if resources[i].Name == "" || resources[i].Description == "" {
			t.Errorf("resource %d: missing name or description", i)
		}
	}
}

func TestRenderEmptyShell(t *testing.T) {
	catalog := newTestCatalog(t)

	cases := []struct {
		uri     string
		heading string
		loading string
	}{
		{TripsURI, "✈️ My Trips", "Loading trips..."},
		{EventsURI, "📅 Trip Events", "Loading events..."},
		{NotificationsURI, "🔔 Notifications", "Loading notifications..."},
	}

	for _, tc := range cases {
		t.Run(tc.uri, func(t *testing.T) {
			html, err := catalog.Render(tc.uri, nil)
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if !strings.Contains(html, tc.heading) {
				t.Errorf("expected heading %q in output", tc.heading)
			}
			if !strings.Contains(html, tc.loading) {
				t.Errorf("expected placeholder %q in output", tc.loading)
			}
			if !strings.Contains(html, "widget loaded successfully!") {
				t.Error("expected loader script in empty shell")
			}
		})
	}
}

func TestRenderTripsWithRows(t *testing.T) {
	catalog := newTestCatalog(t)

	data := TripsData{Trips: []*store.Trip{
		{ID: "t1", Title: "Tokyo", StartDate: "2026-04-01", EndDate: "2026-04-10", Description: "**Cherry blossom** season"},
		{ID: "t2", Title: "Lisbon", StartDate: "2026-06-05", EndDate: "2026-06-12"},
	}}

	html, err := catalog.Render(TripsURI, data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(html, "Tokyo") || !strings.Contains(html, "Lisbon") {
		t.Error("expected both trip titles in output")
	}
	if !strings.Contains(html, "2026-04-01 to 2026-04-10") {
		t.Error("expected trip date range in output")
	}
	if !strings.Contains(html, "<strong>Cherry blossom</strong>") {
		t.Error("expected markdown description rendered to HTML")
	}
	if strings.Contains(html, "Loading trips...") {
		t.Error("loading placeholder should not appear when rows are present")
	}
	if strings.Contains(html, "widget loaded successfully!") {
		t.Error("loader script should not appear when rows are present")
	}
}

func TestRenderEventsWithTripSubtitle(t *testing.T) {
	catalog := newTestCatalog(t)

	data := EventsData{
		Trip: &store.Trip{ID: "t1", Title: "Tokyo"},
		Events: []*store.Event{
			{ID: "e1", TripID: "t1", Title: "Museum visit", Date: "2026-04-02", Location: "Ueno"},
			{ID: "e2", TripID: "t1", Title: "Dinner", Date: "2026-04-03", Description: "Try the *omakase*"},
		},
	}

	html, err := catalog.Render(EventsURI, data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(html, "Tokyo") {
		t.Error("expected trip subtitle in output")
	}
	if !strings.Contains(html, "Museum visit") || !strings.Contains(html, "Ueno") {
		t.Error("expected event title and location in output")
	}
	if !strings.Contains(html, "<em>omakase</em>") {
		t.Error("expected markdown description rendered to HTML")
	}
}

func TestRenderNotificationsMarksUnread(t *testing.T) {
	catalog := newTestCatalog(t)

	data := NotificationsData{Notifications: []*store.Notification{
		{ID: "n1", Title: "Flight change", Message: "Gate moved to B12", Read: false},
		{ID: "n2", Title: "Welcome", Message: "Thanks for joining", Read: true},
	}}

	html, err := catalog.Render(NotificationsURI, data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(html, `class="notification unread"`) {
		t.Error("expected unread row to carry the unread class")
	}
	if strings.Count(html, "unread") != 2 {
		// Once in the stylesheet, once on the unread row.
		t.Errorf("expected exactly one unread row, got %d occurrences", strings.Count(html, "unread"))
	}
	if !strings.Contains(html, "Gate moved to B12") {
		t.Error("expected notification message in output")
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	catalog := newTestCatalog(t)

	data := TripsData{Trips: []*store.Trip{
		{ID: "t1", Title: "<script>alert(1)</script>", StartDate: "2026-01-01", EndDate: "2026-01-02", Description: "<script>alert(2)</script>"},
	}}

	html, err := catalog.Render(TripsURI, data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if strings.Contains(html, "<script>alert") {
		t.Error("user content must not inject script tags")
	}
}

func TestRenderUnknownURI(t *testing.T) {
	catalog := newTestCatalog(t)

	_, err := catalog.Render("widget://bogus", nil)
	if !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget, got %v", err)
	}
}
