// ABOUTME: HTML widgets served to MCP clients as embedded resources.
// ABOUTME: Renders the trips, events and notifications views from templates.

package widgets

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/luvya/luvya-gateway/internal/store"
)

// Widget URIs as advertised in the MCP resource listing.
const (
	TripsURI         = "widget://trips"
	EventsURI        = "widget://events"
	NotificationsURI = "widget://notifications"
)

// ErrUnknownWidget is returned when a URI does not name a widget.
var ErrUnknownWidget = errors.New("unknown widget")

// Resource describes one widget for the MCP resource listing.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// TripsData feeds the trips widget. A nil or empty slice renders the
// loading shell instead of rows.
type TripsData struct {
	Trips []*store.Trip
}

// EventsData feeds the events widget. Trip is optional and adds a
// subtitle naming the trip the events belong to.
type EventsData struct {
	Trip   *store.Trip
	Events []*store.Event
}

// NotificationsData feeds the notifications widget. Unread rows are
// highlighted.
type NotificationsData struct {
	Notifications []*store.Notification
}

// widgetTemplates maps each URI to its embedded template file.
var widgetTemplates = map[string]string{
	TripsURI:         "trips.html",
	EventsURI:        "events.html",
	NotificationsURI: "notifications.html",
}

// Catalog holds the parsed widget templates and serves rendered documents.
type Catalog struct {
	templates *template.Template
}

// New parses the embedded templates. It fails only if the embedded files
// are malformed, which would be a build defect.
func New() (*Catalog, error) {
	tmpl := template.New("widgets").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
	})
	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing widget templates: %w", err)
	}
	return &Catalog{templates: tmpl}, nil
}

// List returns the widget descriptors in a stable order.
func (c *Catalog) List() []Resource {
	return []Resource{
		{
			URI:         TripsURI,
			Name:        "My Trips",
			Description: "Trips management widget",
			MimeType:    "text/html",
		},
		{
			URI:         EventsURI,
			Name:        "Trip Events",
			Description: "Trip events management widget",
			MimeType:    "text/html",
		},
		{
			URI:         NotificationsURI,
			Name:        "Notifications",
			Description: "Notifications management widget",
			MimeType:    "text/html",
		},
	}
}

// Render produces the HTML document for a widget URI. A nil data value
// renders the widget's empty shell, which is what MCP resource reads get.
func (c *Catalog) Render(uri string, data any) (string, error) {
	name, ok := widgetTemplates[uri]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownWidget, uri)
	}
	if data == nil {
		data = emptyData(uri)
	}
	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering widget %s: %w", uri, err)
	}
	return buf.String(), nil
}

// emptyData returns the zero value each template expects so field lookups
// succeed when no rows are supplied.
func emptyData(uri string) any {
	switch uri {
	case TripsURI:
		return TripsData{}
	case EventsURI:
		return EventsData{}
	default:
		return NotificationsData{}
	}
}

// renderMarkdown converts user-authored markdown into HTML for the
// templates. goldmark drops raw HTML by default, so user content cannot
// inject script into the page.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
