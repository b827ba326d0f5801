// ABOUTME: Tests for the gateway HTTP surface assembled by buildRouter.
// ABOUTME: Verifies probes, widget previews, and the mounted MCP/OAuth routes.

package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve routes one request through the gateway's full HTTP handler chain.
func serve(gw *Gateway, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	gw.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	gw := newTestGateway(t)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleReady(t *testing.T) {
	gw := newTestGateway(t)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}

func TestHandleReady_StoreDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"maintenance"}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(backend.Close)

	gw, err := New(testConfig(t, backend.URL), testLogger())
	require.NoError(t, err)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "store unreachable", rec.Body.String())
}

func TestHandleWidgetPreview_Trips(t *testing.T) {
	gw := newTestGateway(t)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/widgets/trips", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	html := rec.Body.String()
	assert.Contains(t, html, "✈️ My Trips")
	assert.Contains(t, html, "Tokyo Spring")
	assert.Contains(t, html, "Lisbon Weekend")
	// Markdown in descriptions renders as HTML.
	assert.Contains(t, html, "<strong>Kyoto</strong>")
	assert.NotContains(t, html, "Loading trips...")
}

func TestHandleWidgetPreview_Events(t *testing.T) {
	gw := newTestGateway(t)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/widgets/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, html, "📅 Trip Events")
	// Subtitle names the trip the sample events belong to.
	assert.Contains(t, html, `<h2 class="trip-name">Tokyo Spring</h2>`)
	assert.Contains(t, html, "Omakase Dinner")
	assert.Contains(t, html, "Ueno Park Hanami")
}

func TestHandleWidgetPreview_Notifications(t *testing.T) {
	gw := newTestGateway(t)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/widgets/notifications", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, html, "🔔 Notifications")
	assert.Contains(t, html, `class="notification unread"`)
	assert.Contains(t, html, "<strong>Tokyo Spring</strong>")
}

func TestHandleWidgetPreview_Unknown(t *testing.T) {
	gw := newTestGateway(t)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/widgets/bogus", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestMountedMCPRoute proves the MCP endpoint is reachable through the
// router and negotiates a session.
func TestMountedMCPRoute(t *testing.T) {
	gw := newTestGateway(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(gw, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Mcp-Session-Id"))

	var reply struct {
		Result struct {
			ServerInfo struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "luvya-gateway", reply.Result.ServerInfo.Name)
}

// TestMountedOAuthRoutes proves the OAuth surface is reachable through the
// router and carries the configured issuer.
func TestMountedOAuthRoutes(t *testing.T) {
	cfg := testConfig(t, fakeSupabase(t).URL)
	cfg.Server.BaseURL = "https://luvya.example.com"

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)

	rec := serve(gw, httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var metadata map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metadata))
	assert.Equal(t, "https://luvya.example.com", metadata["issuer"])
	assert.Equal(t, "https://luvya.example.com/token", metadata["token_endpoint"])

	rec = serve(gw, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"client_name":"probe"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

// TestRouterMethodHandling checks routing outside the registered method set.
// Probes are GET-only routes; other methods fall through to the mounted mux,
// which has no matching pattern.
func TestRouterMethodHandling(t *testing.T) {
	gw := newTestGateway(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"post to health", http.MethodPost, "/health", http.StatusNotFound},
		{"get to mcp", http.MethodGet, "/mcp", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(gw, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
