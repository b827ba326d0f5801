// Package gateway orchestrates the luvya-gateway server components.
//
// # Overview
//
// The gateway package is the central coordinator of the luvya-gateway
// server. It owns and manages all major components: the hosted store
// client, the tool registry and dispatcher, the widget catalog, and the
// MCP and OAuth HTTP servers.
//
// # Gateway Struct
//
// The Gateway struct is the main entry point:
//
//	type Gateway struct {
//	    config      *config.Config
//	    store       *store.Client
//	    registry    *tools.Registry
//	    dispatcher  *tools.Dispatcher
//	    widgets     *widgets.Catalog
//	    mcpServer   *mcp.Server
//	    oauthServer *oauth.Server
//	    httpServer  *http.Server
//	    // ... and more
//	}
//
// # HTTP Surface
//
// Everything is served on one listener. The MCP and OAuth servers register
// their own routes; the gateway adds probes and widget previews:
//
//   - POST /mcp - MCP Streamable HTTP endpoint (JSON-RPC 2.0)
//   - GET /.well-known/oauth-authorization-server - OAuth metadata
//   - GET /.well-known/jwks.json - Signing key descriptor
//   - POST /register - OAuth dynamic client registration
//   - GET /authorize - OAuth authorization + consent page
//   - POST /token - OAuth code exchange
//   - GET /health - Liveness check
//   - GET /ready - Readiness check (pings the hosted database)
//   - GET /widgets/{name} - Widget preview with sample rows
//
// Routing goes through chi with RequestID, RealIP, and Recoverer
// middleware. Gateway routes are declared on the router directly; the
// MCP/OAuth mux is mounted at the root and catches everything else.
//
// # Token Wiring
//
// A single auth.JWTVerifier is shared by the OAuth server (which signs
// access tokens at /token) and the MCP server (which verifies them on
// initialize), so issuer and audience always agree. The verified subject
// becomes the session's transport principal; travel data access still
// requires authenticate_user inside the session.
//
// # Lifecycle
//
// Start the gateway:
//
//	gw, err := gateway.New(cfg, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	go gw.Run(ctx)
//
// Graceful shutdown:
//
//	cancel()
//
// Run waits for the context, then shuts the HTTP server down with a fresh
// 5 second timeout. Shutdown may also be called directly and is safe to
// call more than once.
//
// # Key Files
//
//   - gateway.go: Gateway struct, wiring, Run/Shutdown
//   - handlers.go: health/readiness probes and widget previews
package gateway
