// Package mcp implements the Model Context Protocol server for the travel tools.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This package
// provides an MCP-compatible HTTP server that exposes the gateway's travel tools
// and HTML widgets to external AI clients (like Claude Desktop, other LLMs, or
// custom applications).
//
// # Protocol
//
// The server implements the Streamable HTTP transport: JSON-RPC 2.0 over a single
// endpoint.
//
//   - POST /mcp - JSON-RPC requests (initialize, tools/list, tools/call,
//     resources/list, resources/read)
//   - DELETE /mcp - session termination
//
// Server-initiated SSE streams are not supported; GET returns 405.
//
// # Sessions
//
// initialize creates a session and returns its ID in the Mcp-Session-Id header.
// Every other request must echo that header. Each session owns a travel auth
// gate that starts closed: the data tools refuse to run until authenticate_user
// opens it, and terminating the session (DELETE) discards the gate along with
// any credentials it held.
//
// # Authentication
//
// The transport itself is protected by bearer JWTs minted through the OAuth
// surface:
//
//	Authorization: Bearer <token>
//
// This is separate from the travel login: a valid transport token gets a client
// through initialize, but the per-session gate still requires authenticate_user
// before any trip, event or notification tool will answer.
//
// # Tool Execution
//
// Clients call tools/call to execute a tool:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "create_trip",
//	    "arguments": {"title": "Tokyo", "start_date": "2026-04-01", "end_date": "2026-04-10"}
//	  },
//	  "id": 2
//	}
//
// Tool failures are returned in-band as results with isError set and a JSON body
// naming the failure kind (gate, auth, validation, store, not_found), so the
// model can decide whether to re-authenticate, fix its arguments, or give up.
// JSON-RPC errors are reserved for protocol mistakes such as unknown tools or
// malformed params.
//
// # Widgets
//
// resources/list advertises the embedded HTML widgets (widget://trips,
// widget://events, widget://notifications) and resources/read returns their
// static shells.
//
// # Usage
//
// Create and mount the MCP server:
//
//	server, err := mcp.NewServer(mcp.Config{
//		Registry:   registry,
//		Dispatcher: dispatcher,
//		Widgets:    catalog,
//		Verifier:   verifier,
//	})
//	server.RegisterRoutes(mux)
package mcp
