// ABOUTME: Tool, pack and handler types for in-process gateway tools.
// ABOUTME: Handlers receive the caller's session gate and raw JSON arguments.

package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/luvya/luvya-gateway/internal/session"
)

// Handler executes one tool call. It receives the caller's session gate and
// the tool arguments as JSON, and returns the result as JSON. Failures
// should be taxonomy errors; anything else is classified by the dispatcher.
type Handler func(ctx context.Context, gate *session.Gate, input json.RawMessage) (json.RawMessage, error)

// Definition describes a tool as advertised to clients.
type Definition struct {
	Name        string
	Description string
	InputSchema string // JSON Schema document

	// Timeout overrides the dispatcher default when set.
	Timeout time.Duration
}

// Tool pairs a definition with its handler.
type Tool struct {
	Definition *Definition
	Handler    Handler
}

// Pack is a named collection of tools registered together.
type Pack struct {
	ID    string
	Tools []*Tool
}
