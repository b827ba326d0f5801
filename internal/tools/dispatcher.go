// ABOUTME: Dispatches tool calls to registered in-process handlers.
// ABOUTME: Applies per-call timeouts and classifies handler failures.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/luvya/luvya-gateway/internal/session"
)

// ErrToolNotFound indicates the requested tool is not registered.
var ErrToolNotFound = errors.New("tool not found")

// DefaultTimeout is the default timeout for tool execution.
const DefaultTimeout = 30 * time.Second

// Dispatcher routes tool calls to their handlers.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	timeout  time.Duration
}

// DispatcherConfig contains configuration options for the Dispatcher.
type DispatcherConfig struct {
	Registry *Registry
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewDispatcher creates a new Dispatcher with the given configuration.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Dispatcher{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// Dispatch executes the named tool with the caller's session gate.
// Returns ErrToolNotFound if no such tool is registered; that is a protocol
// error, not a tool result. Handler failures come back as *Error so
// transports can report the kind without string matching.
func (d *Dispatcher) Dispatch(ctx context.Context, gate *session.Gate, toolName string, input json.RawMessage) (json.RawMessage, error) {
	tool := d.registry.GetTool(toolName)
	if tool == nil {
		d.logger.Debug("tool not found in registry", "tool_name", toolName)
		return nil, ErrToolNotFound
	}

	timeout := d.timeout
	if tool.Definition.Timeout > 0 {
		timeout = tool.Definition.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d.logger.Info("→ dispatching tool call", "tool_name", toolName)

	result, err := tool.Handler(ctx, gate, input)
	if err != nil {
		terr := Classify(err)
		d.logger.Warn("tool error",
			"tool_name", toolName,
			"kind", terr.Kind,
			"recoverable", terr.Recoverable,
			"error", err,
		)
		return nil, terr
	}

	d.logger.Info("← tool responded", "tool_name", toolName)
	return result, nil
}
