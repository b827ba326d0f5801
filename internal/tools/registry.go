// ABOUTME: Thread-safe registry of tool packs for the gateway.
// ABOUTME: Guards against duplicate pack IDs and tool name collisions.

package tools

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPackAlreadyRegistered indicates a pack with the same ID is already registered.
var ErrPackAlreadyRegistered = errors.New("pack already registered")

// ErrToolCollision indicates a tool name already exists from another pack.
var ErrToolCollision = errors.New("tool name collision")

// registryEntry stores a tool with its pack ID for lookup.
type registryEntry struct {
	tool   *Tool
	packID string
}

// Registry maintains the set of registered packs and their tools.
type Registry struct {
	mu     sync.RWMutex
	packs  map[string]*Pack
	tools  map[string]*registryEntry
	order  []string // tool names in registration order
	logger *slog.Logger
}

// NewRegistry creates a new Registry instance.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		packs:  make(map[string]*Pack),
		tools:  make(map[string]*registryEntry),
		logger: logger,
	}
}

// RegisterPack validates and stores a pack and its tools.
// Returns ErrPackAlreadyRegistered if a pack with the same ID exists.
// Returns ErrToolCollision if any tool name already exists from another pack.
func (r *Registry) RegisterPack(pack *Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packs[pack.ID]; exists {
		return ErrPackAlreadyRegistered
	}

	// Check for tool name collisions before registering
	for _, tool := range pack.Tools {
		if entry, exists := r.tools[tool.Definition.Name]; exists {
			return fmt.Errorf("%w: tool '%s' already registered by pack '%s'",
				ErrToolCollision, tool.Definition.Name, entry.packID)
		}
	}

	r.packs[pack.ID] = pack
	for _, tool := range pack.Tools {
		r.tools[tool.Definition.Name] = &registryEntry{tool: tool, packID: pack.ID}
		r.order = append(r.order, tool.Definition.Name)
	}

	r.logger.Info("=== PACK REGISTERED ===",
		"pack_id", pack.ID,
		"tool_count", len(pack.Tools),
		"total_packs", len(r.packs),
		"total_tools", len(r.tools),
	)

	return nil
}

// GetTool returns a tool by name, or nil if not registered.
func (r *Registry) GetTool(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.tools[name]
	if !exists {
		return nil
	}
	return entry.tool
}

// HasTool reports whether a tool with the given name is registered.
func (r *Registry) HasTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Definitions returns all tool definitions in registration order. Clients
// see a stable listing across repeated calls.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].tool.Definition)
	}
	return defs
}

// PackInfo contains public information about a registered pack.
type PackInfo struct {
	ID        string
	ToolNames []string
}

// ListPacks returns information about all registered packs in registration
// order of their tools.
func (r *Registry) ListPacks() []PackInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byPack := make(map[string][]string)
	var packOrder []string
	for _, name := range r.order {
		packID := r.tools[name].packID
		if _, seen := byPack[packID]; !seen {
			packOrder = append(packOrder, packID)
		}
		byPack[packID] = append(byPack[packID], name)
	}

	infos := make([]PackInfo, 0, len(packOrder))
	for _, packID := range packOrder {
		infos = append(infos, PackInfo{ID: packID, ToolNames: byPack[packID]})
	}
	return infos
}
