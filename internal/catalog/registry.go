// ABOUTME: Thread-safe registry of tools and resources backing the dispatcher.
// ABOUTME: Implements the mcp.Provider contract for in-process capabilities.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/2389/mcpd/internal/mcp"
)

// ErrPackAlreadyRegistered indicates a pack with the same ID is already registered.
var ErrPackAlreadyRegistered = errors.New("pack already registered")

// ErrToolCollision indicates a tool name already exists from another pack.
var ErrToolCollision = errors.New("tool name collision")

// ErrToolNotFound indicates the specified tool was not found.
var ErrToolNotFound = errors.New("tool not found")

// ErrResourceCollision indicates a resource URI is already registered.
var ErrResourceCollision = errors.New("resource uri collision")

// ToolHandler executes a tool call in-process. Input is the raw arguments
// object from the request; output is the raw JSON result.
type ToolHandler func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// Tool pairs a wire descriptor with its handler. Only the descriptor is
// ever listed; the handler stays registry-internal.
type Tool struct {
	Descriptor mcp.ToolDescriptor
	Handler    ToolHandler
}

// Pack groups tools registered together under one ID.
type Pack struct {
	ID    string
	Tools []*Tool
}

// toolEntry tracks a registered tool with its owning pack ID.
type toolEntry struct {
	tool   *Tool
	packID string
}

// Registry is the reference Provider: identity from config, tools from
// registered packs, resources from packs or a manifest. All methods are
// safe for concurrent use.
type Registry struct {
	identity mcp.Identity
	logger   *slog.Logger

	mu            sync.RWMutex
	packs         map[string]*Pack
	tools         map[string]*toolEntry
	toolOrder     []string
	resources     map[string]mcp.ResourceDescriptor
	resourceOrder []string
}

// NewRegistry creates an empty registry serving the given identity.
func NewRegistry(identity mcp.Identity, logger *slog.Logger) *Registry {
	return &Registry{
		identity:  identity,
		logger:    logger.With("component", "catalog"),
		packs:     make(map[string]*Pack),
		tools:     make(map[string]*toolEntry),
		resources: make(map[string]mcp.ResourceDescriptor),
	}
}

// RegisterPack validates and stores a pack and its tools.
// Returns ErrPackAlreadyRegistered if a pack with the same ID exists.
// Returns ErrToolCollision if any tool name is already taken.
func (r *Registry) RegisterPack(pack *Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packs[pack.ID]; exists {
		return fmt.Errorf("%w: '%s'", ErrPackAlreadyRegistered, pack.ID)
	}

	// Check for collisions before touching the registry
	for _, tool := range pack.Tools {
		name := tool.Descriptor.Name
		if existing, exists := r.tools[name]; exists {
			return fmt.Errorf("%w: tool '%s' already registered by pack '%s'",
				ErrToolCollision, name, existing.packID)
		}
	}

	for _, tool := range pack.Tools {
		r.tools[tool.Descriptor.Name] = &toolEntry{tool: tool, packID: pack.ID}
		r.toolOrder = append(r.toolOrder, tool.Descriptor.Name)
	}
	r.packs[pack.ID] = pack

	r.logger.Info("=== PACK REGISTERED ===",
		"pack_id", pack.ID,
		"tool_count", len(pack.Tools),
		"total_tools", len(r.tools),
	)

	return nil
}

// RegisterResource adds one resource descriptor. Returns
// ErrResourceCollision if the URI is already registered.
func (r *Registry) RegisterResource(res mcp.ResourceDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[res.URI]; exists {
		return fmt.Errorf("%w: '%s'", ErrResourceCollision, res.URI)
	}
	r.resources[res.URI] = res
	r.resourceOrder = append(r.resourceOrder, res.URI)

	r.logger.Debug("resource registered", "uri", res.URI, "name", res.Name)
	return nil
}

// Identity returns the server identity advertised on initialize.
func (r *Registry) Identity() mcp.Identity {
	return r.identity
}

// Tools returns descriptors for all registered tools in registration order.
// Handlers and pack IDs are stripped; this is the wire projection.
func (r *Registry) Tools() []mcp.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.ToolDescriptor, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		tools = append(tools, r.tools[name].tool.Descriptor)
	}
	return tools
}

// Resources returns all registered resource descriptors in registration order.
func (r *Registry) Resources() []mcp.ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resources := make([]mcp.ResourceDescriptor, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		resources = append(resources, r.resources[uri])
	}
	return resources
}

// CallTool looks up a tool and runs its handler. The handler runs outside
// the registry lock so a slow tool never blocks listings.
func (r *Registry) CallTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	entry, exists := r.tools[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrToolNotFound, name)
	}

	r.logger.Debug("→ invoking tool", "tool", name, "pack", entry.packID)
	result, err := entry.tool.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("← tool completed", "tool", name)
	return result, nil
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// ResourceCount returns the number of registered resources.
func (r *Registry) ResourceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resources)
}
