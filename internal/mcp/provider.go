// ABOUTME: Capability provider contract consumed by the dispatcher.
// ABOUTME: Identity, tool and resource descriptors, and tool invocation.

package mcp

import (
	"context"
	"encoding/json"
)

// Identity names the server in initialize responses.
type Identity struct {
	Name    string
	Version string
}

// ToolDescriptor is the wire-visible projection of a tool. Handlers and any
// registry bookkeeping stay behind the provider; only this triple is listed.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ResourceDescriptor is the wire-visible projection of a resource.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// Provider supplies the capabilities a transport serves. Implementations
// must be safe for concurrent use: the HTTP transports dispatch requests
// in parallel.
type Provider interface {
	// Identity returns the name and version advertised on initialize.
	Identity() Identity

	// Tools returns the current tool catalog.
	Tools() []ToolDescriptor

	// Resources returns the current resource catalog.
	Resources() []ResourceDescriptor

	// CallTool executes a tool by name. Any error, including an unknown
	// tool name, is reported to the client as an internal error with the
	// message preserved; it never terminates the transport.
	CallTool(ctx context.Context, name string, args json.RawMessage) (any, error)
}
