// ABOUTME: MCP result and params types for the four supported methods.
// ABOUTME: Field order matches the wire shape clients expect.

package mcp

import "encoding/json"

// Protocol versions advertised in initialize responses. The version is a
// per-transport constant, never negotiated: streamable HTTP and stdio speak
// the current revision, the SSE adapter predates it.
const (
	ProtocolVersion       = "2025-03-26"
	ProtocolVersionLegacy = "2024-11-05"
)

// Capabilities advertises the method families this layer serves. The empty
// objects are meaningful: they mark the capability as present.
type Capabilities struct {
	Tools     struct{} `json:"tools"`
	Resources struct{} `json:"resources"`
}

// ServerInfo identifies the server in initialize responses.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the result for initialize.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ListToolsResult is the result for tools/list.
type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is the result for tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content represents content in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ListResourcesResult is the result for resources/list.
type ListResourcesResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}
