// Package mcp implements the Model Context Protocol method layer: a fixed
// dispatch table over a pluggable capability provider.
//
// # Overview
//
// Transports hand raw frames (or decoded requests) to a Dispatcher; the
// Dispatcher routes them to exactly four methods and shapes the results:
//
//	initialize      -> protocol version, capabilities, server identity
//	tools/list      -> tool descriptors from the provider
//	tools/call      -> one tool invocation, result wrapped as text content
//	resources/list  -> resource descriptors from the provider
//
// Any other method is answered with -32601 Method not found; the provider
// is never consulted for it.
//
// # Providers
//
// The Provider interface is the seam between protocol plumbing and
// capability logic. The in-process reference implementation lives in
// internal/catalog; deployments embed their own. Provider failures of any
// kind, error returns and panics alike, surface to the client as
//
//	{"code": -32603, "message": "Internal error", "data": "<message>"}
//
// and never take the transport down.
//
// # Tool results
//
// Whatever a tool returns is JSON-marshalled and wrapped in the MCP content
// envelope:
//
//	{"content": [{"type": "text", "text": "<json>"}]}
//
// Raw JSON results pass through verbatim; Go values are stringified.
//
// # Protocol versions
//
// The advertised protocolVersion is a compile-time property of the
// transport that owns the dispatcher, never negotiated per request. One
// dispatcher is constructed per transport for exactly this reason.
package mcp
