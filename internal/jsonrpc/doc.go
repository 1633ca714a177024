// Package jsonrpc implements the JSON-RPC 2.0 envelope and wire codec used
// by every transport in mcpd.
//
// # Messages
//
// A Request with an absent or null id is a notification: it is processed
// but never answered. Every other request receives exactly one Response,
// carrying either a result or an error object, never both.
//
// # Error codes
//
// The reserved JSON-RPC range is declared in full, but this layer only ever
// emits three of the codes:
//
//	-32700  ParseError      frame was not a valid request
//	-32601  MethodNotFound  method outside the fixed routing table
//	-32603  InternalError   handler failure, message preserved in error.data
//
// # Framing
//
// HTTP transports carry one frame per request body. The stdio transport is
// line-oriented: SplitFrames breaks a chunk on newlines, drops blanks, and
// keeps malformed lines so each can be answered with its own parse error.
package jsonrpc
