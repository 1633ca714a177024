// Package transport binds the protocol dispatch layer to a process
// boundary: stdio pipes, HTTP with server-sent events, or streamable
// HTTP.
//
// # Overview
//
// Every adapter satisfies the same Transport interface:
//
//	type Transport interface {
//		Run(ctx context.Context) error
//		Send(msg any) error
//	}
//
// The factory picks the adapter named in configuration:
//
//	t, err := transport.New(cfg, provider, logger)
//	if err != nil {
//		// unknown transport name: fail startup
//	}
//	err = t.Run(ctx)
//
// An unrecognized transport name is a configuration mistake and is
// reported before anything listens, never mapped to a JSON-RPC error.
//
// # Stdio
//
// One JSON-RPC frame per line on stdin, one response per line on
// stdout. Requests are handled strictly in arrival order. Nothing but
// protocol frames is ever written to stdout; lifecycle diagnostics go
// to stderr so a driving process can parse responses safely.
//
// # SSE
//
// The legacy two-endpoint HTTP flavor:
//
//   - GET /mcp: long-lived text/event-stream connection. The first
//     event names the POST endpoint; afterwards every broadcast frame
//     arrives as a data event.
//   - POST /messages: submit a JSON-RPC request. The reply rides the
//     POST exchange itself; Send broadcasts are what travel on the
//     event streams.
//
// Slow streams drop frames instead of stalling the broadcast; each
// client has a fixed buffer.
//
// # Streamable HTTP
//
// The single-endpoint flavor: POST /mcp carries one request and its
// response per exchange. When OAuth is enabled in configuration the
// authorization endpoints are mounted on the same mux.
//
// # Error Mapping
//
// JSON-RPC protocol errors always travel as HTTP 200 bodies; an
// oversized or unreadable body becomes a JSON-RPC error the same way.
// Notifications, which produce no response, are acknowledged with
// HTTP 202. Plain HTTP status codes are reserved for conditions below
// the protocol, such as a wrong HTTP method.
package transport
