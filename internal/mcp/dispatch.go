// ABOUTME: Method dispatcher mapping JSON-RPC requests onto a provider.
// ABOUTME: Fixed routing table, shared by all transports, panic-safe.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/2389/mcpd/internal/jsonrpc"
)

// Dispatcher routes decoded requests to the provider. One instance is built
// per transport so each advertises its own protocol version.
type Dispatcher struct {
	provider        Provider
	protocolVersion string
	logger          *slog.Logger
}

// NewDispatcher creates a dispatcher bound to a provider and the protocol
// version its transport advertises.
func NewDispatcher(provider Provider, protocolVersion string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		provider:        provider,
		protocolVersion: protocolVersion,
		logger:          logger.With("component", "dispatch"),
	}
}

// DispatchRaw decodes one frame and dispatches it. A frame that does not
// decode is answered with -32700 and a null id. A nil return means the
// frame was a notification and nothing is written back.
func (d *Dispatcher) DispatchRaw(ctx context.Context, frame []byte) *jsonrpc.Response {
	req, err := jsonrpc.Decode(frame)
	if err != nil {
		d.logger.Debug("frame rejected", "error", err)
		return jsonrpc.ParseErrorResponse(err.Error())
	}
	return d.Dispatch(ctx, req)
}

// Dispatch routes a single request. Exactly four methods exist; anything
// else is answered with -32601 without touching the provider.
func (d *Dispatcher) Dispatch(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	d.logger.Debug("request received", "method", req.Method, "id", string(req.ID))

	var resp *jsonrpc.Response
	switch req.Method {
	case "initialize":
		resp = d.handleInitialize(req)
	case "tools/list":
		resp = d.handleToolsList(req)
	case "tools/call":
		resp = d.handleToolsCall(ctx, req)
	case "resources/list":
		resp = d.handleResourcesList(req)
	default:
		d.logger.Debug("method not found", "method", req.Method)
		resp = jsonrpc.NewErrorResponse(req.ID, jsonrpc.MethodNotFound, "Method not found", nil)
	}

	if req.IsNotification() {
		return nil
	}
	d.logger.Debug("request handled", "method", req.Method, "error", resp.Error != nil)
	return resp
}

func (d *Dispatcher) handleInitialize(req *jsonrpc.Request) *jsonrpc.Response {
	ident := d.provider.Identity()
	return jsonrpc.NewResponse(req.ID, InitializeResult{
		ProtocolVersion: d.protocolVersion,
		Capabilities:    Capabilities{},
		ServerInfo:      ServerInfo{Name: ident.Name, Version: ident.Version},
	})
}

func (d *Dispatcher) handleToolsList(req *jsonrpc.Request) *jsonrpc.Response {
	tools := d.provider.Tools()
	if tools == nil {
		tools = []ToolDescriptor{}
	}
	return jsonrpc.NewResponse(req.ID, ListToolsResult{Tools: tools})
}

func (d *Dispatcher) handleResourcesList(req *jsonrpc.Request) *jsonrpc.Response {
	resources := d.provider.Resources()
	if resources == nil {
		resources = []ResourceDescriptor{}
	}
	return jsonrpc.NewResponse(req.ID, ListResourcesResult{Resources: resources})
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError, "Internal error", fmt.Sprintf("invalid tool call params: %v", err))
	}

	d.logger.Debug("→ dispatching tool call", "tool", params.Name)
	result, err := d.callTool(ctx, params.Name, params.Arguments)
	if err != nil {
		d.logger.Warn("tool call failed", "tool", params.Name, "error", err)
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError, "Internal error", err.Error())
	}

	text, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InternalError, "Internal error", fmt.Sprintf("unserializable tool result: %v", err))
	}

	d.logger.Debug("← tool responded", "tool", params.Name)
	return jsonrpc.NewResponse(req.ID, CallToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	})
}

// callTool invokes the provider with panic containment. A panicking handler
// becomes an error response; the transport keeps serving.
func (d *Dispatcher) callTool(ctx context.Context, name string, args json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %q panicked: %v", name, r)
		}
	}()
	return d.provider.CallTool(ctx, name, args)
}
