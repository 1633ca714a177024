// ABOUTME: Demo pack with trivial in-process tools: echo and server_time.
// ABOUTME: Gives a fresh install something to list and call.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2389/mcpd/internal/mcp"
)

// DemoPack creates the demo pack with echo and server_time tools.
func DemoPack() *Pack {
	return &Pack{
		ID: "builtin:demo",
		Tools: []*Tool{
			{
				Descriptor: mcp.ToolDescriptor{
					Name:        "echo",
					Description: "Echo a message back to the caller",
					InputSchema: json.RawMessage(`{"type":"object","properties":{"message":{"type":"string"}},"required":["message"]}`),
				},
				Handler: echoTool,
			},
			{
				Descriptor: mcp.ToolDescriptor{
					Name:        "server_time",
					Description: "Report the current server time",
					InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
				},
				Handler: serverTimeTool,
			},
		},
	}
}

type echoInput struct {
	Message string `json:"message"`
}

func echoTool(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in echoInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return json.Marshal(map[string]string{"message": in.Message})
}

func serverTimeTool(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"time": time.Now().UTC().Format(time.RFC3339)})
}
