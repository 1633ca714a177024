// ABOUTME: Tests for JSON-RPC envelope types and response construction.
// ABOUTME: Exercises notification detection and result/error exclusivity.

package jsonrpc

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIsNotification(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"absent id", "", true},
		{"null id", "null", true},
		{"numeric id", "1", false},
		{"string id", `"abc"`, false},
		{"zero id", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{JSONRPC: Version, Method: "tools/list"}
			if tt.id != "" {
				req.ID = json.RawMessage(tt.id)
			}
			if got := req.IsNotification(); got != tt.want {
				t.Errorf("IsNotification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewResponseCarriesResultOnly(t *testing.T) {
	resp := NewResponse(json.RawMessage("7"), map[string]string{"ok": "yes"})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"jsonrpc":"2.0"`) {
		t.Errorf("missing jsonrpc version: %s", s)
	}
	if !strings.Contains(s, `"id":7`) {
		t.Errorf("id not echoed: %s", s)
	}
	if !strings.Contains(s, `"result"`) {
		t.Errorf("missing result: %s", s)
	}
	if strings.Contains(s, `"error"`) {
		t.Errorf("success response must not carry error: %s", s)
	}
}

func TestNewErrorResponseCarriesErrorOnly(t *testing.T) {
	resp := NewErrorResponse(json.RawMessage(`"req-1"`), MethodNotFound, "Method not found", nil)

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"code":-32601`) {
		t.Errorf("missing error code: %s", s)
	}
	if !strings.Contains(s, `"id":"req-1"`) {
		t.Errorf("id not echoed: %s", s)
	}
	if strings.Contains(s, `"result"`) {
		t.Errorf("error response must not carry result: %s", s)
	}
	if strings.Contains(s, `"data"`) {
		t.Errorf("nil data must be omitted: %s", s)
	}
}

func TestParseErrorResponseHasNullID(t *testing.T) {
	resp := ParseErrorResponse("unexpected end of input")

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !strings.Contains(string(data), `"id":null`) {
		t.Errorf("parse error must carry id null, got %s", data)
	}
	if resp.Error == nil || resp.Error.Code != ParseError || resp.Error.Message != "Parse error" {
		t.Errorf("unexpected error object: %+v", resp.Error)
	}
	if !strings.Contains(string(data), `"data":"unexpected end of input"`) {
		t.Errorf("error data not preserved: %s", data)
	}
}
