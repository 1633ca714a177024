// ABOUTME: Wire codec for JSON-RPC frames: decode, encode, newline splitting.
// ABOUTME: Pure functions with no I/O so every transport shares one behavior.

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses a single frame into a Request. Invalid JSON, a missing
// method, or a version other than "2.0" are all decode failures; callers
// map the error to a -32700 response with a null id.
func Decode(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if req.JSONRPC != Version {
		return nil, fmt.Errorf("unsupported jsonrpc version %q", req.JSONRPC)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("missing method")
	}
	return &req, nil
}

// Encode serializes a message for the wire. Line-oriented transports append
// their own trailing newline.
func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// SplitFrames breaks a chunk of input into individual frames, one per line.
// Blank lines are dropped. A malformed frame is still returned so the caller
// can answer it with a parse error without losing its siblings.
func SplitFrames(chunk []byte) [][]byte {
	var frames [][]byte
	for _, line := range bytes.Split(chunk, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		frames = append(frames, line)
	}
	return frames
}
