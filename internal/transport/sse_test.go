// ABOUTME: Tests for the SSE transport's stream registry and broadcast path.
// ABOUTME: Verifies headers, endpoint discovery, fan-out, and POST dispatch.

package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/mcpd/internal/jsonrpc"
)

func newTestSSE() *SSE {
	return NewSSE(testConfig("sse"), &stubProvider{}, testLogger())
}

func TestSSEStreamHeadersAndEndpointEvent(t *testing.T) {
	sse := newTestSSE()

	// A pre-cancelled context makes the handler return right after setup.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	sse.handleStream(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	assert.Contains(t, rec.Body.String(), "event: endpoint\ndata: /messages\n\n")

	if sse.StreamCount() != 0 {
		t.Errorf("stream should be removed after handler returns, count = %d", sse.StreamCount())
	}
}

func TestSSEStreamRejectsNonGet(t *testing.T) {
	sse := newTestSSE()
	rec := httptest.NewRecorder()
	sse.handleStream(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSSEMessageEndpoint(t *testing.T) {
	sse := newTestSSE()
	srv := httptest.NewServer(sse.Handler())
	defer srv.Close()

	t.Run("request gets response on the POST", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
		resp, err := http.Post(srv.URL+"/messages", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var decoded jsonrpc.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		assert.Equal(t, "1", string(decoded.ID))
		result, ok := decoded.Result.(map[string]any)
		require.True(t, ok, "result should be an object")
		assert.Equal(t, "2024-11-05", result["protocolVersion"])
	})

	t.Run("notification gets 202", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","method":"tools/list"}`
		resp, err := http.Post(srv.URL+"/messages", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("GET is rejected", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/messages")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestSSESendReachesOpenStream(t *testing.T) {
	sse := newTestSSE()
	srv := httptest.NewServer(sse.Handler())
	defer srv.Close()

	conn, err := http.Get(srv.URL + "/mcp")
	require.NoError(t, err)
	defer conn.Body.Close()

	reader := bufio.NewReader(conn.Body)

	// Endpoint discovery comes first.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: endpoint\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: /messages\n", line)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	// A server push arrives as a data frame.
	push := jsonrpc.NewResponse(json.RawMessage("42"), "pong")
	require.NoError(t, sse.Send(push))

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "), "expected data frame, got %q", line)

	var decoded jsonrpc.Response
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &decoded))
	assert.Equal(t, "42", string(decoded.ID))
	assert.Equal(t, "pong", decoded.Result)
}

func TestSSESendFansOutToEveryStream(t *testing.T) {
	sse := newTestSSE()

	streams := make([]*stream, 3)
	for i := range streams {
		streams[i] = sse.addStream()
	}
	if sse.StreamCount() != 3 {
		t.Fatalf("expected 3 streams, got %d", sse.StreamCount())
	}

	err := sse.Send(map[string]string{"jsonrpc": "2.0", "method": "ping"})
	require.NoError(t, err)

	for i, s := range streams {
		select {
		case frame := <-s.ch:
			assert.Contains(t, string(frame), `"ping"`, "stream %d frame", i)
		default:
			t.Errorf("stream %d received no frame", i)
		}
		select {
		case extra := <-s.ch:
			t.Errorf("stream %d received extra frame %q", i, extra)
		default:
		}
	}
}

func TestSSEStreamSendDropsWhenClosedOrFull(t *testing.T) {
	t.Run("closed stream drops", func(t *testing.T) {
		s := &stream{id: "s1", ch: make(chan []byte, 1)}
		s.close()
		if s.send([]byte("x")) {
			t.Error("send to closed stream should report a drop")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s := &stream{id: "s2", ch: make(chan []byte, 1)}
		s.close()
		s.close()
	})

	t.Run("full buffer drops", func(t *testing.T) {
		s := &stream{id: "s3", ch: make(chan []byte, 1)}
		if !s.send([]byte("first")) {
			t.Fatal("first send should succeed")
		}
		if s.send([]byte("second")) {
			t.Error("send past a full buffer should report a drop")
		}
	})
}

func TestSSECloseStreamsUnblocksHandler(t *testing.T) {
	sse := newTestSSE()
	srv := httptest.NewServer(sse.Handler())
	defer srv.Close()

	conn, err := http.Get(srv.URL + "/mcp")
	require.NoError(t, err)
	defer conn.Body.Close()

	// Wait for the handler to register its stream.
	deadline := time.Now().Add(2 * time.Second)
	for sse.StreamCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sse.closeStreams()

	// With its channel closed the handler returns and the body ends.
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 512)
		for {
			if _, err := conn.Body.Read(buf); err != nil {
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream body did not end after closeStreams")
	}

	if sse.StreamCount() != 0 {
		t.Errorf("stream registry should be empty, count = %d", sse.StreamCount())
	}
}

func TestSSEHealth(t *testing.T) {
	sse := newTestSSE()
	srv := httptest.NewServer(sse.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSSEBroadcastSkipsRemovedStream(t *testing.T) {
	sse := newTestSSE()
	s := sse.addStream()
	sse.removeStream(s.id)

	if sse.StreamCount() != 0 {
		t.Fatalf("expected empty registry, got %d", sse.StreamCount())
	}

	// Broadcasting after removal must not panic on the closed channel.
	require.NoError(t, sse.Send(map[string]string{"jsonrpc": "2.0", "method": "ping"}))
}

func TestSSEParseErrorOnPost(t *testing.T) {
	sse := newTestSSE()
	srv := httptest.NewServer(sse.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/messages", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var decoded jsonrpc.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.NotNil(t, decoded.Error)
	assert.Equal(t, jsonrpc.ParseError, decoded.Error.Code)
}
