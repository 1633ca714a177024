// ABOUTME: SSE transport: long-lived GET event streams plus a POST endpoint.
// ABOUTME: Posted requests answer on their own exchange; Send broadcasts.

package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/mcpd/internal/config"
	"github.com/2389/mcpd/internal/jsonrpc"
	"github.com/2389/mcpd/internal/mcp"
)

// streamBufferSize is how many pending frames a slow client can fall
// behind before broadcasts to it are dropped.
const streamBufferSize = 64

// stream is one connected SSE client.
type stream struct {
	id string
	ch chan []byte

	closeMu sync.Mutex
	closed  bool
}

// send queues a frame without blocking. Returns false when the frame was
// dropped, either because the stream closed or its buffer is full.
func (s *stream) send(frame []byte) bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- frame:
		return true
	default:
		return false
	}
}

// close marks the stream closed and closes its channel. Safe to call
// more than once.
func (s *stream) close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// SSE serves the legacy HTTP+SSE flavor of the protocol: clients hold a
// GET /mcp event stream open and post requests to /messages. Each posted
// request is answered on its own HTTP exchange; the event streams carry
// server-initiated pushes, which fan out to every connected client.
type SSE struct {
	dispatcher      *mcp.Dispatcher
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu      sync.RWMutex
	streams map[string]*stream
}

// NewSSE builds the SSE transport from server config.
func NewSSE(cfg *config.Config, provider mcp.Provider, logger *slog.Logger) *SSE {
	return &SSE{
		dispatcher:      mcp.NewDispatcher(provider, mcp.ProtocolVersionLegacy, logger),
		addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          logger.With("component", "sse"),
		streams:         make(map[string]*stream),
	}
}

// Handler returns the HTTP routes.
func (t *SSE) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleStream)
	mux.HandleFunc("/messages", t.handleMessage)
	mux.HandleFunc("/health", handleHealth)
	return mux
}

// Run serves HTTP until ctx is cancelled, then closes every stream so
// their handlers can drain before the listener shuts down.
func (t *SSE) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              t.addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServer(ctx, srv, t.shutdownTimeout, t.closeStreams, t.logger)
}

// handleStream upgrades a GET into a long-lived event stream.
func (t *SSE) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	s := t.addStream()
	defer t.removeStream(s.id)

	// Legacy clients discover the POST endpoint from this first event.
	fmt.Fprintf(w, "event: endpoint\ndata: /messages\n\n")
	flusher.Flush()

	t.logger.Info("stream connected", "stream_id", s.id)

	for {
		select {
		case <-r.Context().Done():
			t.logger.Info("stream disconnected", "stream_id", s.id)
			return
		case frame, ok := <-s.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
	}
}

// handleMessage accepts posted JSON-RPC requests. The reply is
// point-to-point on the POST exchange; the event streams only carry
// server-initiated broadcasts.
func (t *SSE) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	dispatchBody(w, r, t.dispatcher, t.logger)
}

// Send pushes one message to every connected stream.
func (t *SSE) Send(msg any) error {
	data, err := jsonrpc.Encode(msg)
	if err != nil {
		return err
	}
	t.broadcast(data)
	return nil
}

// broadcast fans a frame out to a snapshot of the registry. Sends happen
// outside the registry lock so a slow stream cannot stall the others.
func (t *SSE) broadcast(frame []byte) {
	t.mu.RLock()
	targets := make([]*stream, 0, len(t.streams))
	for _, s := range t.streams {
		targets = append(targets, s)
	}
	t.mu.RUnlock()

	for _, s := range targets {
		if !s.send(frame) {
			t.logger.Debug("dropped frame for stream", "stream_id", s.id)
		}
	}
}

// addStream registers a new client stream.
func (t *SSE) addStream() *stream {
	s := &stream{
		id: uuid.New().String(),
		ch: make(chan []byte, streamBufferSize),
	}
	t.mu.Lock()
	t.streams[s.id] = s
	t.mu.Unlock()
	return s
}

// removeStream closes and forgets a stream.
func (t *SSE) removeStream(id string) {
	t.mu.Lock()
	s, ok := t.streams[id]
	delete(t.streams, id)
	t.mu.Unlock()

	if ok {
		s.close()
	}
}

// closeStreams shuts every stream so in-flight handlers unblock. Runs
// before the HTTP server starts draining connections.
func (t *SSE) closeStreams() {
	t.mu.Lock()
	streams := t.streams
	t.streams = make(map[string]*stream)
	t.mu.Unlock()

	for _, s := range streams {
		s.close()
	}
	if len(streams) > 0 {
		t.logger.Info("closed streams for shutdown", "count", len(streams))
	}
}

// StreamCount reports connected clients.
func (t *SSE) StreamCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.streams)
}
