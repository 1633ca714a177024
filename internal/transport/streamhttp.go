// ABOUTME: Streamable HTTP transport: request/response JSON-RPC over POST /mcp.
// ABOUTME: Optionally mounts the OAuth endpoints when auth is enabled.

package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/mcpd/internal/auth"
	"github.com/2389/mcpd/internal/config"
	"github.com/2389/mcpd/internal/mcp"
)

// ErrNoPushChannel is returned from Send: this transport has no
// server-initiated channel, every exchange rides a client POST.
var ErrNoPushChannel = fmt.Errorf("streamable-http transport has no push channel")

// StreamableHTTP serves the modern HTTP flavor of the protocol: each
// JSON-RPC request is a POST to /mcp and its response rides the same
// HTTP exchange.
type StreamableHTTP struct {
	dispatcher      *mcp.Dispatcher
	oauth           *auth.OAuth
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewStreamableHTTP builds the transport from server config. The OAuth
// endpoints are mounted only when config enables them.
func NewStreamableHTTP(cfg *config.Config, provider mcp.Provider, logger *slog.Logger) *StreamableHTTP {
	t := &StreamableHTTP{
		dispatcher:      mcp.NewDispatcher(provider, mcp.ProtocolVersion, logger),
		addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          logger.With("component", "streamhttp"),
	}
	if cfg.OAuthEnabled() {
		t.oauth = auth.NewOAuth(logger)
	}
	return t
}

// Handler returns the HTTP routes.
func (t *StreamableHTTP) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleMCP)
	mux.HandleFunc("/health", handleHealth)
	if t.oauth != nil {
		t.oauth.Mount(mux)
	}
	return mux
}

// Run serves HTTP until ctx is cancelled.
func (t *StreamableHTTP) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              t.addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServer(ctx, srv, t.shutdownTimeout, nil, t.logger)
}

// handleMCP dispatches one posted JSON-RPC request.
func (t *StreamableHTTP) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	dispatchBody(w, r, t.dispatcher, t.logger)
}

// Send always fails; responses only travel on the POST that carried the
// request.
func (t *StreamableHTTP) Send(msg any) error {
	return ErrNoPushChannel
}
