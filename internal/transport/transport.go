// ABOUTME: Transport contract and factory selecting an adapter from config.
// ABOUTME: Shared HTTP plumbing for the SSE and streamable adapters.

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/mcpd/internal/config"
	"github.com/2389/mcpd/internal/jsonrpc"
	"github.com/2389/mcpd/internal/mcp"
)

// maxRequestBodySize is the maximum allowed size for request bodies (1MB).
const maxRequestBodySize = 1 << 20

// defaultShutdownTimeout bounds graceful shutdown when the configuration
// does not set one.
const defaultShutdownTimeout = 5 * time.Second

// Transport serves the dispatch layer over one process boundary. All three
// adapters present the same protocol; only framing differs.
type Transport interface {
	// Run serves until ctx is cancelled or the transport fails. Run owns
	// graceful shutdown: when it returns, the transport is finished.
	Run(ctx context.Context) error

	// Send pushes a server-initiated message to connected clients. The SSE
	// adapter broadcasts to every open stream, stdio writes one line, and
	// streamable HTTP has no push channel at all.
	Send(msg any) error
}

// New selects and builds the transport named in the configuration. An
// unknown name is a configuration error and fails startup; it is never
// surfaced as a runtime dispatch error.
func New(cfg *config.Config, provider mcp.Provider, logger *slog.Logger) (Transport, error) {
	switch cfg.Server.Transport {
	case config.TransportStdio:
		return NewStdio(provider, StdioOptions{}, logger), nil
	case config.TransportSSE:
		return NewSSE(cfg, provider, logger), nil
	case config.TransportStreamableHTTP:
		return NewStreamableHTTP(cfg, provider, logger), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (valid: %s, %s, %s)",
			cfg.Server.Transport, config.TransportStdio, config.TransportSSE, config.TransportStreamableHTTP)
	}
}

// writeResponse writes a JSON-RPC response body. Protocol errors ride on
// HTTP 200; only transport-level failures use plain HTTP status codes.
func writeResponse(w http.ResponseWriter, resp *jsonrpc.Response, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}

// dispatchBody reads one frame from an HTTP body and answers it on the
// same exchange. Shared by the POST endpoints of both HTTP adapters.
func dispatchBody(w http.ResponseWriter, r *http.Request, d *mcp.Dispatcher, logger *slog.Logger) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		writeResponse(w, jsonrpc.NewErrorResponse(nil, jsonrpc.ParseError, "failed to read request body", nil), logger)
		return
	}
	if int64(len(body)) > maxRequestBodySize {
		writeResponse(w, jsonrpc.NewErrorResponse(nil, jsonrpc.InvalidRequest, "request body too large", nil), logger)
		return
	}

	resp := d.DispatchRaw(r.Context(), body)
	if resp == nil {
		// Notification: accept with no body
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeResponse(w, resp, logger)
}

// handleHealth answers liveness probes.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// runServer serves until ctx is cancelled, then shuts the server down
// gracefully within the timeout. onShutdown, if non-nil, runs before
// Shutdown so adapters can release resources that would otherwise keep
// handlers alive.
func runServer(ctx context.Context, srv *http.Server, timeout time.Duration, onShutdown func(), logger *slog.Logger) error {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if onShutdown != nil {
			onShutdown()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}
}
