// ABOUTME: Line-oriented stdio transport: one JSON-RPC frame per line.
// ABOUTME: Strictly sequential; diagnostics go to a separate stream.

package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/2389/mcpd/internal/jsonrpc"
	"github.com/2389/mcpd/internal/mcp"
)

// stdioBufferSize caps a single input line at the same 1MB the HTTP
// adapters allow per body.
const stdioBufferSize = maxRequestBodySize

// StdioOptions overrides the process streams, mainly for tests and
// embedders. Zero values bind os.Stdin, os.Stdout, and os.Stderr.
type StdioOptions struct {
	In   io.Reader
	Out  io.Writer
	Diag io.Writer

	// OnShutdown runs once when the input stream ends. The transport never
	// exits the process itself; the owner decides what ending input means.
	OnShutdown func()
}

// Stdio serves the protocol over standard input and output. Requests are
// handled strictly in arrival order, one at a time; protocol output is the
// only thing ever written to Out, lifecycle diagnostics go to Diag.
type Stdio struct {
	dispatcher *mcp.Dispatcher
	in         io.Reader
	out        io.Writer
	diag       io.Writer
	onShutdown func()
	logger     *slog.Logger

	mu      sync.Mutex // guards out and started
	started bool
}

// NewStdio builds the stdio transport around a provider.
func NewStdio(provider mcp.Provider, opts StdioOptions, logger *slog.Logger) *Stdio {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Diag == nil {
		opts.Diag = os.Stderr
	}

	return &Stdio{
		dispatcher: mcp.NewDispatcher(provider, mcp.ProtocolVersion, logger),
		in:         opts.In,
		out:        opts.Out,
		diag:       opts.Diag,
		onShutdown: opts.OnShutdown,
		logger:     logger.With("component", "stdio"),
	}
}

// Run reads frames until the input ends or ctx is cancelled. Calling Run
// again while a loop is active returns immediately.
func (t *Stdio) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return nil
	}
	t.started = true
	t.mu.Unlock()

	fmt.Fprintln(t.diag, "[mcpd] stdio transport started")
	t.logger.Info("stdio transport started")

	frames := make(chan []byte)
	scanErr := make(chan error, 1)
	go t.readLoop(frames, scanErr)

	for {
		select {
		case <-ctx.Done():
			t.stop("context cancelled")
			return nil
		case chunk, ok := <-frames:
			if !ok {
				err := <-scanErr
				t.stop("input closed")
				return err
			}
			for _, frame := range jsonrpc.SplitFrames(chunk) {
				if resp := t.dispatcher.DispatchRaw(ctx, frame); resp != nil {
					t.write(resp)
				}
			}
		}
	}
}

// readLoop feeds input lines to the dispatch loop. The line copy matters:
// the scanner reuses its buffer.
func (t *Stdio) readLoop(frames chan<- []byte, scanErr chan<- error) {
	defer close(frames)

	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), stdioBufferSize)

	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		frames <- line
	}
	scanErr <- scanner.Err()
}

// stop emits the stopped diagnostic and fires the shutdown hook.
func (t *Stdio) stop(reason string) {
	fmt.Fprintln(t.diag, "[mcpd] stdio transport stopped")
	t.logger.Info("stdio transport stopped", "reason", reason)
	if t.onShutdown != nil {
		t.onShutdown()
	}
}

// Send writes one server-initiated message as a single line.
func (t *Stdio) Send(msg any) error {
	data, err := jsonrpc.Encode(msg)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = fmt.Fprintf(t.out, "%s\n", data)
	return err
}

// write emits one response with its trailing newline.
func (t *Stdio) write(resp *jsonrpc.Response) {
	data, err := jsonrpc.Encode(resp)
	if err != nil {
		t.logger.Error("failed to encode response", "error", err)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s\n", data)
}
