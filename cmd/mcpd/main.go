// ABOUTME: Entry point for the mcpd MCP server daemon
// ABOUTME: Selects a transport from config and serves the tool catalog

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/mcpd/internal/config"
	"github.com/2389/mcpd/internal/server"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                          _
 _ __ ___   ___ _ __   __| |
| '_ ' _ \ / __| '_ \ / _' |
| | | | | | (__| |_) | (_| |
|_| |_| |_|\___| .__/ \__,_|
               |_|
`

// getConfigPath returns the path to the mcpd config file.
// Priority: MCPD_CONFIG env var > XDG_CONFIG_HOME/mcpd/mcpd.yaml > ~/.config/mcpd/mcpd.yaml
func getConfigPath() string {
	if envPath := os.Getenv("MCPD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "mcpd.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "mcpd", "mcpd.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: mcpd <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the MCP server")
		fmt.Println("  init      Create a new config file interactively")
		fmt.Println("  tools     List the tools the server would expose")
		fmt.Println("  version   Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "tools":
		err = runTools()
	case "version":
		fmt.Printf("mcpd %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration. A missing file at the
// default location falls back to built-in defaults so a bare "mcpd serve"
// works as a stdio server; an explicitly configured path must exist.
func loadConfig() (*config.Config, string, error) {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) && os.Getenv("MCPD_CONFIG") == "" {
		return config.Default(), "(built-in defaults)", nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, configPath, nil
}

func runServe(ctx context.Context) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	// Stdio owns stdout for protocol frames; everything else goes to
	// stderr there, and the banner is suppressed entirely.
	stdioMode := cfg.Server.Transport == config.TransportStdio

	logOut := io.Writer(os.Stdout)
	if stdioMode {
		logOut = os.Stderr
	}
	logger := setupLogger(cfg.Logging, logOut)

	if !stdioMode {
		cyan := color.New(color.FgCyan)
		cyan.Print(banner)

		gray := color.New(color.FgHiBlack)
		gray.Printf("    version: %s\n\n", version)

		green := color.New(color.FgGreen)
		yellow := color.New(color.FgYellow)

		green.Print("    ▶ ")
		fmt.Printf("Config:    %s\n", configPath)
		green.Print("    ▶ ")
		fmt.Printf("Transport: %s\n", cfg.Server.Transport)
		green.Print("    ▶ ")
		fmt.Printf("Port:      %d", cfg.Server.Port)
		if cfg.OAuthEnabled() {
			yellow.Print("  [oauth]")
		}
		fmt.Println()
		fmt.Println()
	}

	logger.Info("starting mcpd",
		"config", configPath,
		"transport", cfg.Server.Transport,
	)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx)
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = &colorHandler{
			out:   out,
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	out    io.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(h.out, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		out:    h.out,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// runTools assembles the catalog the same way serve does and prints it.
func runTools() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := server.New(cfg, quiet)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	tools := srv.Registry().Tools()
	fmt.Printf("%d tool(s):\n\n", len(tools))
	for _, tool := range tools {
		cyan.Printf("  %s\n", tool.Name)
		if tool.Description != "" {
			gray.Printf("      %s\n", tool.Description)
		}
	}

	resources := srv.Registry().Resources()
	if len(resources) > 0 {
		fmt.Printf("\n%d resource(s):\n\n", len(resources))
		for _, res := range resources {
			cyan.Printf("  %s\n", res.URI)
			if res.Name != "" {
				gray.Printf("      %s\n", res.Name)
			}
		}
	}

	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("mcpd configuration setup")
	fmt.Println("========================")
	fmt.Println()

	defaultConfigPath := getConfigPath()

	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	// Check if file exists
	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	name := prompt(reader, "Server name", "mcpd")
	transport := prompt(reader, "Transport (stdio/sse/streamable-http)", config.TransportStdio)
	port := prompt(reader, "Port (HTTP transports)", fmt.Sprintf("%d", config.DefaultPort))

	fmt.Println("\n--- Auth Configuration ---")
	authType := prompt(reader, "Auth type (none/oauth)", "none")

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	// Generate config
	var cfg strings.Builder
	cfg.WriteString("# mcpd configuration\n")
	cfg.WriteString("# Generated by mcpd init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  name: \"%s\"\n", name))
	cfg.WriteString(fmt.Sprintf("  transport: \"%s\"\n", transport))
	cfg.WriteString(fmt.Sprintf("  port: %s\n", port))
	cfg.WriteString("  shutdown_timeout: \"5s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  type: \"%s\"\n", authType))
	cfg.WriteString("\n")

	cfg.WriteString("catalog:\n")
	cfg.WriteString("  # manifest: \"/etc/mcpd/resources.toml\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	// Ensure config directory exists
	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write config file
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  mcpd serve\n")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
