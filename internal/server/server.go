// ABOUTME: Top-level server wiring: catalog, manifest, and transport assembly.
// ABOUTME: Owns the run lifecycle from configuration to transport shutdown.

package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/mcpd/internal/catalog"
	"github.com/2389/mcpd/internal/config"
	"github.com/2389/mcpd/internal/mcp"
	"github.com/2389/mcpd/internal/transport"
)

// Server assembles the catalog and the configured transport.
type Server struct {
	config    *config.Config
	registry  *catalog.Registry
	transport transport.Transport
	logger    *slog.Logger
}

// New builds a ready-to-run server from configuration. The demo pack is
// always registered; resources come from the manifest when one is
// configured. An unknown transport name fails here, before anything
// listens.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	registry := catalog.NewRegistry(mcp.Identity{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, logger)

	if err := registry.RegisterPack(catalog.DemoPack()); err != nil {
		return nil, fmt.Errorf("register demo pack: %w", err)
	}

	if cfg.Catalog.Manifest != "" {
		manifest, err := catalog.LoadManifest(cfg.Catalog.Manifest)
		if err != nil {
			return nil, fmt.Errorf("load resource manifest: %w", err)
		}
		if err := registry.ApplyManifest(manifest); err != nil {
			return nil, fmt.Errorf("apply resource manifest: %w", err)
		}
	}

	tr, err := transport.New(cfg, registry, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:    cfg,
		registry:  registry,
		transport: tr,
		logger:    logger.With("component", "server"),
	}, nil
}

// Run serves until ctx is cancelled. The transport owns graceful
// shutdown; when Run returns, the server is finished.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("server starting",
		"name", s.config.Server.Name,
		"version", s.config.Server.Version,
		"transport", s.config.Server.Transport,
		"tools", s.registry.ToolCount(),
		"resources", s.registry.ResourceCount(),
	)
	return s.transport.Run(ctx)
}

// Registry exposes the assembled catalog, mainly for inspection commands.
func (s *Server) Registry() *catalog.Registry {
	return s.registry
}
