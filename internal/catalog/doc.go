// Package catalog provides the reference capability provider: an in-memory
// registry of tools and resources that satisfies mcp.Provider.
//
// Tools arrive in packs, groups registered under one ID so collisions can
// name the owner. Handlers execute in-process and never appear in listings;
// tools/list sees only the descriptor triple (name, description, schema).
//
// Resources come either from packs or from a TOML manifest:
//
//	[[resources]]
//	uri = "env://HOME"
//	name = "HOME"
//	description = "Home directory of the serving user"
//	mime_type = "text/plain"
//
// Manifest values may reference environment variables as ${VAR}; references
// are expanded before parsing. The registry is safe for concurrent use and
// holds everything in memory; nothing is persisted.
package catalog
