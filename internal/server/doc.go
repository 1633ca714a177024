// Package server wires configuration, catalog, and transport into a
// runnable unit.
//
// # Overview
//
// New performs all assembly:
//
//  1. Build the tool/resource registry with the configured identity
//  2. Register the built-in demo pack
//  3. Apply the resource manifest, when configured
//  4. Select and construct the transport adapter
//
// Assembly failures, including an unknown transport name, surface from
// New so misconfiguration is reported before anything listens. Run then
// hands the process over to the transport until the context is
// cancelled.
package server
