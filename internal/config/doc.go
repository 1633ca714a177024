// Package config handles mcpd configuration loading and validation.
//
// Configuration is read from YAML. A complete file looks like:
//
//	server:
//	  name: mcpd
//	  version: 0.1.0
//	  transport: streamable-http   # stdio | sse | streamable-http
//	  port: 3000                   # HTTP transports only
//	  shutdown_timeout: 5s
//	auth:
//	  type: oauth                  # none | oauth
//	catalog:
//	  manifest: /etc/mcpd/catalog.toml
//	logging:
//	  level: info                  # debug | info | warn | error
//	  format: text                 # text | json
//
// Every field is optional; Load fills defaults (stdio transport, port 3000)
// before validating. Values may reference environment variables as ${VAR},
// expanded against the process environment before parsing, so secrets can
// stay out of the file.
//
// The transport string is deliberately not validated here. The transport
// factory owns the set of adapters and rejects unknown names at startup.
package config
