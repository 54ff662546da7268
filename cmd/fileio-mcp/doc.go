// Package main is the entry point for the fileio-mcp tool server.
//
// The server exposes filesystem operations to an automated client
// through a JSON-RPC tool protocol, over either the process's standard
// streams or WebSocket connections.
//
// Usage:
//
//	# Stdio mode (default): one session over stdin/stdout
//	fileio-mcp serve
//
//	# WebSocket mode: /ws, /health, /metrics
//	fileio-mcp serve --mode websocket --host 0.0.0.0 --port 8080
//
//	# With a YAML config file
//	fileio-mcp serve --config /etc/fileio-mcp.yaml
//
// Configuration:
//   - Environment variables (FILEIO_ prefix, 12-factor)
//   - Optional YAML config file
//   - CLI flags (override both)
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
