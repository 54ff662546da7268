// Package server wires transports to sessions.
//
// The runner drives one connection: it reads framed messages, hands
// them to the connection's session, and tears the connection down on a
// framing error or after shutdown completes. Two entry points exist:
//   - Stdio mode serves exactly one session over the process's
//     standard streams, with framing auto-detected from the first
//     message.
//   - WebSocket mode serves any number of concurrent connections, one
//     session each, behind a Gin router that also exposes /health and
//     /metrics.
//
// All sessions share one read-only tool registry; no mutable state
// crosses connections.
//
// Example Usage:
//
//	reg, _ := registry.New(logger, fileio.Tools()...)
//	runner := server.NewRunner(reg, logger, metrics, cfg)
//
//	// Stdio mode
//	runner.RunStdio(ctx)
//
//	// WebSocket mode
//	srv := server.NewWebSocket(runner, logger, metrics, cfg)
//	srv.Run(ctx)
package server
