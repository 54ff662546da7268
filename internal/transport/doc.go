// Package transport converts raw byte channels into discrete protocol
// messages.
//
// The stdio transport auto-detects, on the first message, whether the
// client speaks Content-Length framing (JSON-RPC/LSP style) or
// newline-delimited JSON, and commits to that discipline for the life of
// the connection. The WebSocket transport maps one text frame to one
// message and lets the library absorb fragmentation and keep-alive
// control frames.
//
// Framing failures are fatal to the connection, never to the process.
package transport
