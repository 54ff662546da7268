// Package config provides 12-factor configuration management for fileio-mcp.
//
// Configuration is loaded from environment variables with sensible defaults,
// optionally overridden by a YAML config file passed on the command line.
//
// Configuration Sections:
//   - Server: WebSocket-mode HTTP server settings (port, host)
//   - Protocol: message size, in-flight, and timeout bounds
//   - Logging: log level and output format
//   - RateLimit: per-connection message rate limiting
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - FILEIO_PORT, FILEIO_HOST
//   - FILEIO_MAX_MESSAGE_BYTES, FILEIO_MAX_IN_FLIGHT
//   - FILEIO_SHUTDOWN_TIMEOUT, FILEIO_REQUEST_TIMEOUT
//   - FILEIO_LOG_LEVEL, FILEIO_LOG_DEV
//   - FILEIO_RATE_LIMIT_RPS, FILEIO_RATE_LIMIT_BURST, FILEIO_RATE_LIMIT_ENABLED
package config
