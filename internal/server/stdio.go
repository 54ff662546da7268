package server

import (
	"context"
	"os"

	"github.com/agentfs/fileio-mcp/internal/transport"
)

// RunStdio serves one session over the process's standard streams.
// Framing is auto-detected from the first message. Returns when stdin
// reaches end-of-stream, a framing error occurs, or the client
// completes the shutdown handshake.
func (r *Runner) RunStdio(ctx context.Context) error {
	conn := transport.NewStdio(os.Stdin, os.Stdout, r.cfg.Protocol.MaxMessageBytes, nil)
	r.logger.Info("serving on stdio")
	r.ServeConn(ctx, conn)
	return nil
}
