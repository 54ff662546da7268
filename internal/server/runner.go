package server

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agentfs/fileio-mcp/internal/config"
	"github.com/agentfs/fileio-mcp/internal/monitoring"
	"github.com/agentfs/fileio-mcp/internal/registry"
	"github.com/agentfs/fileio-mcp/internal/session"
	"github.com/agentfs/fileio-mcp/internal/transport"
)

// Runner drives sessions over transport connections. One Runner serves
// every connection; per-connection state lives in the session.
type Runner struct {
	registry *registry.Registry
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	cfg      *config.Config
	version  string
}

// NewRunner creates a connection runner. metrics may be nil.
func NewRunner(reg *registry.Registry, logger *zap.Logger, metrics *monitoring.Metrics, cfg *config.Config, version string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{
		registry: reg,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
		version:  version,
	}
}

// ServeConn reads messages from conn until the stream ends, a framing
// error occurs, or the session shuts down. It returns once the
// connection is fully torn down; the process and other connections are
// never affected.
func (r *Runner) ServeConn(ctx context.Context, conn transport.Conn) {
	if r.metrics != nil {
		r.metrics.ConnectionOpened()
		defer r.metrics.ConnectionClosed()
	}

	sess := session.New(r.registry, conn, r.logger, r.metrics, session.Options{
		ServerName:      "fileio-mcp",
		ServerVersion:   r.version,
		MaxInFlight:     r.cfg.Protocol.MaxInFlight,
		ShutdownTimeout: r.cfg.Protocol.ShutdownTimeout,
		RequestTimeout:  r.cfg.Protocol.RequestTimeout,
	})
	defer sess.Close()

	logger := r.logger.With(zap.String("session_id", sess.ID()))
	logger.Info("connection opened")
	defer logger.Info("connection closed")

	// Closing the connection unblocks the read loop when the session
	// finishes its shutdown handshake or the server stops.
	go func() {
		select {
		case <-sess.Done():
		case <-ctx.Done():
		}
		conn.Close()
	}()

	var limiter *rate.Limiter
	if r.cfg.RateLimit.Enabled {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit.RequestsPerSecond), r.cfg.RateLimit.Burst)
	}

	for {
		payload, err := conn.ReadMessage()
		if err != nil {
			var ferr *transport.FramingError
			switch {
			case errors.As(err, &ferr):
				logger.Warn("framing error, closing connection", zap.String("reason", ferr.Reason))
				if r.metrics != nil {
					r.metrics.RecordFramingError()
				}
			case errors.Is(err, transport.ErrClosed):
				logger.Debug("end of stream")
			default:
				logger.Warn("read failed, closing connection", zap.Error(err))
			}
			return
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		sess.HandleMessage(payload)
	}
}
