package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agentfs/fileio-mcp/internal/monitoring"
	"github.com/agentfs/fileio-mcp/internal/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is left to the deploying environment.
		return true
	},
}

// WebSocketServer accepts protocol sessions over WebSocket, one session
// per connection, plus health and metrics endpoints.
type WebSocketServer struct {
	runner *Runner
	router *gin.Engine
	http   *http.Server
}

// NewWebSocket builds the router around an existing runner.
func NewWebSocket(runner *Runner) *WebSocketServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	if runner.metrics != nil {
		router.Use(monitoring.Middleware(runner.metrics))
	}

	s := &WebSocketServer{runner: runner, router: router}

	router.GET("/health", s.health)
	router.GET("/ws", s.handleConnection)
	if runner.metrics != nil {
		router.GET("/metrics", gin.WrapH(runner.metrics.Handler()))
	}
	return s
}

// Run serves until ctx is canceled, then shuts the listener down
// gracefully. Open sessions end when their connections close.
func (s *WebSocketServer) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.runner.cfg.Server.Host, s.runner.cfg.Server.Port)
	s.http = &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.runner.logger.Info("serving websocket", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *WebSocketServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fileio-mcp",
		"version": s.runner.version,
	})
}

// handleConnection upgrades the request and blocks serving the session
// until the connection ends.
func (s *WebSocketServer) handleConnection(c *gin.Context) {
	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.runner.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := transport.NewWebSocket(wsConn, s.runner.cfg.Protocol.MaxMessageBytes)
	s.runner.ServeConn(c.Request.Context(), conn)
}
