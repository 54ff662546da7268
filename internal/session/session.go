// Package session implements the per-connection protocol lifecycle. A
// Session owns one client connection's state machine, enforces the
// initialize handshake before any tool call, fans tool invocations out
// to concurrent workers, and drains them on shutdown.
package session

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentfs/fileio-mcp/internal/monitoring"
	"github.com/agentfs/fileio-mcp/internal/protocol"
	"github.com/agentfs/fileio-mcp/internal/registry"
)

// State is a session's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateShuttingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SupportedProtocolVersions lists the protocol revisions this server
// speaks. Negotiation is exact match, never a silent downgrade.
var SupportedProtocolVersions = []string{"2024-11-05", "2025-06-18", "2025-11-25"}

// Sender delivers an encoded response frame to the client. Responses
// from concurrent invocations may interleave; implementations must be
// safe for concurrent use.
type Sender interface {
	WriteMessage(payload []byte) error
}

// Options bounds a session's resource use.
type Options struct {
	ServerName      string
	ServerVersion   string
	MaxInFlight     int
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

func (o *Options) withDefaults() {
	if o.ServerName == "" {
		o.ServerName = "fileio-mcp"
	}
	if o.ServerVersion == "" {
		o.ServerVersion = "dev"
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 16
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 2 * time.Minute
	}
}

// Session is one client connection's protocol state. It is exclusively
// owned by that connection's read loop; the shared registry is the only
// structure it touches that other sessions can see.
type Session struct {
	id       string
	registry *registry.Registry
	sender   Sender
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	opts     Options

	mu              sync.Mutex
	state           State
	protocolVersion string

	inflight sync.WaitGroup
	sem      chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session in the uninitialized state.
func New(reg *registry.Registry, sender Sender, logger *zap.Logger, metrics *monitoring.Metrics, opts Options) *Session {
	opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		registry: reg,
		sender:   sender,
		logger:   logger.With(zap.String("session_id", id)),
		metrics:  metrics,
		opts:     opts,
		sem:      make(chan struct{}, opts.MaxInFlight),
		done:     make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session reaches the closed state and the
// connection should be torn down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close forces the session into the closed state without the shutdown
// handshake, used when the connection drops underneath it.
func (s *Session) Close() {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.done) })
}

// HandleMessage processes one framed payload. It never blocks on a tool
// invocation; slow handlers run in their own goroutine so the read loop
// stays responsive.
func (s *Session) HandleMessage(payload []byte) {
	msg, perr := protocol.Decode(payload)
	if perr != nil {
		var id json.RawMessage
		if msg != nil {
			id = msg.ID
		}
		s.recordRequest("invalid", perr.Code, 0)
		s.writeError(id, perr)
		return
	}

	if msg.IsNotification() {
		s.handleNotification(msg)
		return
	}
	s.handleRequest(msg)
}

func (s *Session) handleNotification(msg *protocol.Message) {
	switch msg.Method {
	case "initialized", "notifications/initialized":
		s.mu.Lock()
		if s.state == StateInitializing {
			s.state = StateReady
			s.mu.Unlock()
			s.logger.Info("session ready", zap.String("protocol_version", s.protocolVersion))
			return
		}
		state := s.state
		s.mu.Unlock()
		s.logger.Warn("initialized notification in unexpected state", zap.Stringer("state", state))
	default:
		s.logger.Debug("ignoring notification", zap.String("method", msg.Method))
	}
}

func (s *Session) handleRequest(msg *protocol.Message) {
	start := time.Now()
	switch msg.Method {
	case "initialize":
		s.handleInitialize(msg, start)
	case "ping":
		s.recordRequest(msg.Method, 0, time.Since(start))
		s.write(msg.ID, struct{}{})
	case "tools/list":
		if perr := s.gate(); perr != nil {
			s.recordRequest(msg.Method, perr.Code, time.Since(start))
			s.writeError(msg.ID, perr)
			return
		}
		s.recordRequest(msg.Method, 0, time.Since(start))
		s.write(msg.ID, map[string]any{"tools": s.registry.List()})
	case "tools/call":
		if perr := s.gate(); perr != nil {
			s.recordRequest(msg.Method, perr.Code, time.Since(start))
			s.writeError(msg.ID, perr)
			return
		}
		s.dispatchCall(msg)
	case "shutdown":
		s.handleShutdown(msg, start)
	default:
		perr := protocol.NewError(protocol.CodeMethodNotFound, "Method not found: %s", msg.Method)
		s.recordRequest(msg.Method, perr.Code, time.Since(start))
		s.writeError(msg.ID, perr)
	}
}

// gate rejects tool traffic outside the ready state.
func (s *Session) gate() *protocol.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateUninitialized, StateInitializing:
		return protocol.NewError(protocol.CodeNotInitialized, "Server not initialized")
	case StateShuttingDown, StateClosed:
		return protocol.NewError(protocol.CodeShuttingDown, "Server is shutting down")
	}
	return nil
}

type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type serverCapabilities struct {
	Tools toolsCapability `json:"tools"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

func (s *Session) handleInitialize(msg *protocol.Message, start time.Time) {
	s.mu.Lock()
	if s.state != StateUninitialized {
		state := s.state
		s.mu.Unlock()
		var perr *protocol.Error
		if state == StateShuttingDown || state == StateClosed {
			perr = protocol.NewError(protocol.CodeShuttingDown, "Server is shutting down")
		} else {
			perr = protocol.NewError(protocol.CodeInvalidRequest, "Session already initialized")
		}
		s.recordRequest(msg.Method, perr.Code, time.Since(start))
		s.writeError(msg.ID, perr)
		return
	}
	s.mu.Unlock()

	var params initializeParams
	if len(msg.Params) > 0 {
		if err := sonic.Unmarshal(msg.Params, &params); err != nil {
			perr := protocol.NewError(protocol.CodeInvalidParams, "Invalid initialize params: %v", err)
			s.recordRequest(msg.Method, perr.Code, time.Since(start))
			s.writeError(msg.ID, perr)
			return
		}
	}

	if !versionSupported(params.ProtocolVersion) {
		perr := protocol.NewError(protocol.CodeInvalidParams,
			"Unsupported protocol version: %s", params.ProtocolVersion)
		perr.Data = map[string]any{"supported": SupportedProtocolVersions}
		s.recordRequest(msg.Method, perr.Code, time.Since(start))
		s.writeError(msg.ID, perr)
		return
	}

	s.mu.Lock()
	s.state = StateInitializing
	s.protocolVersion = params.ProtocolVersion
	s.mu.Unlock()

	s.logger.Info("session initializing",
		zap.String("protocol_version", params.ProtocolVersion),
		zap.String("client", params.ClientInfo.Name))

	s.recordRequest(msg.Method, 0, time.Since(start))
	s.write(msg.ID, initializeResult{
		ProtocolVersion: params.ProtocolVersion,
		Capabilities:    serverCapabilities{Tools: toolsCapability{ListChanged: false}},
		ServerInfo:      serverInfo{Name: s.opts.ServerName, Version: s.opts.ServerVersion},
	})
}

func versionSupported(v string) bool {
	for _, supported := range SupportedProtocolVersions {
		if v == supported {
			return true
		}
	}
	return false
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// dispatchCall runs one tool invocation concurrently with the read loop
// and every other in-flight invocation. The semaphore bounds how many
// run at once; excess invocations queue without blocking message intake.
func (s *Session) dispatchCall(msg *protocol.Message) {
	var params callParams
	if len(msg.Params) > 0 {
		if err := sonic.Unmarshal(msg.Params, &params); err != nil {
			perr := protocol.NewError(protocol.CodeInvalidParams, "Invalid params: %v", err)
			s.recordRequest(msg.Method, perr.Code, 0)
			s.writeError(msg.ID, perr)
			return
		}
	}
	if params.Name == "" {
		perr := protocol.NewError(protocol.CodeInvalidParams, "Invalid params: tool name is required")
		s.recordRequest(msg.Method, perr.Code, 0)
		s.writeError(msg.ID, perr)
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.RequestTimeout)
		defer cancel()

		result, perr := s.registry.Dispatch(ctx, params.Name, params.Arguments)
		elapsed := time.Since(start)
		if perr != nil {
			s.recordRequest(msg.Method, perr.Code, elapsed)
			s.recordToolCall(params.Name, "error", elapsed)
			s.writeError(msg.ID, perr)
			return
		}
		s.recordRequest(msg.Method, 0, elapsed)
		s.recordToolCall(params.Name, "ok", elapsed)
		s.write(msg.ID, result)
	}()
}

// handleShutdown stops accepting tool calls immediately, drains the
// in-flight invocations, then acknowledges and closes. A hung handler
// cannot hold the connection open past the shutdown timeout.
func (s *Session) handleShutdown(msg *protocol.Message, start time.Time) {
	s.mu.Lock()
	switch s.state {
	case StateUninitialized, StateInitializing:
		s.mu.Unlock()
		perr := protocol.NewError(protocol.CodeNotInitialized, "Server not initialized")
		s.recordRequest(msg.Method, perr.Code, time.Since(start))
		s.writeError(msg.ID, perr)
		return
	case StateShuttingDown, StateClosed:
		s.mu.Unlock()
		perr := protocol.NewError(protocol.CodeShuttingDown, "Shutdown already in progress")
		s.recordRequest(msg.Method, perr.Code, time.Since(start))
		s.writeError(msg.ID, perr)
		return
	}
	s.state = StateShuttingDown
	s.mu.Unlock()

	s.logger.Info("session shutting down")

	go func() {
		if !waitTimeout(&s.inflight, s.opts.ShutdownTimeout) {
			s.logger.Warn("shutdown drain timed out, forcing close",
				zap.Duration("timeout", s.opts.ShutdownTimeout))
		}
		s.recordRequest(msg.Method, 0, time.Since(start))
		s.write(msg.ID, struct{}{})

		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		s.closeOnce.Do(func() { close(s.done) })
	}()
}

// waitTimeout waits for the group and reports whether it drained before
// the deadline.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return true
	case <-time.After(d):
		return false
	}
}

// write sends a success response correlated to id.
func (s *Session) write(id json.RawMessage, result any) {
	payload, err := protocol.EncodeResponse(id, result)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		payload, _ = protocol.EncodeError(id,
			protocol.NewError(protocol.CodeInternalError, "Internal error encoding response"))
	}
	if err := s.sender.WriteMessage(payload); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// writeError sends an error response; id may be nil for uncorrelated
// failures.
func (s *Session) writeError(id json.RawMessage, perr *protocol.Error) {
	payload, err := protocol.EncodeError(id, perr)
	if err != nil {
		s.logger.Error("failed to encode error response", zap.Error(err))
		return
	}
	if err := s.sender.WriteMessage(payload); err != nil {
		s.logger.Warn("failed to write error response", zap.Error(err))
	}
}

func (s *Session) recordRequest(method string, code int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	label := "ok"
	if code != 0 {
		label = strconv.Itoa(code)
	}
	s.metrics.RecordRequest(method, label, elapsed)
}

func (s *Session) recordToolCall(tool, outcome string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordToolCall(tool, outcome, elapsed)
}
