package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentfs/fileio-mcp/internal/protocol"
	"github.com/agentfs/fileio-mcp/internal/registry"
)

type captureSender struct {
	mu     sync.Mutex
	frames chan []byte
}

func newCaptureSender() *captureSender {
	return &captureSender{frames: make(chan []byte, 64)}
}

func (c *captureSender) WriteMessage(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames <- payload
	return nil
}

func (c *captureSender) next(t *testing.T) envelope {
	t.Helper()
	select {
	case payload := <-c.frames:
		var env envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		return env
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response frame")
		return envelope{}
	}
}

type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func echoRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(zap.NewNop(), &registry.Tool{
		Name:        "echo",
		Description: "Echoes a message back",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"message": {Type: "string"},
			},
			Required: []string{"message"},
		},
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			var args struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}
			return registry.TextResult(args.Message), nil
		},
	})
	require.NoError(t, err)
	return reg
}

func newTestSession(t *testing.T) (*Session, *captureSender) {
	t.Helper()
	sender := newCaptureSender()
	sess := New(echoRegistry(t), sender, zap.NewNop(), nil, Options{})
	return sess, sender
}

func request(id any, method string, params any) []byte {
	msg := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		msg["params"] = params
	}
	payload, _ := json.Marshal(msg)
	return payload
}

func notification(method string) []byte {
	payload, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "method": method})
	return payload
}

func handshake(t *testing.T, sess *Session, sender *captureSender) {
	t.Helper()
	sess.HandleMessage(request(1, "initialize", map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
	}))
	env := sender.next(t)
	require.Nil(t, env.Error)
	sess.HandleMessage(notification("initialized"))
	require.Equal(t, StateReady, sess.State())
}

func TestToolCallBeforeInitializeRejected(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage(request(1, "tools/call", map[string]any{"name": "echo"}))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeNotInitialized, env.Error.Code)
	assert.Equal(t, StateUninitialized, sess.State())
}

func TestInitializeHandshake(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage(request(1, "initialize", map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test-client", "version": "1.0"},
	}))

	env := sender.next(t)
	require.Nil(t, env.Error)

	var result initializeResult
	require.NoError(t, json.Unmarshal(env.Result, &result))
	assert.Equal(t, "2025-06-18", result.ProtocolVersion)
	assert.Equal(t, "fileio-mcp", result.ServerInfo.Name)
	assert.False(t, result.Capabilities.Tools.ListChanged)
	assert.Equal(t, StateInitializing, sess.State())

	sess.HandleMessage(notification("initialized"))
	assert.Equal(t, StateReady, sess.State())
}

func TestInitializeRejectsUnknownVersion(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage(request(1, "initialize", map[string]any{
		"protocolVersion": "1999-01-01",
	}))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeInvalidParams, env.Error.Code)
	assert.Equal(t, StateUninitialized, sess.State())
}

func TestInitializeTwiceRejected(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "initialize", map[string]any{
		"protocolVersion": "2025-06-18",
	}))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeInvalidRequest, env.Error.Code)
}

func TestNotificationsInitializedAlias(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage(request(1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
	}))
	sender.next(t)

	sess.HandleMessage(notification("notifications/initialized"))
	assert.Equal(t, StateReady, sess.State())
}

func TestUnknownMethod(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "resources/list", nil))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeMethodNotFound, env.Error.Code)
}

func TestToolsList(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "tools/list", nil))

	env := sender.next(t)
	require.Nil(t, env.Error)

	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &result))
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "echo", result.Tools[0].Name)
}

func TestToolsCallDispatch(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "tools/call", map[string]any{
		"name":      "echo",
		"arguments": map[string]any{"message": "hello"},
	}))

	env := sender.next(t)
	require.Nil(t, env.Error)
	assert.Contains(t, string(env.Result), "hello")
	assert.Equal(t, json.RawMessage("2"), env.ID)
}

func TestToolsCallUnknownTool(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "tools/call", map[string]any{"name": "nope"}))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeMethodNotFound, env.Error.Code)
}

func TestToolsCallRequiresName(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "tools/call", map[string]any{}))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeInvalidParams, env.Error.Code)
}

func TestStringRequestIDEchoed(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request("abc-7", "tools/list", nil))

	env := sender.next(t)
	assert.Equal(t, json.RawMessage(`"abc-7"`), env.ID)
}

func TestParseErrorUncorrelated(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage([]byte("{not json"))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeParseError, env.Error.Code)
	assert.Equal(t, json.RawMessage("null"), env.ID)
}

func TestPingAnswersInAnyState(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage(request(1, "ping", nil))
	env := sender.next(t)
	require.Nil(t, env.Error)
}

func TestShutdownDrainsAndCloses(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "shutdown", nil))

	env := sender.next(t)
	require.Nil(t, env.Error)
	assert.Equal(t, json.RawMessage("2"), env.ID)

	select {
	case <-sess.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session never closed after shutdown")
	}
	assert.Equal(t, StateClosed, sess.State())
}

func TestShutdownRejectsNewCalls(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	sess.HandleMessage(request(2, "shutdown", nil))
	sender.next(t)
	<-sess.Done()

	sess.HandleMessage(request(3, "tools/call", map[string]any{"name": "echo"}))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeShuttingDown, env.Error.Code)
}

func TestShutdownBeforeInitializeRejected(t *testing.T) {
	sess, sender := newTestSession(t)

	sess.HandleMessage(request(1, "shutdown", nil))

	env := sender.next(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, protocol.CodeNotInitialized, env.Error.Code)
}

func TestConcurrentCallsEachAnsweredOnce(t *testing.T) {
	sess, sender := newTestSession(t)
	handshake(t, sess, sender)

	const n = 10
	for i := 0; i < n; i++ {
		sess.HandleMessage(request(100+i, "tools/call", map[string]any{
			"name":      "echo",
			"arguments": map[string]any{"message": fmt.Sprintf("msg-%d", i)},
		}))
	}

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		env := sender.next(t)
		require.Nil(t, env.Error)
		id := string(env.ID)
		assert.False(t, seen[id], "duplicate response for id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
