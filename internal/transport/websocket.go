package transport

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket adapts a gorilla websocket connection to the Conn interface.
// Each text frame carries exactly one protocol message; ping/pong and
// fragment reassembly are handled inside the library.
type WebSocket struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows only one concurrent writer
}

// NewWebSocket wraps an accepted websocket connection. maxBytes caps a
// single inbound message; zero means no limit.
func NewWebSocket(conn *websocket.Conn, maxBytes int) *WebSocket {
	if maxBytes > 0 {
		conn.SetReadLimit(int64(maxBytes))
	}
	return &WebSocket{conn: conn}
}

// ReadMessage returns the next text frame payload, skipping binary
// frames rather than failing the connection on them.
func (w *WebSocket) ReadMessage() ([]byte, error) {
	for {
		kind, payload, err := w.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				return nil, framingErrorf("message exceeds configured size limit")
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				websocket.IsUnexpectedCloseError(err) {
				return nil, ErrClosed
			}
			return nil, err
		}
		if kind == websocket.TextMessage {
			return payload, nil
		}
	}
}

// WriteMessage emits one payload as a single text frame.
func (w *WebSocket) WriteMessage(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the underlying websocket connection.
func (w *WebSocket) Close() error {
	return w.conn.Close()
}
