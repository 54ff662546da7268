// Package protocol provides the JSON-RPC 2.0 envelope model and codec
// used by every transport.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the only JSON-RPC version this server speaks.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes, plus server codes in -32000..-32099.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	CodeServerError    = -32000
	CodeNotInitialized = -32002
	CodeShuttingDown   = -32003
)

// Error is a protocol-level failure that terminates a single request.
// It marshals into the JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewError builds a protocol error with a formatted message.
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Message is the decoded JSON-RPC envelope.
//
// ID is kept as raw JSON so responses echo it byte-for-byte. A nil ID
// means the message is a notification and must never be answered.
type Message struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// IsNotification reports whether the message carries no id and therefore
// expects no reply.
func (m *Message) IsNotification() bool {
	return m.ID == nil
}

// Response is an outbound success envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

// ErrorResponse is an outbound error envelope. A null id is emitted when
// the failing request's id could not be recovered.
type ErrorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   *Error          `json:"error"`
}
