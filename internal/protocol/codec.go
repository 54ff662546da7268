package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/bytedance/sonic"
)

// nullID is emitted on error responses when no request id is recoverable.
var nullID = json.RawMessage("null")

// Decode parses a framed payload into a Message and validates the
// envelope shape.
//
// A syntactically invalid payload yields a CodeParseError with no
// recoverable id. A payload that parses but violates the envelope shape
// yields CodeInvalidRequest; the id is preserved on the returned Message
// when it was extractable so the error can still be correlated.
func Decode(payload []byte) (*Message, *Error) {
	var msg Message
	if err := sonic.Unmarshal(payload, &msg); err != nil {
		return nil, &Error{Code: CodeParseError, Message: "Parse error", Data: err.Error()}
	}

	if msg.ID != nil && !validID(msg.ID) {
		// An object or array id cannot be trusted for correlation.
		msg.ID = nil
		return &msg, NewError(CodeInvalidRequest, "Invalid request: id must be a string or number")
	}

	if msg.JSONRPC != "" && msg.JSONRPC != Version {
		return &msg, NewError(CodeInvalidRequest, "Invalid JSON-RPC version: %s", msg.JSONRPC)
	}

	// A server only ever receives requests and notifications; an inbound
	// result or error envelope is malformed, as is a missing method.
	if msg.Result != nil || msg.Error != nil {
		return &msg, NewError(CodeInvalidRequest, "Invalid request: unexpected result or error member")
	}
	if msg.Method == "" {
		return &msg, NewError(CodeInvalidRequest, "Invalid request: missing method")
	}

	return &msg, nil
}

// EncodeResponse serializes a success envelope echoing the request id.
func EncodeResponse(id json.RawMessage, result any) ([]byte, error) {
	if id == nil {
		id = nullID
	}
	return sonic.Marshal(&Response{JSONRPC: Version, ID: id, Result: result})
}

// EncodeError serializes an error envelope. id may be nil for
// uncorrelated failures such as parse errors.
func EncodeError(id json.RawMessage, perr *Error) ([]byte, error) {
	if id == nil {
		id = nullID
	}
	return sonic.Marshal(&ErrorResponse{JSONRPC: Version, ID: id, Error: perr})
}

// validID reports whether raw is a JSON string or number. Objects,
// arrays, booleans, and null are rejected; the protocol treats an
// explicit null id the same as an illegal one.
func validID(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch c := trimmed[0]; {
	case c == '"':
		return true
	case c == '-' || (c >= '0' && c <= '9'):
		return true
	default:
		return false
	}
}
