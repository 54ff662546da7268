package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	msg, perr := Decode([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.Nil(t, perr)

	assert.Equal(t, "tools/list", msg.Method)
	assert.Equal(t, json.RawMessage("1"), msg.ID)
	assert.False(t, msg.IsNotification())
}

func TestDecodeStringID(t *testing.T) {
	msg, perr := Decode([]byte(`{"jsonrpc":"2.0","id":"req-42","method":"shutdown"}`))
	require.Nil(t, perr)

	assert.Equal(t, json.RawMessage(`"req-42"`), msg.ID)
}

func TestDecodeNotification(t *testing.T) {
	msg, perr := Decode([]byte(`{"jsonrpc":"2.0","method":"initialized"}`))
	require.Nil(t, perr)

	assert.True(t, msg.IsNotification())
}

func TestDecodeParseError(t *testing.T) {
	msg, perr := Decode([]byte(`{"jsonrpc":`))
	require.NotNil(t, perr)

	assert.Nil(t, msg)
	assert.Equal(t, CodeParseError, perr.Code)
}

func TestDecodeRejectsNonScalarID(t *testing.T) {
	cases := []string{
		`{"jsonrpc":"2.0","id":{"a":1},"method":"x"}`,
		`{"jsonrpc":"2.0","id":[1],"method":"x"}`,
		`{"jsonrpc":"2.0","id":true,"method":"x"}`,
		`{"jsonrpc":"2.0","id":null,"method":"x"}`,
	}
	for _, payload := range cases {
		msg, perr := Decode([]byte(payload))
		require.NotNil(t, perr, payload)
		assert.Equal(t, CodeInvalidRequest, perr.Code, payload)
		assert.Nil(t, msg.ID, payload)
	}
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	msg, perr := Decode([]byte(`{"jsonrpc":"1.0","id":7,"method":"x"}`))
	require.NotNil(t, perr)

	assert.Equal(t, CodeInvalidRequest, perr.Code)
	// The id survives so the error response can be correlated.
	assert.Equal(t, json.RawMessage("7"), msg.ID)
}

func TestDecodeRejectsMissingMethod(t *testing.T) {
	_, perr := Decode([]byte(`{"jsonrpc":"2.0","id":3}`))
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidRequest, perr.Code)
}

func TestDecodeRejectsInboundResult(t *testing.T) {
	_, perr := Decode([]byte(`{"jsonrpc":"2.0","id":3,"result":{}}`))
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidRequest, perr.Code)
}

func TestEncodeResponseEchoesID(t *testing.T) {
	out, err := EncodeResponse(json.RawMessage(`"abc"`), map[string]any{"ok": true})
	require.NoError(t, err)

	var decoded struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  map[string]any  `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "2.0", decoded.JSONRPC)
	assert.Equal(t, json.RawMessage(`"abc"`), decoded.ID)
	assert.Equal(t, true, decoded.Result["ok"])
}

func TestEncodeErrorWithoutID(t *testing.T) {
	out, err := EncodeError(nil, NewError(CodeParseError, "Parse error"))
	require.NoError(t, err)

	var decoded struct {
		ID    any    `json:"id"`
		Error *Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Nil(t, decoded.ID)
	assert.Equal(t, CodeParseError, decoded.Error.Code)
}
