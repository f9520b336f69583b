// file: internal/protocol/protocol_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundtrip_Request(t *testing.T) {
	params, _ := json.Marshal(map[string]any{"path": "a.txt"})
	original := NewRequest("fs/read", params)

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.True(t, decoded.IsRequest())
	assert.Equal(t, original.Method, decoded.Method)
	assert.Equal(t, *original.ID, *decoded.ID)
	assert.JSONEq(t, string(original.Params), string(decoded.Params))
}

func TestRoundtrip_Notification(t *testing.T) {
	original := NewNotification("terminal/output", nil)

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.True(t, decoded.IsNotification())
	assert.Nil(t, decoded.ID)
}

func TestRoundtrip_ResponseOK(t *testing.T) {
	result, _ := json.Marshal(map[string]any{"ok": true})
	original := NewResponse(42, result)

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.True(t, decoded.IsResponse())
	assert.Equal(t, uint64(42), *decoded.ID)
	assert.Nil(t, decoded.Error)
	assert.JSONEq(t, string(result), string(decoded.Result))
}

func TestRoundtrip_ResponseError(t *testing.T) {
	original := NewErrorResponse(7, CodeMethodNotFound, "unknown method: foo/bar", nil)

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	require.NotNil(t, decoded.Error)
	assert.Equal(t, CodeMethodNotFound, decoded.Error.Code)
	assert.Nil(t, decoded.Result)
}

func TestNextID_StrictlyMonotonic(t *testing.T) {
	first := NextID()
	second := NextID()
	assert.Greater(t, second, first)
}

func TestErrorResponse_ExactlyOneOfResultOrError(t *testing.T) {
	ok := NewResponse(1, json.RawMessage(`{}`))
	assert.Nil(t, ok.Error)
	assert.NotNil(t, ok.Result)

	failed := NewErrorResponse(1, CodeInternalError, "boom", nil)
	assert.Nil(t, failed.Result)
	assert.NotNil(t, failed.Error)
}
