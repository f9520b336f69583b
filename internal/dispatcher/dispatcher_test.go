// file: internal/dispatcher/dispatcher_test.go
package dispatcher

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/zedrahost/internal/protocol"
	"github.com/dkoosis/zedrahost/internal/rpcerr"
	"github.com/dkoosis/zedrahost/internal/transport"
)

func newPair(t *testing.T) (*transport.Framer, *transport.Framer) {
	t.Helper()
	pair := transport.NewInMemoryDuplexPair()
	return transport.New(pair.Client), transport.New(pair.Server)
}

func sendAndDecode(t *testing.T, client *transport.Framer, msg *protocol.Message) *protocol.Message {
	t.Helper()
	payload, err := protocol.Encode(msg)
	require.NoError(t, err)
	require.NoError(t, client.WriteFrame(payload))

	resp, err := client.ReadFrame()
	require.NoError(t, err)
	decoded, err := protocol.Decode(resp)
	require.NoError(t, err)
	return decoded
}

func TestDispatcher_UnknownMethodReturns32601(t *testing.T) {
	client, server := newPair(t)
	reg := NewRegistry(nil)
	d := New(server, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	defer cancel()

	req := protocol.NewRequest("nope/nope", nil)
	resp := sendAndDecode(t, client, req)

	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.CodeMethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "nope/nope")
}

func TestDispatcher_HandlerSuccessEchoesResult(t *testing.T) {
	client, server := newPair(t)
	reg := NewRegistry(nil)
	reg.Register("echo", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return map[string]string{"ok": "yes"}, nil
	})
	d := New(server, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	defer cancel()

	req := protocol.NewRequest("echo", nil)
	resp := sendAndDecode(t, client, req)

	require.Nil(t, resp.Error)
	var result map[string]string
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "yes", result["ok"])
}

func TestDispatcher_HandlerFailureReturns32603(t *testing.T) {
	client, server := newPair(t)
	reg := NewRegistry(nil)
	reg.Register("boom", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return nil, rpcerr.New("boom happened")
	})
	d := New(server, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	defer cancel()

	req := protocol.NewRequest("boom", nil)
	resp := sendAndDecode(t, client, req)

	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.CodeInternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "boom happened")
}

func TestDispatcher_NotificationGetsNoResponse(t *testing.T) {
	client, server := newPair(t)
	reg := NewRegistry(nil)
	called := make(chan struct{}, 1)
	reg.Register("fire", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		called <- struct{}{}
		return nil, nil
	})
	d := New(server, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	defer cancel()

	notif := protocol.NewNotification("fire", nil)
	payload, err := protocol.Encode(notif)
	require.NoError(t, err)
	require.NoError(t, client.WriteFrame(payload))

	<-called

	// Follow with a real request; if a spurious reply to the notification
	// had been sent, this response would be paired with the wrong frame.
	req := protocol.NewRequest("fire", nil)
	resp := sendAndDecode(t, client, req)
	assert.Nil(t, resp.Error)
}

func TestDispatcher_ProcessesSequentially(t *testing.T) {
	client, server := newPair(t)
	reg := NewRegistry(nil)
	var order []int
	reg.Register("step", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var n int
		_ = json.Unmarshal(params, &n)
		order = append(order, n)
		return n, nil
	})
	d := New(server, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	defer cancel()

	for i := 1; i <= 3; i++ {
		params, _ := json.Marshal(i)
		req := protocol.NewRequest("step", params)
		resp := sendAndDecode(t, client, req)
		var got int
		require.NoError(t, json.Unmarshal(resp.Result, &got))
		assert.Equal(t, i, got)
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDispatcher_PanicRecoveredAsInternalError(t *testing.T) {
	client, server := newPair(t)
	reg := NewRegistry(nil)
	reg.Register("panics", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		panic("kaboom")
	})
	d := New(server, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	defer cancel()

	req := protocol.NewRequest("panics", nil)
	resp := sendAndDecode(t, client, req)

	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.CodeInternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "kaboom")
}
