// file: internal/transport/transport_test.go
package transport

import (
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramedRoundtrip(t *testing.T) {
	pair := NewInMemoryDuplexPair()
	defer pair.Client.Close()
	defer pair.Server.Close()

	writer := New(pair.Client)
	reader := New(pair.Server)

	payload := []byte(`{"jsonrpc":"2.0","id":1,"method":"fs/list","params":{"path":"."}}`)

	done := make(chan error, 1)
	go func() { done <- writer.WriteFrame(payload) }()

	got, err := reader.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Equal(t, payload, got)
}

func TestReadFrame_OversizedRejected(t *testing.T) {
	pair := NewInMemoryDuplexPair()
	defer pair.Client.Close()
	defer pair.Server.Close()

	reader := New(pair.Server)

	go func() {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], MaxFrameSize+1)
		_, _ = pair.Client.Write(lenBuf[:])
	}()

	_, err := reader.ReadFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadFrame_EOFOnCleanClose(t *testing.T) {
	pair := NewInMemoryDuplexPair()
	defer pair.Server.Close()

	reader := New(pair.Server)
	require.NoError(t, pair.Client.Close())

	_, err := reader.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConnectionIsolation(t *testing.T) {
	pairA := NewInMemoryDuplexPair()
	pairB := NewInMemoryDuplexPair()
	defer pairB.Client.Close()
	defer pairB.Server.Close()

	readerA := New(pairA.Server)
	require.NoError(t, pairA.Client.Close())
	_, err := readerA.ReadFrame()
	require.Error(t, err)

	writerB := New(pairB.Client)
	readerB := New(pairB.Server)
	go func() { _ = writerB.WriteFrame([]byte(`{}`)) }()

	frameErrCh := make(chan error, 1)
	go func() {
		_, err := readerB.ReadFrame()
		frameErrCh <- err
	}()

	select {
	case err := <-frameErrCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("connection B should be unaffected by connection A's failure")
	}
}
