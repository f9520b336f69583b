// Package transport implements the length-delimited frame codec that moves
// one JSON message at a time over any reliable byte stream.
package transport

// file: internal/transport/transport.go

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// MaxFrameSize is the largest payload the codec will accept, per the wire
// format's 16 MiB cap. Frames larger than this size terminate the connection.
const MaxFrameSize = 16 * 1024 * 1024

// ErrFrameTooLarge is returned by ReadFrame when the declared length exceeds
// MaxFrameSize. The caller must treat this as fatal to the connection: the
// length prefix has already been consumed, so the stream cannot be resynced.
var ErrFrameTooLarge = errors.New("message too large")

// Framer reads and writes length-prefixed JSON frames on a single
// underlying stream. It is not safe for concurrent use by multiple readers
// or multiple writers; callers that need concurrent writes must serialize
// them externally.
type Framer struct {
	rw io.ReadWriteCloser
}

// New wraps rw in a Framer.
func New(rw io.ReadWriteCloser) *Framer {
	return &Framer{rw: rw}
}

// ReadFrame reads one [4-byte big-endian length][payload] frame and returns
// the raw payload bytes. io.EOF is returned verbatim for a clean close at a
// frame boundary. Any other error, including ErrFrameTooLarge, means the
// stream is no longer trustworthy and the connection must be closed.
func (f *Framer) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(f.rw, lenBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > MaxFrameSize {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%d bytes", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(f.rw, payload); err != nil {
		return nil, errors.Wrap(err, "read frame payload")
	}
	return payload, nil
}

// WriteFrame emits payload as one length-prefixed frame. A write error means
// the connection is broken and must be aborted by the caller.
func (f *Framer) WriteFrame(payload []byte) error {
	if len(payload) > MaxFrameSize {
		return errors.Wrapf(ErrFrameTooLarge, "%d bytes", len(payload))
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := f.rw.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "write frame length")
	}
	if _, err := f.rw.Write(payload); err != nil {
		return errors.Wrap(err, "write frame payload")
	}
	return nil
}

// Close closes the underlying stream.
func (f *Framer) Close() error {
	return f.rw.Close()
}
