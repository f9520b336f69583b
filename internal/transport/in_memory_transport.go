// file: internal/transport/in_memory_transport.go
package transport

import "net"

// DuplexPair is a pair of connected in-memory byte streams standing in for a
// TCP connection in tests, each usable directly as the rw argument to New.
type DuplexPair struct {
	Client net.Conn
	Server net.Conn
}

// NewInMemoryDuplexPair returns two full-duplex, synchronous, in-memory
// connections: bytes written to one are read from the other. This is what
// dispatcher and end-to-end scenario tests use in place of a real TCP socket.
func NewInMemoryDuplexPair() *DuplexPair {
	client, server := net.Pipe()
	return &DuplexPair{Client: client, Server: server}
}
