// Package transport defines the Transport contract of spec.md §4.7 shared
// by every concrete binding (pipe, framed byte-stream, tcp, ws, httpbridge,
// serial).
package transport

import (
	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

// Transport is the minimal abstraction required by both client and server.
type Transport interface {
	// Send blocks until buf's contents have been handed to the underlying
	// channel, or fails with SendFailed.
	Send(buf *buffer.MessageBuffer) status.Status
	// Receive blocks until a complete message has been read into buf, or
	// fails with ReceiveFailed or Closed.
	Receive(buf *buffer.MessageBuffer) status.Status
	// HasMessage is a non-blocking poll hint; it may pessimistically
	// return true.
	HasMessage() bool
	// Close releases any resources the transport owns.
	Close() status.Status
}

// ClientBufferPreparer is implemented by transports that need a hook
// before a client fills a freshly-acquired buffer (spec.md §4.7's optional
// prepare_client_buffer); zero-copy transports use it to bind the buffer's
// backing storage to the channel.
type ClientBufferPreparer interface {
	PrepareClientBuffer(buf *buffer.MessageBuffer) status.Status
}

// ServerBufferPreparer is the server-side counterpart of
// ClientBufferPreparer (spec.md §4.7's prepare_server_buffer).
type ServerBufferPreparer interface {
	PrepareServerBuffer(buf *buffer.MessageBuffer) status.Status
}
