// Package buffer implements the MessageBuffer and Factory contract of
// spec.md §4.6: a view over an owned byte array plus a cursor, produced and
// reclaimed by a pluggable Factory.
package buffer

import (
	"erpc/runtime/status"
)

// MessageBuffer is a view over an owned byte slice plus read/write cursors,
// used by runtime/codec to encode and decode one message.
type MessageBuffer struct {
	data     []byte
	readPos  int
	writePos int
}

// NewMessageBuffer wraps data (which becomes owned by the returned buffer)
// with cursors at zero.
func NewMessageBuffer(data []byte) *MessageBuffer {
	return &MessageBuffer{data: data}
}

// Cap returns the buffer's total capacity.
func (b *MessageBuffer) Cap() int { return len(b.data) }

// Len returns the number of bytes written so far.
func (b *MessageBuffer) Len() int { return b.writePos }

// Reset rewinds both cursors to zero without releasing the underlying array,
// so a buffer can be reused for the next message.
func (b *MessageBuffer) Reset() {
	b.readPos = 0
	b.writePos = 0
}

// WriteBytes appends p at the write cursor, failing with BufferOverrun if
// doing so would write past the buffer's capacity.
func (b *MessageBuffer) WriteBytes(p []byte) status.Status {
	if b.writePos+len(p) > len(b.data) {
		return status.New(status.BufferOverrun, "write of %d bytes at offset %d exceeds capacity %d", len(p), b.writePos, len(b.data))
	}
	copy(b.data[b.writePos:], p)
	b.writePos += len(p)
	return status.Ok
}

// ReadBytes reads exactly n bytes from the read cursor, failing with
// BufferOverrun if fewer than n bytes remain written.
func (b *MessageBuffer) ReadBytes(n int) ([]byte, status.Status) {
	if b.readPos+n > b.writePos {
		return nil, status.New(status.BufferOverrun, "read of %d bytes at offset %d exceeds written length %d", n, b.readPos, b.writePos)
	}
	out := b.data[b.readPos : b.readPos+n]
	b.readPos += n
	return out, status.Ok
}

// Bytes returns the written portion of the buffer, for handing to a
// Transport's send.
func (b *MessageBuffer) Bytes() []byte { return b.data[:b.writePos] }

// SetWritten marks n bytes as already written, for a Transport that fills
// the buffer directly via receive before the codec reads it.
func (b *MessageBuffer) SetWritten(n int) { b.writePos = n }

// Factory creates and reclaims MessageBuffers. Implementations must be
// thread-safe (spec.md §4.6).
type Factory interface {
	// Create returns a writable buffer sized to hold one message.
	Create() *MessageBuffer
	// Dispose returns buf to the factory.
	Dispose(buf *MessageBuffer)
}
