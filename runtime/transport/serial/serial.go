// Package serial implements the serial/UART Transport contract of
// spec.md's supplemented scope: an io.ReadWriteCloser-backed transport
// that writes and reads exact byte counts, matching the original's
// SerialTransport::underlyingSend/underlyingReceive (which fail the
// whole operation unless the requested size is written/read exactly,
// since a real UART line has no message boundaries of its own).
// Opening and configuring the physical port (baud rate, parity, line
// discipline) is a peripheral-driver concern out of scope per spec.md
// §1 — callers supply an already-open io.ReadWriteCloser (e.g. from
// go.bug.st/serial or an os.File opened on /dev/ttyUSBx).
package serial

import (
	"io"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

// Transport wraps an open serial port as a Transport. Framing (so
// Receive knows how many bytes make up one message) is the caller's
// responsibility via runtime/transport/framed, exactly as with tcp.Transport.
type Transport struct {
	port io.ReadWriteCloser
}

// New wraps an already-open serial port as a Transport.
func New(port io.ReadWriteCloser) *Transport {
	return &Transport{port: port}
}

// Send writes buf's full contents, failing if a short write occurs.
func (t *Transport) Send(buf *buffer.MessageBuffer) status.Status {
	data := buf.Bytes()
	n, err := t.port.Write(data)
	if err != nil {
		return status.New(status.SendFailed, "serial write: %v", err)
	}
	if n != len(data) {
		return status.New(status.SendFailed, "serial write: wrote %d of %d bytes", n, len(data))
	}
	return status.Ok
}

// Receive fills buf to its full capacity, looping over short reads the
// way a real UART line (which delivers bytes as they arrive, not whole
// messages) requires. Use runtime/transport/framed over this Transport
// so the caller knows exactly how many bytes to ask for.
func (t *Transport) Receive(buf *buffer.MessageBuffer) status.Status {
	data := make([]byte, buf.Cap())
	if _, err := io.ReadFull(t.port, data); err != nil {
		return status.New(status.ReceiveFailed, "serial read: %v", err)
	}
	buf.Reset()
	return buf.WriteBytes(data)
}

func (t *Transport) HasMessage() bool {
	return false
}

func (t *Transport) Close() status.Status {
	if err := t.port.Close(); err != nil {
		return status.New(status.Closed, "serial close: %v", err)
	}
	return status.Ok
}
