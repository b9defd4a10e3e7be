// Package pipe implements an in-memory Transport pair, used by tests and by
// the arbitrator's two-app integration scenario (spec.md §8 properties 2
// and 3) in place of a real byte-stream transport.
package pipe

import (
	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

// Pipe is one end of an in-memory Transport pair; messages sent on one end
// arrive, whole, on the other end's Receive.
type Pipe struct {
	out    chan []byte
	in     chan []byte
	closed chan struct{}
}

// New returns a connected pair of Transports: messages sent on a arrive at
// b, and messages sent on b arrive at a.
func New() (a, b *Pipe) {
	ab := make(chan []byte, 16)
	ba := make(chan []byte, 16)
	closed := make(chan struct{})
	a = &Pipe{out: ab, in: ba, closed: closed}
	b = &Pipe{out: ba, in: ab, closed: closed}
	return a, b
}

func (p *Pipe) Send(buf *buffer.MessageBuffer) status.Status {
	select {
	case <-p.closed:
		return status.New(status.SendFailed, "pipe closed")
	default:
	}
	msg := append([]byte(nil), buf.Bytes()...)
	select {
	case p.out <- msg:
		return status.Ok
	case <-p.closed:
		return status.New(status.SendFailed, "pipe closed")
	}
}

func (p *Pipe) Receive(buf *buffer.MessageBuffer) status.Status {
	select {
	case msg, ok := <-p.in:
		if !ok {
			return status.New(status.Closed, "pipe closed")
		}
		if len(msg) > buf.Cap() {
			return status.New(status.ReceiveFailed, "message of %d bytes exceeds buffer capacity %d", len(msg), buf.Cap())
		}
		buf.Reset()
		buf.WriteBytes(msg)
		return status.Ok
	case <-p.closed:
		return status.New(status.Closed, "pipe closed")
	}
}

func (p *Pipe) HasMessage() bool {
	return len(p.in) > 0
}

func (p *Pipe) Close() status.Status {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return status.Ok
}
