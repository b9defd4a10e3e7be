// Package arbitrator implements the transport arbitrator of spec.md
// §4.9: it wraps a single Transport that must carry, concurrently,
// outbound client requests, inbound replies to those requests, and
// inbound invocations from a peer server, presenting itself to the
// client manager and the server as two distinct views of one shared,
// serialized channel.
package arbitrator

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
	"erpc/runtime/transport"
	"erpc/runtime/wire"
)

// PendingCall is a client call registered with the arbitrator before its
// request is sent. The arbitrator's receive worker delivers the matching
// reply (by sequence number, not arrival order) to Wait.
type PendingCall struct {
	seq           uint32
	correlationID uuid.UUID
	result        chan callResult
	a             *Arbitrator

	mu        sync.Mutex
	cancelled bool
}

type callResult struct {
	buf *buffer.MessageBuffer
	st  status.Status
}

// Wait blocks until the matching reply arrives, ctx is cancelled, or the
// arbitrator is closed. On success the returned buffer is owned by the
// caller (disposed via the arbitrator's factory by the caller when done).
func (p *PendingCall) Wait(ctx context.Context) (*buffer.MessageBuffer, status.Status) {
	select {
	case res := <-p.result:
		return res.buf, res.st
	case <-ctx.Done():
		p.Cancel()
		return nil, status.New(status.Cancelled, "call %d cancelled: %v", p.seq, ctx.Err())
	}
}

// Cancel marks the call's slot so a reply arriving later is discarded
// rather than delivered, per spec.md §4.9/§5's cancellation rule. It is
// safe to call Cancel after Wait has already returned.
func (p *PendingCall) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		return
	}
	p.cancelled = true
	p.a.mu.Lock()
	delete(p.a.pending, p.seq)
	p.a.mu.Unlock()
}

// Arbitrator multiplexes one underlying Transport between a client
// manager (outbound requests, inbound replies matched by sequence) and a
// server (inbound invocations, delivered in arrival order via a queue).
type Arbitrator struct {
	under   transport.Transport
	factory buffer.Factory

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint32]*PendingCall

	serverQueue chan *buffer.MessageBuffer
	done        chan struct{}
	closeOnce   sync.Once
}

// New creates an Arbitrator over under, using factory to allocate the
// receive worker's read buffers. Start must be called to begin pumping
// messages.
func New(under transport.Transport, factory buffer.Factory) *Arbitrator {
	return &Arbitrator{
		under:       under,
		factory:     factory,
		pending:     make(map[uint32]*PendingCall),
		serverQueue: make(chan *buffer.MessageBuffer, 32),
		done:        make(chan struct{}),
	}
}

// Start launches the single receive worker required by spec.md §4.9.
func (a *Arbitrator) Start() {
	go a.receiveLoop()
}

// Send serialises writes from either the client or server side onto the
// underlying transport, per spec.md §4.9's write-mutex requirement.
func (a *Arbitrator) Send(buf *buffer.MessageBuffer) status.Status {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.under.Send(buf)
}

// Register records seq as an expected reply sequence before the matching
// request is sent, per spec.md §4.9: "the manager registers its expected
// sequence before sending". Registering after sending would admit a race
// where the reply worker sees the reply before the registration exists.
func (a *Arbitrator) Register(seq uint32) *PendingCall {
	call := &PendingCall{
		seq:           seq,
		correlationID: uuid.New(),
		result:        make(chan callResult, 1),
		a:             a,
	}
	a.mu.Lock()
	a.pending[seq] = call
	a.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"sequence":    seq,
		"correlation": call.correlationID,
	}).Debug("arbitrator: registered pending call")
	return call
}

// ServerReceive pops the next inbound invocation queued by the receive
// worker, blocking if none is available yet.
func (a *Arbitrator) ServerReceive(buf *buffer.MessageBuffer) status.Status {
	select {
	case msg := <-a.serverQueue:
		defer a.factory.Dispose(msg)
		if len(msg.Bytes()) > buf.Cap() {
			return status.New(status.ReceiveFailed, "message of %d bytes exceeds buffer capacity %d", len(msg.Bytes()), buf.Cap())
		}
		buf.Reset()
		return buf.WriteBytes(msg.Bytes())
	case <-a.done:
		return status.New(status.Closed, "arbitrator closed")
	}
}

// Close stops the receive worker and unblocks any pending Wait/ServerReceive calls.
func (a *Arbitrator) Close() status.Status {
	a.closeOnce.Do(func() { close(a.done) })
	return a.under.Close()
}

func (a *Arbitrator) receiveLoop() {
	for {
		select {
		case <-a.done:
			return
		default:
		}

		buf := a.factory.Create()
		if s := a.under.Receive(buf); !s.Kind.OK() {
			a.factory.Dispose(buf)
			a.failAllPending(s)
			return
		}

		hdr, err := wire.DecodeHeader(buf.Bytes())
		if err != nil || hdr.MessageType != wire.Reply {
			select {
			case a.serverQueue <- buf:
			case <-a.done:
				a.factory.Dispose(buf)
				return
			}
			continue
		}

		a.mu.Lock()
		call, ok := a.pending[hdr.SequenceNo]
		if ok {
			delete(a.pending, hdr.SequenceNo)
		}
		a.mu.Unlock()

		if !ok {
			logrus.WithField("sequence", hdr.SequenceNo).Warn("arbitrator: reply with no matching pending call")
			a.factory.Dispose(buf)
			continue
		}
		call.mu.Lock()
		cancelled := call.cancelled
		call.mu.Unlock()
		if cancelled {
			a.factory.Dispose(buf)
			continue
		}
		call.result <- callResult{buf: buf, st: status.Ok}
	}
}

func (a *Arbitrator) failAllPending(s status.Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for seq, call := range a.pending {
		call.result <- callResult{st: s}
		delete(a.pending, seq)
	}
}
