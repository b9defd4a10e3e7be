// Package client implements the eRPC client manager of spec.md §4.8: it
// issues requests and awaits replies, either directly over a Transport
// or, when constructed with an arbitrator, over an arbitrated one that
// also carries a peer server's inbound invocations.
package client

import (
	"context"
	"sync/atomic"

	"erpc/runtime/arbitrator"
	"erpc/runtime/buffer"
	"erpc/runtime/codec"
	"erpc/runtime/status"
	"erpc/runtime/transport"
	"erpc/runtime/wire"
)

// ArgWriter serialises a function's arguments into the outbound message,
// generated per-function by idl/codegen.
type ArgWriter func(*codec.Codec) status.Status

// ReplyReader deserialises a function's return value from the reply
// message, generated per-function by idl/codegen.
type ReplyReader func(*codec.Codec) status.Status

// Manager is the client manager of spec.md §4.8. It is safe for
// concurrent use: each Invoke acquires its own sequence number and its
// own buffers from the factory.
type Manager struct {
	transport transport.Transport
	arb       *arbitrator.Arbitrator
	factory   buffer.Factory
	seq       uint32

	// ErrorHandler, if set, is invoked with every non-Success status
	// before it is returned to the caller. It does not override the
	// status returned, per spec.md §4.8.
	ErrorHandler status.ErrorHandler
}

// New builds a Manager over a plain (non-arbitrated) Transport.
func New(t transport.Transport, factory buffer.Factory) *Manager {
	return &Manager{transport: t, factory: factory}
}

// NewArbitrated builds a Manager over an arbitrator.Arbitrator, sharing
// the underlying transport with a peer server (spec.md §4.9). Because the
// arbitrator's receive worker runs on its own goroutine rather than being
// woven into a single cooperative poll loop, the nested-call fast path
// spec.md §4.11 calls for (bypassing the arbitrator to avoid deadlocking
// against "the server's own receive step") has no blocking step to
// bypass: Send/Wait already run concurrently with the server's
// ServerReceive. See DESIGN.md for the full rationale.
func NewArbitrated(arb *arbitrator.Arbitrator, factory buffer.Factory) *Manager {
	return &Manager{arb: arb, factory: factory}
}

func (m *Manager) nextSequence() uint32 {
	return atomic.AddUint32(&m.seq, 1)
}

func (m *Manager) send(buf *buffer.MessageBuffer) status.Status {
	if m.arb != nil {
		return m.arb.Send(buf)
	}
	return m.transport.Send(buf)
}

func (m *Manager) fail(s status.Status) status.Status {
	if !s.Kind.OK() && m.ErrorHandler != nil {
		m.ErrorHandler(s)
	}
	return s
}

// Invoke runs the full client-manager protocol of spec.md §4.8 steps 1-7
// for one function call: acquire a buffer, write the header, serialise
// arguments, send, and — unless oneway — await and verify the matching
// reply before deserialising the result.
func (m *Manager) Invoke(ctx context.Context, serviceID, functionID uint32, oneway bool, args ArgWriter, reply ReplyReader) status.Status {
	buf := m.factory.Create()
	defer m.factory.Dispose(buf)

	seq := m.nextSequence()
	msgType := wire.Invocation
	if oneway {
		msgType = wire.OnewayInvocation
	}
	hdr := wire.Header{MessageType: msgType, ServiceID: serviceID, FunctionID: functionID, SequenceNo: seq}
	enc := hdr.Encode()
	if s := buf.WriteBytes(enc[:]); !s.Kind.OK() {
		return m.fail(s)
	}
	if args != nil {
		if s := args(codec.New(buf)); !s.Kind.OK() {
			return m.fail(s)
		}
	}

	var call *arbitrator.PendingCall
	if m.arb != nil && !oneway {
		call = m.arb.Register(seq)
	}

	if s := m.send(buf); !s.Kind.OK() {
		if call != nil {
			call.Cancel()
		}
		return m.fail(s)
	}
	if oneway {
		return status.Ok
	}

	replyBuf, s := m.awaitReply(ctx, call)
	if !s.Kind.OK() {
		return m.fail(s)
	}
	defer m.disposeReply(replyBuf)

	replyHdrBytes, s := replyBuf.ReadBytes(wire.HeaderSize)
	if !s.Kind.OK() {
		return m.fail(s)
	}
	replyHdr, err := wire.DecodeHeader(replyHdrBytes)
	if err != nil {
		return m.fail(status.New(status.ProtocolError, "%v", err))
	}
	if replyHdr.ServiceID != serviceID || replyHdr.FunctionID != functionID || replyHdr.SequenceNo != seq {
		return m.fail(status.New(status.ProtocolError,
			"reply header mismatch: got service=%d function=%d sequence=%d, want service=%d function=%d sequence=%d",
			replyHdr.ServiceID, replyHdr.FunctionID, replyHdr.SequenceNo, serviceID, functionID, seq))
	}

	if reply != nil {
		if s := reply(codec.New(replyBuf)); !s.Kind.OK() {
			return m.fail(s)
		}
	}
	return status.Ok
}

func (m *Manager) awaitReply(ctx context.Context, call *arbitrator.PendingCall) (*buffer.MessageBuffer, status.Status) {
	if m.arb != nil {
		return call.Wait(ctx)
	}
	replyBuf := m.factory.Create()
	s := m.transport.Receive(replyBuf)
	if !s.Kind.OK() {
		m.factory.Dispose(replyBuf)
		return nil, s
	}
	return replyBuf, status.Ok
}

// disposeReply returns a reply buffer to the factory. Arbitrated replies
// were allocated by the arbitrator's own factory (a distinct instance in
// general), so this manager only disposes of buffers it allocated itself.
func (m *Manager) disposeReply(buf *buffer.MessageBuffer) {
	if m.arb == nil {
		m.factory.Dispose(buf)
	}
}
