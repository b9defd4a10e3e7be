package server

import (
	"time"

	"github.com/sirupsen/logrus"

	"erpc/runtime/buffer"
	"erpc/runtime/codec"
	"erpc/runtime/status"
	"erpc/runtime/wire"
)

// dispatchOne decodes one received message's header, locates its
// service/function dispatcher, invokes it with a panic-recovering
// wrapper, and — unless the invocation was oneway — encodes and sends
// the reply, per spec.md §4.10. buf holds the just-received message on
// entry and is only read; the reply is built in newly allocated buffers.
func dispatchOne(registry *Registry, metrics *Metrics, buf *buffer.MessageBuffer, send func(*buffer.MessageBuffer) status.Status) status.Status {
	raw := buf.Bytes()
	hdr, err := wire.DecodeHeader(raw)
	if err != nil {
		metrics.recordDecodeError()
		return status.New(status.ProtocolError, "%v", err)
	}
	if _, s := buf.ReadBytes(wire.HeaderSize); !s.Kind.OK() {
		metrics.recordDecodeError()
		return s
	}

	oneway := hdr.MessageType == wire.OnewayInvocation
	args := codec.New(buf)

	fn, lookupStatus := registry.lookup(hdr.ServiceID, hdr.FunctionID)
	if !lookupStatus.Kind.OK() {
		metrics.recordDispatch(hdr.ServiceID, hdr.FunctionID, lookupStatus, 0)
		if oneway {
			return status.Ok
		}
		return sendReply(send, hdr, lookupStatus)
	}

	replyBuf := buffer.NewMessageBuffer(make([]byte, buf.Cap()))
	reply := codec.New(replyBuf)

	start := time.Now()
	handlerStatus := invoke(fn, args, reply)
	metrics.recordDispatch(hdr.ServiceID, hdr.FunctionID, handlerStatus, time.Since(start))

	if oneway {
		return status.Ok
	}
	if !handlerStatus.Kind.OK() {
		return sendReply(send, hdr, handlerStatus)
	}
	return sendSuccessReply(send, hdr, replyBuf)
}

// invoke calls fn, converting a panic into ServerError per spec.md §4.10:
// "A handler that throws (panics) is caught by the dispatch frame."
func invoke(fn Dispatcher, args, reply *codec.Codec) (result status.Status) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("erpc: handler panicked")
			result = status.New(status.ServerError, "handler panicked: %v", r)
		}
	}()
	return fn(args, reply)
}

func sendReply(send func(*buffer.MessageBuffer) status.Status, hdr wire.Header, failure status.Status) status.Status {
	replyBuf := buffer.NewMessageBuffer(make([]byte, wire.HeaderSize))
	replyHdr := wire.Header{MessageType: wire.Reply, ServiceID: hdr.ServiceID, FunctionID: hdr.FunctionID, SequenceNo: hdr.SequenceNo}
	enc := replyHdr.Encode()
	if s := replyBuf.WriteBytes(enc[:]); !s.Kind.OK() {
		return s
	}
	return send(replyBuf)
}

func sendSuccessReply(send func(*buffer.MessageBuffer) status.Status, hdr wire.Header, body *buffer.MessageBuffer) status.Status {
	full := buffer.NewMessageBuffer(make([]byte, wire.HeaderSize+body.Len()))
	replyHdr := wire.Header{MessageType: wire.Reply, ServiceID: hdr.ServiceID, FunctionID: hdr.FunctionID, SequenceNo: hdr.SequenceNo}
	enc := replyHdr.Encode()
	if s := full.WriteBytes(enc[:]); !s.Kind.OK() {
		return s
	}
	if s := full.WriteBytes(body.Bytes()); !s.Kind.OK() {
		return s
	}
	return send(full)
}
