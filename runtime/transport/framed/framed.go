// Package framed implements the FramedTransport of spec.md §4.7: it
// composes an underlying byte-stream transport with a 4-byte
// {message_length, header_crc16} prelude, computing the CRC-16 on send and
// verifying it on receive.
package framed

import (
	"erpc/runtime/buffer"
	"erpc/runtime/status"
	"erpc/runtime/transport"
	"erpc/runtime/wire"
)

// Transport wraps an underlying byte-stream Transport, adding the framing
// prelude. A real byte stream (tcp.Transport, serial.Transport) does not
// guarantee that one Receive call returns one whole message — a short
// read is normal on a net.Conn or a UART line. Receive therefore asks the
// underlying transport for two exactly-sized reads instead of one
// oversized one: FrameSize bytes for the prelude, then exactly
// MessageLength bytes for the payload, relying on the underlying
// transport's Receive to block until its buffer's full capacity is
// filled (io.ReadFull semantics), per spec.md §4.7.
type Transport struct {
	under transport.Transport
}

// New wraps under with the framing prelude.
func New(under transport.Transport) *Transport {
	return &Transport{under: under}
}

// Send prepends the 4-byte {message_length, crc16} prelude to buf's
// contents and sends the combined frame as a single message to the
// underlying transport.
func (t *Transport) Send(buf *buffer.MessageBuffer) status.Status {
	payload := buf.Bytes()
	prelude := wire.FramePrelude{
		MessageLength: uint16(len(payload)),
		CRC16:         wire.CRC16(payload, wire.CRC16Init),
	}
	enc := prelude.Encode()
	frame := buffer.NewMessageBuffer(make([]byte, wire.FrameSize+len(payload)))
	if s := frame.WriteBytes(enc[:]); !s.Kind.OK() {
		return s
	}
	if s := frame.WriteBytes(payload); !s.Kind.OK() {
		return s
	}
	return t.under.Send(frame)
}

// Receive reads one framed message from the underlying transport into buf,
// verifying message_length against buf's capacity and the CRC-16 against
// the payload. An oversized incoming frame is still fully drained off the
// underlying transport (so a byte stream never desyncs) but reported as
// ReceiveFailed without disturbing buf, per spec.md §4.7.
func (t *Transport) Receive(buf *buffer.MessageBuffer) status.Status {
	preludeBuf := buffer.NewMessageBuffer(make([]byte, wire.FrameSize))
	if s := t.under.Receive(preludeBuf); !s.Kind.OK() {
		return s
	}
	prelude, err := wire.DecodeFramePrelude(preludeBuf.Bytes())
	if err != nil {
		return status.New(status.ReceiveFailed, "%v", err)
	}

	payloadBuf := buffer.NewMessageBuffer(make([]byte, prelude.MessageLength))
	if s := t.under.Receive(payloadBuf); !s.Kind.OK() {
		return s
	}
	payload := payloadBuf.Bytes()

	if int(prelude.MessageLength) > buf.Cap() {
		// Protocol error: the declared payload was still read off the
		// wire above so the underlying stream stays in sync; it was
		// never written into buf, so report without advancing client state.
		return status.New(status.ReceiveFailed, "message of %d bytes exceeds buffer capacity %d", prelude.MessageLength, buf.Cap())
	}
	if got := wire.CRC16(payload, wire.CRC16Init); got != prelude.CRC16 {
		return status.New(status.CrcCheckFailed, "frame crc %#04x does not match computed %#04x", prelude.CRC16, got)
	}
	buf.Reset()
	return buf.WriteBytes(payload)
}

func (t *Transport) HasMessage() bool { return t.under.HasMessage() }
func (t *Transport) Close() status.Status { return t.under.Close() }
