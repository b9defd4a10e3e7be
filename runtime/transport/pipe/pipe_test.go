package pipe

import (
	"testing"

	"erpc/runtime/buffer"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	a, b := New()
	send := buffer.NewMessageBuffer(make([]byte, 16))
	send.WriteBytes([]byte("ping"))
	if s := a.Send(send); !s.Kind.OK() {
		t.Fatalf("send failed: %v", s)
	}
	recv := buffer.NewMessageBuffer(make([]byte, 16))
	if s := b.Receive(recv); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}
	if string(recv.Bytes()) != "ping" {
		t.Fatalf("got %q", recv.Bytes())
	}
}

func TestReceiveOversizedMessageFails(t *testing.T) {
	a, b := New()
	send := buffer.NewMessageBuffer(make([]byte, 16))
	send.WriteBytes([]byte("0123456789abcdef"))
	a.Send(send)
	recv := buffer.NewMessageBuffer(make([]byte, 4))
	if s := b.Receive(recv); s.Kind.OK() {
		t.Fatalf("expected ReceiveFailed for an oversized message")
	}
}

func TestCloseUnblocksBothEnds(t *testing.T) {
	a, b := New()
	a.Close()
	recv := buffer.NewMessageBuffer(make([]byte, 16))
	if s := b.Receive(recv); s.Kind.OK() {
		t.Fatalf("expected Closed status after Close")
	}
	send := buffer.NewMessageBuffer(make([]byte, 16))
	if s := a.Send(send); s.Kind.OK() {
		t.Fatalf("expected SendFailed status after Close")
	}
}
