package serial

import (
	"net"
	"testing"

	"erpc/runtime/buffer"
)

func TestSendReceiveExactBytes(t *testing.T) {
	a, b := net.Pipe()
	ta, tb := New(a), New(b)
	defer ta.Close()
	defer tb.Close()

	send := buffer.NewMessageBuffer(make([]byte, 8))
	send.WriteBytes([]byte("abcdefgh"))

	done := make(chan struct{})
	go func() {
		if s := ta.Send(send); !s.Kind.OK() {
			t.Errorf("send failed: %v", s)
		}
		close(done)
	}()

	recv := buffer.NewMessageBuffer(make([]byte, 8))
	if s := tb.Receive(recv); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}
	<-done
	if string(recv.Bytes()) != "abcdefgh" {
		t.Fatalf("got %q", recv.Bytes())
	}
}

func TestReceiveFailsOnShortReadAfterClose(t *testing.T) {
	a, b := net.Pipe()
	ta, tb := New(a), New(b)

	send := buffer.NewMessageBuffer(make([]byte, 4))
	send.WriteBytes([]byte("ab"))

	done := make(chan struct{})
	go func() {
		ta.Send(send)
		ta.Close()
		close(done)
	}()

	recv := buffer.NewMessageBuffer(make([]byte, 4))
	s := tb.Receive(recv)
	<-done
	if s.Kind.OK() {
		t.Fatal("expected ReceiveFailed for a partial message")
	}
}
