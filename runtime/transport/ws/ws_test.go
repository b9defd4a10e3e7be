package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"erpc/runtime/buffer"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Accept(w, r)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		buf := buffer.NewMessageBuffer(make([]byte, 256))
		if s := conn.Receive(buf); s.Kind.OK() {
			received <- string(buf.Bytes())
		}
	}))
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):]
	client, err := Dial(wsURL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	send := buffer.NewMessageBuffer(make([]byte, 256))
	send.WriteBytes([]byte("matrix"))
	if s := client.Send(send); !s.Kind.OK() {
		t.Fatalf("send failed: %v", s)
	}

	select {
	case got := <-received:
		if got != "matrix" {
			t.Fatalf("got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to receive")
	}
}

func TestReceiveOversizedMessageFails(t *testing.T) {
	result := make(chan bool, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Accept(w, r)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		buf := buffer.NewMessageBuffer(make([]byte, 2))
		result <- conn.Receive(buf).Kind.OK()
	}))
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):]
	client, err := Dial(wsURL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	send := buffer.NewMessageBuffer(make([]byte, 256))
	send.WriteBytes([]byte("too long for a 2-byte buffer"))
	client.Send(send)

	select {
	case ok := <-result:
		if ok {
			t.Fatal("expected ReceiveFailed for an oversized message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server result")
	}
}
