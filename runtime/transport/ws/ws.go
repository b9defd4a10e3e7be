// Package ws implements a Transport over a WebSocket connection.
// WebSocket already frames messages (one WriteMessage/ReadMessage call is
// exactly one application message), so Transport is implemented directly
// without runtime/transport/framed's length+CRC prelude, mirroring how
// spec.md exempts RPMsg from framing for the same reason.
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Transport is a Transport bound to one WebSocket connection.
type Transport struct {
	conn *websocket.Conn
}

// New wraps an established *websocket.Conn as a Transport.
func New(conn *websocket.Conn) *Transport {
	return &Transport{conn: conn}
}

// Accept upgrades an incoming HTTP request to a WebSocket connection and
// returns it as a Transport, for use from an http.Handler.
func Accept(w http.ResponseWriter, r *http.Request) (*Transport, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Dial connects to a ws:// or wss:// URL and returns a client Transport.
func Dial(url string) (*Transport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

func (t *Transport) Send(buf *buffer.MessageBuffer) status.Status {
	if err := t.conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		return status.New(status.SendFailed, "ws write: %v", err)
	}
	return status.Ok
}

// Receive reads one complete WebSocket message into buf. A message larger
// than buf's capacity is reported as ReceiveFailed without writing into
// buf, consistent with every other Transport in this package.
func (t *Transport) Receive(buf *buffer.MessageBuffer) status.Status {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return status.New(status.ReceiveFailed, "ws read: %v", err)
	}
	if len(data) > buf.Cap() {
		return status.New(status.ReceiveFailed, "message of %d bytes exceeds buffer capacity %d", len(data), buf.Cap())
	}
	buf.Reset()
	return buf.WriteBytes(data)
}

func (t *Transport) HasMessage() bool {
	return false
}

func (t *Transport) Close() status.Status {
	if err := t.conn.Close(); err != nil {
		return status.New(status.Closed, "ws close: %v", err)
	}
	return status.Ok
}
