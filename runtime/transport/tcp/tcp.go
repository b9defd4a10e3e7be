// Package tcp implements a TCP byte-stream Transport, pairing a
// per-connection client binding with a cancellable server accept loop.
//
// The accept loop is modeled on grpc.Server's Serve/GracefulStop pattern:
// Accept() is interrupted by closing the listener rather than by blocking
// forever on it, so Stop (or a cancelled context) always unblocks the
// loop. spec.md's own accept loop blocks on accept() with no shutdown
// path; Open Question #1 resolves that in favor of this pattern.
package tcp

import (
	"context"
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

// Transport is a Transport bound to one net.Conn. Send/Receive write and
// read a single message each, length-delimited by the caller's framing
// layer (runtime/transport/framed is the intended wrapper, per spec.md
// §4.7 — Transport itself moves raw bytes only).
type Transport struct {
	conn net.Conn
}

// New wraps an established connection as a Transport.
func New(conn net.Conn) *Transport {
	return &Transport{conn: conn}
}

// Dial connects to addr and returns a client-side Transport.
func Dial(ctx context.Context, addr string) (*Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

func (t *Transport) Send(buf *buffer.MessageBuffer) status.Status {
	if _, err := t.conn.Write(buf.Bytes()); err != nil {
		return status.New(status.SendFailed, "tcp write: %v", err)
	}
	return status.Ok
}

// Receive blocks until exactly buf's capacity has been read from the
// connection, looping over the short reads a net.Conn can legitimately
// return. Framing (and therefore knowing exactly how many bytes make up
// one message) is the caller's responsibility via
// runtime/transport/framed, which relies on this exact-size contract for
// its two fixed-size reads (the prelude, then the payload).
func (t *Transport) Receive(buf *buffer.MessageBuffer) status.Status {
	scratch := make([]byte, buf.Cap())
	if _, err := io.ReadFull(t.conn, scratch); err != nil {
		return status.New(status.ReceiveFailed, "tcp read: %v", err)
	}
	buf.Reset()
	return buf.WriteBytes(scratch)
}

func (t *Transport) HasMessage() bool {
	return false
}

func (t *Transport) Close() status.Status {
	if err := t.conn.Close(); err != nil {
		return status.New(status.Closed, "tcp close: %v", err)
	}
	return status.Ok
}

// Handler is invoked once per accepted connection, on its own goroutine.
type Handler func(conn *Transport)

// Server accepts TCP connections and dispatches each to a Handler, with a
// shutdown path that does not depend on the next incoming connection.
type Server struct {
	ln net.Listener
}

// Listen binds addr and returns a Server ready to Serve.
func Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln}, nil
}

// Addr returns the bound listener address, useful when addr was ":0".
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled or Stop is called,
// invoking handler for each on its own goroutine. Cancelling ctx closes
// the listener, which unblocks the in-flight Accept with an error that
// Serve treats as a clean exit rather than logging it as a failure.
func (s *Server) Serve(ctx context.Context, handler Handler) error {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.ln.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				logrus.WithError(err).Warn("tcp accept failed")
				return err
			}
		}
		go handler(New(conn))
	}
}

// Stop closes the listener, unblocking Serve's Accept call.
func (s *Server) Stop() status.Status {
	if err := s.ln.Close(); err != nil {
		return status.New(status.Closed, "tcp listener close: %v", err)
	}
	return status.Ok
}
