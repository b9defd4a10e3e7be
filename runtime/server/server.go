// Package server implements the eRPC server runtime of spec.md §4.10:
// SimpleServer and StaticServer both receive a request, dispatch it
// against a Registry of services, and send the reply, differing only in
// buffer allocation strategy. Dispatch never lets a handler panic escape
// (recovered and mapped to ServerError), and optionally records
// Prometheus metrics per request.
package server

import (
	"sync"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
	"erpc/runtime/transport"
)

// SimpleServer is the single-threaded server loop of spec.md §4.10:
// receive a request, decode header, locate the service, invoke its
// dispatcher, encode the reply (unless oneway), send it. Loops until
// Stop.
type SimpleServer struct {
	transport transport.Transport
	factory   buffer.Factory
	registry  *Registry
	metrics   *Metrics

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSimpleServer builds a SimpleServer dispatching to registry over t,
// acquiring one fresh buffer from factory per request. metrics may be nil.
func NewSimpleServer(t transport.Transport, factory buffer.Factory, registry *Registry, metrics *Metrics) *SimpleServer {
	return &SimpleServer{transport: t, factory: factory, registry: registry, metrics: metrics, stop: make(chan struct{})}
}

// Serve runs the receive/dispatch loop until Stop is called or the
// transport reports Closed.
func (s *SimpleServer) Serve() status.Status {
	for {
		select {
		case <-s.stop:
			return status.Ok
		default:
		}

		buf := s.factory.Create()
		if rs := s.transport.Receive(buf); !rs.Kind.OK() {
			s.factory.Dispose(buf)
			if rs.Kind == status.Closed {
				return status.Ok
			}
			continue
		}
		dispatchOne(s.registry, s.metrics, buf, s.transport.Send)
		s.factory.Dispose(buf)
	}
}

// Stop signals Serve to return after its current iteration.
func (s *SimpleServer) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// StaticServer is the preallocated-buffer variant of SimpleServer: it
// reuses one preallocated MessageBuffer to receive every request instead
// of acquiring one from a Factory each time. Replies are not built in that
// buffer: dispatch still allocates new reply buffers for every request.
type StaticServer struct {
	transport transport.Transport
	buf       *buffer.MessageBuffer
	registry  *Registry
	metrics   *Metrics

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStaticServer builds a StaticServer dispatching to registry over t,
// reusing buf (sized to hold the largest expected message) across every
// request. metrics may be nil.
func NewStaticServer(t transport.Transport, buf *buffer.MessageBuffer, registry *Registry, metrics *Metrics) *StaticServer {
	return &StaticServer{transport: t, buf: buf, registry: registry, metrics: metrics, stop: make(chan struct{})}
}

// Serve runs the receive/dispatch loop until Stop is called or the
// transport reports Closed.
func (s *StaticServer) Serve() status.Status {
	for {
		select {
		case <-s.stop:
			return status.Ok
		default:
		}

		s.buf.Reset()
		if rs := s.transport.Receive(s.buf); !rs.Kind.OK() {
			if rs.Kind == status.Closed {
				return status.Ok
			}
			continue
		}
		dispatchOne(s.registry, s.metrics, s.buf, s.transport.Send)
	}
}

// Stop signals Serve to return after its current iteration.
func (s *StaticServer) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
