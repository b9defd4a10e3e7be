package server

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"erpc/runtime/buffer"
	"erpc/runtime/codec"
	"erpc/runtime/status"
	"erpc/runtime/transport/pipe"
	"erpc/runtime/wire"
)

func addService() *Service {
	return &Service{
		ID: 1,
		Functions: map[uint32]Dispatcher{
			1: func(args, reply *codec.Codec) status.Status {
				a, s := args.ReadI32()
				if !s.Kind.OK() {
					return s
				}
				b, s := args.ReadI32()
				if !s.Kind.OK() {
					return s
				}
				return reply.WriteI32(a + b)
			},
			2: func(args, reply *codec.Codec) status.Status {
				panic("boom")
			},
		},
	}
}

func buildRequest(mt wire.MessageType, serviceID, functionID, seq uint32, a, b int32) *buffer.MessageBuffer {
	buf := buffer.NewMessageBuffer(make([]byte, 256))
	hdr := wire.Header{MessageType: mt, ServiceID: serviceID, FunctionID: functionID, SequenceNo: seq}
	enc := hdr.Encode()
	buf.WriteBytes(enc[:])
	c := codec.New(buf)
	c.WriteI32(a)
	c.WriteI32(b)
	return buf
}

func TestSimpleServerDispatchesAndReplies(t *testing.T) {
	a, b := pipe.New()
	reg := NewRegistry()
	reg.Register(addService())
	srv := NewSimpleServer(a, buffer.NewDynamicFactory(256), reg, nil)
	go srv.Serve()
	defer func() { srv.Stop(); a.Close() }()

	req := buildRequest(wire.Invocation, 1, 1, 1, 20, 22)
	if s := b.Send(req); !s.Kind.OK() {
		t.Fatalf("send failed: %v", s)
	}

	reply := buffer.NewMessageBuffer(make([]byte, 256))
	if s := b.Receive(reply); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}
	hdrBytes, _ := reply.ReadBytes(wire.HeaderSize)
	hdr, err := wire.DecodeHeader(hdrBytes)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if hdr.MessageType != wire.Reply || hdr.SequenceNo != 1 {
		t.Fatalf("unexpected reply header: %+v", hdr)
	}
	sum, s := codec.New(reply).ReadI32()
	if !s.Kind.OK() || sum != 42 {
		t.Fatalf("got sum=%d status=%v", sum, s)
	}
}

func TestSimpleServerUnknownServiceReturnsUnknownService(t *testing.T) {
	a, b := pipe.New()
	reg := NewRegistry()
	srv := NewSimpleServer(a, buffer.NewDynamicFactory(256), reg, nil)
	go srv.Serve()
	defer func() { srv.Stop(); a.Close() }()

	req := buildRequest(wire.Invocation, 99, 1, 1, 1, 2)
	b.Send(req)

	reply := buffer.NewMessageBuffer(make([]byte, 256))
	if s := b.Receive(reply); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}
	// The status is not carried on the wire by this minimal reply shape;
	// what matters here is that dispatch didn't hang or crash, and a
	// header-only reply came back for the unresolved service.
	if len(reply.Bytes()) != wire.HeaderSize {
		t.Fatalf("expected a bare header reply for an unknown service, got %d bytes", len(reply.Bytes()))
	}
}

func TestSimpleServerRecoversHandlerPanic(t *testing.T) {
	a, b := pipe.New()
	reg := NewRegistry()
	reg.Register(addService())
	srv := NewSimpleServer(a, buffer.NewDynamicFactory(256), reg, nil)
	go srv.Serve()
	defer func() { srv.Stop(); a.Close() }()

	req := buildRequest(wire.Invocation, 1, 2, 5, 0, 0)
	b.Send(req)

	reply := buffer.NewMessageBuffer(make([]byte, 256))
	if s := b.Receive(reply); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}
	if len(reply.Bytes()) != wire.HeaderSize {
		t.Fatalf("expected a bare header reply after a recovered panic, got %d bytes", len(reply.Bytes()))
	}
}

func TestSimpleServerOnewaySendsNoReply(t *testing.T) {
	a, b := pipe.New()
	reg := NewRegistry()
	reg.Register(addService())
	srv := NewSimpleServer(a, buffer.NewDynamicFactory(256), reg, nil)
	go srv.Serve()
	defer func() { srv.Stop(); a.Close() }()

	req := buildRequest(wire.OnewayInvocation, 1, 1, 1, 1, 1)
	b.Send(req)

	// No reply should arrive; confirm nothing shows up promptly and the
	// server is still alive by sending a normal follow-up call.
	time.Sleep(100 * time.Millisecond)

	req2 := buildRequest(wire.Invocation, 1, 1, 2, 10, 10)
	b.Send(req2)
	reply := buffer.NewMessageBuffer(make([]byte, 256))
	if s := b.Receive(reply); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}
	hdrBytes, _ := reply.ReadBytes(wire.HeaderSize)
	hdr, _ := wire.DecodeHeader(hdrBytes)
	if hdr.SequenceNo != 2 {
		t.Fatalf("expected the oneway call to produce no queued reply; got reply for sequence %d", hdr.SequenceNo)
	}
}

func TestStaticServerReusesBuffer(t *testing.T) {
	a, b := pipe.New()
	reg := NewRegistry()
	reg.Register(addService())
	srv := NewStaticServer(a, buffer.NewMessageBuffer(make([]byte, 256)), reg, nil)
	go srv.Serve()
	defer func() { srv.Stop(); a.Close() }()

	for i := 0; i < 3; i++ {
		req := buildRequest(wire.Invocation, 1, 1, uint32(i+1), 1, int32(i))
		b.Send(req)
		reply := buffer.NewMessageBuffer(make([]byte, 256))
		if s := b.Receive(reply); !s.Kind.OK() {
			t.Fatalf("receive failed: %v", s)
		}
		reply.ReadBytes(wire.HeaderSize)
		sum, s := codec.New(reply).ReadI32()
		if !s.Kind.OK() || sum != int32(1+i) {
			t.Fatalf("iteration %d: got sum=%d status=%v", i, sum, s)
		}
	}
}

func TestMetricsRecordDispatches(t *testing.T) {
	a, b := pipe.New()
	registry := NewRegistry()
	registry.Register(addService())
	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(promReg)
	srv := NewSimpleServer(a, buffer.NewDynamicFactory(256), registry, metrics)
	go srv.Serve()
	defer func() { srv.Stop(); a.Close() }()

	req := buildRequest(wire.Invocation, 1, 1, 1, 3, 4)
	b.Send(req)
	reply := buffer.NewMessageBuffer(make([]byte, 256))
	if s := b.Receive(reply); !s.Kind.OK() {
		t.Fatalf("receive failed: %v", s)
	}

	count := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("1", "1", "Success"))
	if count != 1 {
		t.Fatalf("expected 1 recorded dispatch, got %v", count)
	}
}
