package buffer

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	b := NewMessageBuffer(make([]byte, 16))
	if s := b.WriteBytes([]byte("hello")); !s.Kind.OK() {
		t.Fatalf("write failed: %v", s)
	}
	got, s := b.ReadBytes(5)
	if !s.Kind.OK() {
		t.Fatalf("read failed: %v", s)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteOverrunFails(t *testing.T) {
	b := NewMessageBuffer(make([]byte, 4))
	if s := b.WriteBytes([]byte("too long")); s.Kind.OK() {
		t.Fatalf("expected a BufferOverrun status")
	}
}

func TestReadOverrunFails(t *testing.T) {
	b := NewMessageBuffer(make([]byte, 16))
	b.WriteBytes([]byte("ab"))
	if _, s := b.ReadBytes(10); s.Kind.OK() {
		t.Fatalf("expected a BufferOverrun status")
	}
}

func TestResetAllowsReuse(t *testing.T) {
	b := NewMessageBuffer(make([]byte, 8))
	b.WriteBytes([]byte("abcd"))
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("expected Len 0 after Reset, got %d", b.Len())
	}
	if s := b.WriteBytes([]byte("xyz1")); !s.Kind.OK() {
		t.Fatalf("write after reset failed: %v", s)
	}
}

func TestStaticFactoryPoolIsBounded(t *testing.T) {
	f := NewStaticFactory(2, 32)
	a := f.Create()
	_ = f.Create()
	f.Dispose(a)
	reused := f.Create()
	if reused.Cap() != 32 {
		t.Fatalf("expected a reused 32-byte buffer, got cap %d", reused.Cap())
	}
}

func TestDynamicFactoryAllocatesFreshBuffers(t *testing.T) {
	f := NewDynamicFactory(64)
	a := f.Create()
	b := f.Create()
	a.WriteBytes([]byte("mark"))
	if b.Len() != 0 {
		t.Fatalf("expected independently allocated buffers")
	}
}

func TestRingFactoryRotatesSlots(t *testing.T) {
	f := NewRingFactory(3, 16, false)
	first := f.Create()
	f.Create()
	f.Create()
	fourth := f.Create()
	if &first.data[0] != &fourth.data[0] {
		t.Fatalf("expected the ring to wrap back to the first slot")
	}
}

func TestRingFactoryLineOriented(t *testing.T) {
	f := NewRingFactory(1, 16, true)
	if !f.LineOriented() {
		t.Fatalf("expected LineOriented to report the RpmsgTty fake mode")
	}
}
