package codec

import (
	"testing"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

func newCodec(size int) *Codec {
	return New(buffer.NewMessageBuffer(make([]byte, size)))
}

func reopen(c *Codec) *Codec {
	b := buffer.NewMessageBuffer(c.Buf.Bytes())
	b.SetWritten(len(c.Buf.Bytes()))
	return New(b)
}

func TestPrimitiveRoundTrip(t *testing.T) {
	c := newCodec(64)
	c.WriteBool(true)
	c.WriteI8(-5)
	c.WriteU16(40000)
	c.WriteI32(-123456)
	c.WriteU64(1 << 40)
	c.WriteF32(3.5)
	c.WriteF64(2.71828)

	r := reopen(c)
	if v, s := r.ReadBool(); !s.Kind.OK() || v != true {
		t.Fatalf("bool: %v %v", v, s)
	}
	if v, s := r.ReadI8(); !s.Kind.OK() || v != -5 {
		t.Fatalf("i8: %v %v", v, s)
	}
	if v, s := r.ReadU16(); !s.Kind.OK() || v != 40000 {
		t.Fatalf("u16: %v %v", v, s)
	}
	if v, s := r.ReadI32(); !s.Kind.OK() || v != -123456 {
		t.Fatalf("i32: %v %v", v, s)
	}
	if v, s := r.ReadU64(); !s.Kind.OK() || v != 1<<40 {
		t.Fatalf("u64: %v %v", v, s)
	}
	if v, s := r.ReadF32(); !s.Kind.OK() || v != 3.5 {
		t.Fatalf("f32: %v %v", v, s)
	}
	if v, s := r.ReadF64(); !s.Kind.OK() || v != 2.71828 {
		t.Fatalf("f64: %v %v", v, s)
	}
}

func TestStringRoundTrip(t *testing.T) {
	c := newCodec(64)
	c.WriteString("héllo")
	r := reopen(c)
	got, s := r.ReadString()
	if !s.Kind.OK() || got != "héllo" {
		t.Fatalf("got %q %v", got, s)
	}
}

func TestEmptyStringRoundTrip(t *testing.T) {
	c := newCodec(16)
	c.WriteString("")
	r := reopen(c)
	got, s := r.ReadString()
	if !s.Kind.OK() || got != "" {
		t.Fatalf("got %q %v", got, s)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	c := newCodec(32)
	c.WriteBinary([]byte{1, 2, 3, 4})
	r := reopen(c)
	got, s := r.ReadBinary()
	if !s.Kind.OK() || len(got) != 4 || got[2] != 3 {
		t.Fatalf("got %v %v", got, s)
	}
}

func TestContainerCountRoundTrip(t *testing.T) {
	c := newCodec(16)
	c.WriteContainerCount(0)
	r := reopen(c)
	n, s := r.ReadContainerCount()
	if !s.Kind.OK() || n != 0 {
		t.Fatalf("got %d %v", n, s)
	}
}

func TestOptionalFlagRoundTrip(t *testing.T) {
	c := newCodec(16)
	c.WriteOptionalFlag(false)
	r := reopen(c)
	present, s := r.ReadOptionalFlag()
	if !s.Kind.OK() || present {
		t.Fatalf("got %v %v", present, s)
	}
}

func TestUnionDiscriminatorRoundTrip(t *testing.T) {
	c := newCodec(16)
	c.WriteUnionDiscriminator(2)
	r := reopen(c)
	got, s := r.ReadUnionDiscriminator()
	if !s.Kind.OK() || got != 2 {
		t.Fatalf("got %d %v", got, s)
	}
}

func TestCallbackIndexRoundTrip(t *testing.T) {
	c := newCodec(16)
	c.WriteCallbackIndex(7)
	r := reopen(c)
	got, s := r.ReadCallbackIndex()
	if !s.Kind.OK() || got != 7 {
		t.Fatalf("got %d %v", got, s)
	}
}

func TestReadPastEndIsBufferOverrun(t *testing.T) {
	c := newCodec(2)
	c.WriteU8(1)
	r := reopen(c)
	r.ReadU8()
	if _, s := r.ReadU32(); s.Kind != status.BufferOverrun {
		t.Fatalf("expected BufferOverrun, got %v", s)
	}
}
