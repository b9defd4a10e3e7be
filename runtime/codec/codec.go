// Package codec implements the wire codec of spec.md §4.5: primitive,
// container, optional, union and callback encode/decode over a
// runtime/buffer.MessageBuffer, bounds-checked and never panicking.
package codec

import (
	"math"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

// Codec wraps a MessageBuffer with the read/write operations spec.md §4.5
// requires: little-endian integers, IEEE-754 little-endian floats, a
// single 0/1 byte for bool, length-prefixed strings/binary, count-prefixed
// containers, a flag byte for optional pointers, a discriminator byte (or
// the discriminator's own scalar width) for unions, and an index byte for
// callbacks.
type Codec struct {
	Buf *buffer.MessageBuffer
}

// New wraps buf in a Codec.
func New(buf *buffer.MessageBuffer) *Codec {
	return &Codec{Buf: buf}
}

func (c *Codec) WriteBool(v bool) status.Status {
	var b byte
	if v {
		b = 1
	}
	return c.Buf.WriteBytes([]byte{b})
}

func (c *Codec) ReadBool() (bool, status.Status) {
	b, s := c.Buf.ReadBytes(1)
	if !s.Kind.OK() {
		return false, s
	}
	return b[0] != 0, status.Ok
}

func (c *Codec) WriteU8(v uint8) status.Status { return c.Buf.WriteBytes([]byte{v}) }
func (c *Codec) ReadU8() (uint8, status.Status) {
	b, s := c.Buf.ReadBytes(1)
	if !s.Kind.OK() {
		return 0, s
	}
	return b[0], status.Ok
}

func (c *Codec) WriteI8(v int8) status.Status { return c.WriteU8(uint8(v)) }
func (c *Codec) ReadI8() (int8, status.Status) {
	v, s := c.ReadU8()
	return int8(v), s
}

func (c *Codec) WriteU16(v uint16) status.Status {
	return c.Buf.WriteBytes([]byte{byte(v), byte(v >> 8)})
}
func (c *Codec) ReadU16() (uint16, status.Status) {
	b, s := c.Buf.ReadBytes(2)
	if !s.Kind.OK() {
		return 0, s
	}
	return uint16(b[0]) | uint16(b[1])<<8, status.Ok
}

func (c *Codec) WriteI16(v int16) status.Status { return c.WriteU16(uint16(v)) }
func (c *Codec) ReadI16() (int16, status.Status) {
	v, s := c.ReadU16()
	return int16(v), s
}

func (c *Codec) WriteU32(v uint32) status.Status {
	return c.Buf.WriteBytes([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}
func (c *Codec) ReadU32() (uint32, status.Status) {
	b, s := c.Buf.ReadBytes(4)
	if !s.Kind.OK() {
		return 0, s
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, status.Ok
}

func (c *Codec) WriteI32(v int32) status.Status { return c.WriteU32(uint32(v)) }
func (c *Codec) ReadI32() (int32, status.Status) {
	v, s := c.ReadU32()
	return int32(v), s
}

func (c *Codec) WriteU64(v uint64) status.Status {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return c.Buf.WriteBytes(b)
}
func (c *Codec) ReadU64() (uint64, status.Status) {
	b, s := c.Buf.ReadBytes(8)
	if !s.Kind.OK() {
		return 0, s
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, status.Ok
}

func (c *Codec) WriteI64(v int64) status.Status { return c.WriteU64(uint64(v)) }
func (c *Codec) ReadI64() (int64, status.Status) {
	v, s := c.ReadU64()
	return int64(v), s
}

func (c *Codec) WriteF32(v float32) status.Status {
	return c.WriteU32(math.Float32bits(v))
}
func (c *Codec) ReadF32() (float32, status.Status) {
	v, s := c.ReadU32()
	if !s.Kind.OK() {
		return 0, s
	}
	return math.Float32frombits(v), status.Ok
}

func (c *Codec) WriteF64(v float64) status.Status {
	return c.WriteU64(math.Float64bits(v))
}
func (c *Codec) ReadF64() (float64, status.Status) {
	v, s := c.ReadU64()
	if !s.Kind.OK() {
		return 0, s
	}
	return math.Float64frombits(v), status.Ok
}

// WriteString writes a u32 length followed by the UTF-8 bytes of v, no
// terminator.
func (c *Codec) WriteString(v string) status.Status {
	if s := c.WriteU32(uint32(len(v))); !s.Kind.OK() {
		return s
	}
	return c.Buf.WriteBytes([]byte(v))
}

func (c *Codec) ReadString() (string, status.Status) {
	n, s := c.ReadU32()
	if !s.Kind.OK() {
		return "", s
	}
	b, s := c.Buf.ReadBytes(int(n))
	if !s.Kind.OK() {
		return "", s
	}
	return string(b), status.Ok
}

// WriteBinary writes a u32 length followed by the raw bytes of v.
func (c *Codec) WriteBinary(v []byte) status.Status {
	if s := c.WriteU32(uint32(len(v))); !s.Kind.OK() {
		return s
	}
	return c.Buf.WriteBytes(v)
}

func (c *Codec) ReadBinary() ([]byte, status.Status) {
	n, s := c.ReadU32()
	if !s.Kind.OK() {
		return nil, s
	}
	return c.Buf.ReadBytes(int(n))
}

// WriteContainerCount writes the u32 element count preceding a list's
// encoded elements. Arrays elide this (their count is fixed in the IDL),
// so callers encoding a fixed array skip this call entirely.
func (c *Codec) WriteContainerCount(n int) status.Status { return c.WriteU32(uint32(n)) }

func (c *Codec) ReadContainerCount() (int, status.Status) {
	n, s := c.ReadU32()
	return int(n), s
}

// WriteOptionalFlag writes the single bool flag byte preceding an optional
// pointer's referent encoding (present=true means the referent follows).
func (c *Codec) WriteOptionalFlag(present bool) status.Status { return c.WriteBool(present) }

func (c *Codec) ReadOptionalFlag() (bool, status.Status) { return c.ReadBool() }

// WriteUnionDiscriminator writes a union's one-byte case discriminator.
// Unions with a non-byte-width declared discriminator type use the
// matching WriteU16/WriteU32 etc. directly instead of this helper.
func (c *Codec) WriteUnionDiscriminator(caseIndex uint8) status.Status {
	return c.WriteU8(caseIndex)
}

func (c *Codec) ReadUnionDiscriminator() (uint8, status.Status) { return c.ReadU8() }

// WriteCallbackIndex writes the one-byte index selecting among the
// concrete callbacks registered against a callback type, in declaration
// order.
func (c *Codec) WriteCallbackIndex(index uint8) status.Status { return c.WriteU8(index) }

func (c *Codec) ReadCallbackIndex() (uint8, status.Status) { return c.ReadU8() }
