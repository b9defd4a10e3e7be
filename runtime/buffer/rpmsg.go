package buffer

import "sync"

// The Rpmsg and RpmsgTty factories of spec.md §4.6 source buffers from the
// RPMsg-Lite zero-copy ring shared with a peripheral coprocessor. Driving
// the real ring requires the RPMsg-Lite binding itself, which is out of
// scope per spec.md §1's carve-out for individual peripheral drivers. What
// this package implements and tests is the *factory contract* such a
// binding must satisfy — Create/Dispose over a fixed-capacity pool of
// pre-allocated slots — via RingFactory, an in-memory fake standing in for
// the zero-copy ring.

// RingFactory fakes an RPMsg-Lite-backed Factory: a fixed set of
// pre-allocated slots handed out in a ring rotation, with TTY mode
// (lineOriented) only affecting how a real binding would frame reads —
// this fake does not need to model TTY framing, since that is a transport
// concern, not a buffer-allocation one.
type RingFactory struct {
	slots         [][]byte
	lineOriented  bool
	mu            sync.Mutex
	next          int
}

// NewRingFactory returns a RingFactory simulating an RPMsg-Lite ring of
// count slots, each size bytes. Pass lineOriented true to fake the
// RpmsgTty variant; the flag is informational only in this in-memory fake.
func NewRingFactory(count, size int, lineOriented bool) *RingFactory {
	slots := make([][]byte, count)
	for i := range slots {
		slots[i] = make([]byte, size)
	}
	return &RingFactory{slots: slots, lineOriented: lineOriented}
}

// LineOriented reports whether this factory is standing in for RpmsgTty.
func (f *RingFactory) LineOriented() bool { return f.lineOriented }

// Create hands out the next slot in ring order. Unlike StaticFactory it
// does not block on exhaustion: the ring fake always has a slot (a real
// RPMsg-Lite ring would block the same way StaticFactory's channel does,
// but reproducing that blocking behavior without the underlying hardware
// queue would only be testing this fake, not the contract).
func (f *RingFactory) Create() *MessageBuffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.slots[f.next]
	f.next = (f.next + 1) % len(f.slots)
	return NewMessageBuffer(data)
}

// Dispose resets buf's cursors; the backing slot remains owned by the ring.
func (f *RingFactory) Dispose(buf *MessageBuffer) {
	buf.Reset()
}
