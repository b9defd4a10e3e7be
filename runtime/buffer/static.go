package buffer

// StaticFactory is the `Static` factory of spec.md §4.6: a fixed pool of
// equally-sized buffers chosen at build time. Create blocks if every buffer
// in the pool is currently checked out, matching the original's bounded
// buffer-pool behavior on constrained targets where no further allocation
// is possible.
type StaticFactory struct {
	size int
	pool chan []byte
}

// NewStaticFactory returns a StaticFactory owning count buffers of size
// bytes each.
func NewStaticFactory(count, size int) *StaticFactory {
	f := &StaticFactory{size: size, pool: make(chan []byte, count)}
	for i := 0; i < count; i++ {
		f.pool <- make([]byte, size)
	}
	return f
}

// Create checks out one buffer from the pool, blocking until one is free.
func (f *StaticFactory) Create() *MessageBuffer {
	data := <-f.pool
	return NewMessageBuffer(data)
}

// Dispose returns buf's backing array to the pool after clearing its
// cursors, making it available to the next Create.
func (f *StaticFactory) Dispose(buf *MessageBuffer) {
	buf.Reset()
	f.pool <- buf.data
}
