package api

// Buffer is the narrow contract the arena package relies on when handing
// an allocation back to a caller-supplied buffer object. Concrete buffer
// types (heap-array backed, off-heap/direct backed) are wired in by the
// caller; the core only ever touches a Buffer through this interface.
type Buffer interface {
	// InitPooled records that this buffer now wraps the pooled allocation
	// identified by handle out of chunk (opaque outside the arena
	// package, handed back verbatim to Free/ThreadCache.Add), a window
	// starting at byte offset off and spanning length bytes out of
	// memory (the backing chunk's full region). backingCapacity is the
	// run/subpage slack the allocation actually reserved; normCapacity
	// is the size class it was rounded up to.
	InitPooled(handle int64, chunk interface{}, memory []byte, off, length, backingCapacity, normCapacity int64)

	// InitUnpooled records that this buffer wraps an unpooled (Huge)
	// allocation backed directly by memory.
	InitUnpooled(memory []byte)

	// Handle, Chunk, NormCapacity and Unpooled expose enough of a pooled
	// allocation's identity for Free to route it back to the owning
	// chunk (or, for an unpooled allocation, to skip that entirely).
	Handle() int64
	Chunk() interface{}
	NormCapacity() int64
	Unpooled() bool

	// ReaderIndex and WriterIndex report the buffer's current read/write
	// cursors, used by Reallocate to clamp them into a resized region.
	ReaderIndex() int64
	WriterIndex() int64

	// SetIndices repositions the reader/writer cursors; the caller is
	// responsible for clamping them to the buffer's current length.
	SetIndices(readerIndex, writerIndex int64)

	// Length reports the buffer's current usable length. MaxLength
	// reports the caller-configured capacity ceiling stamped in at
	// construction; Allocate/Reallocate reject any request exceeding it.
	Length() int64
	MaxLength() int64

	// Memory exposes the backing byte slice for the platform memory-copy
	// hook to read from or write into; it must not be retained beyond the
	// call that obtained it.
	Memory() []byte
}

// ThreadCache is the opaque per-goroutine cache sitting between a caller
// and an Arena. The arena package never looks inside a ThreadCache; it
// only calls these hooks.
type ThreadCache interface {
	// AllocateTiny, AllocateSmall and AllocateNormal attempt to satisfy a
	// request of normCapacity bytes entirely from the cache, reporting
	// whether the cache had a suitable slot.
	AllocateTiny(buf Buffer, reqCapacity, normCapacity int64) bool
	AllocateSmall(buf Buffer, reqCapacity, normCapacity int64) bool
	AllocateNormal(buf Buffer, reqCapacity, normCapacity int64) bool

	// Add offers a freed allocation back to the cache, keyed by its size
	// class; the cache may decline, in which case the caller must return
	// the handle to its owning arena machinery. chunk is opaque to the
	// cache and is only ever handed back to the arena that issued it.
	Add(chunk interface{}, handle, normCapacity int64, sizeClass int) bool
}
