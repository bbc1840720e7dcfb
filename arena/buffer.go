package arena

import "github.com/bnclabs/pooledbuf/api"

// bufferImpl is the reference api.Buffer implementation handed out by
// both Capability flavors. The arena core only ever talks to it through
// api.Buffer; direct/heap differ only in what memory their Capability
// handed over.
type bufferImpl struct {
	direct bool

	handle       int64
	chunk        interface{}
	normCapacity int64
	unpooled     bool

	memory []byte
	offset int64

	length int64

	// ceiling is the caller-configured capacity bound stamped in at
	// construction (NewBuffer's maxCapacity). Unlike length, it never
	// changes across InitPooled/InitUnpooled calls on the same buffer
	// value: Allocate/Reallocate check every request against it.
	ceiling int64

	readerIndex int64
	writerIndex int64
}

func newHeapBuffer(maxCapacity int64) api.Buffer {
	return &bufferImpl{ceiling: maxCapacity}
}

func newDirectBuffer(maxCapacity int64) api.Buffer {
	return &bufferImpl{direct: true, ceiling: maxCapacity}
}

// InitPooled's backingCapacity is the run/subpage slack the underlying
// allocation actually reserved (elemSize for a subpage, runLength for a
// page run); this buffer doesn't need to remember it once Memory() has
// been sliced down to length, so it is accepted but not retained.
func (b *bufferImpl) InitPooled(handle int64, chunk interface{}, memory []byte, off, length, backingCapacity, normCapacity int64) {
	b.handle = handle
	b.chunk = chunk
	b.normCapacity = normCapacity
	b.unpooled = false
	b.memory = memory
	b.offset = off
	b.length = length
	b.readerIndex, b.writerIndex = 0, 0
}

func (b *bufferImpl) InitUnpooled(memory []byte) {
	b.handle = noHandle
	b.chunk = nil
	b.normCapacity = int64(len(memory))
	b.unpooled = true
	b.memory = memory
	b.offset = 0
	b.length = int64(len(memory))
	b.readerIndex, b.writerIndex = 0, 0
}

func (b *bufferImpl) Handle() int64          { return b.handle }
func (b *bufferImpl) Chunk() interface{}     { return b.chunk }
func (b *bufferImpl) NormCapacity() int64    { return b.normCapacity }
func (b *bufferImpl) Unpooled() bool         { return b.unpooled }

func (b *bufferImpl) ReaderIndex() int64 { return b.readerIndex }
func (b *bufferImpl) WriterIndex() int64 { return b.writerIndex }

func (b *bufferImpl) SetIndices(readerIndex, writerIndex int64) {
	b.readerIndex, b.writerIndex = readerIndex, writerIndex
}

func (b *bufferImpl) Length() int64    { return b.length }
func (b *bufferImpl) MaxLength() int64 { return b.ceiling }

func (b *bufferImpl) Memory() []byte {
	return b.memory[b.offset : b.offset+b.length]
}
