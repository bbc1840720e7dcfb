package arena

import "github.com/bnclabs/pooledbuf/api"

// heapCapability backs chunks with ordinary Go-heap byte slices. This is
// the default, GC-managed flavor: DestroyChunk is a no-op, the backing
// array is simply dropped for the garbage collector to reclaim.
type heapCapability struct{}

// NewHeapCapability returns the Capability backing chunks with ordinary
// Go-heap memory.
func NewHeapCapability() Capability {
	return heapCapability{}
}

func (heapCapability) NewChunk(chunkSize int64) []byte {
	return make([]byte, chunkSize)
}

func (heapCapability) NewUnpooledChunk(capacity int64) []byte {
	return make([]byte, capacity)
}

func (heapCapability) NewBuffer(maxCapacity int64) api.Buffer {
	return newHeapBuffer(maxCapacity)
}

func (heapCapability) MemoryCopy(dst []byte, dstOff int64, src []byte, srcOff int64, length int64) {
	copy(dst[dstOff:dstOff+length], src[srcOff:srcOff+length])
}

func (heapCapability) DestroyChunk(memory []byte) {
	// GC-managed; nothing to release explicitly.
	_ = memory
}

func (heapCapability) IsDirect() bool { return false }
