package arena

import "github.com/bnclabs/pooledbuf/api"

// Capability is the dependency-injected platform hook set that lets one
// allocation algorithm serve both heap-array-backed and off-heap/direct
// arenas without a type hierarchy: an Arena is handed a Capability at
// construction and never knows which flavor it's talking to.
type Capability interface {
	// NewChunk reserves a fresh chunkSize-byte backing region for a
	// pooled chunk.
	NewChunk(chunkSize int64) []byte

	// NewUnpooledChunk reserves a capacity-byte backing region for a
	// Huge, never-pooled allocation.
	NewUnpooledChunk(capacity int64) []byte

	// NewBuffer constructs a fresh, empty Buffer of this capability's
	// flavor, ready to be handed to Arena.Allocate.
	NewBuffer(maxCapacity int64) api.Buffer

	// MemoryCopy copies length bytes from src[srcOff:] into dst[dstOff:],
	// the platform hook Arena.Reallocate uses to preserve live bytes.
	MemoryCopy(dst []byte, dstOff int64, src []byte, srcOff int64, length int64)

	// DestroyChunk releases a chunk's backing memory. Called outside the
	// arena guard, per the concurrency model.
	DestroyChunk(memory []byte)

	// IsDirect reports whether this capability backs off-heap memory.
	IsDirect() bool
}
