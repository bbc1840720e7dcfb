package arena

import "unsafe"

import "golang.org/x/sys/unix"

import "github.com/bnclabs/pooledbuf/api"
import "github.com/bnclabs/pooledbuf/lib"

// directCapability backs chunks with anonymous mmap'd, off-heap regions,
// the Go-native analogue of a direct ByteBuffer arena: the Go garbage
// collector never scans this memory, so DestroyChunk must explicitly
// munmap it.
type directCapability struct{}

// NewDirectCapability returns the Capability backing chunks with off-heap
// memory reserved via anonymous mmap.
func NewDirectCapability() Capability {
	return directCapability{}
}

func (directCapability) NewChunk(chunkSize int64) []byte {
	mem, err := mmapAnon(chunkSize)
	if err != nil {
		panic(err)
	}
	return mem
}

func (directCapability) NewUnpooledChunk(capacity int64) []byte {
	mem, err := mmapAnon(capacity)
	if err != nil {
		panic(err)
	}
	return mem
}

func (directCapability) NewBuffer(maxCapacity int64) api.Buffer {
	return newDirectBuffer(maxCapacity)
}

// MemoryCopy copies via lib.Memcpy rather than the builtin copy: dst and
// src back off-heap mmap'd regions the garbage collector never scans, so
// this is the one Capability where bypassing Go's slice-copy machinery in
// favor of a raw pointer copy matches what the memory actually is.
func (directCapability) MemoryCopy(dst []byte, dstOff int64, src []byte, srcOff int64, length int64) {
	if length == 0 {
		return
	}
	lib.Memcpy(
		unsafe.Pointer(&dst[dstOff]),
		unsafe.Pointer(&src[srcOff]),
		int(length),
	)
}

func (directCapability) DestroyChunk(memory []byte) {
	if len(memory) == 0 {
		return
	}
	if err := unix.Munmap(memory); err != nil {
		panic(err)
	}
}

func (directCapability) IsDirect() bool { return true }

func mmapAnon(size int64) ([]byte, error) {
	return unix.Mmap(
		-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
}
