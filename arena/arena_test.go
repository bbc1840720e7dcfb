package arena

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func newTestArena(t *testing.T, pageSize, maxOrder int64) *Arena {
	a, err := NewArena(Config{PageSize: pageSize, MaxOrder: maxOrder}, NewHeapCapability())
	require.NoError(t, err)
	return a
}

func TestAllocateTiny(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	buf := a.capability.NewBuffer(1024)

	err := a.Allocate(nil, buf, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), buf.Length())
	assert.Equal(t, int64(16), buf.NormCapacity())
	assert.Len(t, buf.Memory(), 10)
	assert.False(t, buf.Unpooled())
	assert.Equal(t, int64(1), a.NumTinyAllocations())
}

func TestAllocateSmall(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	buf := a.capability.NewBuffer(8192)

	err := a.Allocate(nil, buf, 4096)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), buf.Length())
	assert.Equal(t, int64(4096), buf.NormCapacity())
	assert.Equal(t, int64(1), a.NumSmallAllocations())
}

func TestAllocateNormalRun(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	reqCapacity := a.pageSize * 3
	buf := a.capability.NewBuffer(reqCapacity)

	err := a.Allocate(nil, buf, reqCapacity)
	require.NoError(t, err)
	assert.Equal(t, reqCapacity, buf.Length())
	assert.Equal(t, int64(1), a.NumNormalAllocations())
	assert.Equal(t, int64(1), a.numChunks)
}

func TestAllocateHuge(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	reqCapacity := a.chunkSize + 1
	buf := a.capability.NewBuffer(reqCapacity)

	err := a.Allocate(nil, buf, reqCapacity)
	require.NoError(t, err)
	assert.True(t, buf.Unpooled())
	assert.Equal(t, reqCapacity, buf.Length())
	assert.Equal(t, int64(1), a.NumHugeAllocations())
	assert.Equal(t, int64(0), a.numChunks, "a Huge allocation must never create a pooled chunk")
}

func TestFreeTinyThenReallocate(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	buf := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(nil, buf, 10))

	require.NoError(t, a.Free(nil, buf))
	assert.Equal(t, int64(1), a.NumTinyDeallocations())

	buf2 := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(nil, buf2, 12))
	assert.Equal(t, int64(16), buf2.NormCapacity())
}

func TestFreeHugeDestroysImmediately(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	reqCapacity := a.chunkSize + 1
	buf := a.capability.NewBuffer(reqCapacity)
	require.NoError(t, a.Allocate(nil, buf, reqCapacity))

	require.NoError(t, a.Free(nil, buf))
	assert.Equal(t, int64(1), a.NumHugeDeallocations())
}

func TestDefaultThreadCacheRoundTrip(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	cache := NewDefaultThreadCache(a, 16)

	buf := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(cache, buf, 10))
	require.NoError(t, a.Free(cache, buf))

	buf2 := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(cache, buf2, 10))
	// The freed slot went to the cache, and the second allocation did not
	// need a fresh chunk: the arena still owns exactly one chunk and both
	// allocations are counted as Tiny.
	assert.Equal(t, int64(1), a.numChunks)
	assert.Equal(t, int64(2), a.NumTinyAllocations())
}

func TestReallocateGrowPreservesLiveWindow(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	buf := a.capability.NewBuffer(8192)
	require.NoError(t, a.Allocate(nil, buf, 64))

	mem := buf.Memory()
	for i := 0; i < 32; i++ {
		mem[i] = byte(i)
	}
	buf.SetIndices(0, 32)

	require.NoError(t, a.Reallocate(nil, buf, 256, true))
	assert.Equal(t, int64(32), buf.WriterIndex())
	grown := buf.Memory()
	for i := 0; i < 32; i++ {
		assert.Equal(t, byte(i), grown[i])
	}
}

func TestReallocateShrinkClampsIndices(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	buf := a.capability.NewBuffer(8192)
	require.NoError(t, a.Allocate(nil, buf, 512))
	buf.SetIndices(100, 400)

	require.NoError(t, a.Reallocate(nil, buf, 64, true))
	assert.Equal(t, int64(64), buf.ReaderIndex())
	assert.Equal(t, int64(64), buf.WriterIndex())
}

// Filling one chunk's worth of Normal runs must overflow into a second
// chunk rather than failing or corrupting the first.
func TestAllocateNormalSpillsToNewChunk(t *testing.T) {
	a := newTestArena(t, 8192, 4) // chunkSize = 8192 * 16 = 131072
	run := a.pageSize * 2         // Normal: 16384 bytes, 8 runs fill one chunk

	for i := 0; i < 8; i++ {
		buf := a.capability.NewBuffer(run)
		require.NoError(t, a.Allocate(nil, buf, run))
	}
	assert.Equal(t, int64(1), a.numChunks)

	buf := a.capability.NewBuffer(run)
	require.NoError(t, a.Allocate(nil, buf, run))
	assert.Equal(t, int64(2), a.numChunks)
}

func TestArenaStringDoesNotPanic(t *testing.T) {
	a := newTestArena(t, 8192, 11)
	buf := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(nil, buf, 10))
	assert.NotEmpty(t, a.String())
}

// A subpage with live slots must never hand its backing page back to the
// buddy tree: freeing one of two Tiny slots sharing a page must leave the
// other slot's memory untouched even after a fresh Normal allocation goes
// looking for pages to carve up.
func TestPartialSubpageFreeDoesNotReleaseLivePage(t *testing.T) {
	a := newTestArena(t, 8192, 11)

	buf1 := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(nil, buf1, 10))
	buf2 := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(nil, buf2, 10))

	sentinel := buf2.Memory()
	for i := range sentinel {
		sentinel[i] = 0xCD
	}

	require.NoError(t, a.Free(nil, buf1))

	// Force the buddy tree to hand out more pages; if the freed slot's
	// page were wrongly released while buf2's slot is still live, this
	// would carve memory overlapping buf2.
	buf3 := a.capability.NewBuffer(a.pageSize * 3)
	require.NoError(t, a.Allocate(nil, buf3, a.pageSize*3))

	for _, b := range buf2.Memory() {
		assert.Equal(t, byte(0xCD), b)
	}

	// The slot is still allocatable once fully freed.
	require.NoError(t, a.Free(nil, buf2))
	buf4 := a.capability.NewBuffer(1024)
	require.NoError(t, a.Allocate(nil, buf4, 10))
}

func TestNewArenaRejectsBadConfig(t *testing.T) {
	_, err := NewArena(Config{PageSize: 100, MaxOrder: 11}, NewHeapCapability())
	assert.Equal(t, ErrInvalidPageSize, err)

	_, err = NewArena(Config{PageSize: 8192, MaxOrder: 20}, NewHeapCapability())
	assert.Equal(t, ErrInvalidMaxOrder, err)
}
