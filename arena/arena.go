package arena

import "sync"

import "github.com/bnclabs/pooledbuf/api"

// Arena owns the six usage-banded ChunkLists, both Subpage size-class
// rings (Tiny x 32, Small x numSmallClasses), and the Huge path. It
// routes every Allocate/Free by size class and never knows whether its
// Capability backs heap or off-heap memory.
type Arena struct {
	mu sync.Mutex

	capability Capability

	pageSize   int64
	maxOrder   int32
	pageShifts int32
	chunkSize  int64

	chunkCapacity int64
	numChunks     int64

	qInit *chunkList
	q000  *chunkList
	q025  *chunkList
	q050  *chunkList
	q075  *chunkList
	q100  *chunkList

	// searchOrder is the Arena's allocateNormal walk order: q050 first
	// (the sweet spot, unlikely to fragment), then lighter bands, qInit,
	// then the near-full bands last so they are not stressed further.
	searchOrder []*chunkList

	tinyPools  []*subpage
	smallPools []*subpage

	metrics arenaMetrics
}

// NewArena constructs an Arena from Config and a Capability supplying its
// backing-memory platform hooks.
func NewArena(cfg Config, capability Capability) (*Arena, error) {
	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = 8192
	}
	maxOrder := cfg.MaxOrder
	if maxOrder == 0 {
		maxOrder = 11
	}
	if pageSize < 4096 || (pageSize&(pageSize-1)) != 0 {
		return nil, ErrInvalidPageSize
	}
	if maxOrder > 14 {
		return nil, ErrInvalidMaxOrder
	}
	pageShifts := int32(log2(pageSize))
	chunkSize := pageSize << uint(maxOrder)

	a := &Arena{
		capability:    capability,
		pageSize:      pageSize,
		maxOrder:      int32(maxOrder),
		pageShifts:    pageShifts,
		chunkSize:     chunkSize,
		chunkCapacity: cfg.ChunkCapacity,
	}

	a.qInit = newChunkList(minInt64, 25)
	a.q000 = newChunkList(1, 50)
	a.q025 = newChunkList(25, 75)
	a.q050 = newChunkList(50, 100)
	a.q075 = newChunkList(75, 100)
	a.q100 = newChunkList(100, 100)

	a.qInit.prevList = a.qInit // chunks never leave qInit on underflow.
	a.qInit.nextList = a.q000
	a.q000.prevList = nil // q000's predecessor is the destroy boundary.
	a.q000.nextList = a.q025
	a.q025.prevList = a.qInit
	a.q025.nextList = a.q050
	a.q050.prevList = a.q025
	a.q050.nextList = a.q075
	a.q075.prevList = a.q050
	a.q075.nextList = a.q100
	a.q100.prevList = a.q075
	a.q100.nextList = nil

	a.searchOrder = []*chunkList{a.q050, a.q025, a.q000, a.qInit, a.q075, a.q100}

	a.tinyPools = make([]*subpage, 32)
	for i := range a.tinyPools {
		a.tinyPools[i] = newSubpageHead()
	}
	a.smallPools = make([]*subpage, a.numSmallClasses())
	for i := range a.smallPools {
		a.smallPools[i] = newSubpageHead()
	}

	return a, nil
}

const minInt64 = -1 << 62

func (a *Arena) numSmallClasses() int {
	return smallIdx(a.pageSize) + 1
}

func (a *Arena) subpagePoolHead(n int64) *subpage {
	if n >= 512 {
		return a.smallPools[smallIdx(n)]
	}
	return a.tinyPools[tinyIdx(n)]
}

// Allocate services a request of reqCapacity bytes into buf, consulting
// cache first for Tiny/Small/Normal classes. cache may be nil.
func (a *Arena) Allocate(cache api.ThreadCache, buf api.Buffer, reqCapacity int64) error {
	if reqCapacity < 0 || reqCapacity > buf.MaxLength() {
		return api.ErrBadRequest
	}
	n, class, err := a.normalize(reqCapacity)
	if err != nil {
		return err
	}
	switch class {
	case Tiny:
		return a.allocateTinySmall(Tiny, cache, buf, reqCapacity, n)
	case Small:
		return a.allocateTinySmall(Small, cache, buf, reqCapacity, n)
	case Normal:
		if cache != nil && cache.AllocateNormal(buf, reqCapacity, n) {
			a.metrics.bumpAlloc(Normal)
			return nil
		}
		if err := a.allocateNormal(buf, reqCapacity, n); err != nil {
			return err
		}
		a.metrics.bumpAlloc(Normal)
		return nil
	default: // Huge
		return a.allocateHuge(buf, reqCapacity, n)
	}
}

func (a *Arena) allocateTinySmall(class SizeClass, cache api.ThreadCache, buf api.Buffer, reqCapacity, n int64) error {
	if cache != nil {
		var hit bool
		if class == Tiny {
			hit = cache.AllocateTiny(buf, reqCapacity, n)
		} else {
			hit = cache.AllocateSmall(buf, reqCapacity, n)
		}
		if hit {
			a.metrics.bumpAlloc(class)
			return nil
		}
	}

	head := a.subpagePoolHead(n)
	head.mu.Lock()
	s := head.next
	if s != head {
		handle := s.allocate()
		if handle != noHandle {
			a.initBuf(buf, s.chunk, handle, reqCapacity)
			head.mu.Unlock()
			a.metrics.bumpAlloc(class)
			return nil
		}
	}
	head.mu.Unlock()

	// No subpage had room; carve a fresh page (or run) out of a chunk.
	// This still services class, not Normal, even though it walks the
	// same ChunkList machinery Normal allocations use.
	if err := a.allocateNormal(buf, reqCapacity, n); err != nil {
		return err
	}
	a.metrics.bumpAlloc(class)
	return nil
}

func (a *Arena) allocateNormal(buf api.Buffer, reqCapacity, n int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, cl := range a.searchOrder {
		if cl.allocate(a, buf, reqCapacity, n) {
			return nil
		}
	}

	if a.chunkCapacity > 0 && a.numChunks >= a.chunkCapacity {
		errorf("arena: chunkCapacity %d exhausted, refusing normCapacity %d", a.chunkCapacity, n)
		return ErrOutOfMemory
	}

	c := newChunk(a.pageSize, a.maxOrder, a.pageShifts, a.chunkSize, a.capability.NewChunk(a.chunkSize))
	handle := c.allocate(a, n)
	if handle == noHandle {
		return ErrOutOfMemory
	}
	a.initBuf(buf, c, handle, reqCapacity)
	a.numChunks++
	a.qInit.promote(c)
	debugf("arena: allocated chunk %d, normCapacity %d", a.numChunks, n)
	return nil
}

func (a *Arena) allocateHuge(buf api.Buffer, reqCapacity, n int64) error {
	mem := a.capability.NewUnpooledChunk(n)
	buf.InitUnpooled(mem)
	a.metrics.bumpAlloc(Huge)
	return nil
}

// initBuf computes the byte offset, length and normalized size an
// allocation spans inside c's backing memory, recovering normCapacity
// from the handle/chunk state rather than needing it passed in: a
// subpage slot's normCapacity is its subpage's elemSize, and a run's
// normCapacity is exactly its runLength (allocateRun chose the run depth
// so that runLength comes out equal to the normalized request).
func (a *Arena) initBuf(buf api.Buffer, c *chunk, handle, reqCapacity int64) {
	if handleIsSubpage(handle) {
		idx := c.subpageIdx(handleMemoryMapIdx(handle))
		sp := c.subpages[idx]
		bitmapIdx := maskBitmapIdx(handleBitmapIdx(handle))
		off := sp.runOffset + int64(bitmapIdx)*sp.elemSize
		buf.InitPooled(handle, c, c.memory, off, reqCapacity, sp.elemSize, sp.elemSize)
		return
	}
	id := handleMemoryMapIdx(handle)
	off := c.runOffset(id)
	n := c.runLength(id)
	buf.InitPooled(handle, c, c.memory, off, reqCapacity, n, n)
}

// Free returns buf's allocation, trying cache first (Tiny/Small/Normal),
// falling back to the owning ChunkList (or immediate destruction for
// unpooled Huge allocations).
func (a *Arena) Free(cache api.ThreadCache, buf api.Buffer) error {
	if buf.Unpooled() {
		a.metrics.bumpDealloc(Huge)
		a.capability.DestroyChunk(buf.Memory())
		return nil
	}

	c, ok := buf.Chunk().(*chunk)
	if !ok || c == nil {
		return api.ErrChunkMismatch
	}
	handle, normCapacity := buf.Handle(), buf.NormCapacity()

	class := a.classOf(normCapacity)
	if cache != nil {
		sizeClass := int(class)
		if cache.Add(c, handle, normCapacity, sizeClass) {
			a.metrics.bumpDealloc(class)
			return nil
		}
	}

	if c.unpooled {
		a.metrics.bumpDealloc(class)
		a.capability.DestroyChunk(c.memory)
		return nil
	}

	a.mu.Lock()
	cl := c.list
	keep := true
	if cl != nil {
		keep = cl.free(a, c, handle)
	} else {
		c.free(a, handle)
	}
	a.mu.Unlock()

	a.metrics.bumpDealloc(class)
	if !keep {
		a.capability.DestroyChunk(c.memory)
	}
	return nil
}

func (a *Arena) classOf(n int64) SizeClass {
	switch {
	case n > a.chunkSize:
		return Huge
	case n > a.pageSize:
		return Normal
	case n >= 512:
		return Small
	default:
		return Tiny
	}
}

// Reallocate grows or shrinks buf to newCapacity, copying the live
// [readerIndex, writerIndex) window through the platform memory-copy
// hook. If freeOldMemory is set, the old allocation is freed once the
// copy completes.
func (a *Arena) Reallocate(cache api.ThreadCache, buf api.Buffer, newCapacity int64, freeOldMemory bool) error {
	oldMemory := buf.Memory()
	oldReader, oldWriter := buf.ReaderIndex(), buf.WriterIndex()
	oldHandle, oldChunk, oldNorm, oldUnpooled := buf.Handle(), buf.Chunk(), buf.NormCapacity(), buf.Unpooled()

	if err := a.Allocate(cache, buf, newCapacity); err != nil {
		return err
	}

	liveLen := oldWriter - oldReader
	if liveLen > 0 && oldReader < newCapacity {
		n := liveLen
		if oldReader+n > newCapacity {
			n = newCapacity - oldReader
		}
		a.capability.MemoryCopy(buf.Memory(), oldReader, oldMemory, oldReader, n)
	}

	reader, writer := oldReader, oldWriter
	if reader > newCapacity {
		reader = newCapacity
	}
	if writer > newCapacity {
		writer = newCapacity
	}
	buf.SetIndices(reader, writer)

	if freeOldMemory {
		old := &bufferImpl{
			direct: a.capability.IsDirect(), handle: oldHandle, chunk: oldChunk,
			normCapacity: oldNorm, unpooled: oldUnpooled, memory: oldMemory,
			length: int64(len(oldMemory)),
		}
		return a.Free(cache, old)
	}
	return nil
}
