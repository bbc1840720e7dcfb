package arena

// chunk is a contiguous pre-reserved memory region managed as a complete
// binary buddy tree over pages. memoryMap[1] is the root; memoryMap[i]
// holds the depth at which node i is still free, or chunk.unusable once
// the node (or both its children) are fully allocated.
type chunk struct {
	pageSize   int64
	maxOrder   int32
	pageShifts int32
	chunkSize  int64
	unusable   int8

	memoryMap []int8
	depthMap  []int8
	subpages  []*subpage

	pageCount int32
	freeBytes int64
	unpooled  bool

	memory []byte

	// chunkList links, set/cleared exclusively by the owning Arena under
	// its guard.
	list *chunkList
	prev *chunk
	next *chunk
}

func newChunk(pageSize int64, maxOrder, pageShifts int32, chunkSize int64, memory []byte) *chunk {
	pageCount := int32(1) << uint(maxOrder)
	c := &chunk{
		pageSize:   pageSize,
		maxOrder:   maxOrder,
		pageShifts: pageShifts,
		chunkSize:  chunkSize,
		unusable:   int8(maxOrder + 1),
		pageCount:  pageCount,
		freeBytes:  chunkSize,
		memory:     memory,
		subpages:   make([]*subpage, pageCount),
	}
	c.memoryMap = make([]int8, pageCount<<1)
	c.depthMap = make([]int8, pageCount<<1)
	memoryMapIndex := int32(1)
	for d := int32(0); d <= maxOrder; d++ {
		depth := int32(1) << uint(d)
		for p := int32(0); p < depth; p++ {
			c.memoryMap[memoryMapIndex] = int8(d)
			c.depthMap[memoryMapIndex] = int8(d)
			memoryMapIndex++
		}
	}
	return c
}

func newUnpooledChunk(chunkSize int64, memory []byte) *chunk {
	return &chunk{
		chunkSize: chunkSize,
		freeBytes: chunkSize,
		unpooled:  true,
		memory:    memory,
	}
}

func (c *chunk) usage() int64 {
	freeBytes := c.freeBytes
	if freeBytes == 0 {
		return 100
	}
	used := c.chunkSize - freeBytes
	return 100 * used / c.chunkSize
}

// allocate services a normalized capacity request, returning noHandle if
// the chunk has no room. normCapacity >= pageSize takes a page run;
// smaller requests are routed to a subpage.
func (c *chunk) allocate(a *Arena, normCapacity int64) int64 {
	if normCapacity >= c.pageSize {
		return c.allocateRun(normCapacity)
	}
	return c.allocateSubpage(a, normCapacity)
}

func (c *chunk) allocateRun(normCapacity int64) int64 {
	d := c.maxOrder - int32(log2(normCapacity)-int(c.pageShifts))
	id := c.allocateNode(d)
	if id < 0 {
		return noHandle
	}
	c.freeBytes -= c.runLength(id)
	return encodeRunHandle(id)
}

// allocateSubpage allocates a single leaf page and hands it to the
// subpage identified by the caller's size-class head. It takes that
// head's guard itself, so the caller must not already hold it.
func (c *chunk) allocateSubpage(a *Arena, normCapacity int64) int64 {
	// head guards the ring this subpage joins; allocateNormal's caller
	// only holds a.mu, so the ring mutation below needs its own lock,
	// same as Netty's PoolChunk.allocateSubpage synchronizing on head.
	head := a.subpagePoolHead(normCapacity)
	head.mu.Lock()
	defer head.mu.Unlock()

	id := c.allocateNode(c.maxOrder)
	if id < 0 {
		return noHandle
	}
	c.freeBytes -= c.pageSize
	idx := c.subpageIdx(id)
	sp := c.subpages[idx]
	if sp == nil {
		sp = newSubpage(head, c, id, c.runOffset(id), c.pageSize, normCapacity)
		c.subpages[idx] = sp
	} else {
		sp.reinit(head, normCapacity)
	}
	return sp.allocate()
}

// free releases a run or a subpage slot. If the handle names a subpage
// slot and the subpage reports its backing page should be released, the
// leaf node is returned to the buddy tree too.
func (c *chunk) free(a *Arena, handle int64) {
	memoryMapIdx := handleMemoryMapIdx(handle)
	if handleIsSubpage(handle) {
		sp := c.subpages[c.subpageIdx(memoryMapIdx)]
		head := a.subpagePoolHead(sp.elemSize)
		head.mu.Lock()
		keep := sp.free(head, maskBitmapIdx(handleBitmapIdx(handle)))
		head.mu.Unlock()
		if keep {
			return
		}
	}
	c.freeBytes += c.runLength(memoryMapIdx)
	c.setValue(memoryMapIdx, c.depthMap[memoryMapIdx])
	c.updateParentsFree(memoryMapIdx)
}

func (c *chunk) value(id int32) int8      { return c.memoryMap[id] }
func (c *chunk) setValue(id int32, v int8) { c.memoryMap[id] = v }
func (c *chunk) depth(id int32) int8      { return c.depthMap[id] }

func (c *chunk) allocateNode(d int32) int32 {
	id := int32(1)
	initial := -(int32(1) << uint(d))
	val := c.value(id)
	if val > int8(d) {
		return -1
	}
	for val < int8(d) || (id&initial) == 0 {
		id <<= 1
		val = c.value(id)
		if val > int8(d) {
			id ^= 1
			val = c.value(id)
		}
	}
	c.setValue(id, c.unusable)
	c.updateParentsAlloc(id)
	return id
}

func (c *chunk) updateParentsAlloc(id int32) {
	for id > 1 {
		parentID := id >> 1
		val1 := c.value(id)
		val2 := c.value(id ^ 1)
		v := val1
		if val2 < v {
			v = val2
		}
		c.setValue(parentID, v)
		id = parentID
	}
}

func (c *chunk) updateParentsFree(id int32) {
	logChild := int8(c.depth(id)) + 1
	for id > 1 {
		parentID := id >> 1
		val1 := c.value(id)
		val2 := c.value(id ^ 1)
		logChild--
		if val1 == logChild && val2 == logChild {
			c.setValue(parentID, logChild-1)
		} else {
			v := val1
			if val2 < v {
				v = val2
			}
			c.setValue(parentID, v)
		}
		id = parentID
	}
}

// runLength is the byte span covered by the node at id: chunkSize at the
// root, halving at every level down to pageSize at the leaves.
func (c *chunk) runLength(id int32) int64 {
	return c.chunkSize >> uint(c.depth(id))
}

// runOffset is the byte offset into the chunk's backing memory where the
// run rooted at id begins.
func (c *chunk) runOffset(id int32) int64 {
	shift := id ^ (int32(1) << uint(c.depth(id)))
	return int64(shift) * c.runLength(id)
}

func (c *chunk) subpageIdx(id int32) int32 {
	return id ^ (int32(1) << uint(c.maxOrder))
}
