package arena

import "sync"

import "github.com/bnclabs/pooledbuf/lib"

// subpage carves one page into maxNumElems equal-sized slots tracked by a
// bitmap, and is doubly linked into a per-size-class ring rooted at a
// sentinel head subpage owned by the Arena.
type subpage struct {
	chunk        *chunk
	memoryMapIdx int32
	runOffset    int64
	pageSize     int64

	elemSize    int64
	maxNumElems int32
	bitmap      []uint64

	prev *subpage
	next *subpage

	numAvail     int32
	nextAvailIdx int32
	doNotDestroy bool

	// mu guards the ring rooted at this subpage when it is a sentinel
	// head; non-head subpages never use it.
	mu sync.Mutex
}

// newSubpageHead constructs the sentinel ring head for one size class.
// The head is never allocated from; next == head means the ring is empty.
func newSubpageHead() *subpage {
	h := &subpage{}
	h.prev = h
	h.next = h
	return h
}

func newSubpage(head *subpage, c *chunk, memoryMapIdx int32, runOffset, pageSize int64, elemSize int64) *subpage {
	s := &subpage{
		chunk:        c,
		memoryMapIdx: memoryMapIdx,
		runOffset:    runOffset,
		pageSize:     pageSize,
	}
	s.reinit(head, elemSize)
	return s
}

func (s *subpage) reinit(head *subpage, elemSize int64) {
	s.doNotDestroy = true
	s.elemSize = elemSize
	if elemSize != 0 {
		s.maxNumElems = int32(s.pageSize / elemSize)
		s.numAvail = s.maxNumElems
		words := (s.maxNumElems + 63) / 64
		s.bitmap = make([]uint64, words)
	}
	s.nextAvailIdx = 0
	s.addToPool(head)
}

// allocate picks nextAvailIdx if cached, else scans the bitmap for the
// next cleared bit. The caller must hold the owning size-class head's
// guard.
func (s *subpage) allocate() int64 {
	if s.maxNumElems == 0 || s.numAvail == 0 || !s.doNotDestroy {
		return noHandle
	}
	bitmapIdx := s.getNextAvail()
	q, r := bitmapIdx>>6, uint(bitmapIdx&63)
	s.bitmap[q] |= uint64(1) << r
	s.numAvail--
	if s.numAvail == 0 {
		s.removeFromPool()
	}
	return encodeSubpageHandle(s.memoryMapIdx, bitmapIdx)
}

// free clears bitmapIdx. It returns true when the subpage should be kept
// (the caller must not return its backing page to the chunk's buddy
// tree); it returns false only once the slot count reaches maxNumElems
// and another subpage already services this size class, at which point
// the backing page is released. The caller must hold head's guard.
func (s *subpage) free(head *subpage, bitmapIdx int32) bool {
	q, r := bitmapIdx>>6, uint(bitmapIdx&63)
	s.bitmap[q] &^= uint64(1) << r
	s.nextAvailIdx = bitmapIdx

	wasFull := s.numAvail == 0
	s.numAvail++
	if wasFull {
		s.addToPool(head)
		return true
	}
	if s.numAvail != s.maxNumElems {
		return true
	}
	if s.next == head && s.prev == head {
		// sole member of the ring: keep it cached rather than destroy
		// the only subpage servicing this size class.
		return true
	}
	s.doNotDestroy = false
	s.removeFromPool()
	return false
}

func (s *subpage) getNextAvail() int32 {
	if s.nextAvailIdx >= 0 {
		idx := s.nextAvailIdx
		s.nextAvailIdx = -1
		return idx
	}
	return s.findNextAvail()
}

func (s *subpage) findNextAvail() int32 {
	for i, word := range s.bitmap {
		if word != ^uint64(0) {
			if idx := s.findNextAvail0(int32(i), word); idx >= 0 {
				return idx
			}
		}
	}
	return -1
}

func (s *subpage) findNextAvail0(wordIdx int32, word uint64) int32 {
	base := wordIdx << 6
	for b := 0; b < 8; b++ {
		byt := uint8(word >> uint(b*8))
		if byt == 0xff {
			continue
		}
		n := lib.Bit8(^byt).Findfirstset()
		if n < 0 {
			continue
		}
		bitIdx := base + int32(b*8) + int32(n)
		if bitIdx < s.maxNumElems {
			return bitIdx
		}
	}
	return -1
}

// addToPool inserts s into head's ring, just after head.
func (s *subpage) addToPool(head *subpage) {
	s.prev = head
	s.next = head.next
	s.next.prev = s
	head.next = s
}

func (s *subpage) removeFromPool() {
	s.prev.next = s.next
	s.next.prev = s.prev
	s.next = nil
	s.prev = nil
}
