package arena

import "github.com/bnclabs/pooledbuf/api"

// cachedAlloc is one entry parked in a DefaultThreadCache queue: enough to
// hand a matching request straight back, or to return the slot to its
// owning arena machinery if the cache is ever drained without reuse.
type cachedAlloc struct {
	chunk        *chunk
	handle       int64
	normCapacity int64
}

// DefaultThreadCache is a minimal concrete api.ThreadCache: one bounded
// LIFO stack per Tiny/Small class index, plus one shared bounded LIFO
// stack for Normal allocations whose top entry is reused only by a
// request of the same normCapacity, holding freed allocations a single
// goroutine can reuse without going through the Arena's guard at
// all. It is deliberately unsynchronized — callers must confine one
// DefaultThreadCache to a single goroutine, matching the specification's
// "opaque per-thread cache" contract.
type DefaultThreadCache struct {
	arena *Arena
	cap   int

	tiny   [][]cachedAlloc
	small  [][]cachedAlloc
	normal []cachedAlloc
}

// NewDefaultThreadCache builds a cache bound to arena, with queueCap
// entries retained per Tiny/Small size class and in the shared Normal
// stack.
func NewDefaultThreadCache(a *Arena, queueCap int) *DefaultThreadCache {
	tc := &DefaultThreadCache{arena: a, cap: queueCap}
	tc.tiny = make([][]cachedAlloc, 32)
	tc.small = make([][]cachedAlloc, a.numSmallClasses())
	return tc
}

func (tc *DefaultThreadCache) AllocateTiny(buf api.Buffer, reqCapacity, normCapacity int64) bool {
	return tc.allocateFrom(tc.tiny, tinyIdx(normCapacity), buf, reqCapacity)
}

func (tc *DefaultThreadCache) AllocateSmall(buf api.Buffer, reqCapacity, normCapacity int64) bool {
	return tc.allocateFrom(tc.small, smallIdx(normCapacity), buf, reqCapacity)
}

func (tc *DefaultThreadCache) AllocateNormal(buf api.Buffer, reqCapacity, normCapacity int64) bool {
	if len(tc.normal) == 0 {
		return false
	}
	entry := tc.normal[len(tc.normal)-1]
	if entry.normCapacity != normCapacity {
		return false
	}
	tc.normal = tc.normal[:len(tc.normal)-1]
	tc.arena.initBuf(buf, entry.chunk, entry.handle, reqCapacity)
	return true
}

func (tc *DefaultThreadCache) allocateFrom(queues [][]cachedAlloc, idx int, buf api.Buffer, reqCapacity int64) bool {
	if idx < 0 || idx >= len(queues) || len(queues[idx]) == 0 {
		return false
	}
	q := queues[idx]
	entry := q[len(q)-1]
	queues[idx] = q[:len(q)-1]
	tc.arena.initBuf(buf, entry.chunk, entry.handle, reqCapacity)
	return true
}

func (tc *DefaultThreadCache) Add(chunkArg interface{}, handle, normCapacity int64, sizeClass int) bool {
	c, ok := chunkArg.(*chunk)
	if !ok {
		return false
	}
	entry := cachedAlloc{chunk: c, handle: handle, normCapacity: normCapacity}
	switch SizeClass(sizeClass) {
	case Tiny:
		return tc.pushTo(tc.tiny, tinyIdx(normCapacity), entry)
	case Small:
		return tc.pushTo(tc.small, smallIdx(normCapacity), entry)
	case Normal:
		if len(tc.normal) >= tc.cap {
			return false
		}
		tc.normal = append(tc.normal, entry)
		return true
	default:
		return false
	}
}

func (tc *DefaultThreadCache) pushTo(queues [][]cachedAlloc, idx int, entry cachedAlloc) bool {
	if idx < 0 || idx >= len(queues) {
		return false
	}
	if len(queues[idx]) >= tc.cap {
		return false
	}
	queues[idx] = append(queues[idx], entry)
	return true
}
