package arena

import "fmt"
import "sync/atomic"

import "github.com/dustin/go-humanize"

// arenaMetrics mirrors PoolArenaMetric's allocation/deallocation counters.
// Every counter, Normal included, is updated with atomic ops rather than
// under a.mu: Free's cache.Add success path bumps whichever class's
// counter on a cache hit without ever taking the arena guard, Normal's
// counter among them, so it cannot be a plain int the way a guard-only
// reading might suggest.
type arenaMetrics struct {
	tinyAllocations    int64
	tinyDeallocations  int64
	smallAllocations   int64
	smallDeallocations int64
	hugeAllocations    int64
	hugeDeallocations  int64

	normalAllocations   int64
	normalDeallocations int64

	numThreadCaches int64
}

func (m *arenaMetrics) bumpAlloc(class SizeClass) {
	switch class {
	case Tiny:
		atomic.AddInt64(&m.tinyAllocations, 1)
	case Small:
		atomic.AddInt64(&m.smallAllocations, 1)
	case Huge:
		atomic.AddInt64(&m.hugeAllocations, 1)
	case Normal:
		atomic.AddInt64(&m.normalAllocations, 1)
	}
}

func (m *arenaMetrics) bumpDealloc(class SizeClass) {
	switch class {
	case Tiny:
		atomic.AddInt64(&m.tinyDeallocations, 1)
	case Small:
		atomic.AddInt64(&m.smallDeallocations, 1)
	case Huge:
		atomic.AddInt64(&m.hugeDeallocations, 1)
	case Normal:
		atomic.AddInt64(&m.normalDeallocations, 1)
	}
}

// NumTinyAllocations, NumSmallAllocations, NumNormalAllocations and
// NumHugeAllocations report lifetime allocation counts per size class.
func (a *Arena) NumTinyAllocations() int64   { return atomic.LoadInt64(&a.metrics.tinyAllocations) }
func (a *Arena) NumSmallAllocations() int64  { return atomic.LoadInt64(&a.metrics.smallAllocations) }
func (a *Arena) NumHugeAllocations() int64   { return atomic.LoadInt64(&a.metrics.hugeAllocations) }
func (a *Arena) NumNormalAllocations() int64 { return atomic.LoadInt64(&a.metrics.normalAllocations) }

// NumTinyDeallocations, NumSmallDeallocations, NumNormalDeallocations and
// NumHugeDeallocations report lifetime free counts per size class.
func (a *Arena) NumTinyDeallocations() int64  { return atomic.LoadInt64(&a.metrics.tinyDeallocations) }
func (a *Arena) NumSmallDeallocations() int64 { return atomic.LoadInt64(&a.metrics.smallDeallocations) }
func (a *Arena) NumHugeDeallocations() int64  { return atomic.LoadInt64(&a.metrics.hugeDeallocations) }
func (a *Arena) NumNormalDeallocations() int64 {
	return atomic.LoadInt64(&a.metrics.normalDeallocations)
}

// NumActiveAllocations reports the number of outstanding allocations
// across every size class.
func (a *Arena) NumActiveAllocations() int64 {
	active := a.NumTinyAllocations() - a.NumTinyDeallocations()
	active += a.NumSmallAllocations() - a.NumSmallDeallocations()
	active += a.NumNormalAllocations() - a.NumNormalDeallocations()
	active += a.NumHugeAllocations() - a.NumHugeDeallocations()
	return active
}

// NumThreadCaches reports how many ThreadCaches are currently attached to
// this arena, bumped by AttachThreadCache/DetachThreadCache.
func (a *Arena) NumThreadCaches() int64 {
	return atomic.LoadInt64(&a.metrics.numThreadCaches)
}

// AttachThreadCache and DetachThreadCache bracket a ThreadCache's
// lifetime against this arena, purely for NumThreadCaches bookkeeping;
// the arena never otherwise tracks which caches are in play.
func (a *Arena) AttachThreadCache() {
	atomic.AddInt64(&a.metrics.numThreadCaches, 1)
}

func (a *Arena) DetachThreadCache() {
	atomic.AddInt64(&a.metrics.numThreadCaches, -1)
}

// String renders a PoolArena.toString()-style diagnostic dump: one line
// per usage-band ChunkList, walking qInit through q100.
func (a *Arena) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := fmt.Sprintf(
		"arena(direct=%v pageSize=%s chunkSize=%s chunks=%d)\n",
		a.capability.IsDirect(), humanize.Bytes(uint64(a.pageSize)),
		humanize.Bytes(uint64(a.chunkSize)), a.numChunks)
	for _, cl := range []*chunkList{a.qInit, a.q000, a.q025, a.q050, a.q075, a.q100} {
		out += cl.String()
	}
	return out
}

// String renders one ChunkList's chunks and their usage percentages.
func (cl *chunkList) String() string {
	out := fmt.Sprintf("  [%d%%,%d%%]:", cl.minUsage, cl.maxUsage)
	n := 0
	for cur := cl.head; cur != nil; cur = cur.next {
		out += fmt.Sprintf(" usage=%d%% free=%s", cur.usage(), humanize.Bytes(uint64(cur.freeBytes)))
		n++
	}
	if n == 0 {
		out += " (empty)"
	}
	return out + "\n"
}
