// Package arena implements a jemalloc-style pooled byte-buffer allocator.
//
// A pre-reserved memory region (a Chunk) is partitioned into fixed-size
// pages managed by a buddy tree, and pages smaller than a request round up
// to are further subdivided into equal-sized slots by a Subpage. Requests
// are classified into size classes (Tiny, Small, Normal, Huge) and routed
// through a ring of ChunkLists banded by usage percentage, so that heavily
// used chunks are tried last and lightly used ones are preferred, keeping
// the allocator's working set dense.
//
// The Arena itself never decides how a Chunk's backing memory is obtained
// or released; that is supplied by a Capability, letting heap-array and
// off-heap/direct arenas share one allocation algorithm.
package arena
