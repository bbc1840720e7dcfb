package arena

// A handle is a 64-bit opaque identifier for an allocation inside a
// Chunk: bits 0..31 hold memoryMapIdx (the buddy-tree node the allocation
// descends from); bits 32..63 hold bitmapIdx, zero for a whole page-run
// allocation. Bit 30 of the bitmapIdx field (bit 62 of the handle) is
// set for subpage allocations so that a legitimate bitmapIdx of 0
// (the first slot in a subpage) is still distinguishable from a run
// handle.
const subpageMarker = int64(1) << 62

// noHandle is the sentinel chunk.allocate returns when it has no space.
const noHandle = int64(-1)

func encodeRunHandle(memoryMapIdx int32) int64 {
	return int64(memoryMapIdx)
}

func encodeSubpageHandle(memoryMapIdx, bitmapIdx int32) int64 {
	return subpageMarker | (int64(bitmapIdx) << 32) | int64(memoryMapIdx)
}

func handleIsSubpage(handle int64) bool {
	return handle&subpageMarker != 0
}

func handleMemoryMapIdx(handle int64) int32 {
	return int32(uint32(handle))
}

func handleBitmapIdx(handle int64) int32 {
	return int32(uint32(handle >> 32))
}

// bitmapIdxMask strips the subpage marker bit (bit 30 of the shifted
// bitmapIdx field) so the result is safe to use as a real slot index.
const bitmapIdxMask = int32(0x3FFFFFFF)

func maskBitmapIdx(idx int32) int32 {
	return idx & bitmapIdxMask
}
