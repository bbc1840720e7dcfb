package recycler

// Handle is the recyclable wrapper Get hands back, bound to a value and
// to the Local it will return to. Recycle(obj, h) pushes h back onto its
// owning Local directly when called from that Local's own goroutine, or
// parks it on a Queue bound for that Local otherwise.
//
// recycleId == 0 && lastRecycledId == 0 iff h is outside any pool (held
// live by a caller). Both stamped to the owning Local's id iff h is
// pushed directly onto that Local's stack. lastRecycledId stamped to a
// Queue's id, with recycleId left at 0, iff h is resident in that
// cross-goroutine Queue. Once a transfer harvests h onto the owning
// Local's stack, both ids hold that Queue's id until the next Get.
type Handle[T comparable] struct {
	value T
	local *Local[T]

	recycleId      int64
	lastRecycledId int64
}

func newHandle[T comparable](local *Local[T], value T) *Handle[T] {
	return &Handle[T]{local: local, value: value}
}

func (h *Handle[T]) stampOwned() {
	h.recycleId, h.lastRecycledId = h.local.id, h.local.id
}

func (h *Handle[T]) stampQueued(queueID int64) {
	h.lastRecycledId = queueID
}

// stampHarvested reconciles h's ids the first time a Queue's transfer
// pulls it across into its owning Local's stack array.
func (h *Handle[T]) stampHarvested() {
	if h.recycleId == 0 {
		h.recycleId = h.lastRecycledId
	}
}

func (h *Handle[T]) reset() {
	h.recycleId, h.lastRecycledId = 0, 0
}
