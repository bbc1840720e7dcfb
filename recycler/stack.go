package recycler

import "sync"
import "sync/atomic"

import "github.com/bnclabs/pooledbuf/lib"

// Local is one goroutine's private handle stack, obtained from a
// Recycler via Bind and used only by the goroutine that bound it — Get,
// Recycle and scavenge all assume single-goroutine access to elements,
// matching the specification's "owning thread reads/writes its stack
// without synchronization" discipline. The only synchronized surface is
// prepending a foreign Queue onto queues, guarded by mu, mirroring how
// the Arena's Subpage rings are the only synchronized slice of an
// otherwise single-goroutine structure.
type Local[T comparable] struct {
	id int64

	recycler    *Recycler[T]
	maxCapacity int64

	elements []*Handle[T]

	mu     sync.Mutex
	queues *queue[T] // head of the list of foreign producers' Queues

	// delayed maps a target Local (one this Local has Recycled objects
	// into, from a goroutine other than the target's owner) to the Queue
	// this Local created to carry them there. One entry per distinct
	// foreign target this Local has ever returned an object to.
	delayed map[*Local[T]]*queue[T]

	// live is flipped false by Close and shared with every Queue this
	// Local produces into, substituting for a weak reference to this
	// Local's goroutine: a target Local's scavenge uses it to tell a
	// queue's producer is gone and drain it for the last time.
	live *atomic.Bool
}

func newLocal[T comparable](r *Recycler[T]) *Local[T] {
	l := &Local[T]{
		id:          lib.NextID(),
		recycler:    r,
		maxCapacity: r.cfg.MaxCapacity,
		delayed:     make(map[*Local[T]]*queue[T]),
		live:        new(atomic.Bool),
	}
	l.live.Store(true)
	return l
}

// Close marks l as no longer live; Queues this Local produced into
// report it as a dead producer on their next transfer attempt, letting
// their target Locals drain and unlink them. Close does not touch l's
// own elements or foreign-queue list — a goroutine's Local is abandoned,
// not drained back into anything, once that goroutine is done.
func (l *Local[T]) Close() {
	l.live.Store(false)
}

// Get pops a handle's value off l, scavenging this Local's foreign
// Queues first if the stack is empty, or materializes a fresh value via
// the Recycler's factory if scavenging found nothing. Get fails with
// ErrClosedLocal once Close has been called on l.
func (l *Local[T]) Get() (T, *Handle[T], error) {
	if !l.live.Load() {
		var zero T
		return zero, nil, ErrClosedLocal
	}
	if len(l.elements) == 0 {
		l.scavenge()
	}
	if len(l.elements) == 0 {
		h := newHandle(l, l.recycler.newObject())
		return h.value, h, nil
	}
	last := len(l.elements) - 1
	h := l.elements[last]
	l.elements[last] = nil
	l.elements = l.elements[:last]
	h.reset()
	return h.value, h, nil
}

// recycle pushes h (bound to obj) directly onto l, for a caller that owns
// l (l is this Handle's own Local); a handle bound to another Local is
// rejected. recycleForeign is used when the caller holds a different
// Local and must route the handle back across goroutines via a Queue.
func (l *Local[T]) recycle(obj T, h *Handle[T]) error {
	if !l.live.Load() {
		return ErrClosedLocal
	}
	if h.local != l {
		return ErrBelongsToOther
	}
	if obj != h.value {
		return ErrAlienObject
	}
	if h.recycleId != 0 || h.lastRecycledId != 0 {
		return ErrDoubleRecycle
	}
	l.push(h)
	return nil
}

func (l *Local[T]) push(h *Handle[T]) {
	if int64(len(l.elements)) >= l.maxCapacity {
		return
	}
	h.stampOwned()
	l.elements = append(l.elements, h)
}

// recycleForeign is called by a different goroutine's Local (src) to
// return h to l across goroutines: src looks up (or creates) the Queue
// it uses to reach l, and appends h there.
func (l *Local[T]) recycleForeign(obj T, h *Handle[T], src *Local[T]) error {
	if !l.live.Load() {
		return ErrClosedLocal
	}
	if h.local != l {
		return ErrBelongsToOther
	}
	if obj != h.value {
		return ErrAlienObject
	}
	if h.recycleId != 0 || h.lastRecycledId != 0 {
		return ErrDoubleRecycle
	}
	q, ok := src.delayed[l]
	if !ok {
		q = l.addForeignQueue(src)
		src.delayed[l] = q
	}
	q.append(h)
	return nil
}

// addForeignQueue creates a Queue producing into l on behalf of src and
// links it at the head of l.queues, under l's guard — the only point at
// which l's foreign-queue list is mutated concurrently with l's own
// goroutine walking it during scavenge.
func (l *Local[T]) addForeignQueue(src *Local[T]) *queue[T] {
	q := newQueue[T](lib.NextID(), src.live, int32(l.recycler.cfg.LinkCapacity))
	l.mu.Lock()
	q.next = l.queues
	l.queues = q
	l.mu.Unlock()
	debugf("recycler: local %d opened queue %d for local %d", l.id, q.id, src.id)
	return q
}

// scavenge walks l's foreign-queue list once, stopping at the first
// Queue that yields at least one handle. Dead producers' Queues are
// drained of whatever they still hold and unlinked, except the list
// head, which is never unlinked here since a concurrent recycleForeign
// on another goroutine may be about to prepend a new Queue in front of
// it under l.mu — this walk holds no guard at all.
func (l *Local[T]) scavenge() {
	var prev *queue[T]
	cur := l.queues
	for cur != nil {
		if cur.transfer(l) {
			return
		}
		if !cur.producerLive.Load() {
			cur.drainAll(l)
			if prev != nil {
				warnf("recycler: local %d unlinking dead queue %d", l.id, cur.id)
				prev.next = cur.next
				cur = prev.next
				continue
			}
		}
		prev, cur = cur, cur.next
	}
}
