package recycler

// Recycler is the pool itself: a shared factory and Config, from which
// every participating goroutine binds its own Local stack. Recycler holds
// no mutable state of its own — all pooling state lives in the Locals it
// hands out via Bind.
//
// newObject is the idiomatic Go substitute for subclassing Netty's
// abstract Recycler and overriding newObject(): a constructor function
// supplied once at construction, called by a Local's Get whenever it has
// nothing pooled to hand back.
type Recycler[T comparable] struct {
	cfg       Config
	newObject func() T
}

// NewRecycler builds a Recycler around cfg and the given factory.
func NewRecycler[T comparable](cfg Config, newObject func() T) *Recycler[T] {
	return &Recycler[T]{cfg: cfg, newObject: newObject}
}

// Bind gives the calling goroutine its own Local. A goroutine must call
// Close on the Local once it is done with it, or any foreign Locals it
// recycled objects into will keep their Queue to it alive forever.
func (r *Recycler[T]) Bind() *Local[T] {
	return newLocal(r)
}

// Recycle returns obj, bound to h, to its owning Local. l is the calling
// goroutine's own Local — if l is also h's owning Local, the handle goes
// straight back onto l's stack; otherwise it is routed across goroutines
// through a Queue from l to h's owner. A handle whose owning Local belongs
// to a different Recycler than l is rejected with ErrBelongsToOther.
func (l *Local[T]) Recycle(obj T, h *Handle[T]) error {
	if h.local.recycler != l.recycler {
		return ErrBelongsToOther
	}
	if h.local == l {
		return l.recycle(obj, h)
	}
	return h.local.recycleForeign(obj, h, l)
}
