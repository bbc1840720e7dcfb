package api

import "errors"

// ErrBadRequest is returned when a caller asks for a negative capacity, or
// a capacity beyond a buffer's maxCapacity.
var ErrBadRequest = errors.New("pooledbuf.badrequest")

// ErrBelongsToOther is returned by Recycle when the handle's owning stack
// belongs to a different Recycler than the one Recycle was called on.
var ErrBelongsToOther = errors.New("pooledbuf.belongstoother")

// ErrDoubleRecycle is returned when a handle is recycled twice without an
// intervening Get; recycleId/lastRecycledId are already stamped.
var ErrDoubleRecycle = errors.New("pooledbuf.doublerecycle")

// ErrAlienObject is returned when the object passed to Recycle is not the
// value the handle was bound to.
var ErrAlienObject = errors.New("pooledbuf.alienobject")

// ErrChunkMismatch is returned when Free is called with a pooled buffer
// whose Chunk() is not a chunk issued by the arena package.
var ErrChunkMismatch = errors.New("pooledbuf.chunkmismatch")
