package recycler

import "errors"

import "github.com/bnclabs/pooledbuf/api"

// ErrBelongsToOther is returned by Recycle when the handle's owning Local
// belongs to a different Recycler than the Local Recycle was called on,
// and by a Local's direct push of a handle bound to another Local. It is
// api.ErrBelongsToOther.
var ErrBelongsToOther = api.ErrBelongsToOther

// ErrDoubleRecycle is returned when a handle is recycled twice without an
// intervening Get; recycleId/lastRecycledId are already stamped. It is
// api.ErrDoubleRecycle.
var ErrDoubleRecycle = api.ErrDoubleRecycle

// ErrAlienObject is returned when the object passed to Recycle is not the
// value the handle was bound to. It is api.ErrAlienObject.
var ErrAlienObject = api.ErrAlienObject

// ErrClosedLocal is returned when Get or Recycle is called on a Local
// that has already had Close called on it.
var ErrClosedLocal = errors.New("recycler.closedlocal")
