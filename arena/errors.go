package arena

import "errors"

// ErrInvalidPageSize is returned by NewArena when pageSize is not a power
// of two expressible as 1<<pageShifts, or is smaller than 4096.
var ErrInvalidPageSize = errors.New("arena.invalidpagesize")

// ErrInvalidMaxOrder is returned by NewArena when maxOrder exceeds 14.
var ErrInvalidMaxOrder = errors.New("arena.invalidmaxorder")

// ErrInvalidCapacity is returned by normalize for a negative requested
// capacity. Allocate rejects a negative capacity earlier, with
// api.ErrBadRequest.
var ErrInvalidCapacity = errors.New("arena.invalidcapacity")

// ErrOutOfMemory is returned by Allocate when no existing chunk can
// satisfy a Tiny/Small/Normal request and either chunkCapacity forbids
// creating another chunk or a freshly created one still can't satisfy it.
var ErrOutOfMemory = errors.New("arena.outofmemory")
