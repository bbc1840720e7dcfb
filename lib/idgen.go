package lib

import "sync/atomic"

// idseq backs NextID; a single process-wide monotonic counter shared by
// every caller, safe because callers only ever compare ids for equality.
var idseq int64

// NextID returns a process-wide monotonically increasing id, starting at 1.
// Used to stamp Stack and Queue identities in the recycler package; id 0
// is reserved to mean "unowned".
func NextID() int64 {
	return atomic.AddInt64(&idseq, 1)
}
