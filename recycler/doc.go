// Package recycler implements a per-goroutine object pool with a
// foreign-goroutine reclaim queue, architecturally parallel to (but
// functionally independent of) package arena: both reclaim and hand out
// values to high-concurrency callers without heavy synchronization on
// the hot path.
//
// A Recycler hands every owning goroutine its own Local stack of Handles
// via Bind. Objects released by a goroutine other than the Local's owner
// are parked on a Queue chained off that Local rather than synchronized
// onto the Local's stack directly; the owner periodically scavenges its
// queues to reclaim them.
package recycler
