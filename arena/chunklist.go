package arena

import "github.com/bnclabs/pooledbuf/api"

// chunkList is a doubly linked list of chunks whose usage percentage lies
// within [minUsage, maxUsage]. Lists are linked into a ring by usage so a
// chunk migrates to nextList when an allocation pushes its usage above
// maxUsage, or to prevList when a free drops it below minUsage.
type chunkList struct {
	minUsage int64
	maxUsage int64

	head *chunk

	nextList *chunkList
	prevList *chunkList
}

func newChunkList(minUsage, maxUsage int64) *chunkList {
	return &chunkList{minUsage: minUsage, maxUsage: maxUsage}
}

// allocate walks the list head to tail, trying each chunk in turn, and
// reports whether any chunk satisfied the request. On success, if the
// chunk's usage crossed maxUsage, it promotes the chunk to nextList
// (recursively, ending at q100).
func (cl *chunkList) allocate(a *Arena, buf api.Buffer, reqCapacity, normCapacity int64) bool {
	if cl.head == nil {
		return false
	}
	for cur := cl.head; cur != nil; cur = cur.next {
		handle := cur.allocate(a, normCapacity)
		if handle == noHandle {
			continue
		}
		a.initBuf(buf, cur, handle, reqCapacity)
		if cur.usage() > cl.maxUsage {
			cl.remove(cur)
			cl.nextList.promote(cur)
		}
		return true
	}
	return false
}

// promote inserts chunk into this list and recursively re-promotes it
// further up the ring if its usage still exceeds maxUsage here; q100 has
// no nextList and simply keeps it.
func (cl *chunkList) promote(c *chunk) {
	if cl == nil {
		return
	}
	cl.add(c)
	if c.usage() > cl.maxUsage && cl.nextList != nil {
		cl.remove(c)
		cl.nextList.promote(c)
	}
}

// free decrements chunk's usage bookkeeping via chunk.free and, if usage
// drops below minUsage, demotes it to prevList (recursively). It returns
// false when the chunk fell below q000's floor with no prevList to
// receive it, signalling the caller to destroy the chunk.
func (cl *chunkList) free(a *Arena, c *chunk, handle int64) bool {
	c.free(a, handle)
	if c.usage() < cl.minUsage {
		cl.remove(c)
		return cl.demote(c)
	}
	return true
}

func (cl *chunkList) demote(c *chunk) bool {
	if cl.prevList == nil {
		return false
	}
	if cl.prevList == cl {
		// qInit's self-loop: chunks never leave qInit on underflow.
		cl.add(c)
		return true
	}
	cl.prevList.add(c)
	if c.usage() < cl.prevList.minUsage {
		cl.prevList.remove(c)
		return cl.prevList.demote(c)
	}
	return true
}

func (cl *chunkList) add(c *chunk) {
	c.list = cl
	c.prev = nil
	c.next = cl.head
	if cl.head != nil {
		cl.head.prev = c
	}
	cl.head = c
}

func (cl *chunkList) remove(c *chunk) {
	if c.prev != nil {
		c.prev.next = c.next
	} else {
		cl.head = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	}
	c.prev, c.next, c.list = nil, nil, nil
}
