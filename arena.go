package multikey

/*
BSD 3-Clause License

Copyright (c) Norbert Pillmayer

Please refer to the License section in doc.go.

*/

// Handle is a stable reference to an item slot in a tree's arena. The backing
// index trees store handles rather than items; two index entries denote the
// same logical item exactly if their handles are equal, which is what the
// cross-index synchronization checks rely on.
//
// Handle 0 is reserved: it resolves to the transient probe item of a lookup
// in flight and never appears inside an index.
type Handle uint32

// probeRef is the reserved handle resolving to the tree's current probe item.
const probeRef Handle = 0

type slot[T any] struct {
	item T
	refs int32
	used bool
}

// arena stores items under stable handles with per-slot reference counts.
// Aggregate operations hold one reference per index; partial operations
// retain and release single references. A slot is recycled through the free
// list once its count drops to zero.
type arena[T any] struct {
	slots []slot[T] // slot 0 shadows the probe handle and stays unused
	free  []Handle
	limit int // max live slots, 0 means unbounded
	live  int
}

func newArena[T any](limit int) *arena[T] {
	return &arena[T]{
		slots: make([]slot[T], 1),
		limit: limit,
	}
}

// alloc stores item in a fresh slot carrying refs references.
func (a *arena[T]) alloc(item T, refs int32) (Handle, error) {
	if a.limit > 0 && a.live >= a.limit {
		return probeRef, ErrNoMemory
	}
	var h Handle
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot[T]{})
		h = Handle(len(a.slots) - 1)
	}
	a.slots[h] = slot[T]{item: item, refs: refs, used: true}
	a.live++
	return h, nil
}

// retain adds n references to the slot of h.
func (a *arena[T]) retain(h Handle, n int32) {
	assert(a.valid(h), "arena: retain of invalid handle")
	a.slots[h].refs += n
}

// release removes n references from the slot of h and recycles the slot once
// no references remain.
func (a *arena[T]) release(h Handle, n int32) {
	assert(a.valid(h), "arena: release of invalid handle")
	s := &a.slots[h]
	s.refs -= n
	assert(s.refs >= 0, "arena: reference count dropped below zero")
	if s.refs == 0 {
		var zero T
		s.item = zero
		s.used = false
		a.free = append(a.free, h)
		a.live--
	}
}

func (a *arena[T]) valid(h Handle) bool {
	return h > probeRef && int(h) < len(a.slots) && a.slots[h].used
}

func (a *arena[T]) item(h Handle) T {
	assert(a.valid(h), "arena: item lookup with invalid handle")
	return a.slots[h].item
}

func (a *arena[T]) refs(h Handle) int32 {
	assert(a.valid(h), "arena: refs lookup with invalid handle")
	return a.slots[h].refs
}
