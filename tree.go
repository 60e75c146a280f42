package multikey

/*
BSD 3-Clause License

Copyright (c) Norbert Pillmayer

Please refer to the License section in doc.go.

*/

import (
	"fmt"

	"github.com/google/btree"
)

// CompareFunc compares two items under one ordering of a tree. It returns a
// negative number if a orders before b, zero if both denote the same logical
// item, and a positive number if a orders after b. The context argument is
// the opaque client context the tree was created with.
//
// Comparators must be pure and must agree on equality: if two items compare
// equal under one comparator of a tree, they must compare equal under all of
// them. A comparator violating this is the most likely source of
// ErrOutOfSync.
type CompareFunc[T any] func(a, b T, context any) int

// ItemFunc is applied to items during tree deletion and during rollback of a
// failed copy. It is invoked exactly once per logical item, not once per
// index.
type ItemFunc[T any] func(item T, context any) error

// TeardownFunc is applied exactly once to the client context when a tree is
// deleted, even if the context is nil.
type TeardownFunc func(context any) error

// CopyFunc transforms an item while a tree is copied. It is invoked exactly
// once per logical item; its return value is what the new tree will
// reference.
type CopyFunc[T any] func(item T, context any) T

// DefaultDegree is the branching factor for backing B-trees when the
// allocator does not name one.
const DefaultDegree = 16

// Allocator is the storage plug-in point of a tree. All backing index trees
// are created through it, and the item arena respects its capacity bound.
// A nil *Allocator selects all defaults.
type Allocator struct {
	// Degree is the branching factor handed to the backing B-trees.
	// Values below 2 select DefaultDegree.
	Degree int
	// FreeList recycles backing tree nodes. All indexes of a tree share one
	// list; trees sharing an Allocator value share it too. Nil selects a
	// fresh per-tree list.
	FreeList *btree.FreeListG[Handle]
	// MaxItems bounds the number of live items. Add reports ErrNoMemory when
	// the bound is reached. Zero means unbounded.
	MaxItems int
}

func (alloc *Allocator) normalized() Allocator {
	var a Allocator
	if alloc != nil {
		a = *alloc
	}
	if a.Degree < 2 {
		a.Degree = DefaultDegree
	}
	if a.FreeList == nil {
		a.FreeList = btree.NewFreeListG[Handle](btree.DefaultFreeListSize)
	}
	return a
}

// index is one ordering of the item set: a backing B-tree over handles plus
// the comparator inducing its order.
type index[T any] struct {
	backing *btree.BTreeG[Handle]
	cmp     CompareFunc[T]
}

// Tree keys one collection of items by multiple orderings simultaneously.
//
// A tree is created with M comparison functions and maintains M synchronized
// indexes over the same items. Aggregate operations (Add, Remove, Delete,
// Copy) act on all indexes at once; partial operations (AddToIndex,
// RemoveFromIndex) act on a single named index for re-keying.
//
// The zero value is not usable; create trees with New.
type Tree[T any] struct {
	context any
	alloc   Allocator
	indexes []index[T]
	arena   *arena[T]
	probe   T // item under comparison during a lookup, shadowed by handle 0
	count   int
}

// New creates a multi-key tree from one comparison function per index. Index
// ordinals follow the position in cmps and are fixed for the tree's life.
// The context is handed through opaquely to comparators and callbacks.
// A nil alloc selects default storage behavior.
//
// New fails with ErrInvalidArgument if cmps is empty or contains a nil
// entry.
func New[T any](cmps []CompareFunc[T], context any, alloc *Allocator) (*Tree[T], error) {
	if len(cmps) == 0 {
		return nil, ErrInvalidArgument
	}
	for _, cmp := range cmps {
		if cmp == nil {
			return nil, ErrInvalidArgument
		}
	}
	t := &Tree[T]{
		context: context,
		alloc:   alloc.normalized(),
	}
	t.arena = newArena[T](t.alloc.MaxItems)
	t.indexes = make([]index[T], len(cmps))
	for k, cmp := range cmps {
		t.indexes[k] = index[T]{
			backing: btree.NewWithFreeListG(t.alloc.Degree, t.less(k), t.alloc.FreeList),
			cmp:     cmp,
		}
	}
	return t, nil
}

// less adapts the comparator of index k to the backing tree's strict order
// over handles. Handles resolve through the arena, except for the reserved
// probe handle which resolves to the lookup item currently staged.
func (t *Tree[T]) less(k int) btree.LessFunc[Handle] {
	return func(a, b Handle) bool {
		return t.indexes[k].cmp(t.resolve(a), t.resolve(b), t.context) < 0
	}
}

func (t *Tree[T]) resolve(h Handle) T {
	if h == probeRef {
		return t.probe
	}
	return t.arena.item(h)
}

// stage puts item into the probe slot so that backing tree operations on
// probeRef compare against it. The caller must unstage afterwards.
func (t *Tree[T]) stage(item T) {
	t.probe = item
}

func (t *Tree[T]) unstage() {
	var zero T
	t.probe = zero
}

// alive reports whether the tree exists and has not been deleted.
func (t *Tree[T]) alive() bool {
	return t != nil && t.indexes != nil
}

// order returns the number of indexes of the tree.
func (t *Tree[T]) order() int {
	return len(t.indexes)
}

// representative returns the ordinal of the first index with a usable
// backing tree. At least one must exist for a live tree.
func (t *Tree[T]) representative() int {
	for k := range t.indexes {
		if t.indexes[k].backing != nil {
			return k
		}
	}
	assert(false, "tree has no backing index")
	return 0
}

// Context returns the opaque client context the tree was created with.
func (t *Tree[T]) Context() any {
	if t == nil {
		return nil
	}
	return t.context
}

// Count returns the number of items in the tree in O(1). Count reflects
// aggregate operations only; partial single-index operations do not change
// it. A nil or deleted tree counts as empty rather than erroring, since
// Count is used liberally in client assertions.
func (t *Tree[T]) Count() int {
	if !t.alive() {
		return 0
	}
	return t.count
}

// Add inserts an item into every index of the tree.
//
// If an index already holds an item comparing equal, that pre-existing item
// is returned with found=true and the tree is left unchanged; all indexes
// must agree on this outcome. Disagreement means a comparator violates
// identity agreement: Add backs out without mutating any index and reports
// ErrOutOfSync. On a fresh insert the item count grows by one, regardless of
// how many indexes the tree has.
func (t *Tree[T]) Add(item T) (existing T, found bool, err error) {
	var none T
	if !t.alive() {
		return none, false, ErrInvalidArgument
	}
	// First pass: every index tells whether it already holds an equal item.
	// Disagreement aborts before any index was touched, so there is nothing
	// to roll back.
	t.stage(item)
	var first Handle
	var firstFound bool
	for k := range t.indexes {
		prev, ok := t.indexes[k].backing.Get(probeRef)
		if k == 0 {
			first, firstFound = prev, ok
		} else if ok != firstFound || prev != first {
			t.unstage()
			tracer().Errorf("multikey: index %d disagrees on presence during add", k)
			return none, false, ErrOutOfSync
		}
	}
	t.unstage()
	if firstFound {
		return t.resolve(first), true, nil
	}
	// Second pass: the item is new to every index, enter it everywhere.
	h, aerr := t.arena.alloc(item, int32(t.order()))
	if aerr != nil {
		return none, false, aerr
	}
	for k := range t.indexes {
		t.indexes[k].backing.ReplaceOrInsert(h)
	}
	t.count++
	return none, false, nil
}

// Remove deletes an item from every index of the tree. The lookup item needs
// to compare equal to the stored item; the removed stored item is returned.
// An absent item yields found=false without error. As with Add, all indexes
// must agree on the outcome, or Remove re-inserts what it already deleted
// and reports ErrOutOfSync. The item count shrinks by one on success.
func (t *Tree[T]) Remove(item T) (removed T, found bool, err error) {
	var none T
	if !t.alive() {
		return none, false, ErrInvalidArgument
	}
	t.stage(item)
	defer t.unstage()
	var first Handle
	var firstFound bool
	for k := range t.indexes {
		prev, ok := t.indexes[k].backing.Delete(probeRef)
		if k == 0 {
			first, firstFound = prev, ok
		} else if ok != firstFound || prev != first {
			tracer().Errorf("multikey: index %d disagrees on presence during remove", k)
			if ok {
				t.indexes[k].backing.ReplaceOrInsert(prev)
			}
			if firstFound {
				for j := 0; j < k; j++ {
					t.indexes[j].backing.ReplaceOrInsert(first)
				}
			}
			return none, false, ErrOutOfSync
		}
	}
	if !firstFound {
		return none, false, nil
	}
	removed = t.resolve(first)
	t.arena.release(first, int32(t.order()))
	t.count--
	return removed, true, nil
}

// SyncFault is the panic value raised for unrecoverable cross-index
// corruption detected while a tree is torn down. Unlike ErrOutOfSync, which
// an aggregate mutation can roll back from, a fault during deletion means
// the invariant was already silently broken earlier and continuing would
// free items still referenced by a live index.
type SyncFault struct {
	Op     string // the operation that tripped the fault
	Index  int    // the index ordinal involved, -1 if not index-specific
	Reason string
}

func (f SyncFault) Error() string {
	if f.Index >= 0 {
		return fmt.Sprintf("multikey: fatal %s fault at index %d: %s", f.Op, f.Index, f.Reason)
	}
	return fmt.Sprintf("multikey: fatal %s fault: %s", f.Op, f.Reason)
}

// Delete empties the tree and renders it dead: every subsequent operation
// fails with ErrInvalidArgument, except Count which reports zero.
//
// Items are drained in ascending order of the representative index. For each
// item, removal from every other index is asserted to succeed; disagreement
// panics with a SyncFault, as does a drain that fails to shrink the tree.
// The finalizer itemFn, if any, runs exactly once per logical item; a
// non-nil finalizer error does not stop the drain, the first one observed
// becomes Delete's return value. After the last item, teardown (if any) runs
// exactly once on the client context, even a nil one.
//
// Deleting an empty tree is valid and only performs the teardown.
func (t *Tree[T]) Delete(itemFn ItemFunc[T], teardown TeardownFunc) error {
	if !t.alive() {
		return ErrInvalidArgument
	}
	rep := t.representative()
	guard := t.indexes[rep].backing.Len()
	drained := 0
	var firstErr error
	for {
		h, ok := t.indexes[rep].backing.DeleteMin()
		if !ok {
			break
		}
		drained++
		if drained > guard {
			panic(SyncFault{Op: "delete", Index: -1, Reason: "drain does not shrink the tree"})
		}
		for k := range t.indexes {
			if k == rep {
				continue
			}
			if _, ok := t.indexes[k].backing.Delete(h); !ok {
				panic(SyncFault{Op: "delete", Index: k, Reason: "item missing from index"})
			}
		}
		item := t.resolve(h)
		t.arena.release(h, t.arena.refs(h))
		t.count--
		if itemFn != nil {
			if err := itemFn(item, t.context); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	tracer().Debugf("multikey: deleted tree, %d item(s) finalized", drained)
	if teardown != nil {
		if err := teardown(t.context); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.dispose()
	return firstErr
}

// dispose returns backing nodes to the allocator's free list and marks the
// tree dead.
func (t *Tree[T]) dispose() {
	for k := range t.indexes {
		t.indexes[k].backing.Clear(true)
	}
	t.indexes = nil
	t.arena = nil
	t.context = nil
	t.count = 0
}
