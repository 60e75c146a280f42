package multikey

// Iterator is a cursor over one index of a tree, enumerating the item set in
// that index's order. Iterators over two different indexes of the same tree
// yield the same items in two different orders.
//
// The cursor holds the item it is positioned on, not a node reference:
// stepping re-seeks from that item, so mutations between steps do not upset
// the iterator. Stepping past either end leaves the cursor unpositioned;
// from there Next starts over at the first item and Prev at the last, which
// also is the behavior of a freshly created iterator.
//
// An iterator must not outlive its tree's deletion; operations on an
// iterator whose tree is dead fail with ErrInvalidArgument.
type Iterator[T any] struct {
	tree       *Tree[T]
	k          int
	cur        T
	positioned bool
}

// NewIterator creates an iterator bound to index k of the tree. The cursor
// starts out unpositioned.
func (t *Tree[T]) NewIterator(k int) (*Iterator[T], error) {
	if !t.alive() || k < 0 || k >= t.order() {
		return nil, ErrInvalidArgument
	}
	return &Iterator[T]{tree: t, k: k}, nil
}

func (it *Iterator[T]) usable() bool {
	return it != nil && it.tree.alive() && it.k < it.tree.order()
}

func (it *Iterator[T]) position(item T) (T, bool, error) {
	it.cur = item
	it.positioned = true
	return item, true, nil
}

func (it *Iterator[T]) unposition() (T, bool, error) {
	var none T
	it.cur = none
	it.positioned = false
	return none, false, nil
}

// First positions the cursor on the smallest item of the bound index.
func (it *Iterator[T]) First() (item T, ok bool, err error) {
	var none T
	if !it.usable() {
		return none, false, ErrInvalidArgument
	}
	h, ok := it.tree.indexes[it.k].backing.Min()
	if !ok {
		return it.unposition()
	}
	return it.position(it.tree.resolve(h))
}

// Last positions the cursor on the largest item of the bound index.
func (it *Iterator[T]) Last() (item T, ok bool, err error) {
	var none T
	if !it.usable() {
		return none, false, ErrInvalidArgument
	}
	h, ok := it.tree.indexes[it.k].backing.Max()
	if !ok {
		return it.unposition()
	}
	return it.position(it.tree.resolve(h))
}

// Find positions the cursor on the item comparing equal to lookup under the
// bound index. A miss leaves the cursor unpositioned.
func (it *Iterator[T]) Find(lookup T) (item T, ok bool, err error) {
	var none T
	if !it.usable() {
		return none, false, ErrInvalidArgument
	}
	h, ok := it.tree.seek(FindEqual, it.k, lookup)
	if !ok {
		return it.unposition()
	}
	return it.position(it.tree.resolve(h))
}

// Next moves the cursor to the item after the current one. Past the largest
// item the cursor becomes unpositioned; on an unpositioned cursor Next
// behaves like First.
func (it *Iterator[T]) Next() (item T, ok bool, err error) {
	var none T
	if !it.usable() {
		return none, false, ErrInvalidArgument
	}
	if !it.positioned {
		return it.First()
	}
	h, ok := it.tree.seek(FindGreaterThan, it.k, it.cur)
	if !ok {
		return it.unposition()
	}
	return it.position(it.tree.resolve(h))
}

// Prev moves the cursor to the item before the current one. Past the
// smallest item the cursor becomes unpositioned; on an unpositioned cursor
// Prev behaves like Last.
func (it *Iterator[T]) Prev() (item T, ok bool, err error) {
	var none T
	if !it.usable() {
		return none, false, ErrInvalidArgument
	}
	if !it.positioned {
		return it.Last()
	}
	h, ok := it.tree.seek(FindLessThan, it.k, it.cur)
	if !ok {
		return it.unposition()
	}
	return it.position(it.tree.resolve(h))
}

// Current re-reads the item the cursor is positioned on without moving.
func (it *Iterator[T]) Current() (item T, ok bool, err error) {
	var none T
	if !it.usable() {
		return none, false, ErrInvalidArgument
	}
	if !it.positioned {
		return none, false, nil
	}
	return it.cur, true, nil
}
