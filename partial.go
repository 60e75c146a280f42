package multikey

// The partial operations below touch exactly one named index, bypassing the
// others. They exist for selective re-keying: when a mutation changes a key
// field that only some indexes order by, the client removes the item from
// the affected indexes, mutates it, and re-adds it to the same indexes,
// leaving the unaffected indexes alone.
//
// Between those steps the tree is deliberately out of steady state. The
// client alone is responsible for restoring full cross-index presence before
// calling any aggregate operation or lookup again; the library does not
// track partial states proactively. Since the tree references the item the
// client mutates, re-keying requires items with reference semantics
// (typically pointers).

// AddToIndex inserts an item into the single index k. If that index already
// holds an item comparing equal, the pre-existing item is returned with
// found=true and nothing is inserted. The aggregate item count is not
// touched.
func (t *Tree[T]) AddToIndex(k int, item T) (existing T, found bool, err error) {
	var none T
	if !t.alive() || k < 0 || k >= t.order() {
		return none, false, ErrInvalidArgument
	}
	t.stage(item)
	if prev, ok := t.indexes[k].backing.Get(probeRef); ok {
		t.unstage()
		return t.resolve(prev), true, nil
	}
	// Locate the item's slot through the other indexes. Identity agreement
	// makes an exact match under any ordering authoritative for the handle.
	h := probeRef
	for j := range t.indexes {
		if j == k {
			continue
		}
		if c, ok := t.indexes[j].backing.Get(probeRef); ok {
			h = c
			break
		}
	}
	t.unstage()
	if h == probeRef {
		var aerr error
		if h, aerr = t.arena.alloc(item, 1); aerr != nil {
			return none, false, aerr
		}
	} else {
		t.arena.retain(h, 1)
	}
	t.indexes[k].backing.ReplaceOrInsert(h)
	return none, false, nil
}

// RemoveFromIndex deletes an item from the single index k. The removed
// stored item is returned; an absent item yields found=false without error.
// The aggregate item count is not touched. Entries the item keeps in other
// indexes stay intact.
func (t *Tree[T]) RemoveFromIndex(k int, item T) (removed T, found bool, err error) {
	var none T
	if !t.alive() || k < 0 || k >= t.order() {
		return none, false, ErrInvalidArgument
	}
	t.stage(item)
	h, ok := t.indexes[k].backing.Delete(probeRef)
	t.unstage()
	if !ok {
		return none, false, nil
	}
	removed = t.resolve(h)
	t.arena.release(h, 1)
	return removed, true, nil
}
