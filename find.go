package multikey

// FindMode selects the relation a lookup should satisfy.
type FindMode int

const (
	// FindInvalid is the zero mode and never valid.
	FindInvalid FindMode = iota
	// FindEqual matches an item comparing equal to the lookup key.
	FindEqual
	// FindGreaterThan matches the smallest item ordering strictly after the
	// lookup key.
	FindGreaterThan
	// FindLessThan matches the largest item ordering strictly before the
	// lookup key.
	FindLessThan
	// FindGreaterOrEqual matches the lookup key itself if present, otherwise
	// like FindGreaterThan.
	FindGreaterOrEqual
	// FindLessOrEqual matches the lookup key itself if present, otherwise
	// like FindLessThan.
	FindLessOrEqual

	findModeMax
)

var findModeStrings = [...]string{
	"Invalid",
	"Equal",
	"Greater than",
	"Less than",
	"Greater than or equal",
	"Less than or equal",
}

func (mode FindMode) String() string {
	if mode < 0 || int(mode) >= len(findModeStrings) {
		return "Invalid"
	}
	return findModeStrings[mode]
}

// IsValid reports whether mode is one of the defined find relations.
func (mode FindMode) IsValid() bool {
	return mode > FindInvalid && mode < findModeMax
}

// Find looks up an item under the ordering of index k. The lookup key is an
// item (or a probe value carrying the relevant key fields) compared with the
// index's comparator; for the four relational modes it need not itself be
// present in the tree.
//
// A miss is not an error: Find returns found=false with a nil error for an
// empty tree or when no item satisfies the relation. ErrInvalidArgument is
// reported for a dead tree, an out-of-range index or an invalid mode.
//
// Cost is O(log n) for every mode.
func (t *Tree[T]) Find(mode FindMode, k int, lookup T) (item T, found bool, err error) {
	var none T
	if !t.alive() || k < 0 || k >= t.order() || !mode.IsValid() {
		return none, false, ErrInvalidArgument
	}
	h, ok := t.seek(mode, k, lookup)
	if !ok {
		return none, false, nil
	}
	return t.resolve(h), true, nil
}

// seek positions on the item of index k satisfying mode relative to lookup.
// The probe slot is staged for the duration so that the backing tree can
// compare the transient lookup key against stored handles.
//
// The relational modes ride on the backing tree's ordered traversal starting
// at the lookup key: the first visited item already is the tightest bound,
// except that the strict modes skip over an exact match. Visits after the
// first qualifying item are cut off, keeping the whole seek at tree-descent
// cost.
func (t *Tree[T]) seek(mode FindMode, k int, lookup T) (h Handle, ok bool) {
	t.stage(lookup)
	defer t.unstage()
	backing := t.indexes[k].backing
	cmp := t.indexes[k].cmp
	switch mode {
	case FindEqual:
		h, ok = backing.Get(probeRef)
	case FindGreaterOrEqual:
		backing.AscendGreaterOrEqual(probeRef, func(c Handle) bool {
			h, ok = c, true
			return false
		})
	case FindGreaterThan:
		backing.AscendGreaterOrEqual(probeRef, func(c Handle) bool {
			if cmp(t.resolve(c), lookup, t.context) == 0 {
				return true // skip the exact match, at most one exists
			}
			h, ok = c, true
			return false
		})
	case FindLessOrEqual:
		backing.DescendLessOrEqual(probeRef, func(c Handle) bool {
			h, ok = c, true
			return false
		})
	case FindLessThan:
		backing.DescendLessOrEqual(probeRef, func(c Handle) bool {
			if cmp(t.resolve(c), lookup, t.context) == 0 {
				return true
			}
			h, ok = c, true
			return false
		})
	}
	return h, ok
}
