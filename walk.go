package multikey

// WalkFunc is applied to every item during a whole-tree walk. Setting stop
// ends the walk early after the current item; a non-nil error ends the walk
// immediately and becomes the walk's result.
type WalkFunc[T any] func(item T, treeContext, walkContext any) (stop bool, err error)

// Walk enumerates every item of the tree once, in ascending order of the
// representative index, applying fn to each. The walkContext is handed
// through to fn untouched, next to the tree's client context.
//
// Walk is the O(n) fallback for queries no comparator matches; keyed
// lookups should use Find.
func (t *Tree[T]) Walk(fn WalkFunc[T], walkContext any) error {
	if !t.alive() || fn == nil {
		return ErrInvalidArgument
	}
	var walkErr error
	t.indexes[t.representative()].backing.Ascend(func(h Handle) bool {
		stop, err := fn(t.resolve(h), t.context, walkContext)
		if err != nil {
			walkErr = err
			return false
		}
		return !stop
	})
	return walkErr
}
