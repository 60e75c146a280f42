package multikey

// Builder incrementally stages items and finalizes them into a multi-key
// tree.
//
// Builder collects items and materializes the tree only when Tree() is
// called, keeping all insertion logic in Add. Duplicate items behave as they
// do for Add: the first staged item wins, later equal items are dropped.
//
// Builders are created with NewBuilder; the zero value is not usable since a
// builder needs the comparator set up front.
type Builder[T any] struct {
	cmps    []CompareFunc[T]
	context any
	alloc   *Allocator
	staged  []T

	done bool
	tree *Tree[T]
	err  error
}

// NewBuilder creates a new and empty tree builder. The arguments are those
// of New and are validated here, so that staging cannot fail later.
func NewBuilder[T any](cmps []CompareFunc[T], context any, alloc *Allocator) (*Builder[T], error) {
	if len(cmps) == 0 {
		return nil, ErrInvalidArgument
	}
	for _, cmp := range cmps {
		if cmp == nil {
			return nil, ErrInvalidArgument
		}
	}
	return &Builder[T]{
		cmps:    cmps,
		context: context,
		alloc:   alloc,
	}, nil
}

// Append stages an item for the tree being built.
//
// It is illegal to continue adding items after Tree has been called.
func (b *Builder[T]) Append(item T) error {
	if b == nil || b.cmps == nil {
		return ErrInvalidArgument
	}
	if b.done {
		return ErrBuilderCompleted
	}
	b.staged = append(b.staged, item)
	return nil
}

// Tree returns the tree built from all staged items.
//
// It is illegal to continue adding items after Tree has been called, but
// Tree may be called multiple times. A failure while building (for example
// an allocator capacity bound, or comparators disagreeing on identity)
// unwinds the partial tree and is reported on every call.
func (b *Builder[T]) Tree() (*Tree[T], error) {
	if b == nil || b.cmps == nil {
		return nil, ErrInvalidArgument
	}
	if !b.done {
		b.tree, b.err = b.buildTree()
		b.done = true
	}
	return b.tree, b.err
}

// Reset drops the staged build and prepares the builder for a fresh build.
// A tree already handed out through Tree stays alive and untouched.
func (b *Builder[T]) Reset() {
	if b == nil {
		return
	}
	b.staged = nil
	b.done = false
	b.tree = nil
	b.err = nil
}

func (b *Builder[T]) buildTree() (*Tree[T], error) {
	tree, err := New(b.cmps, b.context, b.alloc)
	if err != nil {
		return nil, err
	}
	for _, item := range b.staged {
		if _, _, err := tree.Add(item); err != nil {
			tree.unwind(nil, nil)
			return nil, err
		}
	}
	tracer().Debugf("multikey: builder materialized tree with %d item(s)", tree.Count())
	return tree, nil
}
