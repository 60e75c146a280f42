package multikey

// CopyOptions controls tree duplication. The zero value is valid: a shallow
// copy sharing the source's items, context and allocator behavior.
type CopyOptions[T any] struct {
	// Transform is applied exactly once per logical item; its result is what
	// the new tree references. Nil means the new tree references the source's
	// items.
	Transform CopyFunc[T]
	// Finalizer is applied to already-copied items if the copy has to be
	// rolled back.
	Finalizer ItemFunc[T]
	// UseSourceContext lets the new tree share the source's client context.
	// Otherwise the new tree receives NewContext.
	UseSourceContext bool
	// NewContext is the client context of the new tree when the source's is
	// not shared.
	NewContext any
	// Teardown runs on the fresh context if the copy is rolled back. It is
	// not invoked when the source context is shared, since the source still
	// owns it.
	Teardown TeardownFunc
	// Allocator for the new tree. Nil shares the source allocator's settings
	// (including its node free list).
	Allocator *Allocator
}

// Copy produces a new tree holding the same items under the same comparator
// set. Items are taken from the source in ascending order of index 0,
// transformed if requested, and entered into every index of the new tree.
//
// Copy either succeeds completely or not at all: a failure while building
// tears the partial tree down again, applying opts.Finalizer to whatever had
// been copied and opts.Teardown to a fresh context, so no inconsistent tree
// is left behind.
func (t *Tree[T]) Copy(opts CopyOptions[T]) (*Tree[T], error) {
	if !t.alive() {
		return nil, ErrInvalidArgument
	}
	context := opts.NewContext
	if opts.UseSourceContext {
		context = t.context
	}
	alloc := opts.Allocator
	if alloc == nil {
		shared := t.alloc
		alloc = &shared
	}
	cmps := make([]CompareFunc[T], t.order())
	for k := range t.indexes {
		cmps[k] = t.indexes[k].cmp
	}
	clone, err := New(cmps, context, alloc)
	if err != nil {
		return nil, err
	}
	order := int32(t.order())
	var copyErr error
	t.indexes[t.representative()].backing.Ascend(func(h Handle) bool {
		item := t.resolve(h)
		if opts.Transform != nil {
			item = opts.Transform(item, context)
		}
		nh, aerr := clone.arena.alloc(item, order)
		if aerr != nil {
			copyErr = aerr
			return false
		}
		for k := 0; k < clone.order(); k++ {
			if _, ok := clone.indexes[k].backing.Get(nh); ok {
				tracer().Errorf("multikey: copy: index %d already holds an equal item", k)
				copyErr = ErrOutOfSync
				return false
			}
			clone.indexes[k].backing.ReplaceOrInsert(nh)
		}
		clone.count++
		return true
	})
	if copyErr != nil {
		teardown := opts.Teardown
		if opts.UseSourceContext {
			teardown = nil
		}
		clone.unwind(opts.Finalizer, teardown)
		return nil, copyErr
	}
	tracer().Debugf("multikey: copied tree with %d item(s)", clone.count)
	return clone, nil
}

// unwind tears a partially built tree down again. Unlike Delete it tolerates
// items missing from some indexes, which is exactly the state a failed copy
// leaves behind. Finalizer and teardown errors cannot displace the failure
// that caused the rollback, so they are only traced.
func (t *Tree[T]) unwind(itemFn ItemFunc[T], teardown TeardownFunc) {
	rep := t.representative()
	for {
		h, ok := t.indexes[rep].backing.DeleteMin()
		if !ok {
			break
		}
		for k := range t.indexes {
			if k != rep {
				t.indexes[k].backing.Delete(h)
			}
		}
		item := t.resolve(h)
		t.arena.release(h, t.arena.refs(h))
		if itemFn != nil {
			if err := itemFn(item, t.context); err != nil {
				tracer().Errorf("multikey: rollback finalizer: %s", err.Error())
			}
		}
	}
	if teardown != nil {
		if err := teardown(t.context); err != nil {
			tracer().Errorf("multikey: rollback teardown: %s", err.Error())
		}
	}
	t.dispose()
}
