package multikey

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ItemLabel produces a short display string for an item in diagnostic
// output.
type ItemLabel[T any] func(item T) string

// Tree2Dot outputs the ordering of one index of a tree in Graphviz DOT
// format (for debugging purposes). Items appear as nodes labeled with their
// arena handle and the client-provided label, chained in index order.
//
// Dumping the same tree for two different indexes shows the same handles in
// two different chains, which makes drifted indexes visible at a glance.
func Tree2Dot[T any](t *Tree[T], k int, label ItemLabel[T], w io.Writer) error {
	if !t.alive() || k < 0 || k >= t.order() || label == nil {
		return ErrInvalidArgument
	}
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\trankdir=LR;\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12,shape=box];\n")
	prev := probeRef
	t.indexes[k].backing.Ascend(func(h Handle) bool {
		lbl := fmt.Sprintf("#%d\\n%s", h, label(t.resolve(h)))
		fmt.Fprintf(w, "\"%d\" [label=\"%s\"];\n", h, lbl)
		if prev != probeRef {
			fmt.Fprintf(w, "\"%d\" -> \"%d\";\n", prev, h)
		}
		prev = h
		return true
	})
	io.WriteString(w, "}\n")
	return nil
}

// DumpIndex writes a human-readable listing of one index of a tree to w: a
// header line, then one line per item in index order carrying the item's
// arena handle, its reference count and the client-provided label (for
// debugging purposes).
func DumpIndex[T any](t *Tree[T], k int, label ItemLabel[T], w io.Writer) error {
	if !t.alive() || k < 0 || k >= t.order() || label == nil {
		return ErrInvalidArgument
	}
	header := color.New(color.FgCyan, color.Bold)
	handles := color.New(color.FgYellow)
	header.Fprintf(w, "index %d of %d, %d item(s) in tree\n", k, t.order(),
		t.Count())
	pos := 0
	t.indexes[k].backing.Ascend(func(h Handle) bool {
		handles.Fprintf(w, "%4d: #%d/%d ", pos, h, t.arena.refs(h))
		fmt.Fprintf(w, "%s\n", label(t.resolve(h)))
		pos++
		return true
	})
	return nil
}
