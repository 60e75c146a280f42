package multikey

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// byName orders records by name, with the unique ID as tie-break so that
// equality still coincides with identity.
func byName(a, b *record, context any) int {
	checkContext(context)
	if c := strings.Compare(a.name, b.name); c != 0 {
		return c
	}
	return ascByID(a, b, context)
}

const (
	keyID   = 0
	keyName = 1
)

func newNamedTree(t *testing.T) *Tree[*record] {
	tree, err := New([]CompareFunc[*record]{ascByID, byName}, testMagic, nil)
	if err != nil {
		t.Fatalf("cannot create test tree: %v", err)
	}
	return tree
}

// TestRekeyRoundTrip walks the full partial-operation protocol: remove from
// the affected index, mutate the key field, re-add to the same index. The
// unaffected index keeps finding the item throughout; the count never moves.
func TestRekeyRoundTrip(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := newNamedTree(t)
	smith := &record{id: 7, name: "Smith"}
	jones := &record{id: 3, name: "Jones"}
	for _, rec := range []*record{smith, jones} {
		if _, _, err := tree.Add(rec); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	removed, found, err := tree.RemoveFromIndex(keyName, smith)
	if err != nil || !found || removed != smith {
		t.Fatalf("partial remove failed: %v", err)
	}
	if tree.Count() != 2 {
		t.Errorf("expected partial remove to leave count at 2, got %d", tree.Count())
	}
	// The ID index still finds the item, the name index no longer does.
	if _, found, _ := tree.Find(FindEqual, keyID, &record{id: 7}); !found {
		t.Errorf("expected the ID index to keep the item")
	}
	if _, found, _ := tree.Find(FindEqual, keyName, &record{id: 7, name: "Smith"}); found {
		t.Errorf("expected the name index to have dropped the item")
	}

	smith.name = "Miller"
	if _, found, err := tree.AddToIndex(keyName, smith); err != nil || found {
		t.Fatalf("partial re-add failed: %v", err)
	}
	if tree.Count() != 2 {
		t.Errorf("expected partial re-add to leave count at 2, got %d", tree.Count())
	}
	item, found, _ := tree.Find(FindEqual, keyName, &record{id: 7, name: "Miller"})
	if !found || item != smith {
		t.Errorf("expected the item under its new name")
	}
	if _, found, _ := tree.Find(FindEqual, keyName, &record{id: 7, name: "Smith"}); found {
		t.Errorf("expected the old name to be gone")
	}
	// Aggregate operations work again after the symmetry was restored.
	if _, found, err := tree.Remove(smith); err != nil || !found {
		t.Errorf("expected aggregate remove to succeed after re-keying: %v", err)
	}
	if tree.Count() != 1 {
		t.Errorf("expected count 1, got %d", tree.Count())
	}
}

func TestPartialAddDuplicate(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := newNamedTree(t)
	smith := &record{id: 7, name: "Smith"}
	if _, _, err := tree.Add(smith); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	existing, found, err := tree.AddToIndex(keyName, &record{id: 7, name: "Smith"})
	if err != nil {
		t.Fatalf("partial add failed: %v", err)
	}
	if !found || existing != smith {
		t.Errorf("expected the stored item back for a duplicate partial add")
	}
}

// TestPartialAddFreshItem adds an item the tree has never seen to a single
// index. It lives in that index only, invisible to the others.
func TestPartialAddFreshItem(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := newNamedTree(t)
	loner := &record{id: 42, name: "Solo"}
	if _, found, err := tree.AddToIndex(keyName, loner); err != nil || found {
		t.Fatalf("partial add of fresh item failed: %v", err)
	}
	if tree.Count() != 0 {
		t.Errorf("expected partial add to leave count at 0, got %d", tree.Count())
	}
	if _, found, _ := tree.Find(FindEqual, keyName, loner); !found {
		t.Errorf("expected the fresh item in its index")
	}
	if _, found, _ := tree.Find(FindEqual, keyID, loner); found {
		t.Errorf("expected the fresh item to stay invisible to the ID index")
	}
	// Removing it from its only index drops the item entirely.
	if _, found, err := tree.RemoveFromIndex(keyName, loner); err != nil || !found {
		t.Fatalf("partial remove failed: %v", err)
	}
	if _, found, _ := tree.Find(FindEqual, keyName, loner); found {
		t.Errorf("expected the item gone after its last reference")
	}
}

func TestPartialErrors(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := newNamedTree(t)
	rec := &record{id: 1}
	if _, _, err := tree.AddToIndex(2, rec); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for out-of-range index, got %v", err)
	}
	if _, _, err := tree.RemoveFromIndex(-1, rec); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative index, got %v", err)
	}
	var dead *Tree[*record]
	if _, _, err := dead.AddToIndex(0, rec); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil tree, got %v", err)
	}
}
