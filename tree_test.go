package scapegoat

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newIntTree(t *testing.T, alpha float64) *Tree[int, string] {
	t.Helper()
	tree, err := New[int, string](alpha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func sevenEntries() []Entry[int, string] {
	return []Entry[int, string]{
		{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}, {6, "f"}, {7, "g"},
	}
}

func TestNewRejectsInvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{0, 0.5, 1, 1.5, -0.75} {
		_, err := New[int, string](alpha)
		if !errors.Is(err, ErrInvalidAlpha) {
			t.Errorf("alpha=%g: expected ErrInvalidAlpha, got %v", alpha, err)
		}
	}
	if _, err := NewFunc[int, string](0.75, nil); !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected ErrIllegalArguments for nil compare, got %v", err)
	}
	if _, err := New[int, string](0.75, WithFreeListSize(-1)); !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected ErrIllegalArguments for negative free list size, got %v", err)
	}
}

func TestEmptyTree(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := newIntTree(t, DefaultAlpha)
	if !tree.IsEmpty() || tree.Len() != 0 || tree.Height() != 0 {
		t.Fatalf("unexpected state of empty tree: len=%d height=%d", tree.Len(), tree.Height())
	}
	if err := tree.Search(1); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("expected search on empty tree to fail with ErrEmptyTree, got %v", err)
	}
	if err := tree.Remove(1); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("expected remove on empty tree to fail with ErrEmptyTree, got %v", err)
	}
	if _, err := tree.Get(1); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("expected get on empty tree to fail with ErrEmptyTree, got %v", err)
	}
	if len(tree.Entries()) != 0 {
		t.Errorf("expected no entries for empty tree")
	}
	if err := tree.Check(); err != nil {
		t.Errorf("expected empty tree to be valid, got %v", err)
	}
	// the tree has to be usable after failed operations
	if !tree.Insert(1, "a") {
		t.Fatalf("insert into empty tree failed")
	}
	if tree.IsEmpty() || tree.Len() != 1 || tree.Height() != 1 {
		t.Errorf("expected single root node, have len=%d height=%d", tree.Len(), tree.Height())
	}
}

func TestInsertIncreasingKeys(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := newIntTree(t, 0.75)
	for k := 1; k <= 7; k++ {
		tree.Insert(k, string(rune('a'+k-1)))
		if err := tree.Check(); err != nil {
			t.Fatalf("after insert of %d: %v", k, err)
		}
		if tree.Len() != k {
			t.Errorf("after insert of %d: expected size %d, have %d", k, k, tree.Len())
		}
	}
	// only the 5th insert violates the weight invariant at the root
	if s := tree.Stats(); s.Rebuilds != 1 || s.RebuiltEntries != 5 {
		t.Errorf("expected exactly one rebuild of 5 entries, have %s", s)
	}
	if tree.root.key != 3 {
		t.Errorf("expected root to be 3, is %d", tree.root.key)
	}
	if tree.Height() != 5 {
		t.Errorf("expected height 5, is %d", tree.Height())
	}
}

func TestBulkBuildRoundTrip(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := newIntTree(t, 0.75)
	in := sevenEntries()
	tree.BulkBuild(in)
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	out := tree.Entries()
	if len(out) != len(in) {
		t.Fatalf("expected %d entries, have %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: expected %v, have %v", i, in[i], out[i])
		}
	}
	if tree.root.key != 4 || tree.root.left.key != 2 || tree.root.right.key != 6 {
		t.Errorf("tree is not split at medians")
	}
	if tree.Height() != 3 {
		t.Errorf("expected perfectly balanced tree of height 3, is %d", tree.Height())
	}
}

func TestBulkBuildUnsortedWithDuplicates(t *testing.T) {
	tree := newIntTree(t, 0.75)
	in := []Entry[int, string]{{5, "e"}, {1, "a"}, {3, "x"}, {2, "b"}, {3, "c"}, {4, "d"}}
	tree.Insert(99, "gone")
	tree.BulkBuild(in)
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	if in[0].Key != 5 {
		t.Errorf("BulkBuild modified its input")
	}
	got := tree.Entries()
	want := []Entry[int, string]{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, have %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %v, have %v", i, want[i], got[i])
		}
	}
	if tree.Contains(99) {
		t.Errorf("expected previous contents to be replaced")
	}
	tree.BulkBuild(nil)
	if !tree.IsEmpty() {
		t.Errorf("expected bulk build from empty sequence to clear the tree")
	}
}

func TestRemoveTwice(t *testing.T) {
	tree := newIntTree(t, 0.75)
	tree.BulkBuild(sevenEntries())
	if !tree.Delete(3) {
		t.Errorf("expected first remove of 3 to succeed")
	}
	if tree.Delete(3) {
		t.Errorf("expected second remove of 3 to fail")
	}
	if err := tree.Remove(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	for range 2 {
		if err := tree.Remove(42); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for absent key, got %v", err)
		}
	}
	if tree.Len() != 6 {
		t.Errorf("expected size 6, have %d", tree.Len())
	}
}

func TestInsertThenSearch(t *testing.T) {
	tree := newIntTree(t, 0.6)
	tree.Insert(10, "x")
	if err := tree.Search(10); err != nil {
		t.Errorf("expected 10 to be found, got %v", err)
	}
	if err := tree.Search(11); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected 11 not to be found, got %v", err)
	}
	if err := tree.Remove(10); err != nil {
		t.Fatal(err)
	}
	if err := tree.Search(10); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected removed key not to be found, got %v", err)
	}
	if v, err := tree.Get(10); err == nil || v != "" {
		t.Errorf("expected no value for removed key, have %q", v)
	}
}

func TestRemoveWithDeferredRebuild(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := newIntTree(t, 0.75)
	tree.BulkBuild(sevenEntries())
	for _, k := range []int{2, 4, 6} {
		if err := tree.Remove(k); err != nil {
			t.Fatalf("remove %d: %v", k, err)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("after remove of %d: %v", k, err)
		}
	}
	if tree.Len() != 4 {
		t.Errorf("expected size 4 right after removes, have %d", tree.Len())
	}
	if s := tree.Stats(); s.Tombstones != 3 || s.Rebuilds != 0 {
		t.Errorf("expected 3 tombstones and no rebuild, have %s", s)
	}
	tree.Insert(8, "h")
	tree.Insert(9, "i")
	if tree.Stats().Rebuilds != 0 {
		t.Errorf("did not expect a rebuild yet")
	}
	tree.Insert(10, "j") // subtree at tombstone 6 gets out of balance
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	s := tree.Stats()
	if s.Rebuilds != 1 || s.ReclaimedTombstones != 1 || s.Tombstones != 2 {
		t.Errorf("expected one rebuild reclaiming tombstone 6, have %s", s)
	}
	var keys []int
	for k := range tree.All() {
		keys = append(keys, k)
	}
	want := []int{1, 3, 5, 7, 8, 9, 10}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, have %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, have %v", want, keys)
		}
	}
}

func TestRemoveTriggersRebuild(t *testing.T) {
	tree := newIntTree(t, 0.75)
	tree.Insert(1, "a")
	tree.Insert(2, "b")
	// tombstone at the root leaves all of its weight to the right child
	if err := tree.Remove(1); err != nil {
		t.Fatal(err)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	if tree.Height() != 1 || tree.root.key != 2 || tree.root.tombstone {
		t.Errorf("expected tree to be rebuilt to a single node 2")
	}
	if s := tree.Stats(); s.Rebuilds != 1 || s.Tombstones != 0 {
		t.Errorf("unexpected stats %s", s)
	}
}

func TestInsertRevivesTombstone(t *testing.T) {
	tree := newIntTree(t, 0.75)
	tree.BulkBuild(sevenEntries())
	if err := tree.Remove(4); err != nil {
		t.Fatal(err)
	}
	root := tree.root
	left, right := root.left, root.right
	tree.Insert(4, "D")
	if tree.root != root || root.left != left || root.right != right {
		t.Errorf("expected node of key 4 to be revived in place, keeping its children")
	}
	if v, err := tree.Get(4); err != nil || v != "D" {
		t.Errorf("expected 4 → D, have %q (%v)", v, err)
	}
	if tree.Len() != 7 || tree.Stats().Tombstones != 0 {
		t.Errorf("expected 7 live entries and no tombstones, have %d/%d", tree.Len(), tree.Stats().Tombstones)
	}
	tree.Insert(2, "B")
	if v, _ := tree.Get(2); v != "B" || tree.Len() != 7 {
		t.Errorf("expected update of live key 2 without growing the tree")
	}
	if s := tree.Stats(); s.Updates != 1 {
		t.Errorf("expected 1 update, have %s", s)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestLocateScapegoatPicksHighestViolator(t *testing.T) {
	tree := newIntTree(t, 0.75)
	// right-leaning chain 1 → 2 → ... → 6, where 1 and 2 are out of balance
	var link = &tree.root
	var last *node[int, string]
	for k := 1; k <= 6; k++ {
		last = &node[int, string]{key: k, value: "v", weight: 7 - k}
		*link = last
		link = &last.right
	}
	if tree.root.isBalanced(0.75) || tree.root.right.isBalanced(0.75) {
		t.Fatalf("test setup: expected nodes 1 and 2 to violate the invariant")
	}
	scapegoat := tree.locateScapegoat(last)
	if scapegoat != &tree.root {
		t.Fatalf("expected root link to be selected as scapegoat")
	}
	tree.rebuild(scapegoat)
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	if tree.Height() != 3 {
		t.Errorf("expected height 3 after rebuild, is %d", tree.Height())
	}
	if tree.locateScapegoat(nil) != nil {
		t.Errorf("expected nil target to yield no scapegoat")
	}
	stranger := &node[int, string]{key: 100, weight: 1}
	if tree.locateScapegoat(stranger) != nil {
		t.Errorf("expected target not in tree to yield no scapegoat")
	}
}

func TestRebuildRecyclesNodes(t *testing.T) {
	tree, err := New[int, string](0.75, WithFreeListSize(4))
	if err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= 4; k++ {
		tree.Insert(k, "x")
	}
	if len(tree.free.nodes) != 0 {
		t.Fatalf("expected empty free list before first rebuild")
	}
	tree.Insert(5, "x") // rebuilds the whole tree from 5 released nodes
	if len(tree.free.nodes) != 0 {
		t.Errorf("expected rebuild to re-use released nodes, %d left over", len(tree.free.nodes))
	}
	tree.Clear()
	if !tree.IsEmpty() || len(tree.free.nodes) != 4 {
		t.Errorf("expected cleared tree to fill the free list up to its capacity, have %d",
			len(tree.free.nodes))
	}
	for _, n := range tree.free.nodes {
		if n.left != nil || n.right != nil || n.value != "" {
			t.Errorf("released node still holds references")
		}
	}
}

func TestNewFuncCustomOrder(t *testing.T) {
	byLength := func(a, b string) int {
		return len(a) - len(b)
	}
	tree, err := NewFunc[string, int](0.7, byLength)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"ccc", "a", "bb", "dddd", "xx"} {
		tree.Insert(s, len(s))
	}
	got := tree.Entries()
	if len(got) != 4 || got[1].Key != "xx" {
		t.Errorf("expected xx to replace bb under length ordering, have %v", got)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestEachLevel(t *testing.T) {
	tree := newIntTree(t, 0.75)
	tree.BulkBuild(sevenEntries()[:3])
	if err := tree.Remove(1); err != nil {
		t.Fatal(err)
	}
	var rows []string
	tree.EachLevel(func(depth int, row []Slot[int, string]) bool {
		var b strings.Builder
		for _, s := range row {
			switch {
			case !s.Present:
				b.WriteString(".")
			case s.Tombstone:
				b.WriteString("†")
			default:
				b.WriteString(s.Value)
			}
		}
		rows = append(rows, b.String())
		return true
	})
	want := []string{"b", "†c", "...."}
	if strings.Join(rows, "|") != strings.Join(want, "|") {
		t.Errorf("expected levels %v, have %v", want, rows)
	}
	cnt := 0
	tree.EachLevel(func(int, []Slot[int, string]) bool {
		cnt++
		return false
	})
	if cnt != 1 {
		t.Errorf("expected traversal to stop after first level")
	}
}
