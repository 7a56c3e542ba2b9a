package scapegoat

import (
	"slices"
)

// rebuild replaces the subtree at link by a perfectly balanced subtree holding
// the same live entries. Tombstones are dropped and every node of the old
// subtree is released.
func (t *Tree[K, V]) rebuild(link **node[K, V]) {
	sub := *link
	if sub == nil {
		return
	}
	entries := make([]Entry[K, V], 0, sub.weight)
	entries, dropped := t.flatten(sub, entries)
	*link = t.buildRange(entries, 0, len(entries)-1)
	t.stats.Rebuilds++
	t.stats.RebuiltEntries += uint64(len(entries))
	t.stats.ReclaimedTombstones += uint64(dropped)
	t.stats.Tombstones -= dropped
	T().Debugf("scapegoat: rebuilt subtree of %d entries, %d tombstones reclaimed",
		len(entries), dropped)
}

// flatten appends the live entries of the subtree at n to out, in ascending key
// order. Every node of the subtree is released as soon as it has been visited.
// flatten returns the extended slice and the number of tombstones dropped.
func (t *Tree[K, V]) flatten(n *node[K, V], out []Entry[K, V]) ([]Entry[K, V], int) {
	if n == nil {
		return out, 0
	}
	out, dropped := t.flatten(n.left, out)
	if n.tombstone {
		dropped++
	} else {
		out = append(out, Entry[K, V]{Key: n.key, Value: n.value})
	}
	right := n.right
	t.free.freeNode(n)
	out, d := t.flatten(right, out)
	return out, dropped + d
}

// buildRange constructs a balanced subtree from entries[start..end] (inclusive)
// by recursively splitting at the median. The subtrees of every node created
// differ in weight by at most one.
func (t *Tree[K, V]) buildRange(entries []Entry[K, V], start, end int) *node[K, V] {
	if start > end {
		return nil
	}
	mid := (start + end) / 2
	n := t.free.newNode(entries[mid].Key, entries[mid].Value)
	n.left = t.buildRange(entries, start, mid-1)
	n.right = t.buildRange(entries, mid+1, end)
	n.weight = end - start + 1
	return n
}

// release drops all nodes of the subtree at n and returns the number of
// tombstones found.
func (t *Tree[K, V]) release(n *node[K, V]) int {
	if n == nil {
		return 0
	}
	dropped := t.release(n.left) + t.release(n.right)
	if n.tombstone {
		dropped++
	}
	t.free.freeNode(n)
	return dropped
}

// BulkBuild replaces the contents of the tree with entries, building a
// perfectly balanced tree in a single pass.
//
// entries are expected to be sorted by key; if they are not, BulkBuild sorts a
// copy first (stable). If a key occurs more than once, the last occurrence
// wins, as it would for a sequence of inserts. The entries slice is never
// modified.
func (t *Tree[K, V]) BulkBuild(entries []Entry[K, V]) {
	byKey := func(a, b Entry[K, V]) int {
		return t.compare(a.Key, b.Key)
	}
	if !slices.IsSortedFunc(entries, byKey) {
		entries = slices.Clone(entries)
		slices.SortStableFunc(entries, byKey)
	}
	entries = t.uniqueKeys(entries)
	t.Clear()
	t.root = t.buildRange(entries, 0, len(entries)-1)
	T().Debugf("scapegoat: bulk-built tree of %d entries", len(entries))
}

// uniqueKeys collapses runs of equal keys in sorted entries to their last
// element. entries will be copied before it is changed.
func (t *Tree[K, V]) uniqueKeys(entries []Entry[K, V]) []Entry[K, V] {
	var out []Entry[K, V]
	for i := 1; i < len(entries); i++ {
		if t.compare(entries[i-1].Key, entries[i].Key) != 0 {
			if out != nil {
				out = append(out, entries[i-1])
			}
			continue
		}
		if out == nil {
			out = make([]Entry[K, V], i-1, len(entries))
			copy(out, entries[:i-1])
		}
	}
	if out == nil {
		return entries
	}
	return append(out, entries[len(entries)-1])
}
