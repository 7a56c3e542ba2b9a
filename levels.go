package scapegoat

// Slot is a read-only view of a position in the tree, as reported by EachLevel.
// A slot is either occupied by a node (Present is true) or represents a missing
// child of a node on the level above.
type Slot[K, V any] struct {
	Key       K
	Value     V
	Weight    int  // number of live entries in the subtree below this slot
	Present   bool // false for a missing child
	Tombstone bool // true for a removed entry not yet reclaimed
}

// EachLevel traverses the tree breadth-first and calls fn for every level, from
// the root downwards. Row 0 contains the root only; every following row
// contains the left and right child slots of the present slots of the
// previous row, in order. The last row reported consists of missing children
// only. Traversal stops early if fn returns false.
//
// fn must not modify the tree. The row slice is re-used between calls.
func (t *Tree[K, V]) EachLevel(fn func(depth int, row []Slot[K, V]) bool) {
	if t.IsEmpty() || fn == nil {
		return
	}
	level := []*node[K, V]{t.root}
	var row []Slot[K, V]
	var next []*node[K, V]
	for depth := 0; len(level) > 0; depth++ {
		row = row[:0]
		next = next[:0]
		for _, n := range level {
			if n == nil {
				row = append(row, Slot[K, V]{})
				continue
			}
			row = append(row, Slot[K, V]{
				Key:       n.key,
				Value:     n.value,
				Weight:    n.weight,
				Present:   true,
				Tombstone: n.tombstone,
			})
			next = append(next, n.left, n.right)
		}
		if !fn(depth, row) {
			return
		}
		level, next = next, level
	}
}
