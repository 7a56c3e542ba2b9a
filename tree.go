package scapegoat

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"cmp"
	"iter"
)

// Entry is a key/value pair stored in a tree.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Tree is an ordered key/value container, kept in balance as a scapegoat tree.
//
// K is the key type, which has to be totally ordered by the tree's compare
// function; V is an opaque value type. Keys are unique among the live entries
// of a tree.
//
// Trees have to be created with New or NewFunc. They are not safe for
// concurrent use.
type Tree[K, V any] struct {
	root    *node[K, V]
	alpha   float64
	compare func(K, K) int
	free    *freeList[K, V]
	stats   Stats
	path    []*node[K, V] // scratch buffer for search paths
}

// New creates an empty tree for an ordered key type. alpha is the balance factor
// and must be in (0.5, 1).
func New[K cmp.Ordered, V any](alpha float64, opts ...Option) (*Tree[K, V], error) {
	return NewFunc[K, V](alpha, cmp.Compare[K], opts...)
}

// NewFunc creates an empty tree, ordering keys by compare. compare(a, b) must
// return a negative number if a < b, a positive number if a > b and zero if
// a and b are equal.
func NewFunc[K, V any](alpha float64, compare func(K, K) int, opts ...Option) (*Tree[K, V], error) {
	if compare == nil {
		return nil, ErrIllegalArguments
	}
	cfg := newConfig(alpha, opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tree[K, V]{
		alpha:   cfg.alpha,
		compare: compare,
		free:    newFreeList[K, V](cfg.freeListSize),
	}, nil
}

// Alpha returns the balance factor of the tree.
func (t *Tree[K, V]) Alpha() float64 {
	return t.alpha
}

// IsEmpty reports whether the tree has no root node.
//
// Please note that a tree consisting of tombstones only is not empty, even though
// its Len is 0.
func (t *Tree[K, V]) IsEmpty() bool {
	return t == nil || t.root == nil
}

// Len returns the number of live entries in the tree.
func (t *Tree[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return weight(t.root)
}

// Height returns the tree height, where 0 means empty and 1 means a single root node.
// Tombstones contribute to the height.
func (t *Tree[K, V]) Height() int {
	if t == nil {
		return 0
	}
	return t.root.height()
}

// Insert stores value for key. If key is already present in the tree, either
// as a live entry or as a tombstone, its node is updated in place and revived
// if necessary. Insert never fails and always returns true.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	if t.root == nil {
		t.root = t.free.newNode(key, value)
		t.stats.Inserts++
		return true
	}
	path := t.path[:0]
	n := t.root
	for {
		path = append(path, n)
		c := t.compare(key, n.key)
		if c == 0 {
			if n.tombstone {
				n.tombstone = false
				adjustWeights(path, 1)
				t.stats.Tombstones--
				t.stats.Inserts++
			} else {
				t.stats.Updates++
			}
			n.key, n.value = key, value
			break
		}
		link := &n.right
		if c < 0 {
			link = &n.left
		}
		if *link == nil {
			leaf := t.free.newNode(key, value)
			*link = leaf
			adjustWeights(path, 1)
			t.stats.Inserts++
			n = leaf
			break
		}
		n = *link
	}
	t.path = clearPath(path)
	t.rebalance(n)
	return true
}

// Remove deletes the entry for key. The node holding the entry is turned into
// a tombstone and will be reclaimed by a subsequent rebuild.
//
// Remove returns ErrEmptyTree for an empty tree and ErrNotFound if key is not
// present or has been removed before.
func (t *Tree[K, V]) Remove(key K) error {
	if t.IsEmpty() {
		return ErrEmptyTree
	}
	path := t.path[:0]
	defer func() { t.path = clearPath(path) }()
	for n := t.root; n != nil; {
		path = append(path, n)
		c := t.compare(key, n.key)
		if c == 0 {
			if n.tombstone {
				return ErrNotFound
			}
			var zero V
			n.value = zero
			n.tombstone = true
			adjustWeights(path, -1)
			t.stats.Removes++
			t.stats.Tombstones++
			t.rebalance(n)
			return nil
		}
		if c < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return ErrNotFound
}

// Delete is a convenience wrapper around Remove, reporting whether an entry
// for key has been removed.
func (t *Tree[K, V]) Delete(key K) bool {
	return t.Remove(key) == nil
}

// Search looks up key. It returns nil if a live entry for key exists,
// ErrNotFound if it doesn't and ErrEmptyTree for an empty tree.
func (t *Tree[K, V]) Search(key K) error {
	_, err := t.find(key)
	return err
}

// Contains reports whether a live entry for key exists.
func (t *Tree[K, V]) Contains(key K) bool {
	return t.Search(key) == nil
}

// Get returns the value stored for key, with the same error semantics as Search.
func (t *Tree[K, V]) Get(key K) (V, error) {
	n, err := t.find(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return n.value, nil
}

func (t *Tree[K, V]) find(key K) (*node[K, V], error) {
	if t.IsEmpty() {
		return nil, ErrEmptyTree
	}
	n := t.root
	for n != nil {
		c := t.compare(key, n.key)
		if c == 0 {
			if n.tombstone {
				return nil, ErrNotFound
			}
			return n, nil
		}
		if c < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil, ErrNotFound
}

// Clear removes all entries, including tombstones, from the tree.
func (t *Tree[K, V]) Clear() {
	t.stats.ReclaimedTombstones += uint64(t.release(t.root))
	t.stats.Tombstones = 0
	t.root = nil
}

// All returns an iterator over all live entries in ascending key order.
// The sequence may be iterated more than once; it must not be used while the
// tree is modified.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t == nil {
			return
		}
		inorder(t.root, yield)
	}
}

func inorder[K, V any](n *node[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if !inorder(n.left, yield) {
		return false
	}
	if !n.tombstone && !yield(n.key, n.value) {
		return false
	}
	return inorder(n.right, yield)
}

// Entries returns all live entries of the tree in ascending key order.
func (t *Tree[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, t.Len())
	for k, v := range t.All() {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries
}

// --- Helpers ---------------------------------------------------------------

// adjustWeights adds delta to the cached weight of every node on path.
func adjustWeights[K, V any](path []*node[K, V], delta int) {
	for _, n := range path {
		n.weight += delta
	}
}

// clearPath drops node references from a search path buffer, keeping its
// capacity for re-use.
func clearPath[K, V any](path []*node[K, V]) []*node[K, V] {
	clear(path)
	return path[:0]
}
