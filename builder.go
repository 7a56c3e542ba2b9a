package scapegoat

import (
	"cmp"
)

// Builder stages entries and finalizes them into a tree.
//
// Builder collects entries in any order and materializes the tree only when
// Tree() is called, using a single bulk build instead of a sequence of inserts.
// If a key is added more than once, the entry added last wins.
type Builder[K, V any] struct {
	alpha   float64
	compare func(K, K) int
	opts    []Option
	entries []Entry[K, V]

	done bool
	tree *Tree[K, V]
}

// NewBuilder creates a new and empty tree builder for an ordered key type.
func NewBuilder[K cmp.Ordered, V any](alpha float64, opts ...Option) *Builder[K, V] {
	return NewBuilderFunc[K, V](alpha, cmp.Compare[K], opts...)
}

// NewBuilderFunc creates a new and empty tree builder, ordering keys by compare.
func NewBuilderFunc[K, V any](alpha float64, compare func(K, K) int, opts ...Option) *Builder[K, V] {
	return &Builder[K, V]{
		alpha:   alpha,
		compare: compare,
		opts:    opts,
	}
}

// Add stages an entry for the tree under construction.
func (b *Builder[K, V]) Add(key K, value V) error {
	if b == nil {
		return ErrIllegalArguments
	}
	if b.done {
		return ErrTreeCompleted
	}
	b.entries = append(b.entries, Entry[K, V]{Key: key, Value: value})
	return nil
}

// Len returns the number of entries staged so far, duplicates included.
func (b *Builder[K, V]) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Tree returns the tree built from all staged entries.
//
// It is illegal to continue adding entries after Tree has been called, but
// Tree may be called multiple times and will return the same tree.
func (b *Builder[K, V]) Tree() (*Tree[K, V], error) {
	if b == nil {
		return nil, ErrIllegalArguments
	}
	if b.tree != nil {
		return b.tree, nil
	}
	tree, err := NewFunc[K, V](b.alpha, b.compare, b.opts...)
	if err != nil {
		return nil, err
	}
	tree.BulkBuild(b.entries)
	b.entries = nil
	b.tree = tree
	b.done = true
	if tree.IsEmpty() {
		T().Debugf("tree builder: tree is empty")
	}
	return tree, nil
}

// Reset drops the staged entries and prepares the builder for a fresh build.
func (b *Builder[K, V]) Reset() {
	b.entries = nil
	b.done = false
	b.tree = nil
}
