/*
Package scapegoat offers an ordered key/value container backed by a scapegoat tree.

# Scapegoat Trees

A scapegoat tree is a binary search tree which keeps itself approximately
balanced without rotations and without any per-node balance information.
Instead, after every mutation the path from the root to the touched node is
re-checked against a weight invariant. If some node on this path carries too much
weight in one of its subtrees, the highest such node (the "scapegoat") has its
subtree flattened and rebuilt as a perfectly balanced tree.

For a balance factor alpha in (0.5, 1) the weight invariant is

	weight(left(n))  ≤ alpha * weight(n)
	weight(right(n)) ≤ alpha * weight(n)

for every node n, where weight counts the live entries of a subtree.

Removal is lazy: a removed entry is marked as a tombstone and stays in the tree
structure until the next rebuild of a subtree containing it. Tombstones never
count towards the weight of a subtree, which means removals may trigger rebuilds
as well.

	Operation     |   Scapegoat Tree
	--------------+--------------------
	Search        |   O(log n)
	Insert        |   O(log n) amortized
	Remove        |   O(log n) amortized
	Iterate       |   O(n)
	BulkBuild     |   O(n) (sorted input)

Smaller values of alpha keep the tree tighter at the price of more frequent
rebuilds. DefaultAlpha is a reasonable compromise for most use cases.

Trees are not safe for concurrent use. Clients which share a tree between
goroutines have to guard the complete insert/remove call with a lock, as a
rebuild must never be observed half-way.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.

*/
package scapegoat

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// TreeError is an error type for the scapegoat module
type TreeError string

func (e TreeError) Error() string {
	return string(e)
}

// ErrEmptyTree is flagged whenever a search or remove is issued on a tree
// without a root node.
const ErrEmptyTree = TreeError("tree is empty")

// ErrNotFound signals that a key is not present in the tree, or has been
// removed before.
const ErrNotFound = TreeError("key not found")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = TreeError("illegal arguments")

// ErrInvalidAlpha is flagged when a tree is configured with a balance factor
// outside of (0.5, 1).
const ErrInvalidAlpha = TreeError("balance factor alpha must be in (0.5, 1)")

// ErrTreeCompleted signals that a tree builder has already completed a tree and
// it's illegal to further add entries.
const ErrTreeCompleted = TreeError("forbidden to add entries; tree has been completed")

// ErrInvariant is flagged by Check for a tree which does not satisfy its
// structural invariants.
const ErrInvariant = TreeError("tree invariant violated")
