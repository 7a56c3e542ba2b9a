package scapegoat

import "fmt"

// Check validates the structural invariants of a tree:
//
//   - keys are ordered (tombstones included),
//   - cached weights match the number of live entries of every subtree,
//   - every node satisfies the weight invariant for the tree's alpha.
//
// Check is intended for tests and debugging; it visits every node.
func (t *Tree[K, V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrIllegalArguments)
	}
	tombstones, err := t.checkNode(t.root, nil, nil)
	if err != nil {
		return err
	}
	if tombstones != t.stats.Tombstones {
		return fmt.Errorf("%w: tombstone count mismatch (%d != %d)",
			ErrInvariant, tombstones, t.stats.Tombstones)
	}
	return nil
}

func (t *Tree[K, V]) checkNode(n *node[K, V], lower, upper *K) (tombstones int, err error) {
	if n == nil {
		return 0, nil
	}
	if lower != nil && t.compare(n.key, *lower) <= 0 {
		return 0, fmt.Errorf("%w: key %v not greater than %v", ErrInvariant, n.key, *lower)
	}
	if upper != nil && t.compare(n.key, *upper) >= 0 {
		return 0, fmt.Errorf("%w: key %v not less than %v", ErrInvariant, n.key, *upper)
	}
	lt, err := t.checkNode(n.left, lower, &n.key)
	if err != nil {
		return 0, err
	}
	rt, err := t.checkNode(n.right, &n.key, upper)
	if err != nil {
		return 0, err
	}
	if w := countLive(n); w != n.weight {
		return 0, fmt.Errorf("%w: cached weight %d of node %v, should be %d",
			ErrInvariant, n.weight, n.key, w)
	}
	if !n.isBalanced(t.alpha) {
		return 0, fmt.Errorf("%w: node %v out of balance (weights %d/%d/%d, alpha=%g)",
			ErrInvariant, n.key, weight(n.left), n.weight, weight(n.right), t.alpha)
	}
	tombstones = lt + rt
	if n.tombstone {
		tombstones++
	}
	return tombstones, nil
}
