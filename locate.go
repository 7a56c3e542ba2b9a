package scapegoat

// rebalance restores the weight invariant after target has been inserted,
// updated or removed.
func (t *Tree[K, V]) rebalance(target *node[K, V]) {
	if link := t.locateScapegoat(target); link != nil {
		t.rebuild(link)
	}
}

// locateScapegoat walks from the root towards target and returns the link to
// the first node on this path which violates the weight invariant. If no node on
// the path is out of balance, nil is returned.
//
// The returned link is either &t.root or the left or right field of the
// scapegoat's parent, and the scapegoat's subtree may be replaced by assigning
// to it.
//
// Choosing the node closest to the root (instead of the deepest one) bounds
// the total cost of rebuilds to O(log n) amortized per update. Every position
// has to be checked before it is compared to target and before descending.
func (t *Tree[K, V]) locateScapegoat(target *node[K, V]) **node[K, V] {
	if target == nil {
		return nil
	}
	link := &t.root
	for pos := *link; pos != nil; pos = *link {
		if !pos.isBalanced(t.alpha) {
			return link
		}
		if pos == target {
			return nil
		}
		switch c := t.compare(target.key, pos.key); {
		case c > 0:
			link = &pos.right
		case c < 0:
			link = &pos.left
		default:
			T().Errorf("scapegoat: duplicate node for key %v on search path", target.key)
			return nil
		}
	}
	return nil // target is not on a path from the root
}
