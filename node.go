package scapegoat

// node is a key/value holder in a scapegoat tree. Every node is exclusively
// owned by its parent, the root node is owned by the tree.
//
// weight caches the number of live entries in the subtree rooted at the node,
// including the node itself (if not a tombstone). It is adjusted along the
// search path for every insert or remove, and re-calculated for rebuilt subtrees.
type node[K, V any] struct {
	key       K
	value     V
	left      *node[K, V]
	right     *node[K, V]
	weight    int
	tombstone bool
}

// weight returns the number of live entries in the subtree rooted at n.
func weight[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.weight
}

// countLive re-calculates the weight of a subtree from scratch, without
// consulting cached weights.
func countLive[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	w := countLive(n.left) + countLive(n.right)
	if !n.tombstone {
		w++
	}
	return w
}

// isBalanced tests the weight invariant for n.
func (n *node[K, V]) isBalanced(alpha float64) bool {
	limit := alpha * float64(n.weight)
	return float64(weight(n.left)) <= limit && float64(weight(n.right)) <= limit
}

func (n *node[K, V]) height() int {
	if n == nil {
		return 0
	}
	return max(n.left.height(), n.right.height()) + 1
}

// --- Node recycling --------------------------------------------------------

// DefaultFreeListSize is the default capacity of a tree's node free list.
const DefaultFreeListSize = 32

// freeList keeps nodes released by rebuilds for re-use in subsequent
// reconstructions.
type freeList[K, V any] struct {
	nodes []*node[K, V]
}

func newFreeList[K, V any](size int) *freeList[K, V] {
	return &freeList[K, V]{nodes: make([]*node[K, V], 0, size)}
}

// newNode returns a live leaf node for (key, value), re-using a released node
// if one is available.
func (f *freeList[K, V]) newNode(key K, value V) *node[K, V] {
	index := len(f.nodes) - 1
	if index < 0 {
		return &node[K, V]{key: key, value: value, weight: 1}
	}
	n := f.nodes[index]
	f.nodes[index] = nil
	f.nodes = f.nodes[:index]
	n.key, n.value, n.weight = key, value, 1
	return n
}

// freeNode clears n and keeps it for re-use, if the list has room left.
// It reports whether n has been added to the list.
func (f *freeList[K, V]) freeNode(n *node[K, V]) bool {
	*n = node[K, V]{}
	if len(f.nodes) < cap(f.nodes) {
		f.nodes = append(f.nodes, n)
		return true
	}
	return false
}
