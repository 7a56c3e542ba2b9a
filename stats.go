package scapegoat

import "fmt"

// Stats collects counters about the operations performed on a tree.
type Stats struct {
	Inserts             uint64 // inserts of new keys, including revived tombstones
	Updates             uint64 // inserts replacing the value of a live entry
	Removes             uint64 // successful removes
	Rebuilds            uint64 // number of subtree rebuilds
	RebuiltEntries      uint64 // live entries re-arranged by rebuilds
	ReclaimedTombstones uint64 // tombstones dropped by rebuilds or Clear
	Tombstones          int    // tombstones currently present in the tree
}

// Stats returns a snapshot of the operation counters of t.
func (t *Tree[K, V]) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return t.stats
}

func (s Stats) String() string {
	return fmt.Sprintf("inserts=%d updates=%d removes=%d rebuilds=%d rebuilt=%d reclaimed=%d tombstones=%d",
		s.Inserts, s.Updates, s.Removes, s.Rebuilds, s.RebuiltEntries, s.ReclaimedTombstones, s.Tombstones)
}
