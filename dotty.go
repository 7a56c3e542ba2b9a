package scapegoat

import (
	"fmt"
	"io"
)

type nodeids[K, V any] struct {
	idTable map[*node[K, V]]int
	max     int
}

func newtable[K, V any]() nodeids[K, V] {
	return nodeids[K, V]{
		idTable: make(map[*node[K, V]]int),
		max:     1,
	}
}

func (ids nodeids[K, V]) find(n *node[K, V]) int {
	return ids.idTable[n]
}

func (ids *nodeids[K, V]) alloc(n *node[K, V]) int {
	if id := ids.find(n); id > 0 {
		return id
	}
	ids.idTable[n] = ids.max
	ids.max++
	return ids.max - 1
}

// Dot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). Tombstones are drawn in a highlight color, labels
// show key, value and the weight of the subtree.
func Dot[K, V any](tree *Tree[K, V], w io.Writer) error {
	if tree == nil {
		return ErrIllegalArguments
	}
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable[K, V]()
	nodelist, edgelist := "", ""
	nilcnt := 0
	var walk func(n *node[K, V])
	walk = func(n *node[K, V]) {
		ID := ids.alloc(n)
		var label string
		if n.tombstone {
			label = fmt.Sprintf("%v\\n†\\nw=%d", n.key, n.weight)
		} else {
			label = fmt.Sprintf("%v\\n%v\\nw=%d", n.key, n.value, n.weight)
		}
		nodelist += fmt.Sprintf("\"%d\" [label=\"%s\" %s];\n", ID, label, nodeDotStyles(n.tombstone))
		for _, child := range [...]*node[K, V]{n.left, n.right} {
			if child == nil {
				nilcnt++
				nilid := 100000 + nilcnt
				nodelist += fmt.Sprintf("\"%d\" %s;\n", nilid, emptyNode())
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, nilid)
				continue
			}
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(child))
			walk(child)
		}
	}
	if tree.root != nil {
		walk(tree.root)
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	_, err := io.WriteString(w, "}\n")
	if err != nil {
		T().Errorf("tree DOT: %s", err.Error())
	}
	return err
}

func emptyNode() string {
	return "[label=\"\",color=black,shape=point]"
}

func nodeDotStyles(tombstone bool) string {
	s := ",style=filled,shape=circle"
	if tombstone {
		s += ",color=black,fillcolor=\"" + hexhlcolors[len(hexhlcolors)-1] + "\""
	} else {
		s += ",color=black,fillcolor=\"" + hexcolors[1] + "\""
	}
	return s
}

var hexhlcolors = [...]string{"#FFEEDD", "#FFDDCC", "#FFCCAA", "#FFBB88", "#FFAA66",
	"#FF9944", "#FF8822", "#FF7700", "#ff6600"}

var hexcolors = [...]string{"white", "#CCDDFF", "#AACCFF", "#88BBFF", "#66AAFF",
	"#4499FF", "#2288FF", "#0077FF", "#0066FF"}
