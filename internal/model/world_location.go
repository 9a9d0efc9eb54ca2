package model

import "fmt"

// NodeIndex addresses one cell of the world grid.
type NodeIndex struct {
	X, Y int
}

// NoNode is returned by lookups that found no node.
var NoNode = NodeIndex{X: -1, Y: -1}

// String returns "(x,y)".
func (n NodeIndex) String() string {
	return fmt.Sprintf("(%d,%d)", n.X, n.Y)
}

// WorldLocation is a handle to one slot of a node's prop list.
// Gen is the slot generation when the handle was issued; once the slot is
// overwritten the handle goes stale and lookups through it fail.
type WorldLocation struct {
	Node  NodeIndex
	Index int
	Gen   uint32
}

// String returns "(x,y)[index]#gen".
func (l WorldLocation) String() string {
	return fmt.Sprintf("%s[%d]#%d", l.Node, l.Index, l.Gen)
}
