package kdtree

// NodeID addresses a node in a Tree's arena.
type NodeID int32

// NoNode marks a missing parent, child or sibling.
const NoNode NodeID = -1

// node holds one palette point. Children are kept in attachment order: for a
// node with two children, children[0] is the low side and children[1] the
// high side of its splitting plane.
type node struct {
	point    Point
	index    int
	dim      int
	parent   NodeID
	children [2]NodeID
	nchild   uint8
}

// Tree is a k-d tree over palette points. It is immutable once Build returns.
type Tree struct {
	k     int
	nodes []node
}

// Dims returns the dimension count k the tree was built for.
func (t *Tree) Dims() int { return t.k }

// Len returns the number of nodes, which equals the number of input points.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root node. The root is always the first node allocated.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Valid reports whether id addresses a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Point returns the point stored at id.
func (t *Tree) Point(id NodeID) Point { return t.nodes[id].point }

// SplitDim returns the dimension id was sorted on when it was placed. For a
// node with two children this is the dimension of its splitting plane.
func (t *Tree) SplitDim(id NodeID) int { return t.nodes[id].dim }

// Index returns the position in Build's input of the point stored at id.
func (t *Tree) Index(id NodeID) int { return t.nodes[id].index }

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the children of id in attachment order.
func (t *Tree) Children(id NodeID) []NodeID {
	n := &t.nodes[id]
	return n.children[:n.nchild:n.nchild]
}

// Sibling returns the other child of id's parent, or NoNode.
func (t *Tree) Sibling(id NodeID) NodeID {
	p := t.nodes[id].parent
	if p == NoNode {
		return NoNode
	}
	pn := &t.nodes[p]
	if pn.nchild < 2 {
		return NoNode
	}
	if pn.children[0] == id {
		return pn.children[1]
	}
	return pn.children[0]
}

// Depth returns the number of edges between id and the root.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		d++
	}
	return d
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	h := 0
	for id := range t.nodes {
		n := &t.nodes[id]
		if n.nchild == 0 {
			if d := t.Depth(NodeID(id)) + 1; d > h {
				h = d
			}
		}
	}
	return h
}

// Walk calls fn for every node in depth-first order, low child first.
// Walking stops early if fn returns false.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if len(t.nodes) == 0 {
		return
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.id, f.depth) {
			return
		}
		children := t.Children(f.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}

func (t *Tree) attach(parent NodeID, it item, dim int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		point:    it.point,
		index:    it.index,
		dim:      dim,
		parent:   parent,
		children: [2]NodeID{NoNode, NoNode},
	})
	if parent != NoNode {
		pn := &t.nodes[parent]
		pn.children[pn.nchild] = id
		pn.nchild++
	}
	return id
}
