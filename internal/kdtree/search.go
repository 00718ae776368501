package kdtree

// Result is the outcome of a nearest-neighbor query.
type Result struct {
	Node     NodeID
	Point    Point
	Index    int    // position of Point in the slice passed to Build
	Distance uint32 // squared Euclidean distance to the query
}

type searchOptions struct {
	counter *Counter
	legacy  bool
}

// SearchOption configures a FindNearest call.
type SearchOption func(*searchOptions)

// WithCounter records every distance evaluation of the query on c.
func WithCounter(c *Counter) SearchOption {
	return func(o *searchOptions) { o.counter = c }
}

// WithLegacyBounds selects the legacy backtrack bounds described in the
// package documentation.
func WithLegacyBounds() SearchOption {
	return func(o *searchOptions) { o.legacy = true }
}

// Nearest returns the palette point closest to query, searching the whole tree.
func (t *Tree) Nearest(query Point, opts ...SearchOption) (Result, error) {
	return t.FindNearest(t.Root(), query, opts...)
}

// FindNearest returns the point closest to query within the subtree rooted
// at start.
//
// Parameters:
//   - start: The subtree to search. Use Root for the whole tree.
//   - query: The point to match. It must have the tree's dimension count.
//   - opts: WithCounter records distance evaluations; WithLegacyBounds
//     switches to the legacy backtrack bounds.
//
// Returns:
//   - Result: The nearest node, its point, its index in the Build input and
//     the squared distance to query. Ties go to the first point reached.
//   - error: Non-nil if the arguments are invalid.
//
// The tree is not modified, so concurrent calls are safe.
//
// # Errors
//
//   - ErrInvalidNode if start does not belong to the tree
//   - *DimensionError (matching ErrDimensionMismatch) if query has the wrong
//     length
func (t *Tree) FindNearest(start NodeID, query Point, opts ...SearchOption) (Result, error) {
	if !t.Valid(start) {
		return Result{}, ErrInvalidNode
	}
	if len(query) != t.k {
		return Result{}, &DimensionError{Expected: t.k, Actual: len(query), Index: -1}
	}

	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}

	var id NodeID
	var dist uint32
	if o.legacy {
		id, dist = t.searchLegacy(start, query, o.counter)
	} else {
		id, dist = t.search(start, query, o.counter)
	}

	n := &t.nodes[id]
	return Result{Node: id, Point: n.point, Index: n.index, Distance: dist}, nil
}

// search descends using each node's own split dimension and backtracks to
// start, exploring a sibling subtree only when the query is closer to the
// parent's splitting plane than to the current best.
func (t *Tree) search(start NodeID, q Point, c *Counter) (NodeID, uint32) {
	cur := start
	for {
		n := &t.nodes[cur]
		if n.nchild == 0 {
			break
		}
		if n.nchild == 1 {
			cur = n.children[0]
			continue
		}
		if d := n.dim; q[d] < n.point[d] {
			cur = n.children[0]
		} else {
			cur = n.children[1]
		}
	}

	best := cur
	bestDist := SquaredDistance(q, t.nodes[cur].point, c)

	for cur != start {
		parent := t.nodes[cur].parent
		pn := &t.nodes[parent]

		if d := SquaredDistance(q, pn.point, c); d < bestDist {
			best, bestDist = parent, d
		}

		if pn.nchild == 2 && planeDistance(q[pn.dim], pn.point[pn.dim]) < bestDist {
			sib := pn.children[0]
			if sib == cur {
				sib = pn.children[1]
			}
			if id, d := t.search(sib, q, c); d < bestDist {
				best, bestDist = id, d
			}
		}

		cur = parent
	}

	return best, bestDist
}

// searchLegacy tracks the active dimension by rotation from start, tests the
// plane between the parent and the current best at the dimension one level
// below the parent, and restarts sibling searches at dimension 0.
func (t *Tree) searchLegacy(start NodeID, q Point, c *Counter) (NodeID, uint32) {
	k := t.k
	cur := start
	dim := 0
	for {
		n := &t.nodes[cur]
		if n.nchild == 0 {
			break
		}
		if n.nchild == 1 || q[dim] < n.point[dim] {
			cur = n.children[0]
		} else {
			cur = n.children[1]
		}
		dim = (dim + 1) % k
	}

	best := cur
	bestDist := SquaredDistance(q, t.nodes[cur].point, c)

	for cur != start {
		parent := t.nodes[cur].parent
		pn := &t.nodes[parent]

		if d := SquaredDistance(q, pn.point, c); d < bestDist {
			best, bestDist = parent, d
		}

		if planeDistance(pn.point[dim], t.nodes[best].point[dim]) < bestDist {
			if sib := t.Sibling(cur); sib != NoNode {
				// The sibling's best is measured again, and that evaluation is counted.
				id, _ := t.searchLegacy(sib, q, c)
				if d := SquaredDistance(q, t.nodes[id].point, c); d < bestDist {
					best, bestDist = id, d
				}
			}
		}

		dim = (dim + k - 1) % k
		cur = parent
	}

	return best, bestDist
}
