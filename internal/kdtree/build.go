package kdtree

import "sort"

type item struct {
	point Point
	index int
}

// Build constructs a Tree from points, each of which must have exactly k
// coordinates.
//
// Parameters:
//   - points: The palette points, in palette order. The slice is not
//     modified; points are copied into the tree.
//   - k: The number of coordinates per point (3 for RGB).
//
// Returns:
//   - *Tree: The built tree. Tree.Index maps each node back to its position
//     in points, so results can be reported against the original palette.
//   - error: Non-nil if the input cannot form a tree.
//
// Equal points are kept as separate nodes. The shape depends only on the
// input order, so building the same points twice yields the same tree.
//
// # Errors
//
//   - ErrInvalidDimension if k is not positive
//   - ErrEmptyPalette if points is empty
//   - *DimensionError (matching ErrDimensionMismatch) if a point does not
//     have k coordinates
func Build(points []Point, k int) (*Tree, error) {
	if k <= 0 {
		return nil, ErrInvalidDimension
	}
	if len(points) == 0 {
		return nil, ErrEmptyPalette
	}

	work := make([]item, len(points))
	for i, p := range points {
		if len(p) != k {
			return nil, &DimensionError{Expected: k, Actual: len(p), Index: i}
		}
		work[i] = item{point: append(Point(nil), p...), index: i}
	}

	t := &Tree{k: k, nodes: make([]node, 0, len(points))}

	sortByDim(work, 0)
	middle := len(work) / 2
	root := t.attach(NoNode, work[middle], 0)
	next := 1 % k
	t.build(work[:middle], root, next)
	t.build(work[middle+1:], root, next)

	return t, nil
}

// build attaches the points of v under target, splitting on dimension dim.
func (t *Tree) build(v []item, target NodeID, dim int) {
	switch len(v) {
	case 0:
		return
	case 1:
		t.attach(target, v[0], dim)
		return
	case 2:
		// The pair forms a chain on the same dimension: larger above smaller.
		sortByDim(v, dim)
		child := t.attach(target, v[1], dim)
		t.attach(child, v[0], dim)
		return
	}

	sortByDim(v, dim)
	middle := len(v) / 2
	child := t.attach(target, v[middle], dim)
	next := (dim + 1) % t.k
	t.build(v[:middle], child, next)
	t.build(v[middle+1:], child, next)
}

// sortByDim orders v by coordinate dim. The sort is stable so the tree shape
// depends only on the input order.
func sortByDim(v []item, dim int) {
	sort.SliceStable(v, func(i, j int) bool {
		return v[i].point[dim] < v[j].point[dim]
	})
}
