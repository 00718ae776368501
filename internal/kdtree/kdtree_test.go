package kdtree

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaries() []Point {
	return []Point{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 255},
		{0, 0, 0},
	}
}

func randomPoints(rng *rand.Rand, n, k int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		p := make(Point, k)
		for d := range p {
			p[d] = uint8(rng.Intn(256))
		}
		pts[i] = p
	}
	return pts
}

func linearScan(points []Point, q Point) uint32 {
	best := SquaredDistance(q, points[0], nil)
	for _, p := range points[1:] {
		if d := SquaredDistance(q, p, nil); d < best {
			best = d
		}
	}
	return best
}

func TestSquaredDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want uint32
	}{
		{"identical", Point{1, 2, 3}, Point{1, 2, 3}, 0},
		{"a below b", Point{0, 0, 0}, Point{255, 255, 255}, 3 * 255 * 255},
		{"a above b", Point{255, 255, 255}, Point{0, 0, 0}, 3 * 255 * 255},
		{"mixed", Point{250, 10, 10}, Point{255, 0, 0}, 225},
		{"one dimension", Point{7}, Point{3}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SquaredDistance(tt.a, tt.b, nil))
		})
	}
}

func TestSquaredDistance_Counter(t *testing.T) {
	var c Counter
	for i := 0; i < 5; i++ {
		SquaredDistance(Point{1}, Point{2}, &c)
	}
	assert.Equal(t, uint64(5), c.Load())

	c.Reset()
	assert.Equal(t, uint64(0), c.Load())

	var nilCounter *Counter
	assert.NotPanics(t, func() { SquaredDistance(Point{1}, Point{2}, nilCounter) })
	assert.Equal(t, uint64(0), nilCounter.Load())
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil, 3)
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = Build([]Point{}, 3)
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = Build(primaries(), 0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = Build([]Point{{1, 2, 3}, {4, 5}}, 3)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	var de *DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 3, de.Expected)
	assert.Equal(t, 2, de.Actual)
	assert.Equal(t, 1, de.Index)
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	pts := primaries()
	tree, err := Build(pts, 3)
	require.NoError(t, err)

	pts[0][0] = 1
	for id := 0; id < tree.Len(); id++ {
		assert.NotEqual(t, Point{1, 0, 0}, tree.Point(NodeID(id)))
	}
}

func TestBuild_Shape(t *testing.T) {
	tree, err := Build(primaries(), 3)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Len())
	assert.Equal(t, 3, tree.Dims())

	// Stable sort on red puts (0,0,0) at the median.
	root := tree.Root()
	assert.Equal(t, Point{0, 0, 0}, tree.Point(root))
	assert.Equal(t, 4, tree.Index(root))
	assert.Equal(t, NoNode, tree.Parent(root))
	assert.Equal(t, 0, tree.SplitDim(root))

	children := tree.Children(root)
	require.Len(t, children, 2)
	low, high := children[0], children[1]

	// Both halves have two points, so each becomes a chain sorted on green.
	assert.Equal(t, Point{0, 255, 0}, tree.Point(low))
	require.Len(t, tree.Children(low), 1)
	assert.Equal(t, Point{0, 0, 255}, tree.Point(tree.Children(low)[0]))

	assert.Equal(t, Point{255, 255, 255}, tree.Point(high))
	require.Len(t, tree.Children(high), 1)
	chained := tree.Children(high)[0]
	assert.Equal(t, Point{255, 0, 0}, tree.Point(chained))

	// The chain does not advance the dimension.
	assert.Equal(t, tree.SplitDim(high), tree.SplitDim(chained))

	assert.Equal(t, high, tree.Sibling(low))
	assert.Equal(t, low, tree.Sibling(high))
	assert.Equal(t, NoNode, tree.Sibling(chained))
	assert.Equal(t, NoNode, tree.Sibling(root))
	assert.Equal(t, 2, tree.Depth(chained))
	assert.Equal(t, 3, tree.Height())
}

func TestBuild_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{1, 2, 3, 4, 5, 7, 16, 33, 100, 200} {
		pts := randomPoints(rng, n, 3)
		tree, err := Build(pts, 3)
		require.NoError(t, err)
		require.Equal(t, n, tree.Len())

		seen := make(map[int]bool)
		visited := 0
		tree.Walk(func(id NodeID, depth int) bool {
			visited++
			assert.Equal(t, depth, tree.Depth(id))
			assert.False(t, seen[tree.Index(id)], "index %d placed twice", tree.Index(id))
			seen[tree.Index(id)] = true
			assert.True(t, tree.Point(id).Equal(pts[tree.Index(id)]))

			children := tree.Children(id)
			assert.LessOrEqual(t, len(children), 2)
			for _, c := range children {
				assert.Equal(t, id, tree.Parent(c))
			}

			if len(children) == 2 {
				d := tree.SplitDim(id)
				assert.Equal(t, depth%3, d)
				split := tree.Point(id)[d]
				tree.walkFrom(children[0], func(x NodeID) {
					assert.LessOrEqual(t, tree.Point(x)[d], split)
				})
				tree.walkFrom(children[1], func(x NodeID) {
					assert.GreaterOrEqual(t, tree.Point(x)[d], split)
				})
			}
			return true
		})
		assert.Equal(t, n, visited)
	}
}

// walkFrom visits every node of the subtree rooted at id.
func (t *Tree) walkFrom(id NodeID, fn func(NodeID)) {
	fn(id)
	for _, c := range t.Children(id) {
		t.walkFrom(c, fn)
	}
}

func TestNearest_ConcreteCases(t *testing.T) {
	tree, err := Build(primaries(), 3)
	require.NoError(t, err)

	tests := []struct {
		name      string
		query     Point
		want      Point
		wantDist  uint32
		wantCalls uint64
	}{
		{"near red", Point{250, 10, 10}, Point{255, 0, 0}, 225, 3},
		{"near black", Point{10, 10, 10}, Point{0, 0, 0}, 300, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, opts := range [][]SearchOption{nil, {WithLegacyBounds()}} {
				var c Counter
				res, err := tree.Nearest(tt.query, append(opts, WithCounter(&c))...)
				require.NoError(t, err)
				assert.Equal(t, tt.want, res.Point)
				assert.Equal(t, tt.wantDist, res.Distance)
				assert.NotZero(t, c.Load())
				if opts == nil {
					assert.Equal(t, tt.wantCalls, c.Load())
				}
			}
		})
	}
}

func TestNearest_LegacyCountsSiblingRecheck(t *testing.T) {
	tree, err := Build([]Point{{10}, {20}, {30}}, 1)
	require.NoError(t, err)
	require.Len(t, tree.Children(tree.Root()), 2)

	q := Point{21}

	// leaf 30, then root 20; the plane test fails, so no sibling visit
	var exact Counter
	res, err := tree.Nearest(q, WithCounter(&exact))
	require.NoError(t, err)
	assert.Equal(t, Point{20}, res.Point)
	assert.Equal(t, uint64(2), exact.Load())

	// leaf 30, root 20, sibling 10, then 10 again after the sibling returns
	var legacy Counter
	res, err = tree.Nearest(q, WithLegacyBounds(), WithCounter(&legacy))
	require.NoError(t, err)
	assert.Equal(t, Point{20}, res.Point)
	assert.Equal(t, uint32(1), res.Distance)
	assert.Equal(t, uint64(4), legacy.Load())
}

func TestNearest_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 2, 3, 5, 8, 13, 50, 128, 200} {
		pts := randomPoints(rng, n, 3)
		tree, err := Build(pts, 3)
		require.NoError(t, err)

		for i := 0; i < 1000; i++ {
			q := randomPoints(rng, 1, 3)[0]
			res, err := tree.Nearest(q)
			require.NoError(t, err)
			require.Equal(t, linearScan(pts, q), res.Distance,
				"palette size %d, query %v, got %v", n, q, res.Point)
			require.Equal(t, SquaredDistance(q, res.Point, nil), res.Distance)
		}
	}
}

func TestNearest_OtherDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, k := range []int{1, 2, 4, 6} {
		pts := randomPoints(rng, 60, k)
		tree, err := Build(pts, k)
		require.NoError(t, err)

		for i := 0; i < 200; i++ {
			q := randomPoints(rng, 1, k)[0]
			res, err := tree.Nearest(q)
			require.NoError(t, err)
			require.Equal(t, linearScan(pts, q), res.Distance, "k=%d", k)
		}
	}
}

func TestNearest_Closure(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, legacy := range []bool{false, true} {
		pts := randomPoints(rng, 90, 3)
		tree, err := Build(pts, 3)
		require.NoError(t, err)

		var opts []SearchOption
		if legacy {
			opts = append(opts, WithLegacyBounds())
		}
		for i := 0; i < 500; i++ {
			q := randomPoints(rng, 1, 3)[0]
			res, err := tree.Nearest(q, opts...)
			require.NoError(t, err)
			require.True(t, res.Point.Equal(pts[res.Index]))
			require.Equal(t, SquaredDistance(q, pts[res.Index], nil), res.Distance)
		}
	}
}

func TestNearest_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pts := randomPoints(rng, 40, 3)
	tree, err := Build(pts, 3)
	require.NoError(t, err)

	q := Point{17, 200, 90}
	first, err := tree.Nearest(q)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := tree.Nearest(q)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNearest_Singleton(t *testing.T) {
	only := Point{12, 34, 56}
	tree, err := Build([]Point{only}, 3)
	require.NoError(t, err)
	require.Empty(t, tree.Children(tree.Root()))

	for _, q := range []Point{{0, 0, 0}, {255, 255, 255}, {12, 34, 56}, {200, 1, 99}} {
		var c Counter
		res, err := tree.Nearest(q, WithCounter(&c))
		require.NoError(t, err)
		assert.Equal(t, only, res.Point)
		assert.Equal(t, 0, res.Index)
		assert.Equal(t, uint64(1), c.Load())
	}
}

func TestNearest_ExactMatch(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pts := randomPoints(rng, 150, 3)
	tree, err := Build(pts, 3)
	require.NoError(t, err)

	for _, p := range pts {
		res, err := tree.Nearest(p)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), res.Distance)
		assert.Equal(t, p, res.Point)
	}
}

func TestNearest_Duplicates(t *testing.T) {
	pts := []Point{
		{10, 10, 10},
		{10, 10, 10},
		{200, 200, 200},
		{10, 10, 10},
		{90, 90, 90},
	}
	tree, err := Build(pts, 3)
	require.NoError(t, err)

	res, err := tree.Nearest(Point{12, 12, 12})
	require.NoError(t, err)
	assert.Equal(t, Point{10, 10, 10}, res.Point)
	assert.Equal(t, uint32(12), res.Distance)
	assert.Contains(t, []int{0, 1, 3}, res.Index)
}

func TestFindNearest_Errors(t *testing.T) {
	tree, err := Build(primaries(), 3)
	require.NoError(t, err)

	_, err = tree.Nearest(Point{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	var de *DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, -1, de.Index)

	_, err = tree.Nearest(Point{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = tree.FindNearest(NodeID(tree.Len()), Point{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = tree.FindNearest(NoNode, Point{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestFindNearest_Subtree(t *testing.T) {
	tree, err := Build(primaries(), 3)
	require.NoError(t, err)

	high := tree.Children(tree.Root())[1]
	res, err := tree.FindNearest(high, Point{0, 0, 0})
	require.NoError(t, err)

	// Only (255,255,255) and (255,0,0) live under the high child.
	assert.Equal(t, Point{255, 0, 0}, res.Point)
	assert.Equal(t, uint32(255*255), res.Distance)
}

func TestNearest_ConcurrentReaders(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	pts := randomPoints(rng, 120, 3)
	tree, err := Build(pts, 3)
	require.NoError(t, err)

	queries := randomPoints(rng, 400, 3)
	want := make([]uint32, len(queries))
	for i, q := range queries {
		want[i] = linearScan(pts, q)
	}

	var c Counter
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, q := range queries {
				res, err := tree.Nearest(q, WithCounter(&c))
				if err != nil {
					errs <- err
					return
				}
				if res.Distance != want[i] {
					errs <- errors.New("distance differs from linear scan")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.GreaterOrEqual(t, c.Load(), uint64(8*len(queries)))
}

func TestPoint_String(t *testing.T) {
	assert.Equal(t, "(255, 0, 7)", Point{255, 0, 7}.String())
	assert.Equal(t, "()", Point{}.String())
}
