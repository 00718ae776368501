package palette

import (
	"fmt"

	"github.com/ironsheep/tile-mosaic-mcp/internal/kdtree"
)

// Match is the palette entry chosen for a query color.
type Match struct {
	Entry    Entry   `json:"entry"`
	Index    int     `json:"index"`    // position of Entry in Palette.Colors
	Distance uint32  `json:"distance"` // squared RGB distance
	DeltaE   float64 `json:"delta_e"`  // CIEDE2000 difference, for reporting only
}

// Matcher answers nearest-color queries against one palette. It is built
// once and safe for concurrent use.
type Matcher struct {
	palette *Palette
	tree    *kdtree.Tree
	legacy  bool
}

// MatcherOption configures NewMatcher.
type MatcherOption func(*Matcher)

// WithLegacySearch makes the matcher use kdtree.WithLegacyBounds.
func WithLegacySearch(enabled bool) MatcherOption {
	return func(m *Matcher) { m.legacy = enabled }
}

// NewMatcher builds the search tree for p.
//
// Parameters:
//   - p: The palette to match against. Its colors are copied into the tree
//     in file order, so match indexes refer to p.Colors.
//   - opts: WithLegacySearch selects the legacy backtrack bounds.
//
// Returns:
//   - *Matcher: A matcher that is safe for concurrent Match calls.
//   - error: Non-nil if the tree cannot be built.
//
// # Errors
//
//   - An error matching kdtree.ErrEmptyPalette if p has no colors
func NewMatcher(p *Palette, opts ...MatcherOption) (*Matcher, error) {
	points := make([]kdtree.Point, len(p.Colors))
	for i := range p.Colors {
		rgb := p.Colors[i].RGB
		points[i] = kdtree.Point(rgb[:])
	}

	tree, err := kdtree.Build(points, len(RGB{}))
	if err != nil {
		return nil, fmt.Errorf("palette %q: %w", p.Name, err)
	}

	m := &Matcher{palette: p, tree: tree}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Palette returns the palette the matcher was built from.
func (m *Matcher) Palette() *Palette { return m.palette }

// Tree exposes the underlying search tree.
func (m *Matcher) Tree() *kdtree.Tree { return m.tree }

// Match returns the palette entry nearest to c. Distance evaluations are
// recorded on counter, which may be nil.
func (m *Matcher) Match(c RGB, counter *kdtree.Counter) (Match, error) {
	opts := []kdtree.SearchOption{kdtree.WithCounter(counter)}
	if m.legacy {
		opts = append(opts, kdtree.WithLegacyBounds())
	}

	res, err := m.tree.Nearest(kdtree.Point(c[:]), opts...)
	if err != nil {
		return Match{}, err
	}

	entry := m.palette.Colors[res.Index]
	return Match{
		Entry:    entry,
		Index:    res.Index,
		Distance: res.Distance,
		DeltaE:   c.Colorful().DistanceCIEDE2000(entry.RGB.Colorful()),
	}, nil
}
