package mosaic

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/tile-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/tile-mosaic-mcp/internal/kdtree"
	"github.com/ironsheep/tile-mosaic-mcp/internal/palette"
)

// TileResult is one tile of a mosaic with its averaged input color and,
// once matched, the palette entry chosen for it.
type TileResult struct {
	Row     int              `json:"row"`
	Col     int              `json:"col"`
	Rect    image.Rectangle  `json:"rect"`
	Average imaging.RGBColor `json:"average"`
	Match   *palette.Match   `json:"match,omitempty"`
}

// PaneResult is one window pane of a mosaic.
type PaneResult struct {
	Index int          `json:"index"`
	Row   int          `json:"row"`
	Col   int          `json:"col"`
	Tiles []TileResult `json:"tiles"`
}

// Mosaic is the tile grid laid over one input image.
type Mosaic struct {
	Layout *imaging.Layout
	Panes  []PaneResult

	src *image.RGBA
}

// New lays the tile grid described by cfg over img. When cfg.SmoothRadius
// is positive the image is box blurred first.
func New(cfg *Config, img image.Image) (*Mosaic, error) {
	tilesX, tilesY := cfg.TileCounts()
	src := imaging.Smooth(img, cfg.SmoothRadius)

	layout, err := imaging.NewLayout(src.Bounds(), tilesX, tilesY, cfg.TilesPerPaneWidth, cfg.TilesPerPaneHeight)
	if err != nil {
		return nil, err
	}

	panes := layout.Panes()
	m := &Mosaic{
		Layout: layout,
		Panes:  make([]PaneResult, len(panes)),
		src:    src,
	}
	for i, p := range panes {
		pr := PaneResult{Index: p.Index, Row: p.Row, Col: p.Col, Tiles: make([]TileResult, len(p.Tiles))}
		for j, t := range p.Tiles {
			pr.Tiles[j] = TileResult{Row: t.Row, Col: t.Col, Rect: t.Rect}
		}
		m.Panes[i] = pr
	}
	return m, nil
}

// TileCount returns the number of tiles across all panes.
func (m *Mosaic) TileCount() int {
	n := 0
	for _, p := range m.Panes {
		n += len(p.Tiles)
	}
	return n
}

// Sample computes the average color of every tile. Panes are processed by
// up to workers goroutines.
func (m *Mosaic) Sample(ctx context.Context, workers int) error {
	return m.forEachPane(ctx, workers, func(p *PaneResult) error {
		for i := range p.Tiles {
			t := &p.Tiles[i]
			avg, ok := imaging.AverageColor(m.src, t.Rect)
			if !ok {
				return fmt.Errorf("tile (%d,%d): empty region %v", t.Row, t.Col, t.Rect)
			}
			t.Average = avg
		}
		return nil
	})
}

// Match assigns the nearest palette entry to every sampled tile. The
// matcher's tree is shared read-only by all workers; distance evaluations
// are recorded on counter, which may be nil.
func (m *Mosaic) Match(ctx context.Context, matcher *palette.Matcher, workers int, counter *kdtree.Counter) error {
	return m.forEachPane(ctx, workers, func(p *PaneResult) error {
		for i := range p.Tiles {
			t := &p.Tiles[i]
			c := palette.RGB{t.Average.R, t.Average.G, t.Average.B}
			match, err := matcher.Match(c, counter)
			if err != nil {
				return fmt.Errorf("tile (%d,%d): %w", t.Row, t.Col, err)
			}
			t.Match = &match
		}
		return nil
	})
}

func (m *Mosaic) forEachPane(ctx context.Context, workers int, fn func(*PaneResult) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range m.Panes {
		p := &m.Panes[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(p)
		})
	}

	return g.Wait()
}

// Paint renders the matched tiles onto a canvas sized by cfg. Unmatched
// tiles are left as grout.
func (m *Mosaic) Paint(cfg *Config) (*imaging.Canvas, error) {
	canvas, err := imaging.NewCanvas(imaging.CanvasSpec{
		Width:         cfg.OutputWidth,
		Height:        cfg.OutputHeight,
		TileSizeX:     cfg.TileSizeX,
		TileSizeY:     cfg.TileSizeY,
		TileSpaceX:    cfg.TileSpaceX,
		TileSpaceY:    cfg.TileSpaceY,
		PixelsPerUnit: cfg.PixelsPerUnit,
		Grout:         cfg.Grout(),
	})
	if err != nil {
		return nil, err
	}

	for _, p := range m.Panes {
		for _, t := range p.Tiles {
			if t.Match == nil {
				continue
			}
			rgb := t.Match.Entry.RGB
			canvas.PaintTile(t.Row, t.Col, imaging.RGBColor{R: rgb[0], G: rgb[1], B: rgb[2]})
		}
	}
	return canvas, nil
}

// MeanDeltaE returns the average CIEDE2000 difference between each tile's
// average color and its match, or 0 when nothing is matched.
func (m *Mosaic) MeanDeltaE() float64 {
	var sum float64
	n := 0
	for _, p := range m.Panes {
		for _, t := range p.Tiles {
			if t.Match != nil {
				sum += t.Match.DeltaE
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
