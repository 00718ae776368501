package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// CanvasSpec sizes the output mosaic. Lengths are in output units (for
// example millimetres) and PixelsPerUnit converts them to pixels.
type CanvasSpec struct {
	Width         float64
	Height        float64
	TileSizeX     float64 // distance between tile origins, horizontally
	TileSizeY     float64 // distance between tile origins, vertically
	TileSpaceX    float64 // grout gap to the right of each tile
	TileSpaceY    float64 // grout gap below each tile
	PixelsPerUnit float64
	Grout         color.Color
}

// Canvas is the output image tiles are painted onto.
type Canvas struct {
	spec CanvasSpec
	img  *image.NRGBA
}

// NewCanvas allocates a canvas filled with the grout color.
func NewCanvas(spec CanvasSpec) (*Canvas, error) {
	if spec.PixelsPerUnit <= 0 {
		spec.PixelsPerUnit = 1
	}
	if spec.Grout == nil {
		spec.Grout = color.White
	}
	if spec.TileSizeX <= 0 || spec.TileSizeY <= 0 {
		return nil, fmt.Errorf("%w: tile size %gx%g must be positive", ErrInvalidLayout, spec.TileSizeX, spec.TileSizeY)
	}
	if spec.TileSpaceX < 0 || spec.TileSpaceY < 0 ||
		spec.TileSpaceX >= spec.TileSizeX || spec.TileSpaceY >= spec.TileSizeY {
		return nil, fmt.Errorf("%w: tile spacing %gx%g must be smaller than tile size %gx%g",
			ErrInvalidLayout, spec.TileSpaceX, spec.TileSpaceY, spec.TileSizeX, spec.TileSizeY)
	}

	w := int(math.Round(spec.Width * spec.PixelsPerUnit))
	h := int(math.Round(spec.Height * spec.PixelsPerUnit))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d pixels", ErrInvalidLayout, w, h)
	}

	return &Canvas{
		spec: spec,
		img:  imaging.New(w, h, spec.Grout),
	}, nil
}

// CellRect returns the pixels painted for the tile at row, col, excluding
// its grout gap. The result is clipped to the canvas and may be empty.
func (c *Canvas) CellRect(row, col int) image.Rectangle {
	s := c.spec
	px := func(v float64) int { return int(math.Round(v * s.PixelsPerUnit)) }

	x0 := px(float64(col) * s.TileSizeX)
	y0 := px(float64(row) * s.TileSizeY)
	x1 := max(px(float64(col+1)*s.TileSizeX-s.TileSpaceX), x0+1)
	y1 := max(px(float64(row+1)*s.TileSizeY-s.TileSpaceY), y0+1)

	return image.Rect(x0, y0, x1, y1).Intersect(c.img.Bounds())
}

// PaintTile fills the tile at row, col with rgb.
func (c *Canvas) PaintTile(row, col int, rgb RGBColor) {
	r := c.CellRect(row, col)
	if r.Empty() {
		return
	}
	src := image.NewUniform(color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
	draw.Draw(c.img, r, src, image.Point{}, draw.Src)
}

// Image returns the painted canvas.
func (c *Canvas) Image() *image.NRGBA { return c.img }
