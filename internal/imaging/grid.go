package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidLayout is returned when tile or pane counts cannot describe a
// mosaic.
var ErrInvalidLayout = errors.New("invalid tile layout")

// Layout maps a mosaic's tile grid onto the pixels of an input image.
type Layout struct {
	Bounds     image.Rectangle `json:"bounds"`       // input image bounds
	TilesX     int             `json:"tiles_x"`      // tiles across the mosaic
	TilesY     int             `json:"tiles_y"`      // tiles down the mosaic
	PaneTilesX int             `json:"pane_tiles_x"` // tiles across one pane
	PaneTilesY int             `json:"pane_tiles_y"` // tiles down one pane
	TileW      int             `json:"tile_w"`       // input pixels per tile, horizontally
	TileH      int             `json:"tile_h"`       // input pixels per tile, vertically
}

// Tile is one cell of the mosaic.
type Tile struct {
	Pane int             `json:"pane"` // index of the owning pane
	Row  int             `json:"row"`  // row in the whole mosaic
	Col  int             `json:"col"`  // column in the whole mosaic
	Rect image.Rectangle `json:"rect"` // input pixels covered by the tile
}

// Pane is a block of tiles that is assembled as one unit.
type Pane struct {
	Index int    `json:"index"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Tiles []Tile `json:"tiles"`
}

// TileCounts returns how many tiles of the given size fit the output size,
// rounding to the nearest whole tile: less than half a tile is left out,
// more than half a tile is included.
func TileCounts(outputWidth, outputHeight, tileSizeX, tileSizeY float64) (int, int) {
	if tileSizeX <= 0 || tileSizeY <= 0 {
		return 0, 0
	}
	return int(math.Round(outputWidth / tileSizeX)), int(math.Round(outputHeight / tileSizeY))
}

// NewLayout divides bounds into tilesX by tilesY tiles grouped into panes
// of paneTilesX by paneTilesY. The tile pixel size is the image size divided
// by the tile count, rounded to the nearest pixel.
//
// Returns an error wrapping ErrInvalidLayout when any count is not positive,
// a pane is larger than the mosaic, or the image has fewer pixels than tiles.
func NewLayout(bounds image.Rectangle, tilesX, tilesY, paneTilesX, paneTilesY int) (*Layout, error) {
	switch {
	case tilesX <= 0 || tilesY <= 0:
		return nil, fmt.Errorf("%w: tile counts %dx%d must be positive", ErrInvalidLayout, tilesX, tilesY)
	case paneTilesX <= 0 || paneTilesY <= 0:
		return nil, fmt.Errorf("%w: pane size %dx%d must be positive", ErrInvalidLayout, paneTilesX, paneTilesY)
	case paneTilesX > tilesX || paneTilesY > tilesY:
		return nil, fmt.Errorf("%w: pane %dx%d larger than mosaic %dx%d",
			ErrInvalidLayout, paneTilesX, paneTilesY, tilesX, tilesY)
	case bounds.Dx() < tilesX || bounds.Dy() < tilesY:
		return nil, fmt.Errorf("%w: image %dx%d smaller than %dx%d tiles",
			ErrInvalidLayout, bounds.Dx(), bounds.Dy(), tilesX, tilesY)
	}

	return &Layout{
		Bounds:     bounds,
		TilesX:     tilesX,
		TilesY:     tilesY,
		PaneTilesX: paneTilesX,
		PaneTilesY: paneTilesY,
		TileW:      int(math.Round(float64(bounds.Dx()) / float64(tilesX))),
		TileH:      int(math.Round(float64(bounds.Dy()) / float64(tilesY))),
	}, nil
}

// PaneRows returns the number of whole pane rows.
func (l *Layout) PaneRows() int { return l.TilesY / l.PaneTilesY }

// PaneCols returns the number of whole pane columns.
func (l *Layout) PaneCols() int { return l.TilesX / l.PaneTilesX }

// UsedTilesX returns the number of tile columns covered by whole panes.
func (l *Layout) UsedTilesX() int { return l.PaneCols() * l.PaneTilesX }

// UsedTilesY returns the number of tile rows covered by whole panes.
func (l *Layout) UsedTilesY() int { return l.PaneRows() * l.PaneTilesY }

// TileRect returns the input pixels for the tile at row, col. Rounding the
// tile size up can push the last tiles past the image edge; such tiles are
// clamped so they always cover at least the final pixel column or row.
func (l *Layout) TileRect(row, col int) image.Rectangle {
	x0 := l.Bounds.Min.X + col*l.TileW
	y0 := l.Bounds.Min.Y + row*l.TileH
	x1 := min(x0+l.TileW, l.Bounds.Max.X)
	y1 := min(y0+l.TileH, l.Bounds.Max.Y)
	x0 = min(x0, l.Bounds.Max.X-1)
	y0 = min(y0, l.Bounds.Max.Y-1)
	return image.Rect(x0, y0, max(x1, x0+1), max(y1, y0+1))
}

// Panes lays out every whole pane. Panes run left to right, then top to
// bottom; tiles within a pane follow the same order.
func (l *Layout) Panes() []Pane {
	rows, cols := l.PaneRows(), l.PaneCols()
	panes := make([]Pane, 0, rows*cols)

	for pr := 0; pr < rows; pr++ {
		for pc := 0; pc < cols; pc++ {
			p := Pane{
				Index: len(panes),
				Row:   pr,
				Col:   pc,
				Tiles: make([]Tile, 0, l.PaneTilesX*l.PaneTilesY),
			}
			for tr := 0; tr < l.PaneTilesY; tr++ {
				for tc := 0; tc < l.PaneTilesX; tc++ {
					row := pr*l.PaneTilesY + tr
					col := pc*l.PaneTilesX + tc
					p.Tiles = append(p.Tiles, Tile{
						Pane: p.Index,
						Row:  row,
						Col:  col,
						Rect: l.TileRect(row, col),
					})
				}
			}
			panes = append(panes, p)
		}
	}

	return panes
}
