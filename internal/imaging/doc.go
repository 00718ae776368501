// Package imaging provides the image side of mosaic generation: loading and
// caching input images, laying out the tile grid, averaging tile colors,
// painting matched colors onto an output canvas and saving the result.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rectangles follow the
// image.Rectangle convention: Min is inclusive, Max is exclusive.
//
// # Tile Layout
//
// A mosaic is TilesX by TilesY tiles grouped into window panes of
// PaneTilesX by PaneTilesY tiles. Only whole panes are laid out. Panes are
// ordered left to right, then top to bottom, and so are the tiles inside
// each pane.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. AverageColor only reads its source
// image, so tiles of the same image can be averaged concurrently. Canvas
// painting is not synchronized; paint from one goroutine.
package imaging
