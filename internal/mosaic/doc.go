// Package mosaic runs the tile mosaic pipeline.
//
// A run reads a Config, loads the tile palette and builds its search tree
// once, then divides the input photo into window panes of tiles. Each
// tile's root-mean-square color is matched to the nearest palette entry;
// panes are matched concurrently against the shared read-only tree.
//
// The matched colors are painted onto an output canvas with grout gaps,
// tallied per palette entry, and optionally exported as JSON and as a
// legend image listing every color used.
package mosaic
