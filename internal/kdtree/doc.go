// Package kdtree implements the nearest-neighbor search used to map tile
// colors onto a fixed palette.
//
// A Tree is built once from the palette points with Build and is read-only
// afterwards. Nodes live in a flat arena and are addressed by NodeID, so a
// built tree can be shared by any number of goroutines calling FindNearest
// without synchronization.
//
// # Construction
//
// Build sorts the working copy of the points by the active dimension and
// places the median (index len/2) at each level, rotating the dimension per
// level. A sub-list of exactly two points becomes a two-level chain: the
// larger point is attached to the target node and the smaller point under
// it, without advancing the dimension between the two.
//
// # Search
//
// FindNearest descends from a starting node to a leaf, then walks back up to
// the starting node, checking each parent and searching the unvisited
// sibling subtree whenever its splitting plane is closer than the current
// best distance. Distances are squared Euclidean and every evaluation is
// recorded on an optional Counter.
//
// # Search Modes
//
// The default bounds are exact: the plane test uses the query coordinate at
// the parent's split dimension and sibling searches keep their true depth.
// WithLegacyBounds reproduces the older bounds, which compare the parent
// against the current best at the next deeper dimension and restart sibling
// searches at dimension 0. Legacy mode also re-evaluates the distance to the
// point returned by each sibling search, so its Counter totals include one
// extra evaluation per sibling visited. Legacy results are always palette
// members but are not guaranteed to be the nearest.
package kdtree
