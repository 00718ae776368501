package kdtree

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPalette is returned by Build when there are no points.
	ErrEmptyPalette = errors.New("kdtree: empty palette")

	// ErrDimensionMismatch is matched by every *DimensionError.
	ErrDimensionMismatch = errors.New("kdtree: dimension mismatch")

	// ErrInvalidDimension is returned when the dimension count is not positive.
	ErrInvalidDimension = errors.New("kdtree: dimension count must be positive")

	// ErrInvalidNode is returned when a NodeID does not belong to the tree.
	ErrInvalidNode = errors.New("kdtree: invalid node")
)

// DimensionError reports a point whose length differs from the tree's
// dimension count. Index is the position of the offending point in the
// input to Build, or -1 for a query point.
type DimensionError struct {
	Expected int
	Actual   int
	Index    int
}

func (e *DimensionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("kdtree: dimension mismatch at point %d: expected %d, got %d",
			e.Index, e.Expected, e.Actual)
	}
	return fmt.Sprintf("kdtree: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is lets errors.Is match a *DimensionError against ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
