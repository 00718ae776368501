package kdtree

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Point is a palette or query point with one unsigned byte per dimension.
type Point []uint8

// String renders the point as "(r, g, b)".
func (p Point) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether p and q hold the same coordinates.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Counter records how many distance evaluations were performed. A nil
// *Counter is valid and records nothing.
type Counter struct {
	n atomic.Uint64
}

// Add increments the counter by one.
func (c *Counter) Add() {
	if c != nil {
		c.n.Add(1)
	}
}

// Load returns the current count.
func (c *Counter) Load() uint64 {
	if c == nil {
		return 0
	}
	return c.n.Load()
}

// Reset sets the count back to zero.
func (c *Counter) Reset() {
	if c != nil {
		c.n.Store(0)
	}
}

// SquaredDistance returns the squared Euclidean distance between a and b and
// records the evaluation on c. Both points must have the same length; the
// tree validates this before calling.
func SquaredDistance(a, b Point, c *Counter) uint32 {
	c.Add()
	var sum uint32
	for i := range a {
		d := int32(a[i]) - int32(b[i])
		sum += uint32(d * d)
	}
	return sum
}

func planeDistance(a, b uint8) uint32 {
	d := int32(a) - int32(b)
	return uint32(d * d)
}
