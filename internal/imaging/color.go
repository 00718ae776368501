package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is a color in HSL space: hue in degrees (0-360), saturation and
// lightness in percent (0-100).
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorResult carries one color in the representations reported by the
// server tools.
type ColorResult struct {
	Hex string   `json:"hex"`
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// Describe converts c into a ColorResult.
func Describe(c RGBColor) ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return ColorResult{
		Hex: cf.Hex(),
		RGB: c,
		HSL: NewHSLColor(cf.Hsl()),
	}
}

// NewHSLColor rounds a hue in degrees and saturation and lightness in [0, 1]
// to an HSLColor.
func NewHSLColor(h, s, l float64) HSLColor {
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ToRGBA returns img as an *image.RGBA so pixels can be read directly from
// Pix. An *image.RGBA is returned as is; anything else is copied.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	return clone.AsRGBA(img)
}

// Smooth applies a box blur of the given radius. A radius of zero or less
// returns img converted by ToRGBA.
func Smooth(img image.Image, radius float64) *image.RGBA {
	if radius <= 0 {
		return ToRGBA(img)
	}
	return blur.Box(img, radius)
}

// AverageColor returns the root-mean-square color of the pixels of img
// inside r. Components are truncated to 8 bits.
//
// r is clipped to the image bounds; if nothing remains, ok is false.
// Alpha is ignored.
func AverageColor(img *image.RGBA, r image.Rectangle) (c RGBColor, ok bool) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return RGBColor{}, false
	}

	var sumR, sumG, sumB float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			pr, pg, pb := float64(row[i]), float64(row[i+1]), float64(row[i+2])
			sumR += pr * pr
			sumG += pg * pg
			sumB += pb * pb
		}
	}

	n := float64(r.Dx() * r.Dy())
	return RGBColor{
		R: uint8(math.Sqrt(sumR / n)),
		G: uint8(math.Sqrt(sumG / n)),
		B: uint8(math.Sqrt(sumB / n)),
	}, true
}
