package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageColor_Solid(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{200, 100, 50, 255})

	got, ok := AverageColor(img, img.Bounds())
	require.True(t, ok, "AverageColor reported an empty region")
	assert.Equal(t, RGBColor{200, 100, 50}, got)
}

func TestAverageColor_RootMeanSquare(t *testing.T) {
	// Half black, half white: a plain mean gives 127, RMS gives 180.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})

	got, ok := AverageColor(img, img.Bounds())
	require.True(t, ok, "AverageColor reported an empty region")
	assert.Equal(t, RGBColor{180, 180, 180}, got)
}

func TestAverageColor_Regions(t *testing.T) {
	img := quadrantImage(100, 100)

	tests := []struct {
		name string
		rect image.Rectangle
		want RGBColor
	}{
		{"top-left", image.Rect(0, 0, 50, 50), RGBColor{255, 0, 0}},
		{"top-right", image.Rect(50, 0, 100, 50), RGBColor{0, 255, 0}},
		{"bottom-left", image.Rect(0, 50, 50, 100), RGBColor{0, 0, 255}},
		{"bottom-right", image.Rect(50, 50, 100, 100), RGBColor{255, 255, 255}},
		{"clipped", image.Rect(90, 90, 150, 150), RGBColor{255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AverageColor(img, tt.rect)
			require.True(t, ok, "AverageColor reported an empty region")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAverageColor_Empty(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{1, 2, 3, 255})
	_, ok := AverageColor(img, image.Rect(20, 20, 30, 30))
	assert.False(t, ok, "region outside the image should be reported empty")
}

func TestAverageColor_OffsetOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 9, 9))
	for y := 5; y < 9; y++ {
		for x := 5; x < 9; x++ {
			img.Set(x, y, color.RGBA{40, 80, 120, 255})
		}
	}
	got, ok := AverageColor(img, image.Rect(6, 6, 8, 8))
	require.True(t, ok)
	assert.Equal(t, RGBColor{40, 80, 120}, got)
}

func TestToRGBA(t *testing.T) {
	rgba := solidImage(4, 4, color.RGBA{9, 9, 9, 255})
	assert.Same(t, rgba, ToRGBA(rgba), "an *image.RGBA should be returned unchanged")

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 77
	}
	conv := ToRGBA(gray)
	got, _ := AverageColor(conv, conv.Bounds())
	assert.Equal(t, RGBColor{77, 77, 77}, got)
}

func TestSmooth(t *testing.T) {
	img := solidImage(8, 8, color.RGBA{100, 150, 200, 255})

	assert.Same(t, img, Smooth(img, 0), "radius 0 should not copy an *image.RGBA")

	blurred := Smooth(img, 2)
	assert.Equal(t, img.Bounds(), blurred.Bounds())
	got, _ := AverageColor(blurred, image.Rect(3, 3, 5, 5))
	for _, v := range []uint8{got.R, got.G, got.B} {
		assert.NotZero(t, v, "blurred solid image lost its color: %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		c       RGBColor
		wantHex string
		wantHSL HSLColor
	}{
		{"red", RGBColor{255, 0, 0}, "#ff0000", HSLColor{0, 100, 50}},
		{"green", RGBColor{0, 255, 0}, "#00ff00", HSLColor{120, 100, 50}},
		{"blue", RGBColor{0, 0, 255}, "#0000ff", HSLColor{240, 100, 50}},
		{"white", RGBColor{255, 255, 255}, "#ffffff", HSLColor{0, 0, 100}},
		{"black", RGBColor{0, 0, 0}, "#000000", HSLColor{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.c)
			assert.Equal(t, tt.wantHex, got.Hex)
			assert.Equal(t, tt.wantHSL, got.HSL)
			assert.Equal(t, tt.c, got.RGB)
		})
	}
}

func TestNewHSLColor(t *testing.T) {
	assert.Equal(t, HSLColor{0, 100, 50}, NewHSLColor(0, 1, 0.5))
	assert.Equal(t, HSLColor{0, 0, 100}, NewHSLColor(359.6, 0, 1), "hue wraps at 360")
	assert.Equal(t, HSLColor{210, 33, 67}, NewHSLColor(209.7, 0.333, 0.666))
}
