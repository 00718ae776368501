package mosaic

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Legend layout in pixels. basicfont.Face7x13 glyphs are 7 pixels wide and
// 13 pixels tall.
const (
	legendPad      = 8
	legendRow      = 24
	legendSwatch   = 18
	legendGlyphW   = 7
	legendBaseline = 16
)

// RenderLegend draws one row per tally entry: a swatch of the tile color
// followed by its count, number and name. The first row is a title.
func RenderLegend(title string, tally []TallyEntry) *image.RGBA {
	lines := make([]string, len(tally))
	widest := len(title)
	for i, e := range tally {
		lines[i] = fmt.Sprintf("%5d x  %s  %s", e.Count, e.Entry.Label(), e.Entry.Hex)
		widest = max(widest, len(lines[i]))
	}

	textX := legendPad + legendSwatch + legendPad
	width := textX + widest*legendGlyphW + legendPad
	height := legendPad*2 + legendRow*(len(tally)+1)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawLegendText(img, legendPad, legendPad+legendBaseline, title)

	for i, e := range tally {
		top := legendPad + legendRow*(i+1)
		swatch := image.Rect(legendPad, top+2, legendPad+legendSwatch, top+2+legendSwatch)
		draw.Draw(img, swatch, image.Black, image.Point{}, draw.Src)
		rgb := e.Entry.RGB
		fill := image.NewUniform(color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		draw.Draw(img, swatch.Inset(1), fill, image.Point{}, draw.Src)

		drawLegendText(img, textX, top+legendBaseline, lines[i])
	}

	return img
}

func drawLegendText(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
