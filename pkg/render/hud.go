package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const hudPadding = 4

var hudBackground = color.NRGBA{0, 0, 0, 140}

// DrawHUD renders lines of text onto a translucent panel sized to fit them.
func DrawHUD(lines []string) *image.NRGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	img := image.NewNRGBA(image.Rect(0, 0, width+2*hudPadding, len(lines)*lineHeight+2*hudPadding))
	draw.Draw(img, img.Bounds(), image.NewUniform(hudBackground), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(hudPadding, hudPadding+i*lineHeight+metrics.Ascent.Ceil())
		d.DrawString(line)
	}
	return img
}
