package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawHUDSizesPanelToText(t *testing.T) {
	short := DrawHUD([]string{"fps 60"})
	long := DrawHUD([]string{"fps 60", "chunks 1089/1089 visible"})

	assert.Greater(t, long.Bounds().Dx(), short.Bounds().Dx())
	assert.Greater(t, long.Bounds().Dy(), short.Bounds().Dy())

	// 7px wide glyphs plus padding on both sides.
	assert.Equal(t, len("fps 60")*7+2*hudPadding, short.Bounds().Dx())
}

func TestDrawHUDPaintsText(t *testing.T) {
	img := DrawHUD([]string{"####"})

	corner := img.NRGBAAt(0, 0)
	assert.Equal(t, hudBackground, corner)

	white := 0
	for y := range img.Bounds().Dy() {
		for x := range img.Bounds().Dx() {
			if c := img.NRGBAAt(x, y); c.R == 0xff && c.G == 0xff && c.B == 0xff {
				white++
			}
		}
	}
	assert.Positive(t, white)
}

func TestDrawHUDEmpty(t *testing.T) {
	img := DrawHUD(nil)
	assert.Equal(t, 2*hudPadding, img.Bounds().Dx())
	assert.Equal(t, 2*hudPadding, img.Bounds().Dy())
}
