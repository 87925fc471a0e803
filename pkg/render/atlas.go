package render

import (
	"image"
	"image/color"
)

// Atlas layout: AtlasTiles x AtlasTiles tiles of TileSize pixels each.
const (
	AtlasTiles = 16
	TileSize   = 16
)

type tileStyle struct {
	base   color.NRGBA
	accent *color.NRGBA // band across the top quarter
	border bool
	jitter uint8
}

var tileStyles = map[int]tileStyle{
	0:   {base: color.NRGBA{95, 159, 53, 255}, jitter: 24},
	1:   {base: color.NRGBA{125, 125, 125, 255}, jitter: 20},
	2:   {base: color.NRGBA{134, 96, 67, 255}, jitter: 20},
	3:   {base: color.NRGBA{134, 96, 67, 255}, accent: &color.NRGBA{95, 159, 53, 255}, jitter: 20},
	4:   {base: color.NRGBA{162, 130, 78, 255}, jitter: 12},
	16:  {base: color.NRGBA{110, 110, 110, 255}, border: true, jitter: 36},
	17:  {base: color.NRGBA{60, 60, 60, 255}, jitter: 40},
	18:  {base: color.NRGBA{219, 207, 163, 255}, jitter: 14},
	20:  {base: color.NRGBA{102, 81, 51, 255}, jitter: 18},
	21:  {base: color.NRGBA{150, 120, 75, 255}, border: true, jitter: 10},
	49:  {base: color.NRGBA{200, 230, 240, 60}, border: true},
	52:  {base: color.NRGBA{58, 110, 40, 200}, jitter: 30},
	54:  {base: color.NRGBA{122, 122, 122, 255}, border: true, jitter: 10},
	66:  {base: color.NRGBA{240, 250, 250, 255}, jitter: 6},
	68:  {base: color.NRGBA{134, 96, 67, 255}, accent: &color.NRGBA{240, 250, 250, 255}, jitter: 20},
	205: {base: color.NRGBA{48, 92, 200, 160}, jitter: 10},
}

var missingTile = tileStyle{base: color.NRGBA{255, 0, 255, 255}}

// BuildAtlas paints the block texture atlas. Every tile referenced by a block
// type gets a flat colour with a little per-pixel variation; unused tiles are
// magenta.
func BuildAtlas() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, AtlasTiles*TileSize, AtlasTiles*TileSize))
	for tile := range AtlasTiles * AtlasTiles {
		style, ok := tileStyles[tile]
		if !ok {
			style = missingTile
		}
		ox, oy := (tile%AtlasTiles)*TileSize, (tile/AtlasTiles)*TileSize
		for py := range TileSize {
			for px := range TileSize {
				img.SetNRGBA(ox+px, oy+py, style.pixel(tile, px, py))
			}
		}
	}
	return img
}

// TileOrigin returns the top-left pixel of a tile in the atlas.
func TileOrigin(tile int) image.Point {
	return image.Pt((tile%AtlasTiles)*TileSize, (tile/AtlasTiles)*TileSize)
}

func (s tileStyle) pixel(tile, px, py int) color.NRGBA {
	c := s.base
	if s.accent != nil && py < TileSize/4 {
		c = *s.accent
	}
	if s.border && (px == 0 || py == 0 || px == TileSize-1 || py == TileSize-1) {
		c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
		if c.A < 255 {
			c.A = 220
		}
		return c
	}
	if s.jitter > 0 {
		d := int(hash(tile, px, py)%uint32(s.jitter)) - int(s.jitter)/2
		c.R, c.G, c.B = shade(c.R, d), shade(c.G, d), shade(c.B, d)
	}
	return c
}

func hash(tile, x, y int) uint32 {
	h := uint32(tile)*73856093 ^ uint32(x)*19349663 ^ uint32(y)*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	return h ^ h>>15
}

func shade(v uint8, d int) uint8 {
	return uint8(min(max(int(v)+d, 0), 255))
}
