// Package mask converts rasterized glyph images into occupancy grids.
//
// The same downsampling routine serves two purposes: building the per-tag
// ink mask from a rotated glyph raster, and stamping a silhouette image into
// the global grid so the cloud grows inside an arbitrary shape.
package mask

import (
	"image"
	"image/color"

	"github.com/fwilhelm/nimbus/pkg/cloud/grid"
)

// Thresholds is the ink predicate: a pixel counts as ink when it is both
// opaque enough and dark enough. Dark glyph strokes on a light or
// transparent probe surface satisfy it; antialiasing fringes and background
// do not.
type Thresholds struct {
	MinAlpha uint8 // pixel alpha must be >= MinAlpha
	MaxLum   int   // R+G+B (8-bit channels) must be <= MaxLum
}

// Default is tuned for black text drawn on a transparent surface, with some
// slack for antialiased edges.
var Default = Thresholds{MinAlpha: 0x20, MaxLum: 0x180}

// ink applies the predicate to one pixel.
func (t Thresholds) ink(c color.NRGBA) bool {
	return c.A >= t.MinAlpha && int(c.R)+int(c.G)+int(c.B) <= t.MaxLum
}

// Build downsamples img into a fresh grid at the given ratio. Each
// destination cell covers a ratio x ratio block of source pixels, clipped at
// the image edges; the cell is ink iff any pixel in the block satisfies th.
//
// The grid is created free with no forced edge bits, so the mask carries
// exactly the glyph's ink footprint and nothing else.
func Build(img image.Image, ratio int, th Thresholds, boundary grid.Boundary) *grid.Grid {
	b := img.Bounds()
	g := grid.New(b.Dx(), b.Dy(), ratio, false, false, boundary)
	scan(g, img, th)
	return g
}

// Stamp runs the identical downsampling over img, writing into an existing
// grid: cells covered by ink become occupied, cells covered only by
// background become free, and cells outside the image keep their fill. A
// global grid created fully occupied and then stamped with a silhouette
// blocks placement wherever the silhouette has ink and frees the rest of the
// image's extent.
func Stamp(g *grid.Grid, img image.Image, th Thresholds) {
	scan(g, img, th)
}

func scan(g *grid.Grid, img image.Image, th Thresholds) {
	b := img.Bounds()
	ratio := g.Ratio()
	cellsX := ceil(b.Dx(), ratio)
	cellsY := ceil(b.Dy(), ratio)

	for cy := 0; cy < cellsY; cy++ {
		y0 := b.Min.Y + cy*ratio
		y1 := min(y0+ratio, b.Max.Y)
		for cx := 0; cx < cellsX; cx++ {
			x0 := b.Min.X + cx*ratio
			x1 := min(x0+ratio, b.Max.X)
			g.SetCell(cx, cy, blockHasInk(img, x0, y0, x1, y1, th))
		}
	}
}

func blockHasInk(img image.Image, x0, y0, x1, y1 int, th Thresholds) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if th.ink(c) {
				return true
			}
		}
	}
	return false
}

func ceil(a, b int) int { return (a + b - 1) / b }
