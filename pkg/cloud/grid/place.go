package grid

import "math"

// TryPlace tests whether mask, positioned with its top-left corner at canvas
// pixel coordinates (x, y), overlaps any occupied cell of g. The position
// need not be aligned to the downsample ratio or to a word boundary.
//
// The test and the merge run as two separate passes so a failed test never
// partially mutates the grid: on any collision TryPlace returns false and g
// is untouched; otherwise the mask is OR-merged into g and TryPlace returns
// true.
func (g *Grid) TryPlace(mask *Grid, x, y int) bool {
	cellX := floorDiv(x, g.ratio)
	cellY := floorDiv(y, g.ratio)
	wordX := floorDiv(cellX, wordBits)
	off := uint(floorMod(cellX, wordBits))

	// Pass 1: reconstruct, for every mask word, the bit-aligned window of
	// the grid it would land on, and test for overlap.
	for i := range mask.rows {
		r := cellY + i
		for j, mw := range mask.rows[i] {
			if mw == 0 {
				continue
			}
			win := g.word(r, wordX+j) << off
			if off != 0 {
				win |= g.word(r, wordX+j+1) >> (wordBits - off)
			}
			if win&mw != 0 {
				return false
			}
		}
	}

	// Pass 2: merge at the same alignment.
	for i := range mask.rows {
		r := cellY + i
		for j, mw := range mask.rows[i] {
			if mw == 0 {
				continue
			}
			g.orWord(r, wordX+j, mw>>off)
			if off != 0 {
				g.orWord(r, wordX+j+1, mw<<(wordBits-off))
			}
		}
	}
	return true
}

// Place searches for a collision-free position for mask, starting centered
// on the canvas and spiralling outward in square rings whose vertical step is
// scaled by the canvas aspect ratio, so the probe pattern matches the canvas
// shape rather than a square.
//
// The first accepted position is returned immediately and the mask is
// already merged into g. Probes whose bounding box lies fully outside
// [-maskW, W] x [-maskH, H] are skipped without testing. The search gives up
// once half the ring counter exceeds the cell distance from the start point
// to the farthest canvas edge, and reports ok=false.
func (g *Grid) Place(mask *Grid) (x, y int, ok bool) {
	startX := (g.width - mask.width) / 2
	startY := (g.height - mask.height) / 2

	if g.TryPlace(mask, startX, startY) {
		return startX, startY, true
	}

	bound := max4(startX, g.width-startX, startY, g.height-startY)/g.ratio + 1
	aspect := float64(g.height) / float64(g.width)

	x, y = startX, startY
	dx, dy := 1, 1
	for step := 1; step/2 <= bound; step++ {
		for i := 0; i < step; i++ {
			x += dx * g.ratio
			if g.probe(mask, x, y) {
				return x, y, true
			}
		}
		dx = -dx

		ySteps := int(math.Round(float64(step) * aspect))
		for i := 0; i < ySteps; i++ {
			y += dy * g.ratio
			if g.probe(mask, x, y) {
				return x, y, true
			}
		}
		dy = -dy
	}
	return 0, 0, false
}

// probe tests one candidate position, skipping positions that cannot
// intersect the canvas at all.
func (g *Grid) probe(mask *Grid, x, y int) bool {
	if x < -mask.width || x > g.width || y < -mask.height || y > g.height {
		return false
	}
	return g.TryPlace(mask, x, y)
}

func max4(a, b, c, d int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}
