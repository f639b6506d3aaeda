// Package grid implements the downsampled occupancy bitmap at the heart of
// the cloud layout engine.
//
// A Grid covers a canvas of Width x Height pixels at a reduced resolution:
// every Ratio x Ratio pixel block maps to one cell, and cells are packed 32
// to a word. Bit k of a word, counted from the most significant bit,
// represents cell column w*32+k; a set bit means the cell is occupied.
//
// Two kinds of grids exist with the same representation: the global
// occupancy grid for a whole canvas, and per-tag masks covering one rotated
// glyph's bounding box. Masks are tested against and merged into the global
// grid by TryPlace.
package grid

// wordBits is the width of one packed row word.
const wordBits = 32

// Boundary controls how reads outside the grid behave.
type Boundary int

const (
	// BoundaryStrict treats out-of-range cells as occupied, so nothing can
	// be placed touching or beyond the canvas edge.
	BoundaryStrict Boundary = iota

	// BoundaryPermissive treats out-of-range cells as free, allowing tags to
	// extend past the canvas and be visually clipped.
	BoundaryPermissive
)

// String returns the boundary mode name.
func (b Boundary) String() string {
	if b == BoundaryStrict {
		return "strict"
	}
	return "permissive"
}

// Grid is a mutable occupancy bitmap. It is merge-only: cells can be set but
// never unset, and a fresh Grid is built whenever the occupancy must be
// discarded. Grid is not safe for concurrent use.
type Grid struct {
	width    int // canvas extent in pixels
	height   int
	ratio    int // downsample factor, >= 1
	boundary Boundary

	cells int // downsampled columns per row
	rows  [][]uint32
}

// New creates a grid for a width x height pixel canvas downsampled by ratio.
// Every word starts free or fully occupied according to occupied.
//
// The final word of each row may cover cells beyond the true downsampled
// width. Those trailing bits are forced occupied when padEdge is set and the
// boundary is strict, so placements cannot use the partial word at the right
// edge; in every other case they are forced free. The global grid is created
// with padEdge true, tag masks with padEdge false so a mask never carries
// artificial ink.
func New(width, height, ratio int, occupied, padEdge bool, boundary Boundary) *Grid {
	if ratio < 1 {
		ratio = 1
	}
	cells := ceilDiv(width, ratio)
	nrows := ceilDiv(height, ratio)
	words := ceilDiv(cells, wordBits)
	if words < 1 {
		words = 1
	}
	if nrows < 1 {
		nrows = 1
	}

	var fill uint32
	if occupied {
		fill = ^uint32(0)
	}

	// Trailing bits of the last word, past the downsampled width.
	var tail uint32
	if rem := cells % wordBits; rem != 0 {
		tail = ^uint32(0) >> uint(rem)
	}

	g := &Grid{
		width:    width,
		height:   height,
		ratio:    ratio,
		boundary: boundary,
		cells:    cells,
		rows:     make([][]uint32, nrows),
	}
	for i := range g.rows {
		row := make([]uint32, words)
		for j := range row {
			row[j] = fill
		}
		if tail != 0 {
			if padEdge && boundary == BoundaryStrict {
				row[words-1] |= tail
			} else {
				row[words-1] &^= tail
			}
		}
		g.rows[i] = row
	}
	return g
}

// Width returns the covered canvas width in pixels.
func (g *Grid) Width() int { return g.width }

// Height returns the covered canvas height in pixels.
func (g *Grid) Height() int { return g.height }

// Ratio returns the downsample factor.
func (g *Grid) Ratio() int { return g.ratio }

// Cells returns the number of downsampled columns per row.
func (g *Grid) Cells() int { return g.cells }

// Rows returns the number of downsampled rows.
func (g *Grid) Rows() int { return len(g.rows) }

// Words returns the number of packed words per row.
func (g *Grid) Words() int { return len(g.rows[0]) }

// Boundary returns the out-of-range read policy.
func (g *Grid) Boundary() Boundary { return g.boundary }

// Cell reports whether the cell at downsampled coordinates (x, y) is
// occupied. Out-of-range cells follow the boundary policy.
func (g *Grid) Cell(x, y int) bool {
	if x < 0 || x >= g.cells || y < 0 || y >= len(g.rows) {
		return g.out() != 0
	}
	w := g.rows[y][x/wordBits]
	return w&cellBit(x) != 0
}

// SetCell marks the cell at downsampled coordinates (x, y) occupied or free.
// Out-of-range coordinates are ignored.
func (g *Grid) SetCell(x, y int, occupied bool) {
	if x < 0 || x >= g.cells || y < 0 || y >= len(g.rows) {
		return
	}
	if occupied {
		g.rows[y][x/wordBits] |= cellBit(x)
	} else {
		g.rows[y][x/wordBits] &^= cellBit(x)
	}
}

// Occupied counts the occupied cells within the downsampled extent.
func (g *Grid) Occupied() int {
	n := 0
	for y := 0; y < len(g.rows); y++ {
		for x := 0; x < g.cells; x++ {
			if g.Cell(x, y) {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy sharing no storage with g.
func (g *Grid) Clone() *Grid {
	c := *g
	c.rows = make([][]uint32, len(g.rows))
	for i, row := range g.rows {
		c.rows[i] = append([]uint32(nil), row...)
	}
	return &c
}

// Equal reports whether g and o have identical extents and occupancy.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height || g.ratio != o.ratio {
		return false
	}
	if len(g.rows) != len(o.rows) {
		return false
	}
	for i, row := range g.rows {
		if len(row) != len(o.rows[i]) {
			return false
		}
		for j, w := range row {
			if w != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}

// word returns the packed word at (row, col), applying the boundary policy
// out of range.
func (g *Grid) word(row, col int) uint32 {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[0]) {
		return g.out()
	}
	return g.rows[row][col]
}

// orWord merges v into the word at (row, col). Out-of-range targets are
// dropped: in permissive mode a placement may hang off the canvas and the
// overflowing ink simply has nowhere to be recorded.
func (g *Grid) orWord(row, col int, v uint32) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[0]) {
		return
	}
	g.rows[row][col] |= v
}

// out is the word value read outside the grid bounds.
func (g *Grid) out() uint32 {
	if g.boundary == BoundaryStrict {
		return ^uint32(0)
	}
	return 0
}

// cellBit returns the in-word bit for cell column x. Cell w*32+k is bit k
// counted from the most significant bit.
func cellBit(x int) uint32 {
	return uint32(1) << uint(wordBits-1-x%wordBits)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// floorDiv rounds toward negative infinity, unlike Go's truncating division.
// Placement coordinates may be negative in permissive mode.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod returns the non-negative remainder matching floorDiv.
func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
