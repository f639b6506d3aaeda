package cloud

import "math"

// Tag is one weighted label submitted for placement.
type Tag struct {
	Text   string  `json:"text" toml:"text"`
	Weight float64 `json:"weight" toml:"weight"`

	// Angle is an explicit rotation in degrees; nil lets the layout pick one
	// of the configured angle buckets.
	Angle *float64 `json:"angle,omitempty" toml:"angle"`

	// Color is a #rgb/#rrggbb literal; empty picks a random opaque color.
	Color string `json:"color,omitempty" toml:"color"`
}

// Result describes the outcome of placing one tag. Results are returned in
// placement order (weight descending, input order on ties); Index is the
// tag's position in the submitted batch.
type Result struct {
	Text   string
	Weight float64
	Index  int

	Angle    float64 // degrees
	FontSize float64
	Color    string

	// X, Y are the rotated glyph's center in canvas pixel coordinates.
	// They are NaN when the tag was not rendered.
	X, Y float64

	// Rendered is false when no collision-free position was found or the
	// tag's rotated bounding box exceeds the canvas.
	Rendered bool
}

// WeightRange tracks the running weight extrema across every tag a cloud has
// seen. It persists across batches and is reset only when the cloud is
// cleared, so font sizes stay comparable between successive draws.
type WeightRange struct {
	Min, Max float64
	observed bool
}

// Observe folds one weight into the extrema.
func (r *WeightRange) Observe(w float64) {
	if !r.observed {
		r.Min, r.Max = w, w
		r.observed = true
		return
	}
	if w < r.Min {
		r.Min = w
	}
	if w > r.Max {
		r.Max = w
	}
}

// FontSize maps a weight onto [minSize, maxSize] linearly across the
// observed range, rounded to the nearest integer size. A degenerate range
// (all weights equal, or nothing observed) yields the midpoint.
func (r *WeightRange) FontSize(weight, minSize, maxSize float64) float64 {
	if !r.observed || r.Max <= r.Min {
		return math.Round((minSize + maxSize) / 2)
	}
	t := (weight - r.Min) / (r.Max - r.Min)
	return math.Round(minSize + (maxSize-minSize)*t)
}

// Reset forgets everything observed.
func (r *WeightRange) Reset() {
	*r = WeightRange{}
}
