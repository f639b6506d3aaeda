package cloud

import "testing"

func TestWeightRangeObserve(t *testing.T) {
	var r WeightRange
	for _, w := range []float64{3, 1, 4, 1, 5} {
		r.Observe(w)
	}
	if r.Min != 1 || r.Max != 5 {
		t.Errorf("range = [%g, %g], want [1, 5]", r.Min, r.Max)
	}

	// Extrema only ever widen.
	r.Observe(2)
	if r.Min != 1 || r.Max != 5 {
		t.Errorf("range moved to [%g, %g] on an interior weight", r.Min, r.Max)
	}
	r.Observe(-1)
	r.Observe(10)
	if r.Min != -1 || r.Max != 10 {
		t.Errorf("range = [%g, %g], want [-1, 10]", r.Min, r.Max)
	}
}

func TestWeightRangeFontSize(t *testing.T) {
	var r WeightRange
	r.Observe(0)
	r.Observe(10)

	tests := []struct {
		name   string
		weight float64
		want   float64
	}{
		{name: "min weight", weight: 0, want: 10},
		{name: "max weight", weight: 10, want: 40},
		{name: "midpoint", weight: 5, want: 25},
		{name: "rounds", weight: 1, want: 13}, // 10 + 30*0.1 = 13
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.FontSize(tt.weight, 10, 40); got != tt.want {
				t.Errorf("FontSize(%g) = %g, want %g", tt.weight, got, tt.want)
			}
		})
	}
}

func TestWeightRangeFontSizeDegenerate(t *testing.T) {
	// All weights equal: every size is the midpoint of the font range.
	var r WeightRange
	r.Observe(7)
	r.Observe(7)
	if got := r.FontSize(7, 10, 41); got != 26 {
		t.Errorf("FontSize = %g, want rounded midpoint 26", got)
	}

	// Nothing observed behaves the same.
	var empty WeightRange
	if got := empty.FontSize(3, 10, 40); got != 25 {
		t.Errorf("FontSize on empty range = %g, want 25", got)
	}
}

func TestWeightRangeReset(t *testing.T) {
	var r WeightRange
	r.Observe(1)
	r.Observe(9)
	r.Reset()
	r.Observe(4)
	if r.Min != 4 || r.Max != 4 {
		t.Errorf("range after reset = [%g, %g], want [4, 4]", r.Min, r.Max)
	}
}
