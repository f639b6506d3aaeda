package export

import (
	"encoding/json"

	"github.com/fwilhelm/nimbus/pkg/cloud"
	"github.com/fwilhelm/nimbus/pkg/errors"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	pretty bool
}

// WithJSONIndent pretty-prints the output with two-space indentation.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.pretty = true } }

type jsonOutput struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Seed   int64     `json:"seed,omitempty"`
	Tags   []jsonTag `json:"tags"`
}

type jsonTag struct {
	Text     string   `json:"text"`
	Weight   float64  `json:"weight"`
	Index    int      `json:"index"`
	Rendered bool     `json:"rendered"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Angle    float64  `json:"angle,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	Color    string   `json:"color,omitempty"`
}

// RenderJSON serializes the placed tags as JSON. Unplaced tags keep their
// descriptive fields but carry no coordinates, so the output always
// marshals cleanly.
func RenderJSON(cfg cloud.Config, results []cloud.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   cfg.Seed,
		Tags:   make([]jsonTag, 0, len(results)),
	}
	for _, res := range results {
		t := jsonTag{
			Text:     res.Text,
			Weight:   res.Weight,
			Index:    res.Index,
			Rendered: res.Rendered,
			Angle:    res.Angle,
			FontSize: res.FontSize,
			Color:    res.Color,
		}
		if res.Rendered {
			x, y := res.X, res.Y
			t.X, t.Y = &x, &y
		}
		out.Tags = append(out.Tags, t)
	}

	var (
		data []byte
		err  error
	)
	if r.pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding layout JSON")
	}
	return data, nil
}
