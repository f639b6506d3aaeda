package export

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/fwilhelm/nimbus/pkg/cloud"
	"github.com/fwilhelm/nimbus/pkg/errors"
	"github.com/fwilhelm/nimbus/pkg/raster"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	ras        *raster.TextRasterizer
	background string
	scale      float64
}

// WithPNGRasterizer supplies the rasterizer whose font faces the PNG is
// drawn with. Pass the same rasterizer the layout used so the drawn text
// matches the measured extents.
func WithPNGRasterizer(r *raster.TextRasterizer) PNGOption {
	return func(p *pngRenderer) { p.ras = r }
}

// WithPNGBackground fills the canvas with the given hex color (e.g.
// "#ffffff") before drawing. Without this the canvas stays transparent.
func WithPNGBackground(color string) PNGOption {
	return func(p *pngRenderer) { p.background = color }
}

// WithPNGScale sets the output scale factor (default 1.0). A factor of 2
// doubles the pixel dimensions for high-DPI output.
func WithPNGScale(s float64) PNGOption {
	return func(p *pngRenderer) { p.scale = s }
}

// RenderPNG draws the placed tags onto a raster canvas and encodes it as
// PNG. Tags that were not placed are skipped.
func RenderPNG(cfg cloud.Config, results []cloud.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", r.scale)
	}
	if r.ras == nil {
		ras, err := raster.New()
		if err != nil {
			return nil, err
		}
		r.ras = ras
	}

	gc := gg.NewContext(int(float64(cfg.Width)*r.scale), int(float64(cfg.Height)*r.scale))
	gc.Scale(r.scale, r.scale)
	if r.background != "" {
		gc.SetHexColor(r.background)
		gc.Clear()
	}

	for _, res := range results {
		if !res.Rendered {
			continue
		}
		face, err := r.ras.Face(res.FontSize)
		if err != nil {
			return nil, err
		}
		gc.SetFontFace(face)
		gc.SetHexColor(res.Color)
		gc.Push()
		// gg rotates clockwise for positive angles; the layout counts
		// counter-clockwise, so flip the sign.
		gc.RotateAbout(-gg.Radians(res.Angle), res.X, res.Y)
		gc.DrawStringAnchored(res.Text, res.X, res.Y, 0.5, 0.5)
		gc.Pop()
	}

	var buf bytes.Buffer
	if err := gc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding layout PNG")
	}
	return buf.Bytes(), nil
}
