// Package raster renders tag text into pixel buffers for the mask builder.
//
// The placement core never touches fonts directly: it hands a Spec to a
// Rasterizer and downsamples the returned image into an ink mask. The
// default implementation draws with an OpenType face from golang.org/x/image
// and rotates the result to its exact bounding box.
package raster

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/fwilhelm/nimbus/pkg/errors"
)

// Spec describes one tag to rasterize.
type Spec struct {
	Text    string
	Size    float64 // font size in pixels
	Angle   float64 // rotation in degrees, counter-clockwise
	Padding float64 // stroke margin added around the glyph ink
}

// Metrics describes the unrotated text.
type Metrics struct {
	Width   float64 // measured advance width
	Ascent  float64
	Descent float64
}

// Rasterizer produces the rotated, padded glyph image for a tag. The image
// bounds are the rotated bounding box; ink is dark and opaque so the default
// mask thresholds detect it.
type Rasterizer interface {
	Rasterize(spec Spec) (image.Image, Metrics, error)
}

// TextRasterizer is the default Rasterizer, backed by a single OpenType font.
// It caches one face per requested size and is safe for concurrent use.
type TextRasterizer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// New builds a TextRasterizer. Without options it uses the embedded Go
// Regular font; see WithFontName, WithFontFile and WithFontBytes.
func New(opts ...Option) (*TextRasterizer, error) {
	data, err := resolveFont(opts)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMaskSource, err, "parsing font")
	}
	return &TextRasterizer{
		font:  f,
		faces: make(map[float64]font.Face),
	}, nil
}

// Rasterize draws spec.Text at spec.Size, pads it by spec.Padding, and
// rotates it by spec.Angle. The returned image is exactly the rotated
// bounding box of the padded text.
func (r *TextRasterizer) Rasterize(spec Spec) (image.Image, Metrics, error) {
	face, err := r.Face(spec.Size)
	if err != nil {
		return nil, Metrics{}, err
	}

	adv := font.MeasureString(face, spec.Text)
	fm := face.Metrics()
	m := Metrics{
		Width:   fromFixed(adv),
		Ascent:  fromFixed(fm.Ascent),
		Descent: fromFixed(fm.Descent),
	}

	pad := spec.Padding
	if pad < 0 {
		pad = 0
	}
	w := int(math.Ceil(m.Width + 2*pad))
	h := int(math.Ceil(m.Ascent + m.Descent + 2*pad))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{A: 0xff}),
		Face: face,
	}
	// Padding emulates a stroke: the text is redrawn offset in a ring of
	// radius pad so the ink footprint grows on all sides.
	for _, off := range strokeOffsets(pad) {
		d.Dot = fixed.Point26_6{
			X: toFixed(pad + off[0]),
			Y: toFixed(pad + m.Ascent + off[1]),
		}
		d.DrawString(spec.Text)
	}

	if angle := math.Mod(spec.Angle, 360); angle != 0 {
		// imaging resizes the canvas to the rotated bounding box
		// ceil(|h sin| + |w cos|) x ceil(|h cos| + |w sin|).
		return imaging.Rotate(img, angle, color.NRGBA{}), m, nil
	}
	return img, m, nil
}

// Face returns a cached font.Face for the size.
func (r *TextRasterizer) Face(size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMaskSource, err, "building face at size %g", size)
	}
	r.faces[size] = f
	return f, nil
}

// strokeOffsets returns the draw offsets for a given padding: the origin
// alone when there is no padding, otherwise the origin plus eight points on
// the padding circle.
func strokeOffsets(pad float64) [][2]float64 {
	offs := [][2]float64{{0, 0}}
	if pad <= 0 {
		return offs
	}
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		offs = append(offs, [2]float64{pad * math.Cos(a), pad * math.Sin(a)})
	}
	return offs
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
