package raster

import (
	"os"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/fwilhelm/nimbus/pkg/errors"
)

// Option configures font selection for New.
type Option func(*fontOptions)

type fontOptions struct {
	name  string
	path  string
	bytes []byte
}

// WithFontName resolves an installed system font by (partial) name, e.g.
// "DejaVuSans" or "Arial".
func WithFontName(name string) Option {
	return func(o *fontOptions) { o.name = name }
}

// WithFontFile loads a TTF/OTF file from disk.
func WithFontFile(path string) Option {
	return func(o *fontOptions) { o.path = path }
}

// WithFontBytes uses raw TTF/OTF data, e.g. an embedded font.
func WithFontBytes(data []byte) Option {
	return func(o *fontOptions) { o.bytes = data }
}

// resolveFont picks the font data for the rasterizer: explicit bytes, then a
// file path, then a system lookup by name, falling back to the embedded Go
// Regular face.
func resolveFont(opts []Option) ([]byte, error) {
	var o fontOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case o.bytes != nil:
		return o.bytes, nil
	case o.path != "":
		data, err := os.ReadFile(o.path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "reading font file %q", o.path)
		}
		return data, nil
	case o.name != "":
		path, err := findfont.Find(o.name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "no installed font matches %q", o.name)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "reading font file %q", path)
		}
		return data, nil
	}
	return goregular.TTF, nil
}
