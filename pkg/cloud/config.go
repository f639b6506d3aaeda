package cloud

import (
	"time"

	"github.com/fwilhelm/nimbus/pkg/errors"
)

// Defaults applied by Config.ValidateAndSetDefaults.
const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultPixelRatio  = 4
	DefaultMinFontSize = 10
	DefaultMaxFontSize = 48
	DefaultYieldEvery  = 100 * time.Millisecond
)

// Config controls canvas extent, downsampling, and per-tag styling.
type Config struct {
	// Width and Height are the canvas extent in pixels.
	Width  int `json:"width,omitempty" toml:"width"`
	Height int `json:"height,omitempty" toml:"height"`

	// PixelRatio is the downsample factor between canvas pixels and grid
	// cells. Values below 1 are clamped to 1.
	PixelRatio int `json:"pixel_ratio,omitempty" toml:"pixel_ratio"`

	// Cut selects strict containment: tags must fit entirely inside the
	// canvas. When false tags may extend past the edges and be clipped.
	Cut bool `json:"cut,omitempty" toml:"cut"`

	// Padding is the stroke margin added around each glyph's ink before
	// masking, in pixels.
	Padding float64 `json:"padding,omitempty" toml:"padding"`

	// MinFontSize and MaxFontSize bound the weight-to-size linear map.
	MinFontSize float64 `json:"min_font_size,omitempty" toml:"min_font_size"`
	MaxFontSize float64 `json:"max_font_size,omitempty" toml:"max_font_size"`

	// Font selects the typeface: an installed font name, a .ttf/.otf path,
	// or empty for the embedded Go Regular face.
	Font string `json:"font,omitempty" toml:"font"`

	// AngleCount discrete rotation buckets are interpolated between
	// AngleFrom and AngleTo (degrees) for tags without an explicit angle.
	// AngleCount <= 1 always yields AngleFrom.
	AngleCount int     `json:"angle_count,omitempty" toml:"angle_count"`
	AngleFrom  float64 `json:"angle_from,omitempty" toml:"angle_from"`
	AngleTo    float64 `json:"angle_to,omitempty" toml:"angle_to"`

	// Seed makes angle and color choices reproducible; 0 seeds from the
	// clock.
	Seed int64 `json:"seed,omitempty" toml:"seed"`

	// YieldEvery is the batch time budget: after placing a tag past this
	// rolling deadline, Draw yields to the scheduler before continuing.
	YieldEvery time.Duration `json:"yield_every,omitempty" toml:"yield_every"`
}

// ValidateAndSetDefaults checks the configuration and fills zero values.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas %dx%d must be positive", c.Width, c.Height)
	}
	if c.PixelRatio == 0 {
		c.PixelRatio = DefaultPixelRatio
	}
	if c.PixelRatio < 1 {
		c.PixelRatio = 1
	}
	if c.MinFontSize == 0 && c.MaxFontSize == 0 {
		c.MinFontSize = DefaultMinFontSize
		c.MaxFontSize = DefaultMaxFontSize
	}
	if c.MinFontSize <= 0 || c.MaxFontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font sizes must be positive")
	}
	if c.MinFontSize > c.MaxFontSize {
		return errors.New(errors.ErrCodeInvalidConfig,
			"min font size %g exceeds max %g", c.MinFontSize, c.MaxFontSize)
	}
	if c.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative")
	}
	if c.AngleCount < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "angle count must not be negative")
	}
	if c.AngleCount == 0 {
		c.AngleCount = 1
	}
	if c.YieldEvery <= 0 {
		c.YieldEvery = DefaultYieldEvery
	}
	return nil
}
