// Package cloud arranges weighted text tags on a bounded canvas without
// overlap.
//
// A Cloud owns one occupancy grid for the lifetime of a canvas. Draw sorts a
// batch of tags by weight, derives font size, rotation and color for each,
// rasterizes the rotated glyph, and runs an outward spiral search for a
// collision-free position, merging each placed tag's ink into the grid.
// Successive batches pack around everything placed before; Clear starts
// over.
package cloud

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fwilhelm/nimbus/pkg/cloud/grid"
	"github.com/fwilhelm/nimbus/pkg/cloud/mask"
	"github.com/fwilhelm/nimbus/pkg/errors"
	"github.com/fwilhelm/nimbus/pkg/observability"
	"github.com/fwilhelm/nimbus/pkg/raster"
)

// Unplaced reasons reported to observability hooks.
const (
	reasonOversized = "oversized"
	reasonExhausted = "placement_exhausted"
)

// Cloud is a word-cloud layout engine for one canvas. All methods are safe
// for concurrent use; concurrent Draw calls are serialized so the grid has
// exactly one writer at a time.
type Cloud struct {
	mu      sync.Mutex
	cfg     Config
	grid    *grid.Grid
	weights WeightRange
	rng     *rand.Rand

	ras    raster.Rasterizer
	th     mask.Thresholds
	shape  image.Image
	logger *log.Logger
	yield  func()
}

// CloudOption configures optional collaborators of a Cloud.
type CloudOption func(*Cloud)

// WithRasterizer replaces the default text rasterizer.
func WithRasterizer(r raster.Rasterizer) CloudOption {
	return func(c *Cloud) { c.ras = r }
}

// WithThresholds replaces the default ink detection thresholds.
func WithThresholds(th mask.Thresholds) CloudOption {
	return func(c *Cloud) { c.th = th }
}

// WithLogger attaches a logger for per-tag debug output.
func WithLogger(l *log.Logger) CloudOption {
	return func(c *Cloud) { c.logger = l }
}

// WithYield replaces the scheduler yield invoked when a batch exceeds its
// time budget. Tests use this to observe yields.
func WithYield(fn func()) CloudOption {
	return func(c *Cloud) { c.yield = fn }
}

// New validates cfg and builds a cloud with an empty occupancy grid.
func New(cfg Config, opts ...CloudOption) (*Cloud, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &Cloud{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		th:     mask.Default,
		logger: log.Default(),
		yield:  runtime.Gosched,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ras == nil {
		var fontOpts []raster.Option
		if cfg.Font != "" {
			if looksLikePath(cfg.Font) {
				fontOpts = append(fontOpts, raster.WithFontFile(cfg.Font))
			} else {
				fontOpts = append(fontOpts, raster.WithFontName(cfg.Font))
			}
		}
		r, err := raster.New(fontOpts...)
		if err != nil {
			return nil, err
		}
		c.ras = r
	}
	c.rebuildGrid()
	return c, nil
}

// Config returns a copy of the validated configuration.
func (c *Cloud) Config() Config { return c.cfg }

// Draw places a batch of tags and returns one Result per tag.
//
// Tags are placed in weight-descending order; equal weights keep their input
// order. Results follow placement order and carry the original input index.
// Per-tag failures (oversized glyph, exhausted search) are recorded on the
// Result and never abort the batch. After each tag the rolling YieldEvery
// deadline is checked: past it, Draw honors ctx cancellation and yields to
// the scheduler before continuing. On cancellation the partial results are
// returned along with the context error; tags already merged stay in the
// grid.
func (c *Cloud) Draw(ctx context.Context, tags []Tag) ([]Result, error) {
	for i, t := range tags {
		if err := validateTag(t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTag, err, "tag %d", i)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	observability.Layout().OnBatchStart(ctx, len(tags))

	// The extrema fold in the whole batch before any size is derived, and
	// keep every weight from prior batches.
	for _, t := range tags {
		c.weights.Observe(t.Weight)
	}

	order := make([]int, len(tags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tags[order[a]].Weight > tags[order[b]].Weight
	})

	results := make([]Result, 0, len(tags))
	placed := 0
	deadline := time.Now().Add(c.cfg.YieldEvery)
	for _, idx := range order {
		res, err := c.placeTag(ctx, idx, tags[idx])
		if err != nil {
			return results, err
		}
		if res.Rendered {
			placed++
		}
		results = append(results, res)

		if time.Now().After(deadline) {
			if err := ctx.Err(); err != nil {
				return results, errors.Wrap(errors.ErrCodeInternal, err, "batch interrupted")
			}
			observability.Layout().OnYield(ctx, time.Since(start))
			c.yield()
			deadline = time.Now().Add(c.cfg.YieldEvery)
		}
	}

	observability.Layout().OnBatchComplete(ctx, placed, len(tags), time.Since(start))
	return results, nil
}

// Clear discards all placed ink and the observed weight range, rebuilding
// the initial grid (re-stamping the shape mask if one is set). Clearing
// while a Draw is in flight waits for the batch to finish.
func (c *Cloud) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weights.Reset()
	c.rebuildGrid()
}

// SetShapeMask seeds the occupancy grid from a silhouette: img is composited
// at the canvas origin and every cell covered by ink becomes permanently
// occupied, so tags flow around the silhouette. The grid is rebuilt
// immediately, discarding placed tags. A nil img removes the silhouette.
func (c *Cloud) SetShapeMask(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shape = img
	c.rebuildGrid()
}

// SetShapeMaskFunc is SetShapeMask for caller-drawn silhouettes: paint
// receives a transparent canvas-sized RGBA image to draw ink on.
func (c *Cloud) SetShapeMaskFunc(paint func(*image.RGBA)) {
	if paint == nil {
		c.SetShapeMask(nil)
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, c.cfg.Width, c.cfg.Height))
	paint(img)
	c.SetShapeMask(img)
}

// Grid exposes the live occupancy grid for inspection. The caller must not
// retain it across Clear.
func (c *Cloud) Grid() *grid.Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

func (c *Cloud) boundary() grid.Boundary {
	if c.cfg.Cut {
		return grid.BoundaryStrict
	}
	return grid.BoundaryPermissive
}

func (c *Cloud) rebuildGrid() {
	if c.shape == nil {
		c.grid = grid.New(c.cfg.Width, c.cfg.Height, c.cfg.PixelRatio, false, true, c.boundary())
		return
	}
	// Start fully occupied and carve out the silhouette: ink stays blocked,
	// background becomes free, area outside the image keeps the blocked fill.
	g := grid.New(c.cfg.Width, c.cfg.Height, c.cfg.PixelRatio, true, true, c.boundary())
	canvas := image.NewRGBA(image.Rect(0, 0, c.cfg.Width, c.cfg.Height))
	b := c.shape.Bounds()
	draw.Draw(canvas, image.Rect(0, 0, b.Dx(), b.Dy()), c.shape, b.Min, draw.Src)
	mask.Stamp(g, canvas, c.th)
	c.grid = g
}

// placeTag derives the tag's style, builds its mask, and searches for a
// position.
func (c *Cloud) placeTag(ctx context.Context, idx int, t Tag) (Result, error) {
	tagStart := time.Now()
	res := Result{
		Text:     t.Text,
		Weight:   t.Weight,
		Index:    idx,
		FontSize: c.weights.FontSize(t.Weight, c.cfg.MinFontSize, c.cfg.MaxFontSize),
		Angle:    c.pickAngle(t),
		Color:    c.pickColor(t),
		X:        math.NaN(),
		Y:        math.NaN(),
	}

	img, _, err := c.ras.Rasterize(raster.Spec{
		Text:    t.Text,
		Size:    res.FontSize,
		Angle:   res.Angle,
		Padding: c.cfg.Padding,
	})
	if err != nil {
		return res, err
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w > c.cfg.Width || h > c.cfg.Height {
		c.logger.Debug("tag too large for canvas", "text", t.Text, "box", fmt.Sprintf("%dx%d", w, h))
		observability.Layout().OnTagUnplaced(ctx, t.Text, reasonOversized)
		return res, nil
	}

	m := mask.Build(img, c.cfg.PixelRatio, c.th, c.boundary())
	x, y, ok := c.grid.Place(m)
	if !ok {
		c.logger.Debug("no free position", "text", t.Text)
		observability.Layout().OnTagUnplaced(ctx, t.Text, reasonExhausted)
		return res, nil
	}

	res.X = float64(x) + float64(w)/2
	res.Y = float64(y) + float64(h)/2
	res.Rendered = true
	observability.Layout().OnTagPlaced(ctx, t.Text, res.X, res.Y, time.Since(tagStart))
	return res, nil
}

// pickAngle returns the tag's explicit angle, or interpolates one of the
// configured buckets.
func (c *Cloud) pickAngle(t Tag) float64 {
	if t.Angle != nil {
		return *t.Angle
	}
	if c.cfg.AngleCount <= 1 {
		return c.cfg.AngleFrom
	}
	k := c.rng.Intn(c.cfg.AngleCount)
	frac := float64(k) / float64(c.cfg.AngleCount-1)
	return c.cfg.AngleFrom + frac*(c.cfg.AngleTo-c.cfg.AngleFrom)
}

// pickColor returns the tag's explicit color or a random opaque RGB value.
func (c *Cloud) pickColor(t Tag) string {
	if t.Color != "" {
		return t.Color
	}
	return fmt.Sprintf("#%02x%02x%02x", c.rng.Intn(256), c.rng.Intn(256), c.rng.Intn(256))
}

func validateTag(t Tag) error {
	if err := errors.ValidateTagText(t.Text); err != nil {
		return err
	}
	if err := errors.ValidateWeight(t.Weight); err != nil {
		return err
	}
	return errors.ValidateColor(t.Color)
}

// looksLikePath distinguishes a font file path from an installed font name.
func looksLikePath(s string) bool {
	for _, r := range s {
		if r == '/' || r == '\\' {
			return true
		}
	}
	return len(s) > 4 && (s[len(s)-4:] == ".ttf" || s[len(s)-4:] == ".otf")
}
