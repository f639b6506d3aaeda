// Package export renders a placed cloud to portable output formats.
//
// Each sink takes the layout configuration plus the placement results
// produced by cloud.Draw and serializes them without touching the
// occupancy state, so a single layout can be exported several times.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fwilhelm/nimbus/pkg/cloud"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontFamily string
	background string
}

// WithSVGFontFamily sets the font-family attribute emitted for every tag.
// The default is "sans-serif"; pass the family matching the rasterizer's
// font so browsers reproduce the measured extents.
func WithSVGFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// WithSVGBackground adds a full-canvas background rectangle in the given
// CSS color. Without this the canvas stays transparent.
func WithSVGBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG serializes the placed tags as a standalone SVG document.
// Tags that were not placed are skipped. Positive angles rotate
// counter-clockwise, matching the rasterizer.
func RenderSVG(cfg cloud.Config, results []cloud.Result, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	fmt.Fprintf(&buf, `  <g font-family="%s" text-anchor="middle" dominant-baseline="central">`+"\n", escapeText(r.fontFamily))

	for _, res := range results {
		if !res.Rendered {
			continue
		}
		transform := fmt.Sprintf("translate(%.1f %.1f)", res.X, res.Y)
		if res.Angle != 0 {
			transform += fmt.Sprintf(" rotate(%.1f)", -res.Angle)
		}
		fmt.Fprintf(&buf, `    <text transform="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
			transform, res.FontSize, res.Color, escapeText(res.Text))
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
