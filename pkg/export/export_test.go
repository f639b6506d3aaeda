package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/fwilhelm/nimbus/pkg/cloud"
)

func sampleResults() ([]cloud.Result, cloud.Config) {
	cfg := cloud.Config{Width: 200, Height: 100, Seed: 7}
	results := []cloud.Result{
		{Text: "alpha", Weight: 3, Index: 0, Rendered: true, X: 60, Y: 50, Angle: 0, FontSize: 32, Color: "#112233"},
		{Text: "beta", Weight: 2, Index: 1, Rendered: true, X: 140, Y: 40, Angle: 90, FontSize: 18, Color: "#445566"},
		{Text: "gone", Weight: 1, Index: 2, Rendered: false, X: math.NaN(), Y: math.NaN(), FontSize: 12},
	}
	return results, cfg
}

func TestRenderSVG(t *testing.T) {
	results, cfg := sampleResults()

	out := string(RenderSVG(cfg, results))

	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`font-family="sans-serif"`,
		`translate(60.0 50.0)`,
		`font-size="32.0"`,
		`fill="#112233"`,
		`>alpha</text>`,
		`translate(140.0 40.0) rotate(-90.0)`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gone") {
		t.Errorf("RenderSVG() includes unplaced tag:\n%s", out)
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	cfg := cloud.Config{Width: 100, Height: 100}
	results := []cloud.Result{
		{Text: "<a&b>", Rendered: true, X: 50, Y: 50, FontSize: 10, Color: "#000000"},
	}

	out := string(RenderSVG(cfg, results, WithSVGBackground("white")))

	if !strings.Contains(out, "&lt;a&amp;b&gt;") {
		t.Errorf("RenderSVG() did not escape text:\n%s", out)
	}
	if !strings.Contains(out, `fill="white"`) {
		t.Errorf("RenderSVG() missing background rect:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	results, cfg := sampleResults()

	data, err := RenderJSON(cfg, results)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 200 || out.Height != 100 {
		t.Errorf("dimensions = %dx%d, want 200x100", out.Width, out.Height)
	}
	if out.Seed != 7 {
		t.Errorf("Seed = %d, want 7", out.Seed)
	}
	if len(out.Tags) != 3 {
		t.Fatalf("Tags count = %d, want 3", len(out.Tags))
	}
	if out.Tags[0].X == nil || *out.Tags[0].X != 60 {
		t.Errorf("Tags[0].X = %v, want 60", out.Tags[0].X)
	}
	if out.Tags[2].Rendered {
		t.Errorf("Tags[2].Rendered = true, want false")
	}
	if out.Tags[2].X != nil || out.Tags[2].Y != nil {
		t.Errorf("unplaced tag carries coordinates: %+v", out.Tags[2])
	}
}

func TestRenderJSONIndent(t *testing.T) {
	results, cfg := sampleResults()

	data, err := RenderJSON(cfg, results, WithJSONIndent())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Errorf("RenderJSON(WithJSONIndent()) output is not indented")
	}
}

func TestRenderPNG(t *testing.T) {
	results, cfg := sampleResults()

	data, err := RenderPNG(cfg, results, WithPNGBackground("#ffffff"))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("decoded size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}

	// The white background plus dark text must produce at least one
	// non-white pixel near the first tag's center.
	found := false
	for y := 40; y < 60 && !found; y++ {
		for x := 40; x < 80; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0xf000 || g < 0xf000 || bl < 0xf000 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Errorf("RenderPNG() drew no ink near the first tag")
	}
}

func TestRenderPNGScale(t *testing.T) {
	results, cfg := sampleResults()

	data, err := RenderPNG(cfg, results, WithPNGScale(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("decoded size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
}
