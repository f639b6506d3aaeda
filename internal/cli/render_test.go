package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fwilhelm/nimbus/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to png", "", []string{"png"}},
		{"single", "svg", []string{"svg"}},
		{"multiple", "png,svg,json", []string{"png", "svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"png", "svg", "json"}); err != nil {
		t.Errorf("validateFormats() error: %v", err)
	}
	if err := validateFormats([]string{"gif"}); err == nil {
		t.Error("validateFormats() accepted gif")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derives from input", "", "tags.toml", "tags"},
		{"strips format extension", "out.svg", "tags.toml", "out"},
		{"keeps other extensions", "out.final", "tags.toml", "out.final"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestRunRenderWritesFormats(t *testing.T) {
	path := writeLayout(t, sampleLayout)
	c := New(io.Discard, LogInfo)

	out := filepath.Join(t.TempDir(), "cloud")
	opts := renderOpts{output: out, formats: []string{"svg", "json"}}
	if err := c.runRender(context.Background(), path, &opts); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	for _, want := range []string{out + ".svg", out + ".json"} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("missing output %s: %v", want, err)
		}
	}
}

func TestRunRenderRejectsControlCharPath(t *testing.T) {
	path := writeLayout(t, sampleLayout)
	c := New(io.Discard, LogInfo)

	out := filepath.Join(t.TempDir(), "cl\toud.svg")
	opts := renderOpts{output: out, formats: []string{"svg"}}
	err := c.runRender(context.Background(), path, &opts)
	if errors.GetCode(err) != errors.ErrCodeInvalidPath {
		t.Fatalf("runRender() error = %v, want code %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestRunRenderSingleOutput(t *testing.T) {
	path := writeLayout(t, sampleLayout)
	c := New(io.Discard, LogInfo)

	out := filepath.Join(t.TempDir(), "cloud.svg")
	opts := renderOpts{output: out, formats: []string{"svg"}}
	if err := c.runRender(context.Background(), path, &opts); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("os.ReadFile() error: %v", err)
	}
	if len(data) == 0 {
		t.Error("output file is empty")
	}
}
