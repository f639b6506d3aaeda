package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fwilhelm/nimbus/pkg/cloud"
	"github.com/fwilhelm/nimbus/pkg/errors"
	"github.com/fwilhelm/nimbus/pkg/export"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (or base path for multiple formats)
	formats []string // output formats: "png", "svg", "json"
	indent  bool     // pretty-print JSON output
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"png": true, "svg": true, "json": true}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Lay out a tag cloud and write it to disk",
		Long: `Render reads a TOML layout file describing the canvas and its tags,
places every tag, and writes the result in one or more formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "pretty-print JSON output")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["png"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"png"}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png', 'svg', or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file
// paths, stripping a known format extension when present.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	cfg, tags, err := loadLayoutFile(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded %s: %d tags", input, len(tags))

	cl, err := cloud.New(cfg, cloud.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	p := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Placing %d tags...", len(tags)))
	spinner.Start()
	results, err := cl.Draw(ctx, tags)
	spinner.Stop()
	if err != nil {
		return err
	}
	placed := 0
	for _, r := range results {
		if r.Rendered {
			placed++
		}
	}
	p.done(fmt.Sprintf("Placed %d/%d tags", placed, len(results)))
	if placed < len(results) {
		printWarning("%d tags did not fit", len(results)-placed)
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		data, err := c.renderFormat(cl.Config(), results, format, opts.indent)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing %s", path)
		}
		printFile(path)
	}
	printSuccess("Rendered %s", input)
	return nil
}

func (c *CLI) renderFormat(cfg cloud.Config, results []cloud.Result, format string, indent bool) ([]byte, error) {
	switch format {
	case "svg":
		return export.RenderSVG(cfg, results), nil
	case "json":
		var opts []export.JSONOption
		if indent {
			opts = append(opts, export.WithJSONIndent())
		}
		return export.RenderJSON(cfg, results, opts...)
	default:
		return export.RenderPNG(cfg, results)
	}
}
