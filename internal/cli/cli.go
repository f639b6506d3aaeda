// Package cli implements the nimbus command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fwilhelm/nimbus/pkg/buildinfo"
	"github.com/fwilhelm/nimbus/pkg/cache"
	"github.com/fwilhelm/nimbus/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "nimbus"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nimbus",
		Short:        "Nimbus lays out word clouds",
		Long:         `Nimbus is a word-cloud layout engine: it places weighted tags on a canvas without overlap, optionally constrained to a shape, and renders the result as PNG, SVG, or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the artifact cache selected by the --cache flag.
func newCache(ctx context.Context, kind, dir, redisAddr string) (cache.Cache, error) {
	switch kind {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving cache directory")
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		if redisAddr == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis cache requires an address, use --redis-addr")
		}
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be 'none', 'file', or 'redis')", kind)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/nimbus/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
