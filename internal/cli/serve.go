package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/fwilhelm/nimbus/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	cacheKind string
	cacheDir  string
	redisAddr string
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		cacheKind: "file",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve starts an HTTP server exposing POST /v1/cloud, which accepts a
layout request and responds with the rendered artifact. Rendered
artifacts are cached; the backend is selected with --cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.cacheKind, "cache", opts.cacheKind, "artifact cache backend: none, file, redis")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for the file cache (default ~/.cache/nimbus)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address for the redis cache (host:port)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	artifacts, err := newCache(ctx, opts.cacheKind, opts.cacheDir, opts.redisAddr)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	srv := server.New(server.Config{
		Addr:   opts.addr,
		Cache:  artifacts,
		Logger: c.Logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
