package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhou-zzz/blog/internal/logging"
	"github.com/zhou-zzz/blog/internal/server"
	"github.com/zhou-zzz/blog/internal/site"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the site locally and watches for changes",
		Long: `The serve command performs an initial build of your site, then starts a local
web server to serve your output directory. It also watches your content, layouts,
and static directories for changes and automatically rebuilds the site.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.config
			if cmd.Flags().Changed("port") {
				cfg.Serve.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			builder := site.New(cfg, logging.Component(a.logger, "site"))
			srvLogger := logging.Component(a.logger, "server")
			a.logger.Info().Msg("performing initial build")
			if _, err := builder.Build(ctx); err != nil {
				return fmt.Errorf("initial build failed, fix the issues and try again: %w", err)
			}

			watcher, err := server.NewWatcher(
				[]string{cfg.ContentDir, cfg.LayoutsDir, cfg.StaticDir},
				cfg.Serve.Debounce,
				func(ctx context.Context) error {
					_, err := builder.Build(ctx)
					return err
				},
				srvLogger,
			)
			if err != nil {
				return err
			}

			addr := fmt.Sprintf(":%d", cfg.Serve.Port)
			a.logger.Info().
				Str("dir", cfg.OutputDir).
				Str("url", "http://localhost"+addr).
				Msg("press Ctrl+C to stop the server")

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error { return watcher.Run(gCtx) })
			g.Go(func() error { return server.Serve(gCtx, addr, server.NewHandler(cfg.OutputDir), srvLogger) })
			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to serve the site on (default from config, 1313)")
	return cmd
}
