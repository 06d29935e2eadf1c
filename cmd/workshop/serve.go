package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/workshop/internal/cli"
	httpAdapter "github.com/aretw0/workshop/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the exercises over a JSON API. Clients drag and drop through the
session endpoints and follow board changes over SSE or WebSockets.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := newApp(ctx, cmd, os.Stderr, cli.WithStreams())
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(context.WithoutCancel(ctx)); err != nil {
				app.Logger.Warn("Shutdown incomplete", "err", err)
			}
		}()

		if app.Config.Catalog.Watch {
			cli.WatchCatalog(ctx, app)
		}

		cfg := httpAdapter.Config{
			Catalog:     app.Workshop,
			Sessions:    app.Sessions,
			Streams:     app.Streams,
			Mute:        app.Mute,
			CORSOrigins: app.Config.Server.CORSOrigins,
			Logger:      app.Logger,
		}
		if app.Registry != nil {
			cfg.Metrics = app.Registry
		}
		server, err := httpAdapter.NewServer(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              app.Config.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			// Event streams end when the process is asked to stop.
			BaseContext: func(net.Listener) context.Context { return ctx },
		}

		serverErrors := make(chan error, 1)
		go func() {
			app.Logger.Info("Starting Workshop Server", "address", srv.Addr, "catalog", catalogName(app.Config.Catalog.Path))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			app.Logger.Info("Start shutdown", "signal", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			app.Logger.Info("Workshop Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the catalog file when it changes")
	serveCmd.Flags().Bool("mute", false, "Start with sound cue events muted")
}

func catalogName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
