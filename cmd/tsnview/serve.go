package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tsnview/internal/handler"
	"tsnview/internal/hub"
	"tsnview/internal/repository/sqlite"
	"tsnview/internal/service"
	"tsnview/internal/watcher"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr  string
		dbArg string
		watch bool
		noDB  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the network and serve the query API over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Database.Path = dbArg
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch = watch
			}
			logger := opts.logger

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eventBus := service.NewEventBus()

			var svcOpts []service.Option
			if !noDB {
				repo, err := sqlite.New(cfg.Database.Path)
				if err != nil {
					return err
				}
				defer repo.Close()
				logger.Info("database opened", "path", cfg.Database.Path)
				svcOpts = append(svcOpts, service.WithRepository(repo))
			}
			svc := opts.newService(eventBus, svcOpts...)

			// Connect event bus to SSE hub
			sseHub := hub.New(logger)
			go sseHub.Run(ctx)
			eventChan := make(chan service.Event, 100)
			eventBus.Subscribe(eventChan)
			go func() {
				for {
					select {
					case event := <-eventChan:
						sseHub.Broadcast(event)
					case <-ctx.Done():
						return
					}
				}
			}()

			// A failed initial load still serves; queries answer 503 until a
			// reload succeeds
			if _, err := svc.Load(ctx, cfg.Topology, cfg.Streams); err != nil && svc.Current() == nil {
				if !cfg.Watch {
					return err
				}
				logger.Warn("initial load failed, waiting for file changes", "error", err)
			}

			if cfg.Watch {
				w := watcher.New([]string{cfg.Topology, cfg.Streams}, func(string) {
					if _, err := svc.Load(ctx, cfg.Topology, cfg.Streams); err != nil {
						logger.Warn("reload failed, keeping previous network", "error", err)
					}
				}, logger)
				go func() {
					if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("watcher stopped", "error", err)
					}
				}()
			}

			mux := http.NewServeMux()
			handler.NewNetworkHandler(svc, logger).Register(mux)
			mux.Handle("GET /api/events", sseHub)

			server := &http.Server{
				Addr: cfg.Server.Addr,
				Handler: handler.Chain(mux,
					handler.Recover(logger),
					handler.CORS,
					handler.Logger(logger),
				),
				ReadTimeout: 10 * time.Second,
				IdleTimeout: 60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", cfg.Server.Addr)
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", "error", err)
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "HTTP listen address")
	cmd.Flags().StringVar(&dbArg, "db", "./tsnview.db", "SQLite database path for snapshots")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "do not persist snapshots")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the topology or streams file changes")
	return cmd
}
