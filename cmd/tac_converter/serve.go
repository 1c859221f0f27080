package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"tac_converter/internal/api"
	"tac_converter/internal/converter"
	"tac_converter/internal/observability"
	"tac_converter/internal/storage"
)

// openStores opens the stores enabled in the configuration and creates
// their schemas.
func (a *app) openStores(ctx context.Context) (*storage.DB, error) {
	db, err := storage.Open(ctx, a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchemas(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	a.logger.Info("stores open",
		"archive", a.cfg.Storage.ArchivePath,
		"clickhouse", db.CH != nil,
		"postgres", db.PG != nil)
	return db, nil
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion REST API",
		Long: `Serve starts the REST API: parse, serialize and lex endpoints, archive
search, the latest message per location and Prometheus metrics.

Stores are enabled through the environment: TAC_ARCHIVE_PATH for the local
archive, CLICKHOUSE_HOST for analytics and POSTGRES_HOST for the latest
message table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := a.openStores(ctx)
			if err != nil {
				return fmt.Errorf("open stores: %w", err)
			}
			defer db.Close()

			metrics := observability.NewMetrics()
			conv := a.converter(converter.WithRecorder(metrics))

			opts := []api.Option{
				api.WithLogger(a.logger),
				api.WithMetrics(metrics, prometheus.DefaultGatherer),
				api.WithSink(db),
			}
			if db.Archive != nil {
				opts = append(opts, api.WithArchive(db.Archive))
			}
			if db.PG != nil {
				opts = append(opts, api.WithLatest(db.PG))
			}

			srv, err := api.NewServer(conv, api.Config{
				Addr:            a.cfg.HTTPAddr,
				AuthEnabled:     a.cfg.AuthEnabled(),
				APIKeys:         a.cfg.APIKeys,
				CacheSize:       a.cfg.CacheSize,
				Hints:           a.cfg.Hints(),
				ShutdownTimeout: a.cfg.ShutdownTimeout,
			}, opts...)
			if err != nil {
				return err
			}

			err = srv.Run(ctx)
			a.logger.Info("shutdown complete")
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from TAC_HTTP_ADDR)")
	return cmd
}
