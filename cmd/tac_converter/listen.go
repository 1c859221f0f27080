package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tac_converter/internal/converter"
	"tac_converter/internal/feed"
	"tac_converter/internal/observability"
)

func newListenCmd(a *app) *cobra.Command {
	var (
		url      string
		subject  string
		queue    string
		encoding string
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Convert messages from a NATS subject",
		Long: `Listen subscribes to raw TAC messages on a NATS subject, converts each one,
stores the record and publishes the result on <prefix>.<family>. Requests
with a reply subject also get the result as the reply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if url != "" {
				cfg.NATSURL = url
			}
			if subject != "" {
				cfg.NATSSubject = subject
			}
			if queue != "" {
				cfg.NATSQueue = queue
			}
			if encoding != "" {
				cfg.FeedEncoding = encoding
			}
			enc, err := feed.ParseEncoding(cfg.FeedEncoding)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := a.openStores(ctx)
			if err != nil {
				return fmt.Errorf("open stores: %w", err)
			}
			defer db.Close()

			nc, err := feed.Connect(cfg.NATSURL, a.logger)
			if err != nil {
				return err
			}
			defer nc.Close()

			metrics := observability.NewMetrics()
			proc := feed.NewProcessor(feed.ProcessorConfig{
				Converter: a.converter(converter.WithRecorder(metrics)),
				Sink:      db,
				Hints:     cfg.Hints(),
				Encoding:  enc,
				OutPrefix: cfg.NATSOutPrefix,
				Logger:    a.logger,
				Counter:   metrics,
			})
			return feed.NewListener(nc, proc, cfg.NATSSubject, cfg.NATSQueue, a.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "NATS server URL (default from NATS_URL)")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject of raw TAC messages (default from NATS_SUBJECT)")
	cmd.Flags().StringVar(&queue, "queue", "", "Queue group to share the load (default from NATS_QUEUE)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Result encoding: json, msgpack or msgpack+zstd")
	return cmd
}
