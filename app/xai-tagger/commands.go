package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"veginReco/business/xai"
	esRepo "veginReco/internal/repository/elastic"
	"veginReco/pkg/config"
	esClient "veginReco/pkg/database/elastic"
	"veginReco/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

type options struct {
	batchSize int
	cronSpec  string
	timezone  string
	metrics   string
	runNow    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "xai-tagger",
		Short: "Attach explanation keywords (xai_keywords) to every indexed product",
		Long: `xai-tagger reads the review text of every product in the search index,
extracts up to three explanation labels and writes them back as xai_keywords.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&opts.batchSize, "batch-size", 0, "documents per bulk update (default XAI_BATCH_SIZE or 1000)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Tag the whole catalog once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			job, err := buildJob(ctx, opts)
			if err != nil {
				return err
			}
			_, err = runOnce(ctx, job)
			return err
		},
	}

	schedule := &cobra.Command{
		Use:   "schedule",
		Short: "Re-tag the catalog on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runSchedule(ctx, opts)
		},
	}
	schedule.Flags().StringVar(&opts.cronSpec, "cron", "", `cron spec, e.g. "0 4 * * *" (default XAI_SCHEDULE)`)
	schedule.Flags().StringVar(&opts.timezone, "timezone", "Asia/Seoul", "timezone the cron spec is evaluated in")
	schedule.Flags().StringVar(&opts.metrics, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")
	schedule.Flags().BoolVar(&opts.runNow, "run-now", false, "run once immediately before waiting for the schedule")

	root.AddCommand(run, schedule)
	return root
}

func buildJob(ctx context.Context, opts *options) (*xai.Job, error) {
	cfg := config.LoadSearchOnly()
	logger.Init(cfg.App.Environment)

	if opts.batchSize <= 0 {
		opts.batchSize = cfg.Tagger.BatchSize
	}
	if opts.cronSpec == "" {
		opts.cronSpec = cfg.Tagger.Schedule
	}

	es, err := esClient.NewElasticClient(ctx, cfg.Elastic)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
	}

	catalog := esRepo.NewProductRepository(es, cfg.Elastic.Index, cfg.Elastic.VectorField)
	logger.Info("xai-tagger ready", "index", cfg.Elastic.Index, "batch_size", opts.batchSize)

	return xai.NewJob(catalog, opts.batchSize), nil
}

func runOnce(ctx context.Context, job *xai.Job) (xai.JobStats, error) {
	stats, err := job.Run(ctx)
	if err != nil {
		logger.Error("tagging run failed",
			"scanned", stats.Scanned,
			"updated", stats.Updated,
			"batches", stats.Batches,
			"error", err,
		)
		return stats, err
	}
	logger.Info("tagging run finished",
		"scanned", stats.Scanned,
		"updated", stats.Updated,
		"batches", stats.Batches,
		"duration", stats.Duration.String(),
	)
	return stats, nil
}

func runSchedule(ctx context.Context, opts *options) error {
	job, err := buildJob(ctx, opts)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", opts.timezone, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(opts.cronSpec, func() {
		_, _ = runOnce(ctx, job)
	}); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", opts.cronSpec, err)
	}

	var srv *http.Server
	if opts.metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Addr: opts.metrics, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if opts.runNow {
		_, _ = runOnce(ctx, job)
	}

	c.Start()
	logger.Info("xai-tagger scheduled", "cron", opts.cronSpec, "timezone", opts.timezone)

	<-ctx.Done()
	logger.Info("xai-tagger stopping")

	// wait for a running job to finish
	<-c.Stop().Done()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}
