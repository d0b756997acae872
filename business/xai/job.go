package xai

import (
	"context"
	"fmt"
	"time"

	"veginReco/domain"
	"veginReco/pkg/logger"
)

const DefaultBatchSize = 1000

// Catalog is the product index as seen by the tagger.
type Catalog interface {
	// ScanReviews pages through every document, calling fn once per page.
	ScanReviews(ctx context.Context, pageSize int, fn func(docs []domain.ReviewDocument) error) error
	UpdateKeywords(ctx context.Context, updates []domain.KeywordUpdate) error
}

type JobStats struct {
	Scanned  int
	Updated  int
	Batches  int
	Duration time.Duration
}

// Job recomputes xai_keywords for the whole catalog. Updates are committed in
// batches; a failed commit stops the run but earlier batches stay written.
type Job struct {
	catalog   Catalog
	batchSize int
}

func NewJob(catalog Catalog, batchSize int) *Job {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Job{
		catalog:   catalog,
		batchSize: batchSize,
	}
}

func (j *Job) Run(ctx context.Context) (JobStats, error) {
	if err := ctx.Err(); err != nil {
		return JobStats{}, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	stats := JobStats{}
	pending := make([]domain.KeywordUpdate, 0, j.batchSize)

	commit := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := j.catalog.UpdateKeywords(ctx, pending); err != nil {
			TaggerBatchesTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to commit keyword batch %d: %w", stats.Batches+1, err)
		}
		TaggerBatchesTotal.WithLabelValues("ok").Inc()
		TaggedDocumentsTotal.Add(float64(len(pending)))

		stats.Batches++
		stats.Updated += len(pending)
		logger.Info("xai_batch_committed",
			"batch", stats.Batches,
			"size", len(pending),
			"updated_total", stats.Updated,
		)
		pending = make([]domain.KeywordUpdate, 0, j.batchSize)
		return nil
	}

	err := j.catalog.ScanReviews(ctx, j.batchSize, func(docs []domain.ReviewDocument) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context error: %w", err)
		}
		for _, doc := range docs {
			stats.Scanned++
			if doc.ID == "" {
				logger.Warn("xai_skip_document", "reason", "missing id")
				continue
			}
			pending = append(pending, domain.KeywordUpdate{
				ID:       doc.ID,
				Keywords: ExtractKeywords(doc.ReviewText),
			})
			if len(pending) >= j.batchSize {
				if err := commit(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		stats.Duration = time.Since(start)
		return stats, fmt.Errorf("xai tagging stopped after %d batches: %w", stats.Batches, err)
	}

	if err := commit(); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}

	stats.Duration = time.Since(start)
	logger.Info("xai_tagging_done",
		"scanned", stats.Scanned,
		"updated", stats.Updated,
		"batches", stats.Batches,
		"duration", stats.Duration.String(),
	)
	return stats, nil
}
