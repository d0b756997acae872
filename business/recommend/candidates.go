package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"veginReco/domain"
	"veginReco/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// BuildQueryText composes the similarity query: skin type label followed by
// the descriptor phrase of every known skin code letter.
func BuildQueryText(profile domain.SkinProfile, cfg Config) string {
	parts := make([]string, 0, 1+len(profile.SkinCode))
	if t := strings.TrimSpace(string(profile.SkinType)); t != "" {
		parts = append(parts, t)
	}
	for _, r := range profile.SkinCode {
		phrase, ok := cfg.CodeDescriptors[string(r)]
		if !ok || strings.TrimSpace(phrase) == "" {
			continue
		}
		parts = append(parts, phrase)
	}

	q := strings.Join(parts, " ")
	if q == "" {
		placeholder := cfg.QueryPlaceholder
		if placeholder == "" {
			placeholder = defaultQueryPlaceholder
		}
		return placeholder
	}
	return q
}

// retrieveCandidates embeds the query once and runs one similarity query per
// category concurrently. Any backend error fails the whole retrieval.
func (s *RecommendService) retrieveCandidates(
	ctx context.Context,
	profile domain.SkinProfile,
	limit int,
) (domain.CandidateSet, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.PerCategoryLimit
	}

	query := BuildQueryText(profile, s.cfg)
	qvec, err := s.deps.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var mu sync.Mutex
	out := make(domain.CandidateSet, len(domain.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range domain.Categories {
		g.Go(func() error {
			rows, err := s.deps.Searcher.SearchCategory(gctx, cat, qvec, limit)
			if err != nil {
				return fmt.Errorf("failed to search category %s: %w", cat, err)
			}
			for i := range rows {
				// the index is filtered on category, trust the filter over _source
				rows[i].Product.Category = cat
			}

			mu.Lock()
			out[cat] = rows
			mu.Unlock()

			CandidatesRetrievedTotal.WithLabelValues(string(cat)).Add(float64(len(rows)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("candidates_retrieved",
		"trace_id", TraceIDFromContext(ctx),
		"query", query,
		"limit", limit,
		"cream", len(out[domain.CategoryCream]),
		"essence", len(out[domain.CategoryEssence]),
		"skintoner", len(out[domain.CategorySkintoner]),
	)

	return out, nil
}
