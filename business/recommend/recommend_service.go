package recommend

import (
	"context"
	"fmt"
	"time"

	"veginReco/domain"
	"veginReco/pkg/logger"
	"veginReco/pkg/metrics"
)

// ---- Collaborator interfaces ----

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CandidateSearcher runs one category-filtered vector similarity query.
// Scores are cosine similarity offset by +1.0.
type CandidateSearcher interface {
	SearchCategory(ctx context.Context, category domain.Category, qvec []float32, limit int) ([]domain.Candidate, error)
}

// Dependencies are the long-lived handles built once in main and shared by
// every request.
type Dependencies struct {
	Embedder Embedder
	Searcher CandidateSearcher
	Scorer   Scorer
}

// ---- Service ----

type RecommendService struct {
	deps Dependencies
	cfg  Config
}

func NewRecommendService(deps Dependencies, cfg Config) *RecommendService {
	return &RecommendService{
		deps: deps,
		cfg:  cfg,
	}
}

func (s *RecommendService) Config() Config {
	return s.cfg
}

// Recommend runs retrieve -> featurize -> rerank -> top-k for one profile.
// topK <= 0 uses the configured default.
func (s *RecommendService) Recommend(
	ctx context.Context,
	profile domain.SkinProfile,
	topK int,
) ([]domain.RankedItem, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	scored, err := s.rank(ctx, profile)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	items := TopKPerCategory(toRankedItems(scored), topK)

	outcome := "ok"
	if len(items) == 0 {
		outcome = "empty"
	}
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()

	logger.Debug("recommend",
		"trace_id", TraceIDFromContext(ctx),
		"skin_type", profile.SkinType,
		"skin_code", profile.SkinCode,
		"candidate_count", len(scored),
		"returned", len(items),
		"top_k", topK,
	)

	return items, nil
}

// rank is the shared front half of Recommend and DebugRecommend.
func (s *RecommendService) rank(ctx context.Context, profile domain.SkinProfile) ([]ScoredCandidate, error) {
	grouped, err := s.retrieveCandidates(ctx, profile, s.cfg.PerCategoryLimit)
	if err != nil {
		return nil, err
	}

	rows := Featurize(grouped, profile, s.cfg)
	if len(rows) == 0 {
		return []ScoredCandidate{}, nil
	}

	return Rerank(ctx, s.deps.Scorer, rows)
}
