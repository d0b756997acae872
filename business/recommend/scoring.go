package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"veginReco/domain"
	"veginReco/pkg/metrics"
)

// Scorer is the learned ranking model. It returns one score per row, higher
// is better, in input order.
type Scorer interface {
	Predict(ctx context.Context, rows []domain.FeatureVector) ([]float64, error)
}

type ScoredCandidate struct {
	FeaturizedCandidate
	Score float64
}

// Rerank calls the scorer once for all rows and stable-sorts by score
// descending, so equal scores keep retrieval order.
func Rerank(ctx context.Context, scorer Scorer, rows []FeaturizedCandidate) ([]ScoredCandidate, error) {
	if len(rows) == 0 {
		return []ScoredCandidate{}, nil
	}

	x := make([]domain.FeatureVector, len(rows))
	for i, r := range rows {
		x[i] = r.Features
	}

	start := time.Now()
	scores, err := scorer.Predict(ctx, x)
	metrics.ScoringLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to score candidates: %w", err)
	}
	if len(scores) != len(rows) {
		return nil, fmt.Errorf("%w: got %d for %d rows", domain.ErrScoreCount, len(scores), len(rows))
	}

	out := make([]ScoredCandidate, len(rows))
	for i, r := range rows {
		out[i] = ScoredCandidate{FeaturizedCandidate: r, Score: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

func toRankedItems(scored []ScoredCandidate) []domain.RankedItem {
	out := make([]domain.RankedItem, 0, len(scored))
	for _, s := range scored {
		out = append(out, domain.NewRankedItem(s.Candidate, s.Score))
	}
	return out
}
