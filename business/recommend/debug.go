package recommend

import (
	"context"
	"fmt"

	"veginReco/domain"
	"veginReco/pkg/logger"
)

// DebugRecommend returns every scored candidate in rank order with its model
// input, marking the ones Recommend would return.
func (s *RecommendService) DebugRecommend(
	ctx context.Context,
	profile domain.SkinProfile,
	topK int,
) ([]domain.DebugRecommendation, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	scored, err := s.rank(ctx, profile)
	if err != nil {
		return nil, err
	}

	type key struct {
		cat domain.Category
		id  string
	}
	selected := make(map[key]bool)
	for _, it := range TopKPerCategory(toRankedItems(scored), topK) {
		selected[key{it.Category, it.ProductID}] = true
	}

	out := make([]domain.DebugRecommendation, 0, len(scored))
	for _, sc := range scored {
		p := sc.Candidate.Product
		out = append(out, domain.DebugRecommendation{
			ProductID: p.ProductID,
			Category:  p.Category,
			Features:  sc.Features,
			ScoreES:   sc.Candidate.SimilarityScore,
			ScoreLTR:  sc.Score,
			Selected:  selected[key{p.Category, p.ProductID}],
		})
	}

	logger.Debug("recommend_debug",
		"trace_id", TraceIDFromContext(ctx),
		"skin_type", profile.SkinType,
		"candidate_count", len(out),
		"query", BuildQueryText(profile, s.cfg),
	)

	return out, nil
}
