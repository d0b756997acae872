package recommend

import (
	"math"
	"strings"

	"veginReco/domain"
)

func OilLevel(v float64, cfg Config) Level { return cfg.Levels.Oil.Level(v) }
func DryLevel(v float64, cfg Config) Level { return cfg.Levels.Dry.Level(v) }
func SensitivityLevel(v float64, cfg Config) Level { return cfg.Levels.Sensitivity.Level(v) }
func PigmentLevel(v float64, cfg Config) Level { return cfg.Levels.Pigment.Level(v) }

// Vocabulary is the per-request ingredient set the candidates are matched on.
type Vocabulary struct {
	Positive map[string]struct{}
	Negative map[string]struct{}
}

// BuildVocabulary adds the ingredient groups of every axis at high level.
func BuildVocabulary(idx domain.SkinIndices, cfg Config) Vocabulary {
	v := Vocabulary{
		Positive: map[string]struct{}{},
		Negative: map[string]struct{}{},
	}

	if PigmentLevel(idx.Pigment, cfg) == LevelHigh {
		addAll(v.Positive, cfg.PositiveIngredients[GroupPigment])
	}
	if SensitivityLevel(idx.Sensitivity, cfg) == LevelHigh {
		addAll(v.Positive, cfg.PositiveIngredients[GroupSensitivity])
		addAll(v.Negative, cfg.NegativeIngredients[GroupSensitivity])
	}
	if DryLevel(idx.Dry, cfg) == LevelHigh {
		addAll(v.Positive, cfg.PositiveIngredients[GroupDry])
	}
	if OilLevel(idx.Oil, cfg) == LevelHigh {
		addAll(v.Positive, cfg.PositiveIngredients[GroupAcne])
		addAll(v.Negative, cfg.NegativeIngredients[GroupAcne])
	}

	return v
}

func addAll(dst map[string]struct{}, items []string) {
	for _, it := range items {
		if k := normalizeIngredient(it); k != "" {
			dst[k] = struct{}{}
		}
	}
}

func normalizeIngredient(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FeaturizedCandidate keeps a candidate next to its model input so scores can
// be paired back after prediction.
type FeaturizedCandidate struct {
	Candidate domain.Candidate
	Features  domain.FeatureVector
}

// Featurize walks categories in declaration order, then retrieval order.
func Featurize(grouped domain.CandidateSet, profile domain.SkinProfile, cfg Config) []FeaturizedCandidate {
	vocab := BuildVocabulary(profile.Indices, cfg)

	weight := cfg.HitWeight
	if weight <= 0 || weight > 1 {
		weight = defaultHitWeight
	}

	total := 0
	for _, rows := range grouped {
		total += len(rows)
	}
	out := make([]FeaturizedCandidate, 0, total)

	for _, cat := range domain.Categories {
		for _, c := range grouped[cat] {
			out = append(out, FeaturizedCandidate{
				Candidate: c,
				Features:  buildFeatureVector(c, vocab, weight),
			})
		}
	}
	return out
}

func buildFeatureVector(c domain.Candidate, vocab Vocabulary, weight float64) domain.FeatureVector {
	pos, neg := 0, 0
	for _, ing := range c.Product.Ingredients {
		k := normalizeIngredient(ing)
		if _, ok := vocab.Positive[k]; ok {
			pos++
		}
		if _, ok := vocab.Negative[k]; ok {
			neg++
		}
	}

	posHits := float64(pos) * weight
	negHits := float64(neg) * weight

	var x domain.FeatureVector
	x[domain.FeatPosHits] = posHits
	x[domain.FeatNegHits] = negHits
	x[domain.FeatPosMinusNeg] = posHits - negHits
	x[domain.FeatAvgReviewScore] = c.Product.AvgReviewScore()
	x[domain.FeatLogReviewCount] = math.Log1p(c.Product.ReviewCount())
	x[domain.FeatLogPrice] = math.Log1p(nonNegative(c.Product.Price()))
	x[domain.FeatSimilarity] = c.SimilarityScore
	return x
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
