package domain

import "errors"

type Category string

const (
	CategoryCream     Category = "cream"
	CategoryEssence   Category = "essence"
	CategorySkintoner Category = "skintoner"
)

// Categories lists the catalog categories in declaration order. Per-category
// output is always emitted in this order.
var Categories = []Category{CategoryCream, CategoryEssence, CategorySkintoner}

// ProductDocument mirrors one document of the search index. Numeric fields are
// pointers at the wire boundary because the catalog has gaps; use the accessor
// methods, which apply the zero default.
type ProductDocument struct {
	ProductID          string    `json:"product_id"`
	Category           Category  `json:"category"`
	ProductName        string    `json:"productName"`
	Brand              string    `json:"brand"`
	SalePrice          *float64  `json:"salePrice"`
	Ingredients        []string  `json:"ingredients"`
	AverageReviewScore *float64  `json:"averageReviewScore"`
	TotalReviewCount   *float64  `json:"totalReviewCount"`
	ReviewText         string    `json:"review_text,omitempty"`
	ReviewVector       []float32 `json:"review_vector,omitempty"`
	ImageURL           string    `json:"image_url"`
	XAIKeywords        []string  `json:"xai_keywords"`
}

func (p ProductDocument) Price() float64 { return NormalizeNumber(p.SalePrice) }

func (p ProductDocument) AvgReviewScore() float64 { return NormalizeNumber(p.AverageReviewScore) }

func (p ProductDocument) ReviewCount() float64 {
	n := NormalizeNumber(p.TotalReviewCount)
	if n < 0 {
		return 0
	}
	return n
}

// Candidate is a product returned by similarity search, before reranking.
type Candidate struct {
	Product         ProductDocument
	SimilarityScore float64
}

// CandidateSet groups retrieval output by category.
type CandidateSet map[Category][]Candidate

// FeatureWidth is the input width the scoring model is trained on.
const FeatureWidth = 7

// FeatureVector layout, fixed:
//
//	0 pos_ingredient_hits
//	1 neg_ingredient_hits
//	2 pos_minus_neg
//	3 avg_review_score
//	4 log1p(review_count)
//	5 log1p(price)
//	6 similarity_score
type FeatureVector [FeatureWidth]float64

const (
	FeatPosHits = iota
	FeatNegHits
	FeatPosMinusNeg
	FeatAvgReviewScore
	FeatLogReviewCount
	FeatLogPrice
	FeatSimilarity
)

// RankedItem is what the recommendation response carries. Review text and
// vector are intentionally absent.
type RankedItem struct {
	ProductID          string   `json:"product_id"`
	Category           Category `json:"category"`
	ProductName        string   `json:"productName"`
	Brand              string   `json:"brand"`
	SalePrice          float64  `json:"salePrice"`
	Ingredients        []string `json:"ingredients"`
	AverageReviewScore float64  `json:"averageReviewScore"`
	TotalReviewCount   int64    `json:"totalReviewCount"`
	ImageURL           string   `json:"image_url"`
	XAIKeywords        []string `json:"xai_keywords"`
	ScoreES            float64  `json:"score_es"`
	ScoreLTR           float64  `json:"score_ltr"`
}

// NewRankedItem strips the heavy review fields and applies numeric defaults.
func NewRankedItem(c Candidate, score float64) RankedItem {
	p := c.Product
	ingredients := p.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	keywords := p.XAIKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return RankedItem{
		ProductID:          p.ProductID,
		Category:           p.Category,
		ProductName:        p.ProductName,
		Brand:              p.Brand,
		SalePrice:          p.Price(),
		Ingredients:        ingredients,
		AverageReviewScore: p.AvgReviewScore(),
		TotalReviewCount:   int64(p.ReviewCount()),
		ImageURL:           p.ImageURL,
		XAIKeywords:        keywords,
		ScoreES:            c.SimilarityScore,
		ScoreLTR:           score,
	}
}

// DebugRecommendation exposes every scored candidate with its model input.
type DebugRecommendation struct {
	ProductID string        `json:"product_id"`
	Category  Category      `json:"category"`
	Features  FeatureVector `json:"features"`
	ScoreES   float64       `json:"score_es"`
	ScoreLTR  float64       `json:"score_ltr"`
	Selected  bool          `json:"selected"`
}

var (
	ErrFeatureWidth = errors.New("feature width does not match scoring model")
	ErrScoreCount   = errors.New("scoring model returned a different number of scores")
)

// ReviewDocument is the part of a catalog document the keyword tagger reads.
type ReviewDocument struct {
	ID         string
	ReviewText string
}

// KeywordUpdate is a partial update writing xai_keywords onto one document.
type KeywordUpdate struct {
	ID       string
	Keywords []string
}
