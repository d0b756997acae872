package recommend

import (
	"fmt"
)

// Level is the coarse severity of one skin index.
type Level int

const (
	LevelLow Level = iota
	LevelMid
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMid:
		return "mid"
	default:
		return "low"
	}
}

// Thresholds cut one index into low/mid/high. Both bounds are inclusive.
type Thresholds struct {
	High float64 `yaml:"high"`
	Mid  float64 `yaml:"mid"`
}

func (t Thresholds) Level(v float64) Level {
	switch {
	case v >= t.High:
		return LevelHigh
	case v >= t.Mid:
		return LevelMid
	default:
		return LevelLow
	}
}

type LevelThresholds struct {
	Oil         Thresholds `yaml:"oil"`
	Dry         Thresholds `yaml:"dry"`
	Sensitivity Thresholds `yaml:"sensitivity"`
	Pigment     Thresholds `yaml:"pigment"`
}

// Ingredient groups keyed in Config.PositiveIngredients / NegativeIngredients.
const (
	GroupPigment     = "pigment"
	GroupSensitivity = "sensitivity"
	GroupDry         = "dry"
	GroupAcne        = "acne"
)

type Config struct {
	PerCategoryLimit int `yaml:"per_category_limit"`
	TopK             int `yaml:"top_k"`

	// scales pos/neg ingredient hits relative to the other features
	HitWeight float64 `yaml:"hit_weight"`

	QueryPlaceholder string `yaml:"query_placeholder"`

	Levels LevelThresholds `yaml:"levels"`

	PositiveIngredients map[string][]string `yaml:"positive_ingredients"`
	NegativeIngredients map[string][]string `yaml:"negative_ingredients"`

	// skin code letter -> phrase appended to the query text
	CodeDescriptors map[string]string `yaml:"code_descriptors"`
}

const (
	defaultPerCategoryLimit = 15
	defaultTopK             = 3
	defaultHitWeight        = 1.0
	defaultQueryPlaceholder = "피부 고민 맞춤 화장품"
)

func DefaultConfig() Config {
	return Config{
		PerCategoryLimit: defaultPerCategoryLimit,
		TopK:             defaultTopK,
		HitWeight:        defaultHitWeight,
		QueryPlaceholder: defaultQueryPlaceholder,

		Levels: LevelThresholds{
			Oil:         Thresholds{High: 2.0, Mid: 1.0},
			Dry:         Thresholds{High: 2.0, Mid: 1.0},
			Sensitivity: Thresholds{High: 1.8, Mid: 1.0},
			Pigment:     Thresholds{High: 2.0, Mid: 1.2},
		},

		PositiveIngredients: map[string][]string{
			GroupPigment:     {"niacinamide", "비타민c", "arbutin", "트라넥삼산", "감초", "코직"},
			GroupSensitivity: {"panthenol", "판테놀", "cica", "병풀", "알란토인", "베타글루칸", "알로에", "세라마이드"},
			GroupDry:         {"히알루론산", "글리세린", "스쿠알란", "세라마이드", "콜레스테롤", "요소"},
			GroupAcne:        {"살리실산", "바하", "아젤라익", "아연"},
		},
		NegativeIngredients: map[string][]string{
			GroupSensitivity: {"향", "향료", "퍼퓸", "알코올", "에탄올", "에센셜 오일", "티트리 오일"},
			GroupAcne:        {"코코넛 오일", "아이소프로필 미리스테이트", "라놀린"},
		},

		CodeDescriptors: map[string]string{
			"O": "피지 조절 산뜻한",
			"D": "건조한 피부 보습",
			"S": "민감 피부 진정",
			"R": "순한 데일리",
			"P": "잡티 미백 톤업",
			"N": "맑은 피부결",
			"A": "주름 탄력 개선",
			"W": "탄력 유지",
		},
	}
}

// Validate rejects values the pipeline cannot run with.
// Upper bounds for the size knobs. A search page cannot exceed the index's
// default max_result_window, and top_k matches the largest topk the API takes.
const (
	MaxPerCategoryLimit = 10000
	MaxTopK             = 50
)

func (c Config) Validate() error {
	if c.PerCategoryLimit <= 0 || c.PerCategoryLimit > MaxPerCategoryLimit {
		return fmt.Errorf("per_category_limit must be in [1,%d], got %d", MaxPerCategoryLimit, c.PerCategoryLimit)
	}
	if c.TopK <= 0 || c.TopK > MaxTopK {
		return fmt.Errorf("top_k must be in [1,%d], got %d", MaxTopK, c.TopK)
	}
	if c.HitWeight <= 0 || c.HitWeight > 1 {
		return fmt.Errorf("hit_weight must be in (0,1], got %v", c.HitWeight)
	}
	for name, t := range map[string]Thresholds{
		"oil":         c.Levels.Oil,
		"dry":         c.Levels.Dry,
		"sensitivity": c.Levels.Sensitivity,
		"pigment":     c.Levels.Pigment,
	} {
		if t.Mid > t.High {
			return fmt.Errorf("levels.%s: mid (%v) above high (%v)", name, t.Mid, t.High)
		}
	}
	return nil
}
