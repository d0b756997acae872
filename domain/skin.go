package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// SurveyAnswers maps a question id (q1..q10) to the selected choice label.
type SurveyAnswers map[string]string

type SkinType string

const (
	SkinTypeOily        SkinType = "지성"
	SkinTypeDry         SkinType = "건성"
	SkinTypeCombination SkinType = "복합성"
	SkinTypeNormal      SkinType = "중성"
)

// SkinIndices are the five severity axes, each in [0,3].
type SkinIndices struct {
	Oil         float64 `json:"oil"`
	Dry         float64 `json:"dry"`
	Sensitivity float64 `json:"sensitivity"`
	Wrinkle     float64 `json:"wrinkle"`
	Pigment     float64 `json:"pigment"`
}

type VisionItem struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// VisionScores is the face-photo assessment produced by the external vision
// model. Scores are on a 0..100 scale.
type VisionScores struct {
	Acne             VisionItem
	Redness          VisionItem
	MelasmaDarkspots VisionItem
	Wrinkle          VisionItem

	// Raw keeps the payload exactly as received, for audit.
	Raw json.RawMessage

	present int
}

const (
	VisionKeyAcne    = "acne"
	VisionKeyRedness = "redness"
	VisionKeyMelasma = "melasma_darkspots"
	VisionKeyWrinkle = "wrinkle"
)

// Present reports whether at least one of the four scored items was supplied.
func (v *VisionScores) Present() bool {
	return v != nil && v.present > 0
}

// ParseVisionScores decodes a vision payload of the form
// {"acne":{"score":..,"reason":..}, ...}. It never fails: anything missing or
// malformed becomes a zero score, and a payload that is not a JSON object
// yields an empty (not Present) result.
func ParseVisionScores(raw []byte) VisionScores {
	out := VisionScores{}
	if len(raw) == 0 {
		return out
	}
	out.Raw = append(json.RawMessage(nil), raw...)

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return out
	}

	for key, dst := range map[string]*VisionItem{
		VisionKeyAcne:    &out.Acne,
		VisionKeyRedness: &out.Redness,
		VisionKeyMelasma: &out.MelasmaDarkspots,
		VisionKeyWrinkle: &out.Wrinkle,
	} {
		v, ok := m[key]
		if !ok {
			continue
		}
		out.present++
		item, ok := v.(map[string]any)
		if !ok {
			continue
		}
		dst.Score = NormalizeNumber(item["score"])
		if reason, ok := item["reason"].(string); ok {
			dst.Reason = reason
		}
	}

	return out
}

// MarshalJSON emits the raw payload untouched when available so the audit
// copy matches what the vision model returned.
func (v VisionScores) MarshalJSON() ([]byte, error) {
	if len(v.Raw) > 0 && json.Valid(v.Raw) {
		return v.Raw, nil
	}
	return json.Marshal(map[string]VisionItem{
		VisionKeyAcne:    v.Acne,
		VisionKeyRedness: v.Redness,
		VisionKeyMelasma: v.MelasmaDarkspots,
		VisionKeyWrinkle: v.Wrinkle,
	})
}

func (v *VisionScores) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = VisionScores{}
		return nil
	}
	*v = ParseVisionScores(b)
	return nil
}

// SkinProfile is the fused result consumed by retrieval and featurization.
// It is built once per request and not mutated afterwards.
type SkinProfile struct {
	SkinType  SkinType      `json:"skin_type"`
	SkinCode  string        `json:"skin_mbti"`
	Indices   SkinIndices   `json:"indices"`
	VisionRaw *VisionScores `json:"vision_raw,omitempty"`
}

// MarshalJSON adds skin_code as an alias of skin_mbti.
func (p SkinProfile) MarshalJSON() ([]byte, error) {
	type alias SkinProfile
	return json.Marshal(struct {
		alias
		SkinCodeAlias string `json:"skin_code"`
	}{alias: alias(p), SkinCodeAlias: p.SkinCode})
}

// NormalizeNumber maps absent or non-numeric input to 0. Numeric strings are
// accepted; NaN and infinities are not.
func NormalizeNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case *float64:
		if n == nil {
			return 0
		}
		f = *n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Round2 rounds to two decimals from the exact binary value, ties to even,
// so 0.015 (stored just below) gives 0.01 and 0.125 gives 0.12.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
