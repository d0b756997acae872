package fusion

import (
	"strings"

	"veginReco/domain"
)

// skinCodeThreshold splits every axis of the skin code into its two letters.
const skinCodeThreshold = 1.5

// ClassifySkinType applies the four-branch rule on (oil, dry). It is total:
// every pair falls into exactly one type.
func ClassifySkinType(oil, dry float64) domain.SkinType {
	switch {
	case oil >= 2 && dry <= 1:
		return domain.SkinTypeOily
	case dry >= 2 && oil <= 1:
		return domain.SkinTypeDry
	case oil >= 2 && dry >= 2:
		return domain.SkinTypeCombination
	default:
		return domain.SkinTypeNormal
	}
}

// NormalizeVisionScore rescales a 0..100 vision score onto the 0..3 index scale.
func NormalizeVisionScore(x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 100 {
		x = 100
	}
	return domain.Round2(x / 100 * 3)
}

// FuseVision blends the vision scores into the survey indices. Dryness has no
// vision counterpart and is kept as is.
func FuseVision(idx domain.SkinIndices, vision domain.VisionScores) domain.SkinIndices {
	acne := NormalizeVisionScore(vision.Acne.Score)
	redness := NormalizeVisionScore(vision.Redness.Score)
	melasma := NormalizeVisionScore(vision.MelasmaDarkspots.Score)
	wrinkle := NormalizeVisionScore(vision.Wrinkle.Score)

	return domain.SkinIndices{
		Oil:         domain.Round2(0.7*idx.Oil + 0.3*acne),
		Dry:         idx.Dry,
		Sensitivity: domain.Round2(0.4*idx.Sensitivity + 0.6*redness),
		Wrinkle:     domain.Round2(0.6*idx.Wrinkle + 0.4*wrinkle),
		Pigment:     domain.Round2(0.3*idx.Pigment + 0.7*melasma),
	}
}

// ComputeSkinCode derives the 4-letter code from oil, sensitivity, pigment
// and wrinkle, in that order.
func ComputeSkinCode(idx domain.SkinIndices) string {
	var b strings.Builder
	b.Grow(4)
	b.WriteByte(letter(idx.Oil, 'O', 'D'))
	b.WriteByte(letter(idx.Sensitivity, 'S', 'R'))
	b.WriteByte(letter(idx.Pigment, 'P', 'N'))
	b.WriteByte(letter(idx.Wrinkle, 'A', 'W'))
	return b.String()
}

func letter(v float64, high, low byte) byte {
	if v >= skinCodeThreshold {
		return high
	}
	return low
}

// Assess builds the SkinProfile for one request. Without vision scores the
// profile is survey-only and carries no skin code.
func Assess(answers domain.SurveyAnswers, vision *domain.VisionScores) domain.SkinProfile {
	idx := SurveyIndices(answers)

	if !vision.Present() {
		return domain.SkinProfile{
			SkinType: ClassifySkinType(idx.Oil, idx.Dry),
			Indices:  idx,
		}
	}

	fused := FuseVision(idx, *vision)
	v := *vision
	return domain.SkinProfile{
		SkinType:  ClassifySkinType(fused.Oil, fused.Dry),
		SkinCode:  ComputeSkinCode(fused),
		Indices:   fused,
		VisionRaw: &v,
	}
}
