package fusion

import (
	"context"
	"fmt"

	"veginReco/domain"
	"veginReco/pkg/logger"
)

const (
	modeFused      = "fused"
	modeSurveyOnly = "survey_only"
)

type FusionService struct{}

func NewFusionService() *FusionService {
	return &FusionService{}
}

// Assess never fails on malformed input; the only error is a cancelled context.
func (s *FusionService) Assess(ctx context.Context, answers domain.SurveyAnswers, vision *domain.VisionScores) (domain.SkinProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.SkinProfile{}, fmt.Errorf("context error: %w", err)
	}

	profile := Assess(answers, vision)

	mode := modeSurveyOnly
	if vision.Present() {
		mode = modeFused
	}
	FusionAssessmentsTotal.WithLabelValues(mode, string(profile.SkinType)).Inc()

	logger.Debug("skin profile assessed",
		"mode", mode,
		"skin_type", profile.SkinType,
		"skin_code", profile.SkinCode,
		"oil", profile.Indices.Oil,
		"dry", profile.Indices.Dry,
		"sensitivity", profile.Indices.Sensitivity,
		"wrinkle", profile.Indices.Wrinkle,
		"pigment", profile.Indices.Pigment,
	)

	return profile, nil
}
