package analysis

import (
	"context"
	"fmt"
	"time"

	"veginReco/domain"
	"veginReco/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalysisRepository interface {
	Create(ctx context.Context, a *domain.Analysis) error
	Update(ctx context.Context, a *domain.Analysis) error
	FindByIDAndUser(ctx context.Context, id string, userID uint) (*domain.Analysis, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.Analysis, error)
}

type RecommendationRepository interface {
	Create(ctx context.Context, r *domain.Recommendation) error
}

type Assessor interface {
	Assess(ctx context.Context, answers domain.SurveyAnswers, vision *domain.VisionScores) (domain.SkinProfile, error)
}

type Recommender interface {
	Recommend(ctx context.Context, profile domain.SkinProfile, topK int) ([]domain.RankedItem, error)
}

// Input is what the caller submitted; it is stored verbatim as user_input.
type Input struct {
	Survey domain.SurveyAnswers `json:"survey"`
	Vision *domain.VisionScores `json:"vision,omitempty"`
	TopK   int                  `json:"topk,omitempty"`
}

type AnalysisService struct {
	analysisRepo AnalysisRepository
	recoRepo     RecommendationRepository
	assessor     Assessor
	recommender  Recommender
}

func NewAnalysisService(
	analysisRepo AnalysisRepository,
	recoRepo RecommendationRepository,
	assessor Assessor,
	recommender Recommender,
) *AnalysisService {
	return &AnalysisService{
		analysisRepo: analysisRepo,
		recoRepo:     recoRepo,
		assessor:     assessor,
		recommender:  recommender,
	}
}

const (
	defaultListLimit = 20
	maxListLimit     = 100

	finishTimeout = 5 * time.Second
)

// finishContext detaches the final status write from the request so a timed
// out or cancelled request still leaves a DONE or FAILED row.
func finishContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
}

// Analyze stores the request as PENDING, runs fusion and recommendation
// synchronously and finishes the row as DONE or FAILED. On failure the FAILED
// row is returned together with the error.
func (s *AnalysisService) Analyze(ctx context.Context, userID uint, in Input) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rawInput, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user input: %w", err)
	}

	a := &domain.Analysis{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserInput: datatypes.JSON(rawInput),
		Status:    domain.AnalysisPending,
	}
	if err := s.analysisRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	logger.Info("analysis_pending", "analysis_id", a.ID, "user_id", userID)

	result, err := s.run(ctx, in)

	wctx, cancel := finishContext(ctx)
	defer cancel()

	if err != nil {
		a.Status = domain.AnalysisFailed
		a.Error = err.Error()
		if uerr := s.analysisRepo.Update(wctx, a); uerr != nil {
			logger.Error("analysis_mark_failed", "analysis_id", a.ID, "error", uerr)
		}
		logger.Warn("analysis_failed", "analysis_id", a.ID, "error", err)
		return a, fmt.Errorf("analysis %s failed: %w", a.ID, err)
	}

	rawResult, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	a.Status = domain.AnalysisDone
	a.Result = datatypes.JSON(rawResult)
	if err := s.analysisRepo.Update(wctx, a); err != nil {
		return nil, fmt.Errorf("failed to update analysis: %w", err)
	}

	rawItems, err := json.Marshal(result.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendations: %w", err)
	}
	if err := s.recoRepo.Create(wctx, &domain.Recommendation{
		UserID:     userID,
		AnalysisID: a.ID,
		Items:      datatypes.JSON(rawItems),
	}); err != nil {
		return nil, fmt.Errorf("failed to save recommendations: %w", err)
	}

	logger.Info("analysis_done",
		"analysis_id", a.ID,
		"user_id", userID,
		"skin_type", result.Fusion.SkinType,
		"items", len(result.Recommendations),
	)
	return a, nil
}

func (s *AnalysisService) run(ctx context.Context, in Input) (domain.AnalysisResult, error) {
	profile, err := s.assessor.Assess(ctx, in.Survey, in.Vision)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("fusion: %w", err)
	}

	items, err := s.recommender.Recommend(ctx, profile, in.TopK)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("recommend: %w", err)
	}

	return domain.AnalysisResult{
		Fusion:          profile,
		Recommendations: items,
	}, nil
}

// Get returns the analysis only if it belongs to userID.
func (s *AnalysisService) Get(ctx context.Context, id string, userID uint) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrAnalysisNotFound
	}
	return s.analysisRepo.FindByIDAndUser(ctx, id, userID)
}

func (s *AnalysisService) List(ctx context.Context, userID uint, limit, offset int) ([]domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.analysisRepo.ListByUser(ctx, userID, limit, offset)
}
