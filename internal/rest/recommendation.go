package rest

import (
	"context"
	"net/http"
	"time"

	"veginReco/business/recommend"
	"veginReco/domain"
	"veginReco/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate    *validator.Validate
		assessor    Assessor
		recommender Recommender
		timeout     time.Duration
	}

	Assessor interface {
		Assess(ctx context.Context, answers domain.SurveyAnswers, vision *domain.VisionScores) (domain.SkinProfile, error)
	}

	Recommender interface {
		Recommend(ctx context.Context, profile domain.SkinProfile, topK int) ([]domain.RankedItem, error)
		DebugRecommend(ctx context.Context, profile domain.SkinProfile, topK int) ([]domain.DebugRecommendation, error)
	}

	RecommendResponse struct {
		Status          string              `json:"status"`
		Fusion          domain.SkinProfile  `json:"fusion"`
		Recommendations []domain.RankedItem `json:"recommendations"`
	}
)

func NewRecommendationHandler(assessor Assessor, recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{
		validate:    validator.New(),
		assessor:    assessor,
		recommender: recommender,
		timeout:     30 * time.Second,
	}
}

func (h *RecommendationHandler) bind(c echo.Context) (domain.SurveyAnswers, AssessRequest, error) {
	var req AssessRequest
	if err := c.Bind(&req); err != nil {
		return nil, req, err
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	answers, err := req.answers()
	if err != nil {
		return nil, req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return answers, req, nil
}

// POST /api/v1/fusion
func (h *RecommendationHandler) Fusion(c echo.Context) error {
	answers, req, err := h.bind(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.assessor.Assess(ctx, answers, req.Vision)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, profile)
}

// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	answers, req, err := h.bind(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.assessor.Assess(ctx, answers, req.Vision)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	items, err := h.recommender.Recommend(ctx, profile, req.TopK)
	if err != nil {
		logger.Error("recommendation failed",
			"trace_id", recommend.TraceIDFromContext(ctx),
			"error", err,
		)
		return c.JSON(upstreamStatus(err), ResponseError{Message: err.Error()})
	}
	if items == nil {
		items = []domain.RankedItem{}
	}

	return c.JSON(http.StatusOK, RecommendResponse{
		Status:          "ok",
		Fusion:          profile,
		Recommendations: items,
	})
}

// POST /api/v1/recommendations/debug
func (h *RecommendationHandler) DebugRecommend(c echo.Context) error {
	answers, req, err := h.bind(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.assessor.Assess(ctx, answers, req.Vision)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	recs, err := h.recommender.DebugRecommend(ctx, profile, req.TopK)
	if err != nil {
		return c.JSON(upstreamStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}
