package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"veginReco/business/analysis"
	"veginReco/domain"
	"veginReco/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AnalysisService interface {
	Analyze(ctx context.Context, userID uint, in analysis.Input) (*domain.Analysis, error)
	Get(ctx context.Context, id string, userID uint) (*domain.Analysis, error)
	List(ctx context.Context, userID uint, limit, offset int) ([]domain.Analysis, error)
}

type AnalysisHandler struct {
	analysisService AnalysisService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewAnalysisHandler(analysisService AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		validator:       validator.New(),
		timeout:         30 * time.Second,
	}
}

type ListAnalysesQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

func userIDFrom(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// POST /api/v1/analyses
func (h *AnalysisHandler) Create(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AssessRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	answers, err := req.answers()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	a, err := h.analysisService.Analyze(ctx, userID, analysis.Input{
		Survey: answers,
		Vision: req.Vision,
		TopK:   req.TopK,
	})
	if err != nil {
		logger.Error("Failed to analyze", "user_id", userID, "error", err)
		if a != nil {
			// the FAILED row exists and can be fetched later
			return c.JSON(upstreamStatus(err), a)
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(a))
}

// GET /api/v1/analyses?limit=20&offset=0
func (h *AnalysisHandler) List(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q ListAnalysesQuery
	if err := c.Bind(&q); err != nil {
		return err
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rows, err := h.analysisService.List(ctx, userID, q.Limit, q.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rows))
}

// GET /api/v1/analyses/:id
func (h *AnalysisHandler) Get(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	a, err := h.analysisService.Get(ctx, c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(a))
}
