//go:build !integration

package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"veginReco/business/analysis"
	"veginReco/domain"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssessor struct {
	gotAnswers domain.SurveyAnswers
	gotVision  *domain.VisionScores
}

func (f *fakeAssessor) Assess(_ context.Context, answers domain.SurveyAnswers, vision *domain.VisionScores) (domain.SkinProfile, error) {
	f.gotAnswers = answers
	f.gotVision = vision
	return domain.SkinProfile{
		SkinType: domain.SkinTypeCombination,
		SkinCode: "OSNW",
		Indices:  domain.SkinIndices{Oil: 3, Dry: 2},
	}, nil
}

type fakeRecommender struct {
	items  []domain.RankedItem
	err    error
	gotTop int
}

func (f *fakeRecommender) Recommend(_ context.Context, _ domain.SkinProfile, topK int) ([]domain.RankedItem, error) {
	f.gotTop = topK
	return f.items, f.err
}

func (f *fakeRecommender) DebugRecommend(_ context.Context, _ domain.SkinProfile, topK int) ([]domain.DebugRecommendation, error) {
	f.gotTop = topK
	if f.err != nil {
		return nil, f.err
	}
	return []domain.DebugRecommendation{{ProductID: "cream_1", Category: domain.CategoryCream, Selected: true}}, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newRecoEcho(a *fakeAssessor, r *fakeRecommender) *echo.Echo {
	h := NewRecommendationHandler(a, r)
	e := newTestEcho()
	e.POST("/fusion", h.Fusion)
	e.POST("/recommendations", h.Recommend)
	e.POST("/recommendations/debug", h.DebugRecommend)
	return e
}

func TestFusion_WrappedSurvey(t *testing.T) {
	a := &fakeAssessor{}
	e := newRecoEcho(a, &fakeRecommender{})

	rec := do(e, http.MethodPost, "/fusion",
		`{"survey":{"survey":{"q1":"얼굴 전체","q3":"U존 전체(볼과 턱)","q4":3}},"vision":{"acne":{"score":"70"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "얼굴 전체", a.gotAnswers["q1"])
	assert.Equal(t, "U존 전체(볼과 턱)", a.gotAnswers["q3"])
	assert.Equal(t, "3", a.gotAnswers["q4"])
	require.NotNil(t, a.gotVision)
	assert.True(t, a.gotVision.Present())
	assert.Equal(t, 70.0, a.gotVision.Acne.Score)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "복합성", body["skin_type"])
	assert.Equal(t, "OSNW", body["skin_mbti"])
	assert.Equal(t, "OSNW", body["skin_code"])
}

func TestRecommend(t *testing.T) {
	a := &fakeAssessor{}
	r := &fakeRecommender{items: []domain.RankedItem{
		{ProductID: "cream_1", Category: domain.CategoryCream, ScoreES: 1.8, ScoreLTR: 0.4},
	}}
	e := newRecoEcho(a, r)

	rec := do(e, http.MethodPost, "/recommendations", `{"survey":{"q1":"얼굴 전체"},"topk":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, r.gotTop)
	assert.Nil(t, a.gotVision)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, domain.SkinTypeCombination, resp.Fusion.SkinType)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "cream_1", resp.Recommendations[0].ProductID)
	assert.NotContains(t, rec.Body.String(), "review_text")
}

func TestRecommend_EmptyCatalogIsEmptyList(t *testing.T) {
	e := newRecoEcho(&fakeAssessor{}, &fakeRecommender{})

	rec := do(e, http.MethodPost, "/recommendations", `{"survey":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendations":[]`)
}

func TestRecommend_BadRequests(t *testing.T) {
	e := newRecoEcho(&fakeAssessor{}, &fakeRecommender{})

	for name, body := range map[string]string{
		"no survey":     `{"topk":3}`,
		"survey array":  `{"survey":[1,2]}`,
		"topk too big":  `{"survey":{},"topk":51}`,
		"negative topk": `{"survey":{},"topk":-1}`,
		"broken json":   `{"survey":`,
	} {
		rec := do(e, http.MethodPost, "/recommendations", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestRecommend_UpstreamFailure(t *testing.T) {
	e := newRecoEcho(&fakeAssessor{}, &fakeRecommender{err: errors.New("search backend unavailable")})

	rec := do(e, http.MethodPost, "/recommendations", `{"survey":{}}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "search backend unavailable")

	e = newRecoEcho(&fakeAssessor{}, &fakeRecommender{err: context.DeadlineExceeded})
	rec = do(e, http.MethodPost, "/recommendations", `{"survey":{}}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestDebugRecommend(t *testing.T) {
	r := &fakeRecommender{}
	e := newRecoEcho(&fakeAssessor{}, r)

	rec := do(e, http.MethodPost, "/recommendations/debug", `{"survey":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"features"`)
	assert.Contains(t, rec.Body.String(), `"selected":true`)
	assert.Equal(t, 0, r.gotTop)
}

// ---- analyses ----

type fakeAnalysisService struct {
	gotUser  uint
	gotInput analysis.Input
	gotLimit int
	gotOff   int
	err      error
	failed   bool
}

func (f *fakeAnalysisService) Analyze(_ context.Context, userID uint, in analysis.Input) (*domain.Analysis, error) {
	f.gotUser = userID
	f.gotInput = in
	if f.failed {
		return &domain.Analysis{ID: "a-1", UserID: userID, Status: domain.AnalysisFailed, Error: "boom"}, errors.New("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Analysis{ID: "a-1", UserID: userID, Status: domain.AnalysisDone}, nil
}

func (f *fakeAnalysisService) Get(_ context.Context, id string, userID uint) (*domain.Analysis, error) {
	if id != "a-1" || userID != 7 {
		return nil, domain.ErrAnalysisNotFound
	}
	return &domain.Analysis{ID: id, UserID: userID, Status: domain.AnalysisDone}, nil
}

func (f *fakeAnalysisService) List(_ context.Context, userID uint, limit, offset int) ([]domain.Analysis, error) {
	f.gotUser = userID
	f.gotLimit = limit
	f.gotOff = offset
	return []domain.Analysis{{ID: "a-1", UserID: userID}}, nil
}

func asUser(id uint) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", id)
			return next(c)
		}
	}
}

func newAnalysisEcho(svc AnalysisService, auth bool) *echo.Echo {
	h := NewAnalysisHandler(svc)
	e := newTestEcho()
	g := e.Group("/analyses")
	if auth {
		g.Use(asUser(7))
	}
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	return e
}

func TestAnalysis_Create(t *testing.T) {
	svc := &fakeAnalysisService{}
	e := newAnalysisEcho(svc, true)

	rec := do(e, http.MethodPost, "/analyses", `{"survey":{"q1":"얼굴 전체"},"topk":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, uint(7), svc.gotUser)
	assert.Equal(t, "얼굴 전체", svc.gotInput.Survey["q1"])
	assert.Equal(t, 3, svc.gotInput.TopK)
	assert.Contains(t, rec.Body.String(), `"DONE"`)
}

func TestAnalysis_CreateFailedRow(t *testing.T) {
	e := newAnalysisEcho(&fakeAnalysisService{failed: true}, true)

	rec := do(e, http.MethodPost, "/analyses", `{"survey":{}}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"FAILED"`)
}

func TestAnalysis_RequiresUser(t *testing.T) {
	e := newAnalysisEcho(&fakeAnalysisService{}, false)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodPost, "/analyses", `{"survey":{}}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/analyses", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/analyses/a-1", "").Code)
}

func TestAnalysis_GetAndList(t *testing.T) {
	svc := &fakeAnalysisService{}
	e := newAnalysisEcho(svc, true)

	rec := do(e, http.MethodGet, "/analyses/a-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/analyses/someone-else", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/analyses?limit=5&offset=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)
	assert.Equal(t, 10, svc.gotOff)

	rec = do(e, http.MethodGet, "/analyses?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newTestEcho()
	e.GET("/health", Health)

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
