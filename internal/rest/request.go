package rest

import (
	"errors"
	"strconv"

	"veginReco/domain"

	"github.com/goccy/go-json"
)

var errSurveyRequired = errors.New("survey is required")

// AssessRequest is shared by fusion, recommendation and analysis endpoints.
// Survey may be sent bare ({"q1": ...}) or wrapped ({"survey": {"q1": ...}}).
type AssessRequest struct {
	Survey json.RawMessage      `json:"survey"`
	Vision *domain.VisionScores `json:"vision"`
	TopK   int                  `json:"topk" validate:"gte=0,lte=50"`
}

// answers decodes the survey object. Non-string values are ignored so a
// malformed answer scores 0 instead of failing the request.
func (r AssessRequest) answers() (domain.SurveyAnswers, error) {
	if len(r.Survey) == 0 || string(r.Survey) == "null" {
		return nil, errSurveyRequired
	}

	var m map[string]any
	if err := json.Unmarshal(r.Survey, &m); err != nil {
		return nil, errors.New("survey must be a JSON object")
	}
	if inner, ok := m["survey"].(map[string]any); ok {
		m = inner
	}

	answers := make(domain.SurveyAnswers, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			answers[k] = val
		case float64:
			answers[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return answers, nil
}
