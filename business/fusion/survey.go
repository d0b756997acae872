package fusion

import (
	"strings"

	"veginReco/domain"
)

// choiceScores is the fixed questionnaire: question id -> choice label -> 0..3.
var choiceScores = map[string]map[string]int{
	"q1": {"없어요": 0, "T존 일부(이마 혹은 코)": 1, "T존 전체(이마와 코)": 2, "얼굴 전체": 3},
	"q2": {
		"전혀 안 보여요":       0,
		"지금은 없지만 가끔 보여요": 1,
		"부분적으로 붉게 보여요":   2,
		"전체적으로 붉게 보여요":   3,
	},
	"q3": {"없어요": 0, "U존 일부(볼 혹은 턱)": 1, "U존 전체(볼과 턱)": 2, "얼굴 전체": 3},
	"q4": {
		"전혀 생기지 않아요":       0,
		"표정을 지을 때만 생겨요":    1,
		"표정 짓지 않아도 약간 있어요": 2,
		"표정 짓지 않아도 많이 있어요": 3,
	},
	"q5": {
		"주름이 없어요":          0,
		"잔주름이에요":           1,
		"깊은 주름이에요":         2,
		"잔주름과 깊은 주름 다 있어요": 3,
	},
	"q6": {
		"전혀 생기지 않아요":      0,
		"미소 지을 때만 약간 생겨요": 1,
		"미소 지을 때 진하게 생겨요": 2,
		"미소 짓지 않아도 생겨요":   3,
	},
	"q7": {
		"전혀 안 보여요":   0,
		"거의 안 보여요":   1,
		"약간 눈에 띄어요":  2,
		"곳곳에 많이 보여요": 3,
	},
	"q8": {
		"주름이 없어요":          0,
		"잔주름이에요":           1,
		"깊은 주름이에요":         2,
		"잔주름과 깊은 주름 다 있어요": 3,
	},
	"q9": {
		"외출 전보다 윤기가 없어요":   0,
		"외출 전과 변함이 없어요":    1,
		"약간 번들거리고 윤기가 있어요": 2,
		"많이 번들거리고 기름져요":    3,
	},
	"q10": {
		"전혀 안 보여요":     0,
		"가끔 붉어지면 보여요":  1,
		"특정부위에 눈에 띄어요": 2,
		"곳곳에 많이 보여요":   3,
	},
}

// Questions returns the known question ids.
func Questions() []string {
	return []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10"}
}

// ScoreAnswers looks every known question up in the fixed table. Unknown
// questions are ignored; unanswered questions and unknown labels score 0.
func ScoreAnswers(answers domain.SurveyAnswers) map[string]int {
	out := make(map[string]int, len(choiceScores))
	for q, choices := range choiceScores {
		label, ok := answers[q]
		if !ok {
			out[q] = 0
			continue
		}
		out[q] = choices[strings.TrimSpace(label)]
	}
	return out
}

// SurveyIndices derives the five indices from the questionnaire alone.
func SurveyIndices(answers domain.SurveyAnswers) domain.SkinIndices {
	s := ScoreAnswers(answers)
	q := func(id string) float64 { return float64(s[id]) }

	return domain.SkinIndices{
		Oil:         domain.Round2(0.6*q("q1") + 0.4*q("q9")),
		Dry:         q("q3"),
		Sensitivity: domain.Round2(0.7*q("q2") + 0.3*q("q10")),
		Wrinkle:     domain.Round2(0.4*q("q4") + 0.6*((q("q5")+q("q8"))/2)),
		Pigment:     q("q7"),
	}
}
