package xgboost

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"veginReco/domain"

	"github.com/goccy/go-json"
)

var ErrUnsupportedBooster = errors.New("unsupported booster")

// Model is a parsed gradient-boosted tree ensemble saved with
// Booster.save_model("*.json").
type Model struct {
	Objective  string
	NumFeature int
	BaseScore  float32

	trees []tree
}

type tree struct {
	left    []int32
	right   []int32
	feature []int32
	cond    []float32
	defLeft []bool
	deleted []bool
}

// wire format, only the fields the evaluator needs
type modelFile struct {
	Learner struct {
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []treeFile `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type treeFile struct {
	LeftChildren    []int32    `json:"left_children"`
	RightChildren   []int32    `json:"right_children"`
	SplitIndices    []int32    `json:"split_indices"`
	SplitConditions []float32  `json:"split_conditions"`
	DefaultLeft     []flexBool `json:"default_left"`
	Parents         []int32    `json:"parents"`
}

// deletedNodeMarker is the parent id pruning leaves on recycled nodes. Such
// nodes stay in the arrays but are not part of the tree.
const deletedNodeMarker = math.MaxInt32

// flexBool accepts both 0/1 and true/false; writers differ across versions.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "1", "true":
		*b = true
	case "0", "false", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// ParseModel decodes a JSON model artifact. The model must be a gbtree
// booster trained on exactly domain.FeatureWidth features.
func ParseModel(data []byte) (*Model, error) {
	var f modelFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	l := f.Learner
	if l.GradientBooster.Name != "gbtree" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBooster, l.GradientBooster.Name)
	}

	numFeature, err := strconv.Atoi(strings.TrimSpace(l.LearnerModelParam.NumFeature))
	if err != nil {
		return nil, fmt.Errorf("invalid num_feature %q: %w", l.LearnerModelParam.NumFeature, err)
	}
	if numFeature != domain.FeatureWidth {
		return nil, fmt.Errorf("%w: model has %d, features have %d",
			domain.ErrFeatureWidth, numFeature, domain.FeatureWidth)
	}

	base, err := parseBaseScore(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Objective:  l.Objective.Name,
		NumFeature: numFeature,
		BaseScore:  base,
		trees:      make([]tree, 0, len(l.GradientBooster.Model.Trees)),
	}

	for i, tf := range l.GradientBooster.Model.Trees {
		t, err := buildTree(tf, numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.trees = append(m.trees, t)
	}

	return m, nil
}

// parseBaseScore accepts "5E-1" as well as the bracketed "[5E-1]" newer
// releases write.
func parseBaseScore(s string) (float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return 0.5, nil
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", s, err)
	}
	return float32(v), nil
}

func buildTree(tf treeFile, numFeature int) (tree, error) {
	n := len(tf.LeftChildren)
	if n == 0 {
		return tree{}, errors.New("empty tree")
	}
	if len(tf.RightChildren) != n || len(tf.SplitIndices) != n || len(tf.SplitConditions) != n {
		return tree{}, errors.New("node arrays differ in length")
	}

	t := tree{
		left:    tf.LeftChildren,
		right:   tf.RightChildren,
		feature: tf.SplitIndices,
		cond:    tf.SplitConditions,
		defLeft: make([]bool, n),
		deleted: make([]bool, n),
	}
	for i := range tf.DefaultLeft {
		if i < n {
			t.defLeft[i] = bool(tf.DefaultLeft[i])
		}
	}
	for i, p := range tf.Parents {
		if i < n && p == deletedNodeMarker {
			t.deleted[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if t.left[i] == -1 || t.deleted[i] {
			continue
		}
		if int(t.left[i]) >= n || int(t.right[i]) >= n || t.left[i] < 0 || t.right[i] < 0 {
			return tree{}, fmt.Errorf("node %d has out of range children", i)
		}
		if int(t.feature[i]) >= numFeature || t.feature[i] < 0 {
			return tree{}, fmt.Errorf("node %d splits on feature %d", i, t.feature[i])
		}
	}

	if err := t.checkShape(); err != nil {
		return tree{}, err
	}

	return t, nil
}

// checkShape requires every live node to be reached from the root exactly
// once, which rules out cycles, shared children and orphans. Child indices
// must already be in range.
func (t tree) checkShape() error {
	seen := make([]bool, len(t.left))
	stack := []int32{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			return fmt.Errorf("node %d is reached twice", i)
		}
		if t.deleted[i] {
			return fmt.Errorf("node %d is deleted but reachable", i)
		}
		seen[i] = true
		if t.left[i] != -1 {
			stack = append(stack, t.left[i], t.right[i])
		}
	}
	for i, ok := range seen {
		if !ok && !t.deleted[i] {
			return fmt.Errorf("node %d is unreachable", i)
		}
	}
	return nil
}

// leaf walks from the root. A missing (NaN) value follows the default branch.
func (t tree) leaf(x *[domain.FeatureWidth]float32) float32 {
	i := int32(0)
	for t.left[i] != -1 {
		v := x[t.feature[i]]
		switch {
		case math.IsNaN(float64(v)):
			if t.defLeft[i] {
				i = t.left[i]
			} else {
				i = t.right[i]
			}
		case v < t.cond[i]:
			i = t.left[i]
		default:
			i = t.right[i]
		}
	}
	return t.cond[i]
}

// Margin is the raw ensemble output for one row.
func (m *Model) Margin(row domain.FeatureVector) float64 {
	var x [domain.FeatureWidth]float32
	for i, v := range row {
		x[i] = float32(v)
	}

	sum := m.BaseScore
	if m.Objective == "binary:logistic" {
		sum = logit(m.BaseScore)
	}
	for _, t := range m.trees {
		sum += t.leaf(&x)
	}
	return float64(sum)
}

// Predict applies the objective's output transform. Ranking and squared
// error objectives return the margin.
func (m *Model) Predict(row domain.FeatureVector) float64 {
	margin := m.Margin(row)
	if m.Objective == "binary:logistic" {
		return 1 / (1 + math.Exp(-margin))
	}
	return margin
}

func (m *Model) NumTrees() int { return len(m.trees) }

func logit(p float32) float32 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return float32(math.Log(float64(p) / float64(1-p)))
}
