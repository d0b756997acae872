//go:build !integration

package xgboost

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"veginReco/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyModel = `{
  "learner": {
    "attributes": {},
    "feature_names": [],
    "gradient_booster": {
      "name": "gbtree",
      "model": {
        "gbtree_model_param": {"num_trees": "2"},
        "trees": [
          {
            "id": 0,
            "left_children": [1, -1, -1],
            "right_children": [2, -1, -1],
            "split_indices": [6, 0, 0],
            "split_conditions": [1.5, -0.5, 0.8],
            "default_left": [1, 0, 0]
          },
          {
            "id": 1,
            "left_children": [-1],
            "right_children": [-1],
            "split_indices": [0],
            "split_conditions": [0.1],
            "default_left": [false]
          }
        ],
        "tree_info": [0, 0]
      }
    },
    "learner_model_param": {"base_score": "[5E-1]", "num_class": "0", "num_feature": "7", "num_target": "1"},
    "objective": {"name": "rank:pairwise"}
  },
  "version": [2, 1, 0]
}`

func row(sim float64) domain.FeatureVector {
	var v domain.FeatureVector
	v[domain.FeatSimilarity] = sim
	return v
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel([]byte(tinyModel))
	require.NoError(t, err)

	assert.Equal(t, "rank:pairwise", m.Objective)
	assert.Equal(t, 7, m.NumFeature)
	assert.Equal(t, float32(0.5), m.BaseScore)
	assert.Equal(t, 2, m.NumTrees())
}

func TestModelPredict(t *testing.T) {
	m, err := ParseModel([]byte(tinyModel))
	require.NoError(t, err)

	assert.InDelta(t, 0.1, m.Predict(row(1.2)), 1e-6)
	assert.InDelta(t, 1.4, m.Predict(row(1.9)), 1e-6)
	// equal to the threshold goes right
	assert.InDelta(t, 1.4, m.Predict(row(1.5)), 1e-6)
	// missing value takes the default branch (left)
	assert.InDelta(t, 0.1, m.Predict(row(math.NaN())), 1e-6)
}

func TestParseModel_Rejects(t *testing.T) {
	wide := strings.Replace(tinyModel, `"num_feature": "7"`, `"num_feature": "8"`, 1)
	_, err := ParseModel([]byte(wide))
	assert.ErrorIs(t, err, domain.ErrFeatureWidth)

	linear := strings.Replace(tinyModel, `"name": "gbtree"`, `"name": "gblinear"`, 1)
	_, err = ParseModel([]byte(linear))
	assert.ErrorIs(t, err, ErrUnsupportedBooster)

	badSplit := strings.Replace(tinyModel, `"split_indices": [6, 0, 0]`, `"split_indices": [9, 0, 0]`, 1)
	_, err = ParseModel([]byte(badSplit))
	assert.Error(t, err)

	_, err = ParseModel([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseModel_RejectsMalformedTrees(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		want  string
	}{
		// node 1 points back at the root
		{"cycle", `[1, 0, -1]`, `[2, 2, -1]`, "reached twice"},
		// both branches share node 1, node 2 hangs loose
		{"shared child", `[1, -1, -1]`, `[1, -1, -1]`, "reached twice"},
		// root is a leaf, nodes 1 and 2 are never visited
		{"orphans", `[-1, -1, -1]`, `[-1, -1, -1]`, "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.Replace(tinyModel, `"left_children": [1, -1, -1]`, `"left_children": `+tt.left, 1)
			raw = strings.Replace(raw, `"right_children": [2, -1, -1]`, `"right_children": `+tt.right, 1)

			_, err := ParseModel([]byte(raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "tree 0")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseModel_SkipsPrunedNodes(t *testing.T) {
	// nodes 3 and 4 were pruned away and carry the deleted parent marker
	raw := strings.Replace(tinyModel, `"left_children": [1, -1, -1]`, `"left_children": [1, -1, -1, -1, -1]`, 1)
	raw = strings.Replace(raw, `"right_children": [2, -1, -1]`, `"right_children": [2, -1, -1, -1, -1]`, 1)
	raw = strings.Replace(raw, `"split_indices": [6, 0, 0]`, `"split_indices": [6, 0, 0, 0, 0]`, 1)
	raw = strings.Replace(raw, `"split_conditions": [1.5, -0.5, 0.8]`,
		`"split_conditions": [1.5, -0.5, 0.8, 0, 0], "parents": [-1, 0, 0, 2147483647, 2147483647]`, 1)

	m, err := ParseModel([]byte(raw))
	require.NoError(t, err)
	assert.InDelta(t, 1.4, m.Predict(row(1.9)), 1e-6)

	// without the marker the same nodes are orphans
	orphaned := strings.Replace(raw, `2147483647, 2147483647]`, `1, 1]`, 1)
	_, err = ParseModel([]byte(orphaned))
	assert.ErrorContains(t, err, "unreachable")
}

func TestParseBaseScore(t *testing.T) {
	for in, want := range map[string]float32{
		"5E-1":     0.5,
		"[5E-1]":   0.5,
		" 2.5E-1 ": 0.25,
		"":         0.5,
	} {
		got, err := parseBaseScore(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseBaseScore("abc")
	assert.Error(t, err)
}

func TestLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ltr_booster.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyModel), 0o600))

	l := NewLoader(path)

	var wg sync.WaitGroup
	results := make([][]float64, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scores, err := l.Predict(context.Background(), []domain.FeatureVector{row(1.2), row(1.9)})
			assert.NoError(t, err)
			results[i] = scores
		}(i)
	}
	wg.Wait()

	for _, scores := range results {
		require.Len(t, scores, 2)
		assert.InDelta(t, 0.1, scores[0], 1e-6)
		assert.InDelta(t, 1.4, scores[1], 1e-6)
	}

	require.NoError(t, l.Load())

	scores, err := l.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestLoader_Errors(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.json"))
	err := l.Load()
	require.Error(t, err)
	// the first result sticks
	assert.Equal(t, err, l.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLoader("unused").Predict(ctx, []domain.FeatureVector{row(1)})
	assert.ErrorIs(t, err, context.Canceled)
}
