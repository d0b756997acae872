package xgboost

import (
	"context"
	"fmt"
	"os"
	"sync"

	"veginReco/domain"
	"veginReco/pkg/logger"
)

// Loader owns the scoring model for the life of the process. The artifact is
// read on first use, exactly once, even under concurrent callers.
type Loader struct {
	path string

	once  sync.Once
	model *Model
	err   error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load forces the artifact to be read. Later calls return the first result.
func (l *Loader) Load() error {
	l.once.Do(func() {
		data, err := os.ReadFile(l.path)
		if err != nil {
			l.err = fmt.Errorf("failed to read model %s: %w", l.path, err)
			return
		}
		m, err := ParseModel(data)
		if err != nil {
			l.err = fmt.Errorf("failed to load model %s: %w", l.path, err)
			return
		}
		l.model = m

		logger.Info("scoring model loaded",
			"path", l.path,
			"objective", m.Objective,
			"trees", m.NumTrees(),
		)
	})
	return l.err
}

// Predict scores every row in order.
func (l *Loader) Predict(ctx context.Context, rows []domain.FeatureVector) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if err := l.Load(); err != nil {
		return nil, err
	}

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = l.model.Predict(row)
	}
	return scores, nil
}
