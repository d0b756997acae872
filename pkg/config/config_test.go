package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "pw")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("RECOMMEND_TOPK", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("EMBEDDING_DIMENSION", "")

	cfg, err := Load()
	require.NoError(t, err)
	// unset means "keep the tuning file value"
	assert.Equal(t, 0, cfg.Recommend.TopK)
	assert.Equal(t, 0, cfg.Recommend.PerCategoryLimit)
	assert.Equal(t, "cosmetics_demo", cfg.Elastic.Index)
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, 1000, cfg.Tagger.BatchSize)
}

func TestEnvOverridesAndBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("RECOMMEND_TOPK", "5")
	t.Setenv("ES_TIMEOUT", "5s")
	t.Setenv("RECOMMEND_PER_CATEGORY_LIMIT", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Recommend.TopK)
	assert.Equal(t, 5*time.Second, cfg.Elastic.Timeout)
	assert.Equal(t, 0, cfg.Recommend.PerCategoryLimit)
}
