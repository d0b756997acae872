package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"지성 피지 조절"}, req.Input)
		assert.Equal(t, "ko-sroberta", req.Model)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	repo := NewEmbeddingRepository(EmbeddingConfig{
		BaseURL:   srv.URL + "/v1/",
		APIKey:    "secret",
		Model:     "ko-sroberta",
		Dimension: 3,
	})

	vec, err := repo.Embed(context.Background(), "지성 피지 조절")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2]}]}`))
	}))
	defer srv.Close()

	repo := NewEmbeddingRepository(EmbeddingConfig{BaseURL: srv.URL, Dimension: 768})

	_, err := repo.Embed(context.Background(), "건성")
	assert.ErrorContains(t, err, "expected 768")
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"model loading"}}`))
	}))
	defer srv.Close()

	repo := NewEmbeddingRepository(EmbeddingConfig{BaseURL: srv.URL})

	_, err := repo.Embed(context.Background(), "건성")
	assert.ErrorContains(t, err, "503")
	assert.ErrorContains(t, err, "model loading")
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewEmbeddingRepository(EmbeddingConfig{BaseURL: srv.URL}).Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "no vectors")
}
