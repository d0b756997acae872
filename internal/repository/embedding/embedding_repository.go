package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type EmbeddingConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// EmbeddingRepository calls an OpenAI-compatible /embeddings endpoint serving
// the sentence embedding model the catalog vectors were built with.
type EmbeddingRepository struct {
	cfg    EmbeddingConfig
	client *http.Client
}

func NewEmbeddingRepository(cfg EmbeddingConfig) *EmbeddingRepository {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EmbeddingRepository{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r *EmbeddingRepository) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	payload, err := json.Marshal(embeddingRequest{
		Input: []string{text},
		Model: r.cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	url := strings.TrimRight(r.cfg.BaseURL, "/") + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	var out embeddingResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response (status %d): %w", res.StatusCode, err)
	}
	if res.StatusCode != http.StatusOK {
		msg := http.StatusText(res.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("embedding service returned %d: %s", res.StatusCode, msg)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("embedding service returned no vectors")
	}

	vec := out.Data[0].Embedding
	if r.cfg.Dimension > 0 && len(vec) != r.cfg.Dimension {
		return nil, fmt.Errorf("embedding dimension %d, expected %d", len(vec), r.cfg.Dimension)
	}

	return vec, nil
}
