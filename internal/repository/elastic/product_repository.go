package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"veginReco/domain"
	"veginReco/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"
)

const scrollKeepAlive = 2 * time.Minute

// responseSourceFields is the _source projection for similarity search. The
// review text and vector stay on the server.
var responseSourceFields = []string{
	"product_id",
	"category",
	"productName",
	"brand",
	"salePrice",
	"ingredients",
	"averageReviewScore",
	"totalReviewCount",
	"image_url",
	"xai_keywords",
}

type ProductRepository struct {
	client      *elasticsearch.Client
	index       string
	vectorField string
}

func NewProductRepository(client *elasticsearch.Client, index, vectorField string) *ProductRepository {
	if vectorField == "" {
		vectorField = "review_vector"
	}
	return &ProductRepository{
		client:      client,
		index:       index,
		vectorField: vectorField,
	}
}

// ---- similarity search ----

type searchHit struct {
	ID     string                 `json:"_id"`
	Score  float64                `json:"_score"`
	Source domain.ProductDocument `json:"_source"`
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type reviewHit struct {
	ID     string `json:"_id"`
	Source struct {
		ReviewText string `json:"review_text"`
	} `json:"_source"`
}

type scrollResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []reviewHit `json:"hits"`
	} `json:"hits"`
}

func (r *ProductRepository) similarityQuery(category domain.Category, qvec []float32, limit int) map[string]any {
	return map[string]any{
		"size": limit,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"category": string(category)}},
				},
				"must": []any{
					map[string]any{
						"script_score": map[string]any{
							"query": map[string]any{"match_all": map[string]any{}},
							"script": map[string]any{
								"source": fmt.Sprintf("cosineSimilarity(params.qvec, '%s') + 1.0", r.vectorField),
								"params": map[string]any{"qvec": qvec},
							},
						},
					},
				},
			},
		},
		"_source": responseSourceFields,
	}
}

// SearchCategory returns the top limit documents of one category by cosine
// similarity to qvec, offset by +1.0. Hits keep the engine's order.
func (r *ProductRepository) SearchCategory(
	ctx context.Context,
	category domain.Category,
	qvec []float32,
	limit int,
) ([]domain.Candidate, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	body, err := json.Marshal(r.similarityQuery(category, qvec, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if err := responseError(res); err != nil {
		return nil, err
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	rows := make([]domain.Candidate, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		doc := h.Source
		if doc.ProductID == "" {
			doc.ProductID = h.ID
		}
		if doc.Category == "" {
			doc.Category = category
		}
		rows = append(rows, domain.Candidate{
			Product:         doc,
			SimilarityScore: h.Score,
		})
	}

	return rows, nil
}

// ---- catalog scan & keyword updates ----

// ScanReviews walks the whole index with the scroll API, pageSize documents
// at a time, and always clears the scroll context.
func (r *ProductRepository) ScanReviews(
	ctx context.Context,
	pageSize int,
	fn func(docs []domain.ReviewDocument) error,
) error {

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	query := `{"query":{"match_all":{}},"_source":["review_text"]}`
	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(strings.NewReader(query)),
		r.client.Search.WithSize(pageSize),
		r.client.Search.WithScroll(scrollKeepAlive),
		r.client.Search.WithSort("_doc"),
	)
	if err != nil {
		return fmt.Errorf("scan request failed: %w", err)
	}

	page, err := decodeScrollPage(res)
	if err != nil {
		return err
	}

	scrollID := page.ScrollID
	defer func() {
		if scrollID != "" {
			r.clearScroll(scrollID)
		}
	}()

	for len(page.Hits.Hits) > 0 {
		docs := make([]domain.ReviewDocument, 0, len(page.Hits.Hits))
		for _, h := range page.Hits.Hits {
			docs = append(docs, domain.ReviewDocument{
				ID:         h.ID,
				ReviewText: h.Source.ReviewText,
			})
		}
		if err := fn(docs); err != nil {
			return err
		}

		res, err := r.client.Scroll(
			r.client.Scroll.WithContext(ctx),
			r.client.Scroll.WithScrollID(scrollID),
			r.client.Scroll.WithScroll(scrollKeepAlive),
		)
		if err != nil {
			return fmt.Errorf("scroll request failed: %w", err)
		}
		page, err = decodeScrollPage(res)
		if err != nil {
			return err
		}
		if page.ScrollID != "" {
			scrollID = page.ScrollID
		}
	}

	return nil
}

func decodeScrollPage(res *esapi.Response) (scrollResponse, error) {
	defer res.Body.Close()

	if err := responseError(res); err != nil {
		return scrollResponse{}, err
	}

	var page scrollResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return scrollResponse{}, fmt.Errorf("failed to decode scroll response: %w", err)
	}
	return page, nil
}

func (r *ProductRepository) clearScroll(scrollID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.client.ClearScroll(
		r.client.ClearScroll.WithContext(ctx),
		r.client.ClearScroll.WithScrollID(scrollID),
	)
	if err != nil {
		logger.Warn("failed to clear scroll", "error", err)
		return
	}
	res.Body.Close()
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// UpdateKeywords sends one bulk request of partial updates setting
// xai_keywords. Per-document rejections are logged; a failed request is an
// error.
func (r *ProductRepository) UpdateKeywords(ctx context.Context, updates []domain.KeywordUpdate) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(updates) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, u := range updates {
		meta := map[string]any{"update": map[string]any{"_index": r.index, "_id": u.ID}}
		doc := map[string]any{"doc": map[string]any{"xai_keywords": u.Keywords}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode bulk meta: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode bulk doc: %w", err)
		}
	}

	res, err := r.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		r.client.Bulk.WithContext(ctx),
		r.client.Bulk.WithIndex(r.index),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if err := responseError(res); err != nil {
		return err
	}

	var out bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if out.Errors {
		failed := 0
		for _, item := range out.Items {
			for _, op := range item {
				if op.Error != nil {
					failed++
					logger.Warn("keyword update rejected",
						"id", op.ID,
						"status", op.Status,
						"type", op.Error.Type,
						"reason", op.Error.Reason,
					)
				}
			}
		}
		logger.Warn("bulk keyword update partially failed", "failed", failed, "total", len(updates))
	}

	return nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))

	var e struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Type != "" {
		return fmt.Errorf("elasticsearch %s: %s: %s", res.Status(), e.Error.Type, e.Error.Reason)
	}
	return fmt.Errorf("elasticsearch %s: %s", res.Status(), strings.TrimSpace(string(raw)))
}
