package elastic

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"veginReco/domain"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport answers by path and records request bodies.
type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string]func(req *http.Request, body []byte) (int, string)
	bodies   map[string][][]byte
	methods  []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		handlers: map[string]func(*http.Request, []byte) (int, string){},
		bodies:   map[string][][]byte{},
	}
}

func (f *fakeTransport) on(path string, h func(req *http.Request, body []byte) (int, string)) {
	f.handlers[path] = h
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	f.mu.Lock()
	f.bodies[req.URL.Path] = append(f.bodies[req.URL.Path], body)
	f.methods = append(f.methods, req.Method+" "+req.URL.Path)
	h, ok := f.handlers[req.URL.Path]
	if !ok && strings.HasPrefix(req.URL.Path, "/_search/scroll") {
		h, ok = f.handlers["/_search/scroll"]
	}
	f.mu.Unlock()

	status, payload := http.StatusOK, "{}"
	if ok {
		status, payload = h(req, body)
	}

	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(payload)),
		Request:    req,
	}, nil
}

func newTestRepo(t *testing.T, tr *fakeTransport) *ProductRepository {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.local:9200"},
		Transport: tr,
	})
	require.NoError(t, err)
	return NewProductRepository(client, "cosmetics_demo", "")
}

func TestSearchCategory(t *testing.T) {
	tr := newFakeTransport()
	tr.on("/cosmetics_demo/_search", func(*http.Request, []byte) (int, string) {
		return http.StatusOK, `{"hits":{"hits":[
			{"_id":"cream_1","_score":1.83,"_source":{"product_id":"cream_1","productName":"수분 크림","salePrice":25000,"ingredients":["히알루론산"],"averageReviewScore":4.5,"totalReviewCount":120}},
			{"_id":"cream_2","_score":1.52,"_source":{"productName":"무향 크림","salePrice":null}}
		]}}`
	})
	repo := newTestRepo(t, tr)

	rows, err := repo.SearchCategory(context.Background(), domain.CategoryCream, []float32{0.1, 0.2}, 15)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cream_1", rows[0].Product.ProductID)
	assert.Equal(t, 1.83, rows[0].SimilarityScore)
	assert.Equal(t, 25000.0, rows[0].Product.Price())
	assert.Equal(t, domain.CategoryCream, rows[0].Product.Category)

	// _id fills a missing product_id, null price defaults to 0
	assert.Equal(t, "cream_2", rows[1].Product.ProductID)
	assert.Equal(t, 0.0, rows[1].Product.Price())

	bodies := tr.bodies["/cosmetics_demo/_search"]
	require.Len(t, bodies, 1)

	var q map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &q))
	assert.EqualValues(t, 15, q["size"])
	assert.Contains(t, string(bodies[0]), `"term":{"category":"cream"}`)
	assert.Contains(t, string(bodies[0]), "cosineSimilarity(params.qvec, 'review_vector') + 1.0")
	assert.NotContains(t, string(bodies[0]), `"review_text"`)
}

func TestSearchCategory_BackendError(t *testing.T) {
	tr := newFakeTransport()
	tr.on("/cosmetics_demo/_search", func(*http.Request, []byte) (int, string) {
		return http.StatusBadRequest, `{"error":{"type":"search_phase_execution_exception","reason":"bad vector"}}`
	})
	repo := newTestRepo(t, tr)

	_, err := repo.SearchCategory(context.Background(), domain.CategoryEssence, []float32{1}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_phase_execution_exception")
}

func TestScanReviews(t *testing.T) {
	tr := newFakeTransport()
	tr.on("/cosmetics_demo/_search", func(*http.Request, []byte) (int, string) {
		return http.StatusOK, `{"_scroll_id":"s1","hits":{"hits":[
			{"_id":"a","_source":{"review_text":"촉촉해요"}},
			{"_id":"b","_source":{}}
		]}}`
	})
	scrolls := 0
	tr.on("/_search/scroll", func(req *http.Request, _ []byte) (int, string) {
		if req.Method == http.MethodDelete {
			return http.StatusOK, `{"succeeded":true}`
		}
		scrolls++
		if scrolls == 1 {
			return http.StatusOK, `{"_scroll_id":"s2","hits":{"hits":[{"_id":"c","_source":{"review_text":"트러블 진정"}}]}}`
		}
		return http.StatusOK, `{"_scroll_id":"s2","hits":{"hits":[]}}`
	})
	repo := newTestRepo(t, tr)

	var pages [][]domain.ReviewDocument
	err := repo.ScanReviews(context.Background(), 2, func(docs []domain.ReviewDocument) error {
		pages = append(pages, docs)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, "a", pages[0][0].ID)
	assert.Equal(t, "촉촉해요", pages[0][0].ReviewText)
	assert.Equal(t, "", pages[0][1].ReviewText)
	assert.Equal(t, "c", pages[1][0].ID)

	var cleared bool
	for _, m := range tr.methods {
		if strings.HasPrefix(m, "DELETE /_search/scroll") {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestUpdateKeywords(t *testing.T) {
	tr := newFakeTransport()
	tr.on("/cosmetics_demo/_bulk", func(*http.Request, []byte) (int, string) {
		return http.StatusOK, `{"errors":true,"items":[
			{"update":{"_id":"a","status":200}},
			{"update":{"_id":"b","status":404,"error":{"type":"document_missing_exception","reason":"missing"}}}
		]}`
	})
	repo := newTestRepo(t, tr)

	err := repo.UpdateKeywords(context.Background(), []domain.KeywordUpdate{
		{ID: "a", Keywords: []string{"트러블 진정", "촉촉"}},
		{ID: "b", Keywords: []string{"보습 개선"}},
	})
	require.NoError(t, err)

	bodies := tr.bodies["/cosmetics_demo/_bulk"]
	require.Len(t, bodies, 1)

	lines := []string{}
	sc := bufio.NewScanner(bytes.NewReader(bodies[0]))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"update"`)
	assert.Contains(t, lines[0], `"_id":"a"`)
	assert.Contains(t, lines[1], `"xai_keywords":["트러블 진정","촉촉"]`)
}

func TestUpdateKeywords_RequestFails(t *testing.T) {
	tr := newFakeTransport()
	tr.on("/cosmetics_demo/_bulk", func(*http.Request, []byte) (int, string) {
		return http.StatusServiceUnavailable, `{"error":{"type":"cluster_block_exception","reason":"read-only"}}`
	})
	repo := newTestRepo(t, tr)

	err := repo.UpdateKeywords(context.Background(), []domain.KeywordUpdate{{ID: "a", Keywords: []string{"x"}}})
	assert.ErrorContains(t, err, "cluster_block_exception")

	assert.NoError(t, repo.UpdateKeywords(context.Background(), nil))
}
