package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybridrank/hybridrank/internal/corpus"
	"github.com/hybridrank/hybridrank/internal/embed"
	"github.com/hybridrank/hybridrank/internal/search"
	"github.com/hybridrank/hybridrank/internal/textproc"
)

// neutralScorer always returns 0.5 without hitting the network.
type neutralScorer struct{}

func (neutralScorer) ScoreRelevance(ctx context.Context, text, query string) (float64, error) {
	return 0.5, nil
}

func (neutralScorer) ScoreRelevanceWithContext(ctx context.Context, text, query string, contextDocs []corpus.Document) (float64, error) {
	return 0.5, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	proc := textproc.NewProcessor()
	manager := embed.NewManager(proc, 5000, false, 0)

	reranker, err := search.NewReranker(corpus.DefaultCorpus(), proc, manager, neutralScorer{})
	require.NoError(t, err)

	return New(reranker, "127.0.0.1:0", nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status     string `json:"status"`
		CorpusSize int    `json:"corpus_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 5, resp.CorpusSize)
}

func TestRagQuery(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/rag-query", map[string]any{
		"query": "legal risks and liability",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results              []search.SearchResult `json:"results"`
		HasSequentialContent bool                  `json:"has_sequential_content"`
		ContextAvailable     bool                  `json:"context_available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Results)
	for _, res := range resp.Results {
		assert.GreaterOrEqual(t, res.CombinedScore, 0.0)
		assert.LessOrEqual(t, res.CombinedScore, 1.0)
	}
	// The default corpus is not a sequential source.
	assert.False(t, resp.HasSequentialContent)
	assert.False(t, resp.ContextAvailable)
}

func TestRagQuery_MissingQuery(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/rag-query", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, "ERR_402_QUERY_EMPTY", resp.Code)
}

func TestRagQuery_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/rag-query", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/search", map[string]any{
		"query": "authentication requirements",
		"k":     2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []search.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Results)
	assert.LessOrEqual(t, len(resp.Results), 2)
}

func TestSearchEndpoint_NegativeK(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/search", map[string]any{
		"query": "anything",
		"k":     -2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChunkContext(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/chunk-context/3?radius=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ChunkID            int                   `json:"chunk_id"`
		Context            []search.ContextChunk `json:"context"`
		TotalContextChunks int                   `json:"total_context_chunks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.ChunkID)
	require.Equal(t, 3, resp.TotalContextChunks)
	assert.Equal(t, 2, resp.Context[0].ChunkID)
	assert.Equal(t, 4, resp.Context[2].ChunkID)
}

func TestChunkContext_InvalidID(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/chunk-context/zero?radius=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	doJSON(t, handler, http.MethodPost, "/search", map[string]any{"query": "compliance audit"})

	w := doJSON(t, handler, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalSearches int64 `json:"total_searches"`
		OracleCalls   int64 `json:"oracle_calls"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.TotalSearches)
	assert.Positive(t, resp.OracleCalls)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
