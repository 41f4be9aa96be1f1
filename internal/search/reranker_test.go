package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybridrank/hybridrank/internal/corpus"
	"github.com/hybridrank/hybridrank/internal/embed"
	rerrors "github.com/hybridrank/hybridrank/internal/errors"
	"github.com/hybridrank/hybridrank/internal/textproc"
)

// fakeScorer returns a fixed score for documents containing a marker
// substring and a low score otherwise.
type fakeScorer struct {
	markers map[string]float64
	base    float64
	calls   atomic.Int64
	fail    bool
}

func (f *fakeScorer) ScoreRelevance(ctx context.Context, text, query string) (float64, error) {
	f.calls.Add(1)
	if f.fail {
		return 0.5, rerrors.New(rerrors.ErrCodeOracleUnavailable, "oracle down", nil)
	}
	for marker, score := range f.markers {
		if marker != "" && containsFold(text, marker) {
			return score, nil
		}
	}
	return f.base, nil
}

func (f *fakeScorer) ScoreRelevanceWithContext(ctx context.Context, text, query string, contextDocs []corpus.Document) (float64, error) {
	return f.ScoreRelevance(ctx, text, query)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func newTestReranker(t *testing.T, docs []corpus.Document, scorer *fakeScorer, opts ...Option) *Reranker {
	t.Helper()
	proc := textproc.NewProcessor()
	manager := embed.NewManager(proc, 5000, false, 0)

	r, err := NewReranker(docs, proc, manager, scorer, append([]Option{WithOracleConcurrency(2)}, opts...)...)
	require.NoError(t, err)
	return r
}

func narrativeDocs(n int) []corpus.Document {
	topics := []string{
		"the people gathered at the temple to hear the words of the record",
		"a great storm arose upon the waters and the ship was tossed",
		"the council debated the law and the covenant of the land",
		"harvest came early and the granaries were filled with wheat",
		"messengers were sent to the northern cities with the decree",
	}
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{
			Title:   fmt.Sprintf("Chronicle - Chunk %d", i+1),
			Content: fmt.Sprintf("Chapter %d: %s, as was written in the days of the kings.", i+1, topics[i%len(topics)]),
			ChunkID: i + 1,
			Source:  corpus.SourceCustom,
		}
	}
	return docs
}

func TestNewReranker_EmptyCorpus(t *testing.T) {
	proc := textproc.NewProcessor()
	manager := embed.NewManager(proc, 5000, false, 0)

	_, err := NewReranker(nil, proc, manager, &fakeScorer{base: 0.5})
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeEmptyCorpus, rerrors.GetCode(err))
}

func TestSearch_DefaultCorpusLegalQuery(t *testing.T) {
	scorer := &fakeScorer{
		markers: map[string]float64{"liability": 0.9, "authentication": 0.2},
		base:    0.4,
	}
	r := newTestReranker(t, corpus.DefaultCorpus(), scorer)

	results, err := r.Search(context.Background(), "legal risks and liability", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	for _, res := range results {
		assert.GreaterOrEqual(t, res.ClaudeScore, 0.0)
		assert.LessOrEqual(t, res.ClaudeScore, 1.0)
		assert.GreaterOrEqual(t, res.SemanticScore, 0.0)
		assert.LessOrEqual(t, res.SemanticScore, 1.0)
		assert.GreaterOrEqual(t, res.CombinedScore, 0.0)
		assert.LessOrEqual(t, res.CombinedScore, 1.0)
		assert.NotEmpty(t, res.Explanation)
		if res.CombinedScore > best.CombinedScore {
			best = res
		}
	}

	lower := best.Content
	found := false
	for _, kw := range []string{"legal", "contract", "liability"} {
		if containsFold(lower, kw) {
			found = true
			break
		}
	}
	assert.True(t, found, "top result should be on topic, got %q", best.Title)
}

func TestSearch_ReturnsAtMostKInNarrativeOrder(t *testing.T) {
	r := newTestReranker(t, narrativeDocs(10), &fakeScorer{base: 0.5})

	results, err := r.Search(context.Background(), "words of the record", 4)
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), 4)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i-1].ChunkID, results[i].ChunkID,
			"results must be in ascending chunk order")
	}
}

func TestSearch_KLargerThanCorpus(t *testing.T) {
	docs := corpus.DefaultCorpus()
	r := newTestReranker(t, docs, &fakeScorer{base: 0.5})

	results, err := r.Search(context.Background(), "compliance and security", 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), len(docs))
}

func TestSearch_EmptyQuery(t *testing.T) {
	r := newTestReranker(t, corpus.DefaultCorpus(), &fakeScorer{base: 0.5})

	_, err := r.Search(context.Background(), "   ", 5)
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeQueryEmpty, rerrors.GetCode(err))
}

func TestSearch_NegativeK(t *testing.T) {
	r := newTestReranker(t, corpus.DefaultCorpus(), &fakeScorer{base: 0.5})

	_, err := r.Search(context.Background(), "query", -1)
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeInvalidLimit, rerrors.GetCode(err))
}

func TestSearch_ZeroKUsesDefault(t *testing.T) {
	r := newTestReranker(t, narrativeDocs(10), &fakeScorer{base: 0.5}, WithTopK(3))

	results, err := r.Search(context.Background(), "storm upon the waters", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 3)
	assert.NotEmpty(t, results)
}

func TestSearch_OracleFailureDegradesGracefully(t *testing.T) {
	r := newTestReranker(t, corpus.DefaultCorpus(), &fakeScorer{base: 0.5, fail: true})

	results, err := r.Search(context.Background(), "legal liability", 3)
	require.NoError(t, err, "oracle failure must not fail the search")
	require.NotEmpty(t, results)

	for _, res := range results {
		assert.InDelta(t, 0.5, res.ClaudeScore, 1e-9, "failed oracle yields the neutral score")
	}

	snap := r.Metrics()
	assert.Positive(t, snap.OracleFallbacks)
	assert.Equal(t, snap.OracleCalls, snap.OracleFallbacks)
}

func TestSearch_Deterministic(t *testing.T) {
	scorer := &fakeScorer{markers: map[string]float64{"storm": 0.9}, base: 0.3}
	r := newTestReranker(t, narrativeDocs(10), scorer, WithOracleConcurrency(4))

	first, err := r.Search(context.Background(), "great storm on the waters", 5)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := r.Search(context.Background(), "great storm on the waters", 5)
		require.NoError(t, err)
		assert.Equal(t, first, again, "concurrent scoring must aggregate deterministically")
	}
}

func TestGetChunkContext(t *testing.T) {
	r := newTestReranker(t, narrativeDocs(10), &fakeScorer{base: 0.5})

	chunks := r.GetChunkContext(5, 2)
	require.Len(t, chunks, 5)

	wantIDs := []int{3, 4, 5, 6, 7}
	for i, c := range chunks {
		assert.Equal(t, wantIDs[i], c.ChunkID)
		want := c.ChunkID - 5
		if want < 0 {
			want = -want
		}
		assert.Equal(t, want, c.Distance)
	}
}

func TestGetChunkContext_EdgeOfCorpus(t *testing.T) {
	r := newTestReranker(t, narrativeDocs(10), &fakeScorer{base: 0.5})

	chunks := r.GetChunkContext(1, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, 1, chunks[0].ChunkID)
	assert.Equal(t, 3, chunks[2].ChunkID)
}

func TestGetChunkContext_PreviewTruncation(t *testing.T) {
	docs := narrativeDocs(3)
	long := docs[1]
	for len(long.Content) <= contextPreviewLength {
		long.Content += " and the record continued at considerable length"
	}
	docs[1] = long

	r := newTestReranker(t, docs, &fakeScorer{base: 0.5})

	chunks := r.GetChunkContext(2, 1)
	for _, c := range chunks {
		if c.ChunkID == 2 {
			assert.Len(t, c.Content, contextPreviewLength+3)
			assert.True(t, c.Content[len(c.Content)-3:] == "...")
		}
	}
}

func TestSearchWithContext_SequentialSource(t *testing.T) {
	r := newTestReranker(t, narrativeDocs(10), &fakeScorer{base: 0.5})

	out, err := r.SearchWithContext(context.Background(), "council and the covenant", 3, true)
	require.NoError(t, err)

	assert.True(t, out.HasSequentialContent)
	require.NotEmpty(t, out.Results)
	for _, res := range out.Results {
		window, ok := out.Context[res.ChunkID]
		require.True(t, ok, "every sequential result carries a context window")
		assert.NotEmpty(t, window)
	}
}

func TestSearchWithContext_DefaultSourceHasNoContext(t *testing.T) {
	r := newTestReranker(t, corpus.DefaultCorpus(), &fakeScorer{base: 0.5})

	out, err := r.SearchWithContext(context.Background(), "security risks", 3, true)
	require.NoError(t, err)

	assert.False(t, out.HasSequentialContent)
	assert.Empty(t, out.Context)
}

func TestSearchWithContext_ContextDisabled(t *testing.T) {
	r := newTestReranker(t, narrativeDocs(10), &fakeScorer{base: 0.5})

	out, err := r.SearchWithContext(context.Background(), "harvest and granaries", 3, false)
	require.NoError(t, err)

	assert.True(t, out.HasSequentialContent)
	assert.Empty(t, out.Context)
}

func TestCorpusSize(t *testing.T) {
	r := newTestReranker(t, corpus.DefaultCorpus(), &fakeScorer{base: 0.5})
	assert.Equal(t, 5, r.CorpusSize())
}
