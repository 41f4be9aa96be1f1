package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hybridrank/hybridrank/internal/corpus"
	"github.com/hybridrank/hybridrank/internal/embed"
	rerrors "github.com/hybridrank/hybridrank/internal/errors"
	"github.com/hybridrank/hybridrank/internal/index"
	"github.com/hybridrank/hybridrank/internal/oracle"
	"github.com/hybridrank/hybridrank/internal/telemetry"
	"github.com/hybridrank/hybridrank/internal/textproc"
)

const (
	// DefaultTopK is the result count when the caller does not specify one.
	DefaultTopK = 5
	// DefaultContextRadius is the chunk-context window half-width.
	DefaultContextRadius = 2
	// DefaultOracleConcurrency bounds parallel oracle calls per search.
	DefaultOracleConcurrency = 4

	// contextPreviewLength truncates chunk content in context windows.
	contextPreviewLength = 200
	// oracleContextDocs is how many neighboring candidates accompany each
	// oracle scoring call.
	oracleContextDocs = 2
)

// Reranker ties the pipeline together: it builds the index once at
// construction and serves read-only hybrid searches afterwards. Safe for
// concurrent use once constructed.
type Reranker struct {
	docs     []corpus.Document
	proc     *textproc.Processor
	manager  *embed.Manager
	embedder embed.Embedder
	idx      *index.Index
	scorer   oracle.Scorer

	topK          int
	contextRadius int
	concurrency   int
	metrics       *telemetry.Metrics
	logger        *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker)

// WithTopK sets the default result count.
func WithTopK(k int) Option {
	return func(r *Reranker) { r.topK = k }
}

// WithContextRadius sets the default chunk-context window half-width.
func WithContextRadius(radius int) Option {
	return func(r *Reranker) { r.contextRadius = radius }
}

// WithOracleConcurrency bounds parallel oracle calls per search.
func WithOracleConcurrency(n int) Option {
	return func(r *Reranker) { r.concurrency = n }
}

// WithMetrics sets the telemetry collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Reranker) { r.metrics = m }
}

// WithLogger sets the reranker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) { r.logger = logger }
}

// NewReranker builds the full pipeline over the given corpus: fits the
// embedding space, embeds every document, and builds the vector index. An
// empty corpus is fatal.
func NewReranker(docs []corpus.Document, proc *textproc.Processor, manager *embed.Manager, scorer oracle.Scorer, opts ...Option) (*Reranker, error) {
	r := &Reranker{
		docs:          docs,
		proc:          proc,
		manager:       manager,
		scorer:        scorer,
		topK:          DefaultTopK,
		contextRadius: DefaultContextRadius,
		concurrency:   DefaultOracleConcurrency,
		metrics:       telemetry.NewMetrics(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if len(docs) == 0 {
		return nil, rerrors.New(rerrors.ErrCodeEmptyCorpus, "cannot build reranker over empty corpus", nil)
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}

	start := time.Now()
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	if err := manager.Fit(texts); err != nil {
		return nil, err
	}

	vectors, err := manager.EmbedBatch(texts)
	if err != nil {
		return nil, err
	}

	r.idx = index.New(manager.Dimension())
	if err := r.idx.Build(vectors); err != nil {
		return nil, err
	}

	r.embedder = embed.NewCachedEmbedder(manager, embed.DefaultEmbeddingCacheSize)

	r.logger.Info("reranker built",
		"documents", len(docs),
		"dimension", manager.Dimension(),
		"elapsed", time.Since(start))
	return r, nil
}

// candidate is one retrieved document awaiting scoring.
type candidate struct {
	doc        corpus.Document
	position   int
	tfidfScore float64
}

// Search runs the hybrid pipeline: query expansion, vector retrieval of
// min(2k, corpusSize) candidates, concurrent oracle scoring, score fusion,
// truncation to k, and narrative reordering by chunk id.
func (r *Reranker) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, rerrors.New(rerrors.ErrCodeQueryEmpty, "query must not be empty", nil)
	}
	if k < 0 {
		return nil, rerrors.New(rerrors.ErrCodeInvalidLimit, "result count must not be negative", nil)
	}
	if k == 0 {
		k = r.topK
	}

	candidates, err := r.retrieve(query, k)
	if err != nil {
		return nil, err
	}

	results, err := r.rerank(ctx, query, candidates)
	if err != nil {
		return nil, err
	}

	// Relevance order first, ties broken by retrieval order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore > results[j].CombinedScore
	})
	if len(results) > k {
		results = results[:k]
	}

	// Narrative reordering: present the selected top-k in source order.
	sortByChunkID(results)

	r.metrics.RecordSearch(telemetry.SearchEvent{
		Query:       query,
		ResultCount: len(results),
		Latency:     time.Since(start),
		Timestamp:   start,
	})
	r.logger.Debug("search complete",
		"query", query, "results", len(results), "elapsed", time.Since(start))
	return results, nil
}

// retrieve embeds the expanded query and pulls 2k candidates from the
// vector index.
func (r *Reranker) retrieve(query string, k int) ([]candidate, error) {
	expanded := r.proc.ExpandQuery(query)

	queryVec, err := r.embedder.Embed(expanded)
	if err != nil {
		return nil, err
	}

	retrieveK := 2 * k
	if retrieveK > len(r.docs) {
		retrieveK = len(r.docs)
	}

	hits, err := r.idx.Search(queryVec, retrieveK)
	if err != nil {
		return nil, rerrors.New(rerrors.ErrCodeSearchFailed, "vector retrieval failed", err)
	}

	candidates := make([]candidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(r.docs) {
			continue
		}
		candidates = append(candidates, candidate{
			doc:        r.docs[hit.Position],
			position:   hit.Position,
			tfidfScore: hit.Score,
		})
	}
	return candidates, nil
}

// rerank scores every candidate with bounded parallelism. Results are
// aggregated by candidate position, so the output is deterministic for a
// fixed set of oracle responses.
func (r *Reranker) rerank(ctx context.Context, query string, candidates []candidate) ([]SearchResult, error) {
	results := make([]SearchResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range candidates {
		g.Go(func() error {
			cand := candidates[i]

			oracleScore, oracleErr := r.scorer.ScoreRelevanceWithContext(
				gctx, cand.doc.Content, query, neighbors(candidates, i))
			r.metrics.RecordOracleCall(oracleErr != nil)

			semanticScore := r.proc.Similarity(cand.doc.Content, query)
			combined := fuseScores(
				cand.tfidfScore,
				oracleScore,
				semanticScore,
				lengthRatio(query, cand.doc.Content),
				r.proc.KeywordOverlap(query, cand.doc.Content),
			)

			results[i] = SearchResult{
				Title:         cand.doc.Title,
				Content:       cand.doc.Content,
				TfidfScore:    cand.tfidfScore,
				ClaudeScore:   oracleScore,
				SemanticScore: semanticScore,
				CombinedScore: combined,
				Explanation:   explain(cand.doc.Title, query, oracleScore, semanticScore),
				ChunkID:       cand.doc.ChunkID,
				Source:        cand.doc.Source,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, rerrors.New(rerrors.ErrCodeSearchFailed, "candidate scoring failed", err)
	}
	return results, nil
}

// neighbors returns up to oracleContextDocs other retrieved documents, in
// retrieval order, to accompany candidate i's oracle call.
func neighbors(candidates []candidate, i int) []corpus.Document {
	var docs []corpus.Document
	for j := range candidates {
		if j == i {
			continue
		}
		docs = append(docs, candidates[j].doc)
		if len(docs) == oracleContextDocs {
			break
		}
	}
	return docs
}

// sortByChunkID orders results ascending by chunk id; results without one
// sort last, keeping their relative relevance order.
func sortByChunkID(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].ChunkID, results[j].ChunkID
		if a <= 0 {
			return false
		}
		if b <= 0 {
			return true
		}
		return a < b
	})
}

// GetChunkContext returns every document whose chunk id lies within radius
// of the target, sorted ascending, with content previews and the absolute
// distance from the target. A non-positive radius uses the configured
// default.
func (r *Reranker) GetChunkContext(chunkID, radius int) []ContextChunk {
	if radius <= 0 {
		radius = r.contextRadius
	}

	var chunks []ContextChunk
	for _, doc := range r.docs {
		if doc.ChunkID <= 0 {
			continue
		}
		distance := doc.ChunkID - chunkID
		if distance < 0 {
			distance = -distance
		}
		if distance > radius {
			continue
		}
		chunks = append(chunks, ContextChunk{
			ChunkID:  doc.ChunkID,
			Title:    doc.Title,
			Content:  preview(doc.Content),
			Distance: distance,
		})
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkID < chunks[j].ChunkID })
	return chunks
}

// SearchWithContext runs Search and attaches the surrounding chunk window
// to every result that came from a sequential (chunked custom) source.
func (r *Reranker) SearchWithContext(ctx context.Context, query string, k int, includeContext bool) (*ContextualResults, error) {
	results, err := r.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	out := &ContextualResults{
		Results: results,
		Context: map[int][]ContextChunk{},
	}
	for _, res := range results {
		if res.Source == corpus.SourceCustom {
			out.HasSequentialContent = true
		}
	}
	if !includeContext {
		return out, nil
	}

	for _, res := range results {
		if res.Source != corpus.SourceCustom || res.ChunkID <= 0 {
			continue
		}
		out.Context[res.ChunkID] = r.GetChunkContext(res.ChunkID, r.contextRadius)
	}
	return out, nil
}

// CorpusSize returns the number of indexed documents.
func (r *Reranker) CorpusSize() int {
	return len(r.docs)
}

// Metrics returns a snapshot of the reranker's telemetry.
func (r *Reranker) Metrics() telemetry.Snapshot {
	return r.metrics.Snapshot()
}

func preview(content string) string {
	if len(content) <= contextPreviewLength {
		return content
	}
	return content[:contextPreviewLength] + "..."
}
