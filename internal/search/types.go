// Package search implements the hybrid reranking pipeline: lexical vector
// retrieval over the corpus, oracle relevance scoring, multi-signal score
// fusion, and narrative-order presentation with chunk-context expansion.
package search

// SearchResult is one reranked hit. All score fields are in [0, 1] except
// TfidfScore, which is the raw inner-product retrieval score.
type SearchResult struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	TfidfScore    float64 `json:"tfidf_score"`
	ClaudeScore   float64 `json:"claude_score"`
	SemanticScore float64 `json:"semantic_score"`
	CombinedScore float64 `json:"combined_score"`
	Explanation   string  `json:"explanation"`
	ChunkID       int     `json:"chunk_id,omitempty"`
	Source        string  `json:"source"`
}

// ContextChunk is one neighboring chunk in a context window, previewed and
// annotated with its distance from the target chunk.
type ContextChunk struct {
	ChunkID  int    `json:"chunk_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Distance int    `json:"distance"`
}

// ContextualResults is the response of a context-aware search.
type ContextualResults struct {
	Results              []SearchResult         `json:"results"`
	Context              map[int][]ContextChunk `json:"context"`
	HasSequentialContent bool                   `json:"has_sequential_content"`
}
