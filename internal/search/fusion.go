package search

import (
	"fmt"
	"strings"
)

// Fusion weights. The oracle carries the most weight for semantic
// understanding; the two small terms reward length appropriateness and
// keyword density. Weights sum to 1.0.
const (
	weightTfidf    = 0.2
	weightOracle   = 0.5
	weightSemantic = 0.2
	weightLength   = 0.05
	weightKeywords = 0.05

	// expectedChunkWords normalizes the query/content length ratio.
	expectedChunkWords = 50.0
)

// fuseScores combines the retrieval, oracle, and lexical signals into one
// score in [0, 1]. Raw retrieval scores above 1.0 are clamped before
// weighting.
func fuseScores(tfidfScore, oracleScore, semanticScore, lengthRatio, keywordDensity float64) float64 {
	normalizedTfidf := tfidfScore
	if normalizedTfidf > 1.0 {
		normalizedTfidf = 1.0
	}
	if normalizedTfidf < 0 {
		normalizedTfidf = 0
	}

	combined := weightTfidf*normalizedTfidf +
		weightOracle*oracleScore +
		weightSemantic*semanticScore +
		weightLength*lengthRatio +
		weightKeywords*keywordDensity

	if combined > 1.0 {
		return 1.0
	}
	if combined < 0 {
		return 0
	}
	return combined
}

// lengthRatio rewards candidates whose length suits the query: the ratio of
// query word count to content word count normalized by the expected chunk
// size, capped at 1.0.
func lengthRatio(query, content string) float64 {
	queryWords := float64(len(strings.Fields(query)))
	contentWords := float64(len(strings.Fields(content)))

	denom := contentWords / expectedChunkWords
	if denom < 1.0 {
		denom = 1.0
	}

	ratio := queryWords / denom
	if ratio > 1.0 {
		return 1.0
	}
	return ratio
}

// explain produces the human-readable relevance tier for a result.
func explain(title, query string, oracleScore, semanticScore float64) string {
	switch {
	case oracleScore >= 0.8 && semanticScore >= 0.6:
		return fmt.Sprintf("Highly relevant: '%s' directly addresses '%s' with strong semantic match.", title, query)
	case oracleScore >= 0.6:
		return fmt.Sprintf("Very relevant: '%s' contains substantial information related to '%s'.", title, query)
	case oracleScore >= 0.4 || semanticScore >= 0.4:
		return fmt.Sprintf("Moderately relevant: '%s' has some useful information for '%s'.", title, query)
	default:
		return fmt.Sprintf("Limited relevance: '%s' tangentially related to '%s'.", title, query)
	}
}
