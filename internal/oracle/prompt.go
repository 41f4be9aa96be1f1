package oracle

import (
	"fmt"
	"strings"

	"github.com/hybridrank/hybridrank/internal/corpus"
)

const relevancePromptTemplate = `You are an expert information retrieval system analyzing document relevance.

TASK: Determine how relevant this document is to the user's query.

QUERY: %q

DOCUMENT: %q

ANALYSIS FRAMEWORK:
1. Semantic Match: How well does the document content match the query's meaning?
2. Topic Relevance: Does the document discuss the same topic/domain as the query?
3. Information Value: How useful would this document be for someone with this query?
4. Specificity: How directly does the document address the query's specific aspects?

SCORING CRITERIA:
- 0.9-1.0: Highly relevant, directly answers or addresses the query
- 0.7-0.8: Very relevant, contains substantial related information
- 0.5-0.6: Moderately relevant, some useful information but not directly on topic
- 0.3-0.4: Minimally relevant, tangentially related information
- 0.0-0.2: Not relevant, unrelated to the query

IMPORTANT: Consider synonyms, related concepts, and contextual meaning. A document about "legal risks" is highly relevant to "liability issues".

Provide your analysis in this exact format:
RELEVANCE_SCORE: [number between 0.0 and 1.0]
REASONING: [brief explanation of the score]`

const contextPromptTemplate = `You are analyzing document relevance in context of a document collection.

QUERY: %q

TARGET DOCUMENT: %q

CONTEXT (other documents in collection):
%s

Given this context, how relevant is the TARGET DOCUMENT to the query?
Consider:
1. Does it provide unique information not covered by other documents?
2. Does it complement or enhance the information from other documents?
3. Is it directly relevant to the query's intent?

Return only a relevance score between 0.0 and 1.0.`

func relevancePrompt(text, query string) string {
	return fmt.Sprintf(relevancePromptTemplate, query, text)
}

// contextPrompt includes at most two neighboring documents, each previewed
// to 100 characters.
func contextPrompt(text, query string, contextDocs []corpus.Document) string {
	limit := len(contextDocs)
	if limit > 2 {
		limit = 2
	}

	var lines []string
	for _, doc := range contextDocs[:limit] {
		preview := doc.Content
		if len(preview) > 100 {
			preview = preview[:100]
		}
		lines = append(lines, fmt.Sprintf("- %s: %s...", doc.Title, preview))
	}

	return fmt.Sprintf(contextPromptTemplate, query, text, strings.Join(lines, "\n"))
}
