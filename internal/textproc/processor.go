// Package textproc provides text cleaning, keyword extraction, query
// expansion, and lexical similarity for the reranking pipeline.
//
// All operations are pure functions over strings; a Processor only carries
// its fixed stopword, preserve-term, and synonym configuration.
package textproc

import (
	"regexp"
	"strings"

	"github.com/blevesearch/go-porterstemmer"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	// Strip characters outside word characters and basic punctuation.
	disallowedPattern = regexp.MustCompile(`[^\w\s.,;:!?-]`)
	tokenPattern      = regexp.MustCompile(`[a-z0-9_]+`)
	sentencePattern   = regexp.MustCompile(`[.!?]+`)
)

// Processor cleans and tokenizes text, extracts domain-weighted keyword
// sets, expands queries with synonyms, and computes Jaccard similarity.
type Processor struct {
	stopwords     map[string]struct{}
	preserveTerms map[string]struct{}
	synonyms      map[string][]string
}

// Option configures a Processor.
type Option func(*Processor)

// WithStopwords adds extra stopwords to the default set.
func WithStopwords(words ...string) Option {
	return func(p *Processor) {
		for _, w := range words {
			p.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithPreserveTerms adds domain terms that are kept verbatim instead of stemmed.
func WithPreserveTerms(terms ...string) Option {
	return func(p *Processor) {
		for _, t := range terms {
			p.preserveTerms[strings.ToLower(t)] = struct{}{}
		}
	}
}

// WithSynonyms adds custom synonym mappings, overriding default entries.
func WithSynonyms(synonyms map[string][]string) Option {
	return func(p *Processor) {
		for k, v := range synonyms {
			p.synonyms[strings.ToLower(k)] = v
		}
	}
}

// NewProcessor creates a Processor with the default stopword set,
// preserve-term vocabulary, and synonym table.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		stopwords:     make(map[string]struct{}, len(defaultStopwords)),
		preserveTerms: make(map[string]struct{}, len(defaultPreserveTerms)),
		synonyms:      make(map[string][]string, len(defaultSynonyms)),
	}

	for _, w := range defaultStopwords {
		p.stopwords[w] = struct{}{}
	}
	for _, t := range defaultPreserveTerms {
		p.preserveTerms[t] = struct{}{}
	}
	for k, v := range defaultSynonyms {
		p.synonyms[k] = v
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Stopwords returns a copy of the processor's stopword set.
func (p *Processor) Stopwords() map[string]struct{} {
	out := make(map[string]struct{}, len(p.stopwords))
	for w := range p.stopwords {
		out[w] = struct{}{}
	}
	return out
}

// Clean lowercases text, collapses whitespace, and strips characters
// outside the conservative allow-list.
func (p *Processor) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = disallowedPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractKeywords returns the keyword set of a text. Tokens shorter than
// three characters and stopwords are dropped; preserve-vocabulary terms are
// kept verbatim; everything else is reduced to its stem.
func (p *Processor) ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	if text == "" {
		return keywords
	}

	for _, token := range tokenPattern.FindAllString(p.Clean(text), -1) {
		if len(token) < 3 {
			continue
		}
		if _, stop := p.stopwords[token]; stop {
			continue
		}

		if _, keep := p.preserveTerms[token]; keep {
			keywords[token] = struct{}{}
			continue
		}

		stemmed := porterstemmer.StemString(token)
		if len(stemmed) >= 3 {
			keywords[stemmed] = struct{}{}
		}
	}

	return keywords
}

// PreprocessForEmbedding cleans text and drops sentences with fewer than
// three words. If nothing survives, the cleaned text is returned unchanged.
func (p *Processor) PreprocessForEmbedding(text string) string {
	if text == "" {
		return ""
	}

	cleaned := p.Clean(text)

	var meaningful []string
	for _, sentence := range sentencePattern.Split(cleaned, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(strings.Fields(sentence)) >= 3 {
			meaningful = append(meaningful, sentence)
		}
	}

	if len(meaningful) == 0 {
		return cleaned
	}
	return strings.Join(meaningful, " ")
}

// ExpandQuery appends the first synonym after each token that has a synonym
// table entry, preserving original token order.
func (p *Processor) ExpandQuery(query string) string {
	if query == "" {
		return query
	}

	tokens := tokenPattern.FindAllString(p.Clean(query), -1)
	expanded := make([]string, 0, len(tokens)*2)
	for _, token := range tokens {
		expanded = append(expanded, token)
		if syns, ok := p.synonyms[token]; ok && len(syns) > 0 {
			expanded = append(expanded, syns[0])
		}
	}

	return strings.Join(expanded, " ")
}

// Similarity computes the Jaccard similarity of the two texts' keyword
// sets, boosted by min(0.3, 0.1*n) when n preserve-vocabulary terms match.
// The result is always in [0, 1].
func (p *Processor) Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	kwA := p.ExtractKeywords(a)
	kwB := p.ExtractKeywords(b)
	if len(kwA) == 0 || len(kwB) == 0 {
		return 0.0
	}

	intersection := 0
	preserveMatches := 0
	for k := range kwA {
		if _, ok := kwB[k]; ok {
			intersection++
			if _, keep := p.preserveTerms[k]; keep {
				preserveMatches++
			}
		}
	}

	union := len(kwA) + len(kwB) - intersection
	if union == 0 {
		return 0.0
	}

	sim := float64(intersection) / float64(union)

	if preserveMatches > 0 {
		boost := 0.1 * float64(preserveMatches)
		if boost > 0.3 {
			boost = 0.3
		}
		sim += boost
	}

	if sim > 1.0 {
		sim = 1.0
	}
	return sim
}

// KeywordOverlap returns the fraction of a's keywords present in b's
// keyword set. Used as the keyword-density fusion signal.
func (p *Processor) KeywordOverlap(a, b string) float64 {
	kwA := p.ExtractKeywords(a)
	if len(kwA) == 0 {
		return 0.0
	}

	kwB := p.ExtractKeywords(b)
	overlap := 0
	for k := range kwA {
		if _, ok := kwB[k]; ok {
			overlap++
		}
	}

	return float64(overlap) / float64(len(kwA))
}
