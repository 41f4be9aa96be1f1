package embed

import (
	"math"
	"regexp"
	"sort"
	"strings"

	rerrors "github.com/hybridrank/hybridrank/internal/errors"
)

// vectorizer token pattern: alphanumeric runs of at least two characters.
var tfidfTokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// Vectorizer builds sub-linear TF-IDF vectors over word n-grams. Terms are
// weighted with smoothed inverse document frequency and output vectors are
// L2-normalized.
type Vectorizer struct {
	maxFeatures int
	ngramMin    int
	ngramMax    int
	minDF       int
	maxDFRatio  float64
	stopwords   map[string]struct{}

	vocab  map[string]int
	idf    []float64
	fitted bool
}

// VectorizerOption configures a Vectorizer.
type VectorizerOption func(*Vectorizer)

// WithNgramRange sets the n-gram span. Defaults to 1..3.
func WithNgramRange(min, max int) VectorizerOption {
	return func(v *Vectorizer) {
		v.ngramMin = min
		v.ngramMax = max
	}
}

// WithVectorizerStopwords sets the stopword set dropped before n-gram
// construction.
func WithVectorizerStopwords(words map[string]struct{}) VectorizerOption {
	return func(v *Vectorizer) { v.stopwords = words }
}

// NewVectorizer creates a Vectorizer with a feature cap. Document-frequency
// bounds default to min 1 document and max 95% of documents.
func NewVectorizer(maxFeatures int, opts ...VectorizerOption) *Vectorizer {
	v := &Vectorizer{
		maxFeatures: maxFeatures,
		ngramMin:    1,
		ngramMax:    3,
		minDF:       1,
		maxDFRatio:  0.95,
		stopwords:   map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// terms returns the n-gram terms of a text, stopwords removed.
func (v *Vectorizer) terms(text string) []string {
	raw := tfidfTokenPattern.FindAllString(strings.ToLower(text), -1)

	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := v.stopwords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	var out []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Fit learns the vocabulary and IDF weights from the given texts.
func (v *Vectorizer) Fit(texts []string) error {
	if len(texts) == 0 {
		return rerrors.New(rerrors.ErrCodeEmptyCorpus, "cannot fit vectorizer on empty text collection", nil)
	}

	df := make(map[string]int)
	tf := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, term := range v.terms(text) {
			tf[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	n := len(texts)
	maxDF := int(v.maxDFRatio * float64(n))
	if maxDF < v.minDF {
		maxDF = v.minDF
	}

	candidates := make([]string, 0, len(df))
	for term, count := range df {
		if count >= v.minDF && count <= maxDF {
			candidates = append(candidates, term)
		}
	}
	// A tiny corpus can push every term past the max-df bound; keep the
	// full vocabulary rather than fitting an empty space.
	if len(candidates) == 0 {
		for term := range df {
			candidates = append(candidates, term)
		}
	}

	if v.maxFeatures > 0 && len(candidates) > v.maxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			if tf[candidates[i]] != tf[candidates[j]] {
				return tf[candidates[i]] > tf[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:v.maxFeatures]
	}
	sort.Strings(candidates)

	v.vocab = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	for i, term := range candidates {
		v.vocab[term] = i
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1.0
	}
	v.fitted = true
	return nil
}

// Transform projects a text into the fitted TF-IDF space. The result is
// L2-normalized; a text sharing no terms with the vocabulary yields a zero
// vector.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if !v.fitted {
		return nil, rerrors.New(rerrors.ErrCodeNotFitted, "vectorizer must be fitted before transforming", nil)
	}

	counts := make(map[int]int)
	for _, term := range v.terms(text) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}

	vec := make([]float64, len(v.vocab))
	for idx, count := range counts {
		tf := 1.0 + math.Log(float64(count))
		vec[idx] = tf * v.idf[idx]
	}

	normalize(vec)
	return vec, nil
}

// Dimension returns the fitted vocabulary size.
func (v *Vectorizer) Dimension() int {
	return len(v.vocab)
}

func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
