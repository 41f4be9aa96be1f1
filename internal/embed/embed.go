// Package embed projects text into fixed-length dense vectors. The pipeline
// is sub-linear TF-IDF over word n-grams, optionally reduced with truncated
// SVD, with L2 normalization on the way out so inner products behave as
// cosine similarity.
package embed

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	rerrors "github.com/hybridrank/hybridrank/internal/errors"
	"github.com/hybridrank/hybridrank/internal/textproc"
)

// Embedder projects text into the fitted vector space.
type Embedder interface {
	Embed(text string) ([]float32, error)
	Dimension() int
}

// Manager owns the fitted embedding pipeline: preprocessing, TF-IDF, and
// optional LSA reduction. Fit once at startup; Embed is read-only and safe
// for concurrent use afterwards.
type Manager struct {
	proc          *textproc.Processor
	vectorizer    *Vectorizer
	lsa           *LSA
	useLSA        bool
	lsaComponents int
	logger        *slog.Logger
	fitted        bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the manager's logger.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates an embedding Manager. maxFeatures caps the TF-IDF
// vocabulary; when useLSA is set, vectors are reduced to at most
// lsaComponents dimensions.
func NewManager(proc *textproc.Processor, maxFeatures int, useLSA bool, lsaComponents int, opts ...ManagerOption) *Manager {
	m := &Manager{
		proc:          proc,
		vectorizer:    NewVectorizer(maxFeatures, WithVectorizerStopwords(proc.Stopwords())),
		useLSA:        useLSA,
		lsaComponents: lsaComponents,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit learns the embedding space from the corpus texts. Must be called
// exactly once before Embed or EmbedBatch.
func (m *Manager) Fit(texts []string) error {
	if len(texts) == 0 {
		return rerrors.New(rerrors.ErrCodeEmptyCorpus, "cannot fit embedding space on empty corpus", nil)
	}

	processed := make([]string, len(texts))
	for i, t := range texts {
		processed[i] = m.proc.PreprocessForEmbedding(t)
	}

	if err := m.vectorizer.Fit(processed); err != nil {
		return err
	}

	if m.useLSA {
		features := m.vectorizer.Dimension()
		docMatrix := mat.NewDense(len(processed), features, nil)
		for i, t := range processed {
			vec, err := m.vectorizer.Transform(t)
			if err != nil {
				return err
			}
			docMatrix.SetRow(i, vec)
		}

		lsa, err := FitLSA(docMatrix, m.lsaComponents)
		if err != nil {
			return err
		}
		m.lsa = lsa
		m.logger.Debug("fitted embedding space",
			"features", features, "lsa_dim", lsa.Dimension(), "docs", len(texts))
	} else {
		m.logger.Debug("fitted embedding space",
			"features", m.vectorizer.Dimension(), "docs", len(texts))
	}

	m.fitted = true
	return nil
}

// Embed projects a single text into the fitted space. The returned vector
// is L2-normalized float32 of constant dimension.
func (m *Manager) Embed(text string) ([]float32, error) {
	if !m.fitted {
		return nil, rerrors.New(rerrors.ErrCodeNotFitted, "embedding space must be fitted before embedding", nil)
	}

	vec, err := m.vectorizer.Transform(m.proc.PreprocessForEmbedding(text))
	if err != nil {
		return nil, err
	}

	if m.lsa != nil {
		vec, err = m.lsa.Transform(vec)
		if err != nil {
			return nil, err
		}
		normalize(vec)
	}

	out := make([]float32, len(vec))
	for i, x := range vec {
		out[i] = float32(x)
	}
	return out, nil
}

// EmbedBatch projects multiple texts. Order is preserved.
func (m *Manager) EmbedBatch(texts []string) ([][]float32, error) {
	if !m.fitted {
		return nil, rerrors.New(rerrors.ErrCodeNotFitted, "embedding space must be fitted before embedding", nil)
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimension returns the output vector length, fixed at fit time.
func (m *Manager) Dimension() int {
	if m.lsa != nil {
		return m.lsa.Dimension()
	}
	return m.vectorizer.Dimension()
}
