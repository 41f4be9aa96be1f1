package embed

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	rerrors "github.com/hybridrank/hybridrank/internal/errors"
)

// LSA performs truncated singular value decomposition over a fitted TF-IDF
// document matrix, projecting vectors into a dense latent space.
type LSA struct {
	// components holds the top right-singular vectors, features x dim.
	components *mat.Dense
	dim        int
}

// FitLSA decomposes the docs x features matrix and keeps the top
// `components` right-singular vectors. The requested dimension is clamped
// to min(components, docs, features) since the decomposition cannot yield
// more.
func FitLSA(docMatrix *mat.Dense, components int) (*LSA, error) {
	rows, cols := docMatrix.Dims()
	if rows == 0 || cols == 0 {
		return nil, rerrors.ConfigError("cannot fit LSA on an empty matrix", nil)
	}

	dim := components
	if rows < dim {
		dim = rows
	}
	if cols < dim {
		dim = cols
	}
	if dim < 1 {
		dim = 1
	}

	var svd mat.SVD
	if ok := svd.Factorize(docMatrix, mat.SVDThin); !ok {
		return nil, rerrors.InternalError("singular value decomposition failed to converge", nil)
	}

	var v mat.Dense
	svd.VTo(&v)

	vRows, _ := v.Dims()
	comp := mat.NewDense(vRows, dim, nil)
	comp.Copy(v.Slice(0, vRows, 0, dim))

	return &LSA{components: comp, dim: dim}, nil
}

// Transform projects a TF-IDF vector into the latent space.
func (l *LSA) Transform(vec []float64) ([]float64, error) {
	features, _ := l.components.Dims()
	if len(vec) != features {
		return nil, rerrors.New(rerrors.ErrCodeDimensionMismatch, "vector length does not match fitted feature space", nil).
			WithDetail("expected", strconv.Itoa(features)).
			WithDetail("got", strconv.Itoa(len(vec)))
	}

	in := mat.NewVecDense(len(vec), vec)
	out := mat.NewVecDense(l.dim, nil)
	out.MulVec(l.components.T(), in)

	return out.RawVector().Data, nil
}

// Dimension returns the latent space dimensionality.
func (l *LSA) Dimension() int {
	return l.dim
}
