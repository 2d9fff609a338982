package rvm

import (
	"testing"

	"github.com/drakos74/rvm/internal/dataset"
	"github.com/drakos74/rvm/internal/rvm/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// assertSPD checks that the matrix is symmetric with strictly positive eigenvalues.
func assertSPD(t *testing.T, sigma *mat.SymDense) {
	t.Helper()
	n := sigma.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, sigma.At(i, j), sigma.At(j, i), 1e-12)
		}
	}
	var eigen mat.EigenSym
	require.True(t, eigen.Factorize(sigma, false))
	for _, v := range eigen.Values(nil) {
		assert.Greater(t, v, 0.0)
	}
}

func TestRegressionPosterior(t *testing.T) {
	set := dataset.Sine(12, 0.1, rand.NewSource(7))
	basis := kernel.Basis(kernel.Spline{}, set.X)
	s := State{
		Alpha:     fill(13, RegressionAlpha),
		Basis:     basis,
		Relevance: sequence(12),
		Bias:      true,
		Variance:  0.01,
	}

	next, err := regressionPosterior(s, set.Y)
	require.NoError(t, err)
	assertSPD(t, next.Sigma)
	assert.Nil(t, s.Sigma)

	// (ΦᵀΦ/σ² + A) Sigma = I
	var h mat.Dense
	h.Mul(basis.T(), basis)
	h.Scale(1/s.Variance, &h)
	for i, a := range s.Alpha {
		h.Set(i, i, h.At(i, i)+a)
	}
	var id mat.Dense
	id.Mul(&h, next.Sigma)
	id.Sub(&id, eye(13))
	assert.Less(t, mat.Norm(&id, 2), 1e-4)

	// mu solves the normal equations
	lhs := mat.NewVecDense(13, nil)
	lhs.MulVec(&h, mat.NewVecDense(13, next.Mu))
	rhs := mat.NewVecDense(13, nil)
	rhs.MulVec(basis.T(), mat.NewVecDense(12, set.Y))
	rhs.ScaleVec(1/s.Variance, rhs)
	lhs.SubVec(lhs, rhs)
	assert.Less(t, lhs.Norm(2)/rhs.Norm(2), 1e-5)
}

func TestLaplaceStep(t *testing.T) {
	set := dataset.Blobs(10, 2, 0.6, rand.NewSource(3))
	basis := kernel.Basis(kernel.NewRBF(1), set.X)
	n := set.Len()
	uniform := 1 / float64(n+1)
	s := State{
		Alpha:     fill(n+1, uniform),
		Mu:        fill(n+1, uniform),
		Basis:     basis,
		Relevance: sequence(n),
		Bias:      true,
	}

	step, err := laplaceStep(s, set.Y)
	require.NoError(t, err)
	assert.Len(t, step.weights, n+1)
	assert.Len(t, step.gamma, n+1)
	assertSPD(t, step.sigma)

	for i, g := range step.gamma {
		assert.InDelta(t, 1-s.Alpha[i]*step.sigma.At(i, i), g, 1e-12)
		assert.LessOrEqual(t, g, 1.0)
	}

	// the step moves the weights towards the labels
	p := make([]float64, n)
	for i := range p {
		p[i] = mat.Dot(basis.RowView(i), mat.NewVecDense(n+1, step.weights))
		assert.Equal(t, set.Y[i] > 0, p[i] > 0)
	}
}

func eye(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}
