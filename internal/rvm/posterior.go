package rvm

import (
	rvmmath "github.com/drakos74/rvm/internal/math"
	"gonum.org/v1/gonum/mat"
)

// regressionPosterior computes the closed form posterior for the current alpha and noise variance.
//
//	Sigma = (ΦᵀΦ / σ² + A)⁻¹
//	mu    = Sigma Φᵀ t / σ²
func regressionPosterior(s State, targets []float64) (State, error) {
	beta := 1 / s.Variance
	h := rvmmath.Gram(s.Basis, nil)
	h.ScaleSym(beta, h)
	rvmmath.AddDiag(h, s.Alpha)

	sigma, err := rvmmath.InverseSPD(h)
	if err != nil {
		return s, unstable("could not compute posterior covariance", err)
	}

	phiT := rvmmath.MulTVec(s.Basis, targets)
	mu := rvmmath.MulVec(sigma, phiT)
	for i := range mu {
		mu[i] *= beta
	}

	next := s
	next.Sigma = sigma
	next.Mu = mu
	return next, nil
}

// laplace holds the result of one reweighted step of the classification posterior.
type laplace struct {
	weights []float64
	sigma   *mat.SymDense
	gamma   []float64
}

// laplaceStep performs one reweighted least squares update around the current weights.
//
//	y     = sigmoid(Φw)
//	B     = diag(y(1-y))
//	Sigma = (ΦᵀBΦ + A)⁻¹
//	w'    = Sigma Φᵀ B t
//
// NOTE : this is the simplified update without the residual correction of a full newton step.
func laplaceStep(s State, targets []float64) (laplace, error) {
	z := rvmmath.MulVec(s.Basis, s.Mu)
	b := make([]float64, len(z))
	bt := make([]float64, len(z))
	for n := range z {
		y := rvmmath.Sigmoid(z[n])
		b[n] = y * (1 - y)
		bt[n] = b[n] * targets[n]
	}

	h := rvmmath.Gram(s.Basis, b)
	rvmmath.AddDiag(h, s.Alpha)
	sigma, err := rvmmath.InverseSPD(h)
	if err != nil {
		return laplace{}, unstable("could not compute laplace covariance", err)
	}

	weights := rvmmath.MulVec(sigma, rvmmath.MulTVec(s.Basis, bt))

	return laplace{
		weights: weights,
		sigma:   sigma,
		gamma:   gamma(s.Alpha, sigma),
	}, nil
}
