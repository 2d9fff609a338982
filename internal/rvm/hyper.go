package rvm

import (
	"math"

	rvmmath "github.com/drakos74/rvm/internal/math"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// varianceTolerance is the smallest effective number of residual degrees of freedom
// the noise variance update accepts.
const varianceTolerance = 1e-9

// gamma measures how well determined each weight is by the data.
//
//	gamma_i = 1 - alpha_i Sigma_ii
func gamma(alpha []float64, sigma mat.Symmetric) []float64 {
	g := make([]float64, len(alpha))
	for i := range alpha {
		g[i] = 1 - alpha[i]*sigma.At(i, i)
	}
	return g
}

// updateRegression re-estimates alpha and the noise variance from the posterior.
//
//	alpha_i = gamma_i / mu_i^2
//	σ²      = |t - Φmu|^2 / (N - Σgamma)
func updateRegression(s State, targets []float64) ([]float64, float64, error) {
	g := gamma(s.Alpha, s.Sigma)
	alpha := make([]float64, len(g))
	for i := range g {
		alpha[i] = g[i] / (s.Mu[i] * s.Mu[i])
	}

	dof := float64(len(targets)) - floats.Sum(g)
	if dof < varianceTolerance {
		return nil, 0, unstable("noise variance update is undefined: no residual degrees of freedom", nil)
	}

	residual := rvmmath.MulVec(s.Basis, s.Mu)
	floats.SubTo(residual, targets, residual)
	norm := floats.Norm(residual, 2)

	return alpha, norm * norm / dof, nil
}

// updateClassification re-estimates alpha from the laplace step.
//
//	alpha_i = gamma_i / (w_i^2 + ε)
func updateClassification(g, weights []float64) []float64 {
	alpha := make([]float64, len(g))
	for i := range g {
		alpha[i] = g[i] / (weights[i]*weights[i] + epsilon)
	}
	return alpha
}

// epsilon is the machine epsilon for float64.
var epsilon = math.Nextafter(1, 2) - 1

// LogEvidence is the regression convergence metric, the marginal log likelihood
// up to the constant term.
//
//	-1/2 (log|C| + tᵀ C⁻¹ t),  C = σ²I + Φ A⁻¹ Φᵀ
func LogEvidence(basis mat.Matrix, alpha []float64, variance float64, targets []float64) (float64, error) {
	inv := make([]float64, len(alpha))
	for i, a := range alpha {
		inv[i] = 1 / a
	}
	c := rvmmath.Gram(basis.T(), inv)
	rvmmath.AddDiag(c, fill(len(targets), variance))

	logDet, quad, err := rvmmath.SolveSPD(c, targets)
	if err != nil {
		return 0, unstable("could not compute log evidence", err)
	}
	return -0.5 * (logDet + quad), nil
}

// LogPosterior is the classification convergence metric, the bernoulli log likelihood
// of the {0,1} labels under the logistic link, penalised by the gaussian prior.
//
//	Σ t log y + (1-t) log(1-y) - 1/2 wᵀ A w
func LogPosterior(basis mat.Matrix, weights []float64, labels []float64, alpha []float64) float64 {
	z := rvmmath.MulVec(basis, weights)
	var ll float64
	for n := range z {
		ll += labels[n]*rvmmath.LogSigmoid(z[n]) + (1-labels[n])*rvmmath.LogSigmoid(-z[n])
	}
	var penalty float64
	for i, w := range weights {
		penalty += alpha[i] * w * w
	}
	return ll - 0.5*penalty
}
