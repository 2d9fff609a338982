package rvm

import (
	"math"

	rvmmath "github.com/drakos74/rvm/internal/math"
	"github.com/drakos74/rvm/internal/rvm/kernel"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// model is the frozen training state shared by both variants.
// All accessors return copies.
type model struct {
	kernel  kernel.Kernel
	dim     int
	vectors [][]float64
	state   State
	report  Report
}

func freeze(k kernel.Kernel, x [][]float64, s State, report Report) model {
	vectors := make([][]float64, len(s.Relevance))
	for i, idx := range s.Relevance {
		vectors[i] = append([]float64{}, x[idx]...)
	}
	return model{
		kernel:  k,
		dim:     len(x[0]),
		vectors: vectors,
		state:   s,
		report:  report,
	}
}

// Alpha returns the precision of every weight.
func (m model) Alpha() []float64 {
	return append([]float64{}, m.state.Alpha...)
}

// Weights returns the posterior mean of the weights, bias first if present.
func (m model) Weights() []float64 {
	return append([]float64{}, m.state.Mu...)
}

// Sigma returns the posterior covariance of the weights.
func (m model) Sigma() *mat.SymDense {
	s := mat.NewSymDense(m.state.Sigma.SymmetricDim(), nil)
	s.CopySym(m.state.Sigma)
	return s
}

// Basis returns the training design matrix restricted to the relevance vectors.
func (m model) Basis() *mat.Dense {
	return mat.DenseCopyOf(m.state.Basis)
}

// RelevanceIndices returns the index of every relevance vector in the training set.
func (m model) RelevanceIndices() []int {
	return append([]int{}, m.state.Relevance...)
}

// RelevanceVectors returns the training inputs that survived pruning.
func (m model) RelevanceVectors() [][]float64 {
	vv := make([][]float64, len(m.vectors))
	for i, v := range m.vectors {
		vv[i] = append([]float64{}, v...)
	}
	return vv
}

// Bias reports whether the bias weight survived pruning.
func (m model) Bias() bool {
	return m.state.Bias
}

// Report returns the training summary.
func (m model) Report() Report {
	r := m.report
	r.Metric = append([]float64{}, r.Metric...)
	r.Weights = append([]int{}, r.Weights...)
	r.Relevance = append([]int{}, r.Relevance...)
	return r
}

// Err returns NonConvergenceErr if training stopped at the iteration cap.
func (m model) Err() error {
	if m.report.Status == MaxIterationsReached {
		return NonConvergenceErr
	}
	return nil
}

func (m model) design(x [][]float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, invalid("no input vectors")
	}
	rows := make([][]float64, len(x))
	for i, v := range x {
		if len(v) != m.dim {
			return nil, invalid("input %d has dimension %d instead of %d", i, len(v), m.dim)
		}
		rows[i] = kernel.Row(m.kernel, v, m.vectors, m.state.Bias)
	}
	return rows, nil
}

// RegressionModel is a trained relevance vector regression model.
type RegressionModel struct {
	model
}

func newRegressionModel(k kernel.Kernel, x [][]float64, s State, report Report) *RegressionModel {
	return &RegressionModel{model: freeze(k, x, s, report)}
}

// NoiseVariance returns the estimated noise variance.
func (m *RegressionModel) NoiseVariance() float64 {
	return m.state.Variance
}

// Predictive returns the mean and variance of the posterior predictive distribution for every input.
//
//	mean = muᵀφ(x)
//	var  = σ² + φ(x)ᵀ Sigma φ(x)
func (m *RegressionModel) Predictive(x [][]float64) ([]float64, []float64, error) {
	rows, err := m.design(x)
	if err != nil {
		return nil, nil, err
	}
	means := make([]float64, len(rows))
	variances := make([]float64, len(rows))
	for i, row := range rows {
		phi := mat.NewVecDense(len(row), row)
		means[i] = floats.Dot(m.state.Mu, row)
		variances[i] = m.state.Variance + mat.Inner(phi, m.state.Sigma, phi)
	}
	return means, variances, nil
}

// Predict draws one sample from the posterior predictive distribution for every input.
// The outcome depends on src, the same seed gives the same samples.
func (m *RegressionModel) Predict(x [][]float64, src rand.Source) ([]float64, error) {
	means, variances, err := m.Predictive(x)
	if err != nil {
		return nil, err
	}
	samples := make([]float64, len(means))
	for i := range means {
		// NOTE : Sigma is the standard deviation, the predictive variance enters through its square root
		samples[i] = distuv.Normal{
			Mu:    means[i],
			Sigma: math.Sqrt(variances[i]),
			Src:   src,
		}.Rand()
	}
	return samples, nil
}

// ClassificationModel is a trained relevance vector classification model.
type ClassificationModel struct {
	model
	classes [2]float64
}

func newClassificationModel(k kernel.Kernel, x [][]float64, s State, report Report, classes [2]float64) *ClassificationModel {
	return &ClassificationModel{
		model:   freeze(k, x, s, report),
		classes: classes,
	}
}

// Classes returns the original label values mapped to -1 and +1 respectively.
func (m *ClassificationModel) Classes() (negative, positive float64) {
	return m.classes[0], m.classes[1]
}

// Probability returns the logistic output for every input, the probability of the +1 class.
func (m *ClassificationModel) Probability(x [][]float64) ([]float64, error) {
	rows, err := m.design(x)
	if err != nil {
		return nil, err
	}
	p := make([]float64, len(rows))
	for i, row := range rows {
		p[i] = rvmmath.Sigmoid(floats.Dot(m.state.Mu, row))
	}
	return p, nil
}

// Predict classifies every input as +1 or -1 by thresholding the logistic output at 0.5.
func (m *ClassificationModel) Predict(x [][]float64) ([]int, error) {
	p, err := m.Probability(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(p))
	for i := range p {
		labels[i] = -1
		if p[i] > 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}
