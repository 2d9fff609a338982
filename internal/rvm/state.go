package rvm

import (
	"fmt"
	"math"

	rvmmath "github.com/drakos74/rvm/internal/math"
	"gonum.org/v1/gonum/mat"
)

// Status is the state of the training loop.
type Status int

const (
	Initializing Status = iota
	Iterating
	Converged
	MaxIterationsReached
)

func (s Status) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max-iterations"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, status := range []Status{Initializing, Iterating, Converged, MaxIterationsReached} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status: %s", string(text))
}

// State is the working set of one training iteration.
// Every step creates a new State, the previous one is never mutated.
type State struct {
	// Alpha holds the precision hyperparameter for every weight.
	Alpha []float64
	// Mu holds the posterior mean, i.e. the weights.
	Mu []float64
	// Sigma is the posterior covariance.
	Sigma *mat.SymDense
	// Basis holds the surviving columns of the design matrix.
	Basis *mat.Dense
	// Relevance holds the training index of every surviving kernel column.
	Relevance []int
	// Bias is true as long as column 0 of the basis is the bias term.
	// Once false it never goes back.
	Bias bool
	// Variance is the noise variance, only used for regression.
	Variance float64
}

// Len is the number of weights.
func (s State) Len() int {
	return len(s.Alpha)
}

// index returns the training index for the given column, -1 for the bias column.
func (s State) index(column int) int {
	if s.Bias {
		if column == 0 {
			return -1
		}
		return s.Relevance[column-1]
	}
	return s.Relevance[column]
}

// Prune drops every weight for which drop returns true, together with its basis column,
// posterior entries and relevance index.
// It returns the new state and the number of weights removed.
func Prune(s State, drop func(alpha float64) bool) (State, int) {
	keep := make([]int, 0, s.Len())
	for i, a := range s.Alpha {
		if !drop(a) {
			keep = append(keep, i)
		}
	}
	pruned := s.Len() - len(keep)
	if pruned == 0 {
		return s, 0
	}

	next := State{
		Alpha:     make([]float64, len(keep)),
		Relevance: make([]int, 0, len(keep)),
		Variance:  s.Variance,
	}
	if s.Mu != nil {
		next.Mu = make([]float64, len(keep))
	}
	for j, i := range keep {
		next.Alpha[j] = s.Alpha[i]
		if s.Mu != nil {
			next.Mu[j] = s.Mu[i]
		}
		if idx := s.index(i); idx >= 0 {
			next.Relevance = append(next.Relevance, idx)
		}
	}
	next.Bias = s.Bias && len(keep) > 0 && keep[0] == 0
	if len(keep) > 0 {
		next.Basis = rvmmath.SelectColumns(s.Basis, keep)
		if s.Sigma != nil {
			next.Sigma = rvmmath.SubsetSym(s.Sigma, keep)
		}
	}
	return next, pruned
}

// Above creates the regression pruning policy: drop every alpha above the threshold.
// A non-finite or negative alpha counts as diverged.
func Above(threshold float64) func(alpha float64) bool {
	return func(alpha float64) bool {
		return alpha > threshold || math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha < 0
	}
}

// Below creates the classification pruning policy: drop every alpha below the threshold.
// A NaN alpha is dropped as well.
func Below(threshold float64) func(alpha float64) bool {
	return func(alpha float64) bool {
		return alpha < threshold || math.IsNaN(alpha)
	}
}

func fill(n int, v float64) []float64 {
	ff := make([]float64, n)
	for i := range ff {
		ff[i] = v
	}
	return ff
}

func sequence(n int) []int {
	ii := make([]int, n)
	for i := range ii {
		ii[i] = i
	}
	return ii
}
