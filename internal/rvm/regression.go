package rvm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/drakos74/rvm/internal/rvm/kernel"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Regressor trains relevance vector regression models on scalar inputs with the spline kernel.
type Regressor struct {
	config    RegressionConfig
	kernel    kernel.Kernel
	observers observers
}

// NewRegressor creates a new regressor.
func NewRegressor(cfg RegressionConfig, oo ...Observer) *Regressor {
	return &Regressor{
		config:    cfg,
		kernel:    kernel.Spline{},
		observers: oo,
	}
}

// Fit trains a regression model.
// x holds the training inputs, variance the initial noise variance and targets the training targets.
func (r *Regressor) Fit(ctx context.Context, x [][]float64, variance float64, targets []float64) (*RegressionModel, error) {
	if err := r.config.validate(); err != nil {
		return nil, err
	}
	if err := validateSamples(r.kernel, x, len(targets)); err != nil {
		return nil, err
	}
	if variance <= 0 || math.IsNaN(variance) || math.IsInf(variance, 0) {
		return nil, invalid("initial variance must be positive: %v", variance)
	}
	for i, t := range targets {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, invalid("target %d is not finite: %v", i, t)
		}
	}

	start := time.Now()
	n := len(x)
	report := Report{
		Run:     uuid.New().String(),
		Variant: RegressionVariant,
		Status:  Initializing,
		Samples: n,
		Metric:  make([]float64, 0),
		Weights: make([]int, 0),
	}

	log.Info().
		Str("run", report.Run).
		Str("variant", string(report.Variant)).
		Int("samples", n).
		Float64("variance", variance).
		Msg("start training")

	state := State{
		Alpha:     fill(n+1, r.config.Alpha),
		Basis:     kernel.Basis(r.kernel, x),
		Relevance: sequence(n),
		Bias:      true,
		Variance:  variance,
	}

	state, err := regressionPosterior(state, targets)
	if err != nil {
		return nil, err
	}

	drop := Above(r.config.PruneThreshold)
	previous := math.Inf(1)
	report.Status = Iterating
	for report.Status == Iterating {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training interrupted at iteration %d: %w", report.Iterations, err)
		}
		if report.Iterations >= r.config.MaxIterations {
			report.Status = MaxIterationsReached
			break
		}

		alpha, noise, err := updateRegression(state, targets)
		if err != nil {
			return nil, err
		}

		next := state
		next.Alpha = alpha
		next.Variance = noise

		next, pruned := Prune(next, drop)
		if next.Len() == 0 {
			return nil, unstable("every basis function was pruned", nil)
		}
		if pruned > 0 {
			log.Debug().
				Str("run", report.Run).
				Int("iteration", report.Iterations).
				Int("pruned", pruned).
				Int("weights", next.Len()).
				Bool("bias", next.Bias).
				Msg("pruned basis functions")
		}

		next, err = regressionPosterior(next, targets)
		if err != nil {
			return nil, err
		}

		metric, err := LogEvidence(next.Basis, next.Alpha, next.Variance, targets)
		if err != nil {
			return nil, err
		}

		state = next
		report.Iterations++
		report.Metric = append(report.Metric, metric)
		report.Weights = append(report.Weights, state.Len())

		if math.Abs(metric-previous) < r.config.Convergence {
			report.Status = Converged
		}
		previous = metric

		r.observers.iteration(Iteration{
			Run:     report.Run,
			Variant: report.Variant,
			Index:   report.Iterations,
			Metric:  metric,
			Weights: state.Len(),
			Pruned:  pruned,
			Status:  report.Status,
		})
	}

	report.Relevance = append([]int{}, state.Relevance...)
	report.Bias = state.Bias
	report.Duration = time.Since(start)
	finish(report, state.Variance)
	r.observers.done(report)

	return newRegressionModel(r.kernel, x, state, report), nil
}

func finish(report Report, variance float64) {
	l := log.Info()
	if report.Status == MaxIterationsReached {
		l = log.Warn().Err(NonConvergenceErr)
	}
	if report.Variant == RegressionVariant {
		l = l.Float64("variance", variance)
	}
	l.Str("run", report.Run).
		Str("variant", string(report.Variant)).
		Str("status", report.Status.String()).
		Int("iterations", report.Iterations).
		Int("relevance", len(report.Relevance)).
		Bool("bias", report.Bias).
		Dur("duration", report.Duration).
		Msg("training finished")
}

func validateSamples(k kernel.Kernel, x [][]float64, targets int) error {
	if len(x) == 0 {
		return invalid("no training samples")
	}
	if len(x) != targets {
		return invalid("samples and targets differ in length: %d != %d", len(x), targets)
	}
	if len(x) < MinSamples {
		return invalid("at least %d samples are required: %d", MinSamples, len(x))
	}
	if _, err := kernel.Validate(k, x); err != nil {
		return invalid("%s", err.Error())
	}
	for i, v := range x {
		for _, f := range v {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return invalid("sample %d is not finite", i)
			}
		}
	}
	return nil
}

// Scalars wraps scalar inputs into one-dimensional vectors.
func Scalars(xs []float64) [][]float64 {
	x := make([][]float64, len(xs))
	for i, f := range xs {
		x[i] = []float64{f}
	}
	return x
}
