package rvm

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/drakos74/rvm/internal/rvm/kernel"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Classifier trains binary relevance vector classification models with the gaussian kernel.
type Classifier struct {
	config    ClassificationConfig
	kernel    kernel.Kernel
	observers observers
}

// NewClassifier creates a new classifier.
func NewClassifier(cfg ClassificationConfig, oo ...Observer) *Classifier {
	return &Classifier{
		config:    cfg,
		kernel:    kernel.NewRBF(cfg.Width),
		observers: oo,
	}
}

// Fit trains a classification model on inputs x with labels of exactly two distinct values.
// The larger label value becomes the +1 class.
func (c *Classifier) Fit(ctx context.Context, x [][]float64, labels []float64) (*ClassificationModel, error) {
	if err := c.config.validate(); err != nil {
		return nil, err
	}
	if err := validateSamples(c.kernel, x, len(labels)); err != nil {
		return nil, err
	}
	classes, err := binary(labels)
	if err != nil {
		return nil, err
	}

	// signs drive the reweighted update, the {0,1} encoding drives the likelihood.
	n := len(x)
	signs := make([]float64, n)
	bits := make([]float64, n)
	for i, l := range labels {
		signs[i] = -1
		if l == classes[1] {
			signs[i] = 1
			bits[i] = 1
		}
	}

	start := time.Now()
	report := Report{
		Run:     uuid.New().String(),
		Variant: ClassificationVariant,
		Status:  Initializing,
		Samples: n,
		Metric:  make([]float64, 0),
		Weights: make([]int, 0),
	}

	log.Info().
		Str("run", report.Run).
		Str("variant", string(report.Variant)).
		Int("samples", n).
		Str("kernel", fmt.Sprintf("%v", c.kernel)).
		Msg("start training")

	uniform := 1 / float64(n+1)
	state := State{
		Alpha:     fill(n+1, uniform),
		Mu:        fill(n+1, uniform),
		Basis:     kernel.Basis(c.kernel, x),
		Relevance: sequence(n),
		Bias:      true,
	}

	drop := Below(c.config.PruneThreshold)
	previous := math.Inf(-1)
	report.Status = Iterating
	for report.Status == Iterating {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training interrupted at iteration %d: %w", report.Iterations, err)
		}
		if report.Iterations >= c.config.MaxIterations {
			report.Status = MaxIterationsReached
			break
		}

		step, err := laplaceStep(state, signs)
		if err != nil {
			return nil, err
		}

		next := state
		next.Mu = step.weights
		next.Sigma = step.sigma
		next.Alpha = updateClassification(step.gamma, step.weights)

		metric := LogPosterior(next.Basis, next.Mu, bits, next.Alpha)
		report.Iterations++
		report.Metric = append(report.Metric, metric)

		pruned := 0
		if metric-previous <= c.config.Convergence {
			report.Status = Converged
		} else {
			next, pruned = Prune(next, drop)
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
		}
		previous = metric

		state = next
		report.Weights = append(report.Weights, state.Len())

		c.observers.iteration(Iteration{
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
	finish(report, 0)
	c.observers.done(report)

	return newClassificationModel(c.kernel, x, state, report, classes), nil
}

// binary checks that the labels hold exactly two distinct values and returns them in increasing order.
func binary(labels []float64) ([2]float64, error) {
	set := make(map[float64]struct{})
	for i, l := range labels {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return [2]float64{}, invalid("label %d is not finite: %v", i, l)
		}
		set[l] = struct{}{}
	}
	if len(set) != 2 {
		return [2]float64{}, invalid("expected exactly two label classes but got %d", len(set))
	}
	classes := make([]float64, 0, 2)
	for l := range set {
		classes = append(classes, l)
	}
	sort.Float64s(classes)
	return [2]float64{classes[0], classes[1]}, nil
}
