package rvm

import (
	"time"
)

// Variant names the training pipeline.
type Variant string

const (
	RegressionVariant     Variant = "regression"
	ClassificationVariant Variant = "classification"
)

// Iteration is the snapshot emitted after every outer step of the training loop.
type Iteration struct {
	Run     string  `json:"run"`
	Variant Variant `json:"variant"`
	Index   int     `json:"index"`
	// Metric is the log evidence for regression and the log posterior for classification.
	Metric  float64 `json:"metric"`
	Weights int     `json:"weights"`
	Pruned  int     `json:"pruned"`
	Status  Status  `json:"status"`
}

// Report summarises a training run.
type Report struct {
	Run        string        `json:"run"`
	Variant    Variant       `json:"variant"`
	Status     Status        `json:"status"`
	Samples    int           `json:"samples"`
	Iterations int           `json:"iterations"`
	Metric     []float64     `json:"metric"`
	Weights    []int         `json:"weights"`
	Relevance  []int         `json:"relevance"`
	Bias       bool          `json:"bias"`
	Duration   time.Duration `json:"duration"`
}

// Observer follows the training loop.
type Observer interface {
	Iteration(it Iteration)
	Done(report Report)
}

type observers []Observer

func (oo observers) iteration(it Iteration) {
	for _, o := range oo {
		o.Iteration(it)
	}
}

func (oo observers) done(report Report) {
	for _, o := range oo {
		o.Done(report)
	}
}

// Trace is an in-memory observer keeping every iteration.
type Trace struct {
	Iterations []Iteration
	Reports    []Report
}

// NewTrace creates a new empty trace.
func NewTrace() *Trace {
	return &Trace{
		Iterations: make([]Iteration, 0),
		Reports:    make([]Report, 0),
	}
}

func (t *Trace) Iteration(it Iteration) {
	t.Iterations = append(t.Iterations, it)
}

func (t *Trace) Done(report Report) {
	t.Reports = append(t.Reports, report)
}
