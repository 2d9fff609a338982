package storage

import (
	"github.com/drakos74/rvm/internal/rvm"
	"github.com/rs/zerolog/log"
)

const (
	IterationsLabel = "iterations"
	ReportLabel     = "report"
)

// Recorder persists the training progress.
// Every iteration goes to the events storage and the final report to the reports storage.
type Recorder struct {
	reports Persistence
	events  Persistence
}

// NewRecorder creates a new recorder.
func NewRecorder(reports, events Persistence) *Recorder {
	return &Recorder{
		reports: reports,
		events:  events,
	}
}

// ReportKey is the key of the report of the given run.
func ReportKey(variant rvm.Variant, run string) Key {
	return Key{
		Variant: string(variant),
		Run:     run,
		Label:   ReportLabel,
	}
}

// IterationsKey is the key of the iteration log of the given run.
func IterationsKey(variant rvm.Variant, run string) Key {
	return Key{
		Variant: string(variant),
		Run:     run,
		Label:   IterationsLabel,
	}
}

func (r *Recorder) Iteration(it rvm.Iteration) {
	if err := r.events.Store(IterationsKey(it.Variant, it.Run), it); err != nil {
		log.Error().Err(err).
			Str("run", it.Run).
			Int("iteration", it.Index).
			Msg("could not store iteration")
	}
}

func (r *Recorder) Done(report rvm.Report) {
	if err := r.reports.Store(ReportKey(report.Variant, report.Run), report); err != nil {
		log.Error().Err(err).
			Str("run", report.Run).
			Msg("could not store report")
		return
	}
	log.Info().
		Str("run", report.Run).
		Str("key", ReportKey(report.Variant, report.Run).Path()).
		Msg("stored report")
}
