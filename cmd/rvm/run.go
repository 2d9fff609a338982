package main

import (
	"context"
	"fmt"
	"io"

	"github.com/drakos74/rvm/infra/config"
	"github.com/drakos74/rvm/internal/dataset"
	rvmmath "github.com/drakos74/rvm/internal/math"
	"github.com/drakos74/rvm/internal/metrics"
	"github.com/drakos74/rvm/internal/rvm"
	"github.com/drakos74/rvm/internal/storage"
	"github.com/drakos74/rvm/internal/storage/file/json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	// memory keeps the run artifacts in process instead of writing them to disk.
	memory = "memory"

	sine = "sine"
	sinc = "sinc"
)

type options struct {
	config  string
	data    string
	header  bool
	samples int
	dataset string
	seed    uint64
	seedSet bool
	storage string
	metrics int
	debug   bool
}

// summary is the outcome of a training run.
type summary struct {
	report   rvm.Report
	err      error
	train    int
	test     int
	vectors  int
	bias     bool
	variance float64
	// testErr is the rmse of the predictive means for regression and the error rate for classification.
	testErr float64
	// testMax is the largest absolute error of the predictive means.
	testMax float64
	// sampled is the rmse of one posterior predictive draw per test input.
	sampled float64
	// stored is the storage key of the report, empty if nothing is stored.
	stored string
	// port is the metrics port, zero if metrics are not exposed.
	port int
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "run        %s\n", s.report.Run)
	fmt.Fprintf(w, "variant    %s\n", s.report.Variant)
	fmt.Fprintf(w, "status     %s\n", s.report.Status)
	if s.err != nil {
		fmt.Fprintf(w, "warning    %s\n", s.err.Error())
	}
	fmt.Fprintf(w, "iterations %d\n", s.report.Iterations)
	fmt.Fprintf(w, "samples    %d train / %d test\n", s.train, s.test)
	fmt.Fprintf(w, "relevance  %d vectors (bias %v)\n", s.vectors, s.bias)
	if n := len(s.report.Metric); n > 0 {
		fmt.Fprintf(w, "metric     %s\n", rvmmath.Format(s.report.Metric[n-1]))
	}
	switch s.report.Variant {
	case rvm.RegressionVariant:
		fmt.Fprintf(w, "variance   %s\n", rvmmath.FormatE(s.variance))
		if s.test > 0 {
			fmt.Fprintf(w, "test rmse  %s (max %s)\n", rvmmath.Format(s.testErr), rvmmath.Format(s.testMax))
			fmt.Fprintf(w, "sample rmse %s\n", rvmmath.Format(s.sampled))
		}
	case rvm.ClassificationVariant:
		if s.test > 0 {
			fmt.Fprintf(w, "test error %s%%\n", rvmmath.Format(100*s.testErr))
		}
	}
	if s.stored != "" {
		fmt.Fprintf(w, "stored     %s\n", s.stored)
	}
}

// setup resolves the settings and the observers of the run.
// Without a config file the packaged settings of the config directory apply, if present.
// The returned registry is nil if no metrics are exposed.
func setup(opts options, variant rvm.Variant) (config.Settings, []rvm.Observer, *prometheus.Registry, error) {
	file := opts.config
	if file == "" {
		if f, ok := config.Lookup(config.Key); ok {
			file = f
		}
	}
	settings, err := config.Load(file)
	if err != nil {
		return config.Settings{}, nil, nil, err
	}
	if opts.seedSet {
		settings.Training.Seed = opts.seed
	}
	if opts.storage != "" {
		settings.System.StorageDir = opts.storage
	}
	if opts.metrics > 0 {
		settings.System.MetricsPort = opts.metrics
	}

	observers := make([]rvm.Observer, 0)
	if location := settings.System.StorageDir; location != "" {
		reports, events, err := persistence(location, variant)
		if err != nil {
			return config.Settings{}, nil, nil, err
		}
		observers = append(observers, storage.NewRecorder(reports, events))
	}
	var registry *prometheus.Registry
	if settings.System.MetricsPort > 0 {
		registry = prometheus.NewRegistry()
		observers = append(observers, metrics.NewWithRegistry(registry))
	}
	return settings, observers, registry, nil
}

// persistence resolves the report and the iteration storage of the variant.
// The memory location writes nothing to disk and keeps the latest iteration only.
func persistence(location string, variant rvm.Variant) (storage.Persistence, storage.Persistence, error) {
	if location == memory {
		shard := json.LocalShard()
		reports, err := shard(string(variant))
		if err != nil {
			return nil, nil, fmt.Errorf("could not create memory storage: %w", err)
		}
		events, err := shard(string(variant))
		if err != nil {
			return nil, nil, fmt.Errorf("could not create memory storage: %w", err)
		}
		return reports, events, nil
	}
	reports, err := json.BlobShard(location, storage.ReportsDir)(string(variant))
	if err != nil {
		return nil, nil, fmt.Errorf("could not create report storage under '%s': %w", location, err)
	}
	return reports, json.NewLogger(location), nil
}

// stored is the key of the report if the run is persisted.
func stored(settings config.Settings, report rvm.Report) string {
	if settings.System.StorageDir == "" {
		return ""
	}
	return storage.ReportKey(report.Variant, report.Run).Path()
}

// curve returns the synthetic regression set for the given name.
func curve(name string, samples int) (func(src rand.Source) dataset.Set, error) {
	switch name {
	case "", sine:
		return func(src rand.Source) dataset.Set {
			return dataset.Sine(samples, 0.1, src)
		}, nil
	case sinc:
		return func(src rand.Source) dataset.Set {
			return dataset.Sinc(-10, 10, samples, 0.1, src)
		}, nil
	}
	return nil, fmt.Errorf("unknown synthetic dataset '%s', expected '%s' or '%s'", name, sine, sinc)
}

// load reads the data file or generates the synthetic set and splits it.
func load(opts options, settings config.Settings, synthetic func(src rand.Source) dataset.Set) (dataset.Set, dataset.Set, error) {
	var set dataset.Set
	if opts.data != "" {
		s, err := dataset.LoadCSV(opts.data, opts.header)
		if err != nil {
			return dataset.Set{}, dataset.Set{}, err
		}
		set = s
	} else {
		set = synthetic(rand.NewSource(settings.Training.Seed))
	}
	if settings.Training.Split >= 1 {
		return set, dataset.Set{}, nil
	}
	return dataset.Split(set, settings.Training.Split, rand.NewSource(settings.Training.Seed+1))
}

// wait keeps the metrics endpoint alive until the context is done.
func (s summary) wait(ctx context.Context) {
	if s.port <= 0 {
		return
	}
	log.Info().Int("port", s.port).Msg("training done, serving metrics until interrupted")
	<-ctx.Done()
}

// serve exposes the metrics for the lifetime of the context.
func serve(ctx context.Context, port int, registry *prometheus.Registry) {
	if registry == nil {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, port, registry); err != nil {
			log.Error().Err(err).Int("port", port).Msg("metrics server stopped")
		}
	}()
}

func runRegression(ctx context.Context, opts options) (summary, error) {
	synthetic, err := curve(opts.dataset, opts.samples)
	if err != nil {
		return summary{}, err
	}
	settings, observers, registry, err := setup(opts, rvm.RegressionVariant)
	if err != nil {
		return summary{}, err
	}
	serve(ctx, settings.System.MetricsPort, registry)

	train, test, err := load(opts, settings, synthetic)
	if err != nil {
		return summary{}, err
	}

	model, err := rvm.NewRegressor(settings.Regression, observers...).
		Fit(ctx, train.X, settings.Training.Variance, train.Y)
	if err != nil {
		return summary{}, fmt.Errorf("could not fit regression model: %w", err)
	}

	s := summary{
		report:   model.Report(),
		err:      model.Err(),
		train:    train.Len(),
		test:     test.Len(),
		vectors:  len(model.RelevanceIndices()),
		bias:     model.Bias(),
		variance: model.NoiseVariance(),
		port:     settings.System.MetricsPort,
		stored:   stored(settings, model.Report()),
	}
	if test.Len() > 0 {
		means, _, err := model.Predictive(test.X)
		if err != nil {
			return summary{}, fmt.Errorf("could not predict test set: %w", err)
		}
		s.testErr = rvmmath.RMSE(means, test.Y)
		s.testMax = rvmmath.MaxAbs(means, test.Y)

		samples, err := model.Predict(test.X, rand.NewSource(settings.Training.Seed))
		if err != nil {
			return summary{}, fmt.Errorf("could not sample test set: %w", err)
		}
		s.sampled = rvmmath.RMSE(samples, test.Y)
	}
	return s, nil
}

func runClassification(ctx context.Context, opts options) (summary, error) {
	settings, observers, registry, err := setup(opts, rvm.ClassificationVariant)
	if err != nil {
		return summary{}, err
	}
	serve(ctx, settings.System.MetricsPort, registry)

	train, test, err := load(opts, settings, func(src rand.Source) dataset.Set {
		return dataset.Blobs(opts.samples/2, 2, 0.6, src)
	})
	if err != nil {
		return summary{}, err
	}

	model, err := rvm.NewClassifier(settings.Classification, observers...).
		Fit(ctx, train.X, train.Y)
	if err != nil {
		return summary{}, fmt.Errorf("could not fit classification model: %w", err)
	}

	s := summary{
		report:  model.Report(),
		err:     model.Err(),
		train:   train.Len(),
		test:    test.Len(),
		vectors: len(model.RelevanceIndices()),
		bias:    model.Bias(),
		port:    settings.System.MetricsPort,
		stored:  stored(settings, model.Report()),
	}
	if test.Len() > 0 {
		predictions, err := model.Predict(test.X)
		if err != nil {
			return summary{}, fmt.Errorf("could not predict test set: %w", err)
		}
		negative, positive := model.Classes()
		rate, err := dataset.ErrorRate(predictions, dataset.Signs(test.Y, negative, positive))
		if err != nil {
			return summary{}, err
		}
		s.testErr = rate
	}
	return s, nil
}
