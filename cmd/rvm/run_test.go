package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/rvm/infra/config"
	"github.com/drakos74/rvm/internal/dataset"
	"github.com/drakos74/rvm/internal/rvm"
	"github.com/drakos74/rvm/internal/storage"
	"github.com/drakos74/rvm/internal/storage/file/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestRunRegression(t *testing.T) {
	dir := t.TempDir()
	s, err := runRegression(context.Background(), options{
		samples: 40,
		seed:    1,
		storage: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, rvm.RegressionVariant, s.report.Variant)
	assert.Equal(t, rvm.Converged, s.report.Status)
	assert.NoError(t, s.err)
	assert.Equal(t, 32, s.train)
	assert.Equal(t, 8, s.test)
	assert.Less(t, s.vectors, s.train)
	assert.Less(t, s.testErr, 0.25)
	assert.GreaterOrEqual(t, s.testMax, s.testErr)
	assert.Greater(t, s.sampled, 0.0)
	assert.Less(t, s.sampled, 0.5)
	assert.Equal(t, storage.ReportKey(s.report.Variant, s.report.Run).Path(), s.stored)

	var report rvm.Report
	reports := json.NewJsonBlob(dir, storage.ReportsDir, string(rvm.RegressionVariant), false)
	err = reports.Load(storage.ReportKey(s.report.Variant, s.report.Run), &report)
	require.NoError(t, err)
	assert.Equal(t, s.report.Iterations, report.Iterations)

	// the same seed draws the same predictive samples
	again, err := runRegression(context.Background(), options{
		samples: 40,
		seed:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, s.sampled, again.sampled)
	assert.Empty(t, again.stored)

	var iterations []rvm.Iteration
	err = json.NewLogger(dir).Load(storage.IterationsKey(s.report.Variant, s.report.Run), &iterations)
	require.NoError(t, err)
	assert.Len(t, iterations, s.report.Iterations)
}

func TestRunRegression_CSV(t *testing.T) {
	set := dataset.Sine(30, 0.1, rand.NewSource(3))
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := range set.X {
		b.WriteString(fmt.Sprintf("%v,%v\n", set.X[i][0], set.Y[i]))
	}
	file := filepath.Join(t.TempDir(), "sine.csv")
	require.NoError(t, os.WriteFile(file, []byte(b.String()), 0644))

	s, err := runRegression(context.Background(), options{
		data:   file,
		header: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 24, s.train)
	assert.Equal(t, 6, s.test)
}

func TestRunRegression_Sinc(t *testing.T) {
	s, err := runRegression(context.Background(), options{
		samples: 50,
		dataset: sinc,
		storage: memory,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, s.train)
	assert.Equal(t, 10, s.test)
	assert.Less(t, s.vectors, s.train)
	assert.Less(t, s.testErr, 0.25)
	assert.NotEmpty(t, s.stored)

	// nothing is written for the memory storage
	_, err = os.Stat(memory)
	assert.True(t, os.IsNotExist(err))

	_, err = runRegression(context.Background(), options{
		samples: 50,
		dataset: "cosine",
	})
	assert.Error(t, err)
}

func TestRunRegression_ConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.Key+".yaml"), []byte("training:\n  split: 0.5\n"), 0644))
	t.Setenv(config.DirEnv, dir)

	s, err := runRegression(context.Background(), options{
		samples: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, s.train)
	assert.Equal(t, 20, s.test)
}

func TestRunClassification(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("training:\n  split: 0.5\n  seed: 7\n"), 0644))

	s, err := runClassification(context.Background(), options{
		config:  settings,
		samples: 80,
	})
	require.NoError(t, err)

	assert.Equal(t, rvm.ClassificationVariant, s.report.Variant)
	assert.Equal(t, 40, s.train)
	assert.Equal(t, 40, s.test)
	assert.LessOrEqual(t, s.testErr, 0.1)

	var out bytes.Buffer
	s.print(&out)
	assert.Contains(t, out.String(), "classification")
	assert.Contains(t, out.String(), "test error")
	assert.NotContains(t, out.String(), "stored")
}

func TestRun_Invalid(t *testing.T) {
	_, err := runRegression(context.Background(), options{
		data: filepath.Join(t.TempDir(), "missing.csv"),
	})
	assert.Error(t, err)

	_, err = runClassification(context.Background(), options{
		config: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.Error(t, err)

	// two samples leave a single training point
	_, err = runRegression(context.Background(), options{
		samples: 2,
	})
	assert.Error(t, err)
}

func TestRootCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"regression", "--samples", "30", "--seed", "5"})
	require.NoError(t, rootCmd.Execute())

	assert.True(t, opts.seedSet)
	assert.Contains(t, out.String(), "regression")
	assert.Contains(t, out.String(), "test rmse")
	assert.Contains(t, out.String(), "sample rmse")
}
