package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/rvm/internal/rvm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	type test struct {
		input    string
		env      map[string]string
		settings func(s Settings) Settings
		err      bool
	}

	tests := map[string]test{
		"defaults": {
			settings: func(s Settings) Settings {
				return s
			},
		},
		"partial": {
			input: "classification:\n  width: 0.5\ntraining:\n  seed: 42\n",
			settings: func(s Settings) Settings {
				s.Classification.Width = 0.5
				s.Training.Seed = 42
				return s
			},
		},
		"env-override": {
			input: "system:\n  storageDir: reports\n  metricsPort: 9000\n",
			env: map[string]string{
				StorageEnv:     "other",
				MetricsPortEnv: "9100",
			},
			settings: func(s Settings) Settings {
				s.System.StorageDir = "other"
				s.System.MetricsPort = 9100
				return s
			},
		},
		"invalid-port": {
			env: map[string]string{
				MetricsPortEnv: "abc",
			},
			err: true,
		},
		"invalid-split": {
			input: "training:\n  split: 1.5\n",
			err:   true,
		},
		"invalid-variance": {
			input: "training:\n  variance: 0\n",
			err:   true,
		},
		"invalid-yaml": {
			input: "regression: [",
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			file := ""
			if tt.input != "" {
				file = filepath.Join(t.TempDir(), "settings.yaml")
				require.NoError(t, os.WriteFile(file, []byte(tt.input), 0644))
			}
			s, err := Load(file)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.settings(Default()), s)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	// the packaged config matches the documented constants
	t.Setenv(DirEnv, ".")
	file, ok := Lookup(Key)
	require.True(t, ok)
	assert.Equal(t, "rvm.yaml", file)

	s, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, rvm.DefaultRegressionConfig(), s.Regression)
	assert.Equal(t, rvm.DefaultClassificationConfig(), s.Classification)
	assert.Equal(t, Default().Training, s.Training)
	assert.Equal(t, "file-storage", s.System.StorageDir)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}

func TestDir(t *testing.T) {
	t.Setenv(DirEnv, "")
	assert.Equal(t, path, Dir())
	t.Setenv(DirEnv, "/etc/rvm")
	assert.Equal(t, "/etc/rvm", Dir())
}
