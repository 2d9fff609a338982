package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/drakos74/rvm/internal/rvm"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	path = "infra/config"

	// Key is the name of the packaged settings file.
	Key = "rvm"

	// DirEnv overrides the directory Lookup searches.
	DirEnv = "RVM_CONFIG_DIR"
	// StorageEnv overrides the storage directory of the settings.
	StorageEnv = "RVM_STORAGE_DIR"
	// MetricsPortEnv overrides the metrics port of the settings.
	MetricsPortEnv = "RVM_METRICS_PORT"
)

// Settings is the full configuration of a training run.
type Settings struct {
	Regression     rvm.RegressionConfig     `yaml:"regression"`
	Classification rvm.ClassificationConfig `yaml:"classification"`
	Training       Training                 `yaml:"training"`
	System         System                   `yaml:"system"`
}

// Training holds the data handling parameters.
type Training struct {
	// Variance is the initial noise variance of the regression.
	Variance float64 `yaml:"variance"`
	// Split is the share of samples used for training, the rest is used for testing.
	Split float64 `yaml:"split"`
	Seed  uint64  `yaml:"seed"`
}

// System holds the output parameters.
type System struct {
	StorageDir  string `yaml:"storageDir"`
	MetricsPort int    `yaml:"metricsPort"`
}

// Default returns the settings with the documented constants.
func Default() Settings {
	return Settings{
		Regression:     rvm.DefaultRegressionConfig(),
		Classification: rvm.DefaultClassificationConfig(),
		Training: Training{
			Variance: 0.01,
			Split:    0.8,
			Seed:     1,
		},
	}
}

// Dir returns the config directory.
func Dir() string {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir
	}
	return path
}

// Load reads the settings from the given yaml file on top of the defaults.
// An empty path returns the defaults. Environment variables override the file.
func Load(file string) (Settings, error) {
	settings := Default()
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return Settings{}, fmt.Errorf("could not read config file '%s': %w", file, err)
		}
		if err := yaml.Unmarshal(b, &settings); err != nil {
			return Settings{}, fmt.Errorf("could not parse config file '%s': %w", file, err)
		}
		log.Info().Str("file", file).Msg("loaded config")
	}

	if dir := os.Getenv(StorageEnv); dir != "" {
		settings.System.StorageDir = dir
	}
	if port := os.Getenv(MetricsPortEnv); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid metrics port '%s': %w", port, err)
		}
		settings.System.MetricsPort = p
	}

	if settings.Training.Split <= 0 || settings.Training.Split > 1 {
		return Settings{}, fmt.Errorf("training split must be in (0,1]: %v", settings.Training.Split)
	}
	if settings.Training.Variance <= 0 {
		return Settings{}, fmt.Errorf("initial variance must be positive: %v", settings.Training.Variance)
	}
	return settings, nil
}

// Lookup returns the yaml file for the given key in the config directory, if it exists.
func Lookup(key string) (string, bool) {
	file := filepath.Join(Dir(), fmt.Sprintf("%s.yaml", key))
	if _, err := os.Stat(file); err != nil {
		return "", false
	}
	return file, true
}
