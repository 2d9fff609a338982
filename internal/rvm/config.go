package rvm

const (
	// MinSamples is the smallest training set accepted.
	// Smaller sets cannot support the noise variance update nor two label classes plus a bias.
	MinSamples = 3

	// RegressionAlpha is the initial precision of every regression weight.
	RegressionAlpha = 1e-4
	// RegressionPruneThreshold drops regression weights with a larger precision.
	RegressionPruneThreshold = 1e6
	// RegressionConvergence is the log evidence change under which regression stops.
	RegressionConvergence = 1e-3
	// RegressionMaxIterations bounds the regression loop.
	RegressionMaxIterations = 1000

	// ClassificationPruneThreshold drops classification weights with a smaller precision.
	ClassificationPruneThreshold = 1e-5
	// ClassificationConvergence is the log posterior increase at or under which classification stops.
	ClassificationConvergence = 1e-13
	// ClassificationMaxIterations bounds the classification loop.
	ClassificationMaxIterations = 100
	// ClassificationWidth is the default width of the gaussian kernel.
	ClassificationWidth = 1.0
)

// RegressionConfig defines the parameters of the regression training loop.
type RegressionConfig struct {
	Alpha          float64 `yaml:"alpha" json:"alpha"`
	PruneThreshold float64 `yaml:"pruneThreshold" json:"pruneThreshold"`
	Convergence    float64 `yaml:"convergence" json:"convergence"`
	MaxIterations  int     `yaml:"maxIterations" json:"maxIterations"`
}

// DefaultRegressionConfig returns the regression configuration with the documented constants.
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{
		Alpha:          RegressionAlpha,
		PruneThreshold: RegressionPruneThreshold,
		Convergence:    RegressionConvergence,
		MaxIterations:  RegressionMaxIterations,
	}
}

func (c RegressionConfig) validate() error {
	if c.Alpha <= 0 {
		return invalid("initial alpha must be positive: %v", c.Alpha)
	}
	if c.PruneThreshold <= c.Alpha {
		return invalid("prune threshold %v must exceed the initial alpha %v", c.PruneThreshold, c.Alpha)
	}
	if c.Convergence <= 0 {
		return invalid("convergence threshold must be positive: %v", c.Convergence)
	}
	if c.MaxIterations <= 0 {
		return invalid("max iterations must be positive: %d", c.MaxIterations)
	}
	return nil
}

// ClassificationConfig defines the parameters of the classification training loop.
// The initial alpha is always 1/(N+1).
type ClassificationConfig struct {
	Width          float64 `yaml:"width" json:"width"`
	PruneThreshold float64 `yaml:"pruneThreshold" json:"pruneThreshold"`
	Convergence    float64 `yaml:"convergence" json:"convergence"`
	MaxIterations  int     `yaml:"maxIterations" json:"maxIterations"`
}

// DefaultClassificationConfig returns the classification configuration with the documented constants.
func DefaultClassificationConfig() ClassificationConfig {
	return ClassificationConfig{
		Width:          ClassificationWidth,
		PruneThreshold: ClassificationPruneThreshold,
		Convergence:    ClassificationConvergence,
		MaxIterations:  ClassificationMaxIterations,
	}
}

func (c ClassificationConfig) validate() error {
	if c.Width <= 0 {
		return invalid("kernel width must be positive: %v", c.Width)
	}
	if c.PruneThreshold < 0 {
		return invalid("prune threshold must not be negative: %v", c.PruneThreshold)
	}
	if c.Convergence < 0 {
		return invalid("convergence threshold must not be negative: %v", c.Convergence)
	}
	if c.MaxIterations <= 0 {
		return invalid("max iterations must be positive: %d", c.MaxIterations)
	}
	return nil
}
