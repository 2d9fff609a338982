package rvm

import (
	"errors"
	"fmt"
)

var (
	// InvalidInputErr signals malformed or mismatched training / prediction input.
	InvalidInputErr = errors.New("invalid input")
	// NumericInstabilityErr signals a singular system or an undefined hyperparameter update.
	NumericInstabilityErr = errors.New("numeric instability")
	// NonConvergenceErr signals that the iteration cap was reached before the convergence threshold.
	// It is never returned by Fit, the last iterate is kept and the error is reported by the model.
	NonConvergenceErr = errors.New("did not converge")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", InvalidInputErr, fmt.Sprintf(format, args...))
}

func unstable(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", NumericInstabilityErr, msg)
	}
	return fmt.Errorf("%w: %s: %w", NumericInstabilityErr, msg, err)
}
