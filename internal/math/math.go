package math

import (
	"math"
	"strconv"
)

// Format formats a float based on the given precision
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// FormatE formats a float in scientific notation, for values spanning many orders of magnitude.
func FormatE(f float64) string {
	return strconv.FormatFloat(f, 'e', 3, 64)
}

// RMSE is the root mean squared difference of the two series.
// NOTE : the series are expected to have the same length
func RMSE(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s / float64(len(a)))
}

// MaxAbs is the largest absolute difference of the two series.
func MaxAbs(a, b []float64) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}
