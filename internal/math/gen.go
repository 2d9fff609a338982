package math

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Series creates n equally spaced values from 'from' to 'to' inclusive.
func Series(from, to float64, n int) []float64 {
	xx := make([]float64, n)
	if n == 1 {
		xx[0] = from
		return xx
	}
	step := (to - from) / float64(n-1)
	for i := 0; i < n; i++ {
		xx[i] = from + step*float64(i)
	}
	return xx
}

// Sine maps the series to sin(2π f x).
func Sine(xx []float64, f float64) []float64 {
	yy := make([]float64, len(xx))
	for i, x := range xx {
		yy[i] = math.Sin(2 * math.Pi * f * x)
	}
	return yy
}

// Sinc maps the series to sin(x)/x.
func Sinc(xx []float64) []float64 {
	yy := make([]float64, len(xx))
	for i, x := range xx {
		if x == 0 {
			yy[i] = 1
			continue
		}
		yy[i] = math.Sin(x) / x
	}
	return yy
}

// Noisy adds gaussian noise of the given standard deviation to the values.
func Noisy(yy []float64, sd float64, src rand.Source) []float64 {
	noise := distuv.Normal{Mu: 0, Sigma: sd, Src: src}
	nn := make([]float64, len(yy))
	for i, y := range yy {
		nn[i] = y + noise.Rand()
	}
	return nn
}

// Gaussian draws n points of the given dimension around the center.
func Gaussian(n int, center []float64, sd float64, src rand.Source) [][]float64 {
	noise := distuv.Normal{Mu: 0, Sigma: sd, Src: src}
	xx := make([][]float64, n)
	for i := range xx {
		x := make([]float64, len(center))
		for j, c := range center {
			x[j] = c + noise.Rand()
		}
		xx[i] = x
	}
	return xx
}
