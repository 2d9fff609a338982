package dataset

import (
	"fmt"

	rvmmath "github.com/drakos74/rvm/internal/math"
	"golang.org/x/exp/rand"
)

// Set is a collection of input vectors with their targets.
type Set struct {
	X [][]float64
	Y []float64
}

// Len returns the number of samples.
func (s Set) Len() int {
	return len(s.X)
}

func (s Set) add(x []float64, y float64) Set {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	return s
}

// Split shuffles the set and splits it into a training and a test set.
// ratio is the share of samples kept for training.
func Split(s Set, ratio float64, src rand.Source) (Set, Set, error) {
	if len(s.X) != len(s.Y) {
		return Set{}, Set{}, fmt.Errorf("inconsistent set: %d samples for %d targets", len(s.X), len(s.Y))
	}
	if ratio <= 0 || ratio >= 1 {
		return Set{}, Set{}, fmt.Errorf("split ratio must be in (0,1): %v", ratio)
	}
	perm := rand.New(src).Perm(s.Len())
	cut := int(ratio * float64(s.Len()))
	var train, test Set
	for i, p := range perm {
		if i < cut {
			train = train.add(s.X[p], s.Y[p])
		} else {
			test = test.add(s.X[p], s.Y[p])
		}
	}
	return train, test, nil
}

// ErrorRate is the fraction of predictions that do not match the labels.
func ErrorRate(predictions []int, labels []float64) (float64, error) {
	if len(predictions) != len(labels) || len(labels) == 0 {
		return 0, fmt.Errorf("cannot compare %d predictions to %d labels", len(predictions), len(labels))
	}
	var miss int
	for i, p := range predictions {
		if float64(p) != labels[i] {
			miss++
		}
	}
	return float64(miss) / float64(len(labels)), nil
}

// Signs maps two label values to -1 for the lower and +1 for the higher value.
func Signs(labels []float64, negative, positive float64) []float64 {
	ss := make([]float64, len(labels))
	for i, l := range labels {
		switch l {
		case positive:
			ss[i] = 1
		case negative:
			ss[i] = -1
		}
	}
	return ss
}

// Sinc generates n noisy samples of sin(x)/x on [from, to].
func Sinc(from, to float64, n int, noise float64, src rand.Source) Set {
	xx := rvmmath.Series(from, to, n)
	return Set{
		X: scalars(xx),
		Y: rvmmath.Noisy(rvmmath.Sinc(xx), noise, src),
	}
}

// Sine generates n noisy samples of sin(2πx) on [0, 1].
func Sine(n int, noise float64, src rand.Source) Set {
	xx := rvmmath.Series(0, 1, n)
	return Set{
		X: scalars(xx),
		Y: rvmmath.Noisy(rvmmath.Sine(xx, 1), noise, src),
	}
}

// Blobs generates n points per class around two centers symmetric to the origin,
// labelled -1 around -center and +1 around +center, interleaved.
func Blobs(n int, center float64, sd float64, src rand.Source) Set {
	neg := rvmmath.Gaussian(n, []float64{-center, -center}, sd, src)
	pos := rvmmath.Gaussian(n, []float64{center, center}, sd, src)
	var s Set
	for i := 0; i < n; i++ {
		s = s.add(neg[i], -1)
		s = s.add(pos[i], 1)
	}
	return s
}

func scalars(xx []float64) [][]float64 {
	x := make([][]float64, len(xx))
	for i, f := range xx {
		x[i] = []float64{f}
	}
	return x
}
