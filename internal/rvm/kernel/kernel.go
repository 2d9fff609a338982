package kernel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel evaluates the similarity of two input vectors.
type Kernel interface {
	Eval(x, z []float64) float64
	// Dim is the input dimension the kernel accepts, 0 means any.
	Dim() int
}

// Spline is the third order polynomial spline kernel over scalar inputs.
type Spline struct{}

// Eval computes
// 1 + x z + x z min(x,z) - (x+z)/2 min(x,z)^2 + min(x,z)^3/3
func (Spline) Eval(x, z []float64) float64 {
	a, b := x[0], z[0]
	m := math.Min(a, b)
	return 1 + a*b + a*b*m - ((a+b)/2)*m*m + m*m*m/3
}

func (Spline) Dim() int {
	return 1
}

func (Spline) String() string {
	return "spline"
}

// RBF is the gaussian radial basis kernel exp(-|x-z|^2 / (2 width^2)).
type RBF struct {
	Width float64 `yaml:"width"`
}

// NewRBF creates a new gaussian kernel of the given width.
func NewRBF(width float64) RBF {
	return RBF{Width: width}
}

func (k RBF) Eval(x, z []float64) float64 {
	d := floats.Distance(x, z, 2)
	return math.Exp(-(d * d) / (2 * k.Width * k.Width))
}

func (RBF) Dim() int {
	return 0
}

func (k RBF) String() string {
	return fmt.Sprintf("rbf(%v)", k.Width)
}
