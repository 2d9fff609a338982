package kernel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Validate checks that all the inputs have the same non-zero dimension and fit the kernel.
func Validate(k Kernel, x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("no input vectors")
	}
	dim := len(x[0])
	if dim == 0 {
		return 0, fmt.Errorf("empty input vector at %d", 0)
	}
	if k.Dim() > 0 && dim != k.Dim() {
		return 0, fmt.Errorf("kernel %v expects dimension %d but got %d", k, k.Dim(), dim)
	}
	for i, v := range x {
		if len(v) != dim {
			return 0, fmt.Errorf("inconsistent dimension at %d: %d != %d", i, len(v), dim)
		}
	}
	return dim, nil
}

// Design builds the design matrix of the inputs against the given centers.
// Column 0 holds the bias term if requested, the rest hold k(x_i, c_j).
func Design(k Kernel, x [][]float64, centers [][]float64, bias bool) *mat.Dense {
	offset := 0
	if bias {
		offset = 1
	}
	cols := len(centers) + offset
	if cols == 0 {
		return nil
	}
	phi := mat.NewDense(len(x), cols, nil)
	for i := range x {
		if bias {
			phi.Set(i, 0, 1)
		}
		for j := range centers {
			phi.Set(i, j+offset, k.Eval(x[i], centers[j]))
		}
	}
	return phi
}

// Basis builds the full N x (N+1) design matrix of the training set,
// where every training point is a candidate center.
func Basis(k Kernel, x [][]float64) *mat.Dense {
	return Design(k, x, x, true)
}

// Row evaluates a single design row for the input against the given centers.
func Row(k Kernel, x []float64, centers [][]float64, bias bool) []float64 {
	row := make([]float64, 0, len(centers)+1)
	if bias {
		row = append(row, 1)
	}
	for _, c := range centers {
		row = append(row, k.Eval(x, c))
	}
	return row
}
