package math

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

var (
	// SingularErr is returned when a system cannot be inverted or factorized.
	SingularErr = errors.New("singular matrix")
)

// InverseSPD inverts the given symmetric positive-definite matrix through its Cholesky factorization.
// An ill-conditioned but finite system is logged and the inverse is still returned,
// only exact singularity (or a non positive-definite input) fails.
func InverseSPD(a mat.Symmetric) (*mat.SymDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, fmt.Errorf("matrix is not positive definite: %w", SingularErr)
	}
	inv := mat.NewSymDense(a.SymmetricDim(), nil)
	if err := chol.InverseTo(inv); err != nil {
		if !conditioned(err) {
			return nil, fmt.Errorf("could not invert matrix: %w", SingularErr)
		}
		log.Debug().
			Float64("cond", chol.Cond()).
			Int("dim", a.SymmetricDim()).
			Msg("ill-conditioned inverse")
	}
	return inv, nil
}

// SolveSPD returns the log-determinant of a and the quadratic form bᵀ a⁻¹ b.
func SolveSPD(a mat.Symmetric, b []float64) (logDet float64, quad float64, err error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return 0, 0, fmt.Errorf("matrix is not positive definite: %w", SingularErr)
	}
	bv := mat.NewVecDense(len(b), b)
	x := mat.NewVecDense(len(b), nil)
	if err := chol.SolveVecTo(x, bv); err != nil && !conditioned(err) {
		return 0, 0, fmt.Errorf("could not solve system: %w", SingularErr)
	}
	return chol.LogDet(), mat.Dot(bv, x), nil
}

// conditioned checks if the error is only a warning about a large but finite condition number.
func conditioned(err error) bool {
	var c mat.Condition
	if errors.As(err, &c) {
		return !math.IsInf(float64(c), 1)
	}
	return false
}

// Gram computes aᵀ diag(w) a as a symmetric matrix.
// if w is nil the identity weighting is used.
func Gram(a mat.Matrix, w []float64) *mat.SymDense {
	r, c := a.Dims()
	scaled := mat.DenseCopyOf(a)
	if w != nil {
		for i := 0; i < r; i++ {
			s := math.Sqrt(w[i])
			for j := 0; j < c; j++ {
				scaled.Set(i, j, s*scaled.At(i, j))
			}
		}
	}
	g := mat.NewSymDense(c, nil)
	g.SymOuterK(1, scaled.T())
	return g
}

// AddDiag adds the given values to the diagonal of the symmetric matrix in place.
func AddDiag(s *mat.SymDense, values []float64) {
	for i, v := range values {
		s.SetSym(i, i, s.At(i, i)+v)
	}
}

// SelectColumns copies the given columns of the matrix into a new matrix, keeping their order.
func SelectColumns(a mat.Matrix, columns []int) *mat.Dense {
	r, _ := a.Dims()
	if len(columns) == 0 {
		return nil
	}
	s := mat.NewDense(r, len(columns), nil)
	for j, c := range columns {
		for i := 0; i < r; i++ {
			s.Set(i, j, a.At(i, c))
		}
	}
	return s
}

// SubsetSym keeps the given rows and columns of the symmetric matrix.
func SubsetSym(a mat.Symmetric, set []int) *mat.SymDense {
	var s mat.SymDense
	s.SubsetSym(a, set)
	return &s
}

// MulVec returns a * v as a slice.
func MulVec(a mat.Matrix, v []float64) []float64 {
	r, _ := a.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(a, mat.NewVecDense(len(v), v))
	return out.RawVector().Data
}

// MulTVec returns aᵀ * v as a slice.
func MulTVec(a mat.Matrix, v []float64) []float64 {
	_, c := a.Dims()
	out := mat.NewVecDense(c, nil)
	out.MulVec(a.T(), mat.NewVecDense(len(v), v))
	return out.RawVector().Data
}

// Sigmoid is the logistic link.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// LogSigmoid computes log(Sigmoid(z)) without underflowing for large |z|.
func LogSigmoid(z float64) float64 {
	if z >= 0 {
		return -math.Log1p(math.Exp(-z))
	}
	return z - math.Log1p(math.Exp(z))
}
