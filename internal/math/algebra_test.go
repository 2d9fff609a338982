package math

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestInverseSPD(t *testing.T) {

	type test struct {
		input   *mat.SymDense
		inverse []float64
		err     bool
	}

	tests := map[string]test{
		"identity": {
			input:   mat.NewSymDense(2, []float64{1, 0, 0, 1}),
			inverse: []float64{1, 0, 0, 1},
		},
		"diagonal": {
			input:   mat.NewSymDense(2, []float64{2, 0, 0, 4}),
			inverse: []float64{0.5, 0, 0, 0.25},
		},
		"full": {
			input:   mat.NewSymDense(2, []float64{2, 1, 1, 2}),
			inverse: []float64{2.0 / 3, -1.0 / 3, -1.0 / 3, 2.0 / 3},
		},
		"singular": {
			input: mat.NewSymDense(2, []float64{1, 1, 1, 1}),
			err:   true,
		},
		"indefinite": {
			input: mat.NewSymDense(2, []float64{1, 0, 0, -1}),
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			inv, err := InverseSPD(tt.input)
			if tt.err {
				assert.True(t, errors.Is(err, SingularErr))
				return
			}
			require.NoError(t, err)
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					assert.InDelta(t, tt.inverse[i*2+j], inv.At(i, j), 1e-12)
				}
			}
		})
	}
}

func TestSolveSPD(t *testing.T) {
	a := mat.NewSymDense(2, []float64{2, 1, 1, 2})
	logDet, quad, err := SolveSPD(a, []float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(3), logDet, 1e-12)
	// a⁻¹ (1,1) = (1/3, 1/3)
	assert.InDelta(t, 2.0/3, quad, 1e-12)

	_, _, err = SolveSPD(mat.NewSymDense(2, []float64{0, 0, 0, 0}), []float64{1, 1})
	assert.True(t, errors.Is(err, SingularErr))
}

func TestGram(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})

	g := Gram(a, nil)
	assert.Equal(t, 2, g.SymmetricDim())
	assert.InDelta(t, 35.0, g.At(0, 0), 1e-12)
	assert.InDelta(t, 44.0, g.At(0, 1), 1e-12)
	assert.InDelta(t, 56.0, g.At(1, 1), 1e-12)

	w := Gram(a, []float64{1, 0, 2})
	assert.InDelta(t, 51.0, w.At(0, 0), 1e-12)
	assert.InDelta(t, 62.0, w.At(1, 0), 1e-12)
	assert.InDelta(t, 76.0, w.At(1, 1), 1e-12)

	// the input is left untouched
	assert.Equal(t, 3.0, a.At(1, 0))
}

func TestAddDiag(t *testing.T) {
	s := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	AddDiag(s, []float64{10, 20})
	assert.Equal(t, 11.0, s.At(0, 0))
	assert.Equal(t, 2.0, s.At(0, 1))
	assert.Equal(t, 21.0, s.At(1, 1))
}

func TestSelectColumns(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	s := SelectColumns(a, []int{0, 2})
	assert.Equal(t, []float64{1, 3, 4, 6}, s.RawMatrix().Data)
	assert.Nil(t, SelectColumns(a, nil))
}

func TestSubsetSym(t *testing.T) {
	a := mat.NewSymDense(3, []float64{
		1, 2, 3,
		2, 4, 5,
		3, 5, 6,
	})
	s := SubsetSym(a, []int{0, 2})
	assert.Equal(t, 2, s.SymmetricDim())
	assert.Equal(t, 1.0, s.At(0, 0))
	assert.Equal(t, 3.0, s.At(0, 1))
	assert.Equal(t, 6.0, s.At(1, 1))
}

func TestMulVec(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	assert.Equal(t, []float64{6, 15}, MulVec(a, []float64{1, 1, 1}))
	assert.Equal(t, []float64{5, 7, 9}, MulTVec(a, []float64{1, 1}))
}

func TestSigmoid(t *testing.T) {

	type test struct {
		z float64
		s float64
	}

	tests := map[string]test{
		"zero":     {z: 0, s: 0.5},
		"positive": {z: 2, s: 1 / (1 + math.Exp(-2))},
		"negative": {z: -2, s: 1 / (1 + math.Exp(2))},
		"large":    {z: 800, s: 1},
		"small":    {z: -800, s: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Sigmoid(tt.z)
			assert.InDelta(t, tt.s, s, 1e-15)
			assert.False(t, math.IsNaN(s))
			assert.False(t, math.IsNaN(LogSigmoid(tt.z)))
			assert.False(t, math.IsInf(LogSigmoid(tt.z), 0))
		})
	}

	assert.InDelta(t, math.Log(Sigmoid(1.5)), LogSigmoid(1.5), 1e-12)
	assert.InDelta(t, math.Log(Sigmoid(-1.5)), LogSigmoid(-1.5), 1e-12)
	assert.InDelta(t, -800.0, LogSigmoid(-800), 1e-9)
}
