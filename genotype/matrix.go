package genotype

import (
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense individuals x markers matrix of float64 values. gonum
// refuses zero-sized matrices, so an empty pedigree or marker set is modeled
// with a nil backing store.
type Matrix struct {
	rows, cols int
	data       *mat.Dense
}

// NewMatrix returns a rows x cols matrix with every cell set to fill.
func NewMatrix(rows, cols int, fill float64) *Matrix {
	m := &Matrix{rows: rows, cols: cols}
	if rows == 0 || cols == 0 {
		return m
	}

	backing := make([]float64, rows*cols)
	for i := range backing {
		backing[i] = fill
	}
	m.data = mat.NewDense(rows, cols, backing)

	return m
}

func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

func (m *Matrix) Set(i, j int, v float64) {
	m.data.Set(i, j, v)
}

// Row returns a view of row i. Writes to the slice modify the matrix.
func (m *Matrix) Row(i int) []float64 {
	if m.data == nil {
		return nil
	}

	return m.data.RawRowView(i)
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	if m.data == nil {
		return make([]float64, m.rows)
	}

	return mat.Col(nil, j, m.data)
}

// Dense exposes the backing gonum matrix, which is nil when either dimension
// is zero.
func (m *Matrix) Dense() *mat.Dense {
	return m.data
}
