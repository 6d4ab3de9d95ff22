package similarity

// Matrix is a dense, square, symmetric similarity matrix with a unit diagonal.
type Matrix struct {
	n    int
	data []float64
}

func newMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]float64, n*n)}
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At returns the similarity between rows i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	copy(row, m.data[i*m.n:(i+1)*m.n])
	return row
}

func (m *Matrix) set(i, j int, v float64) {
	m.data[i*m.n+j] = v
	m.data[j*m.n+i] = v
}
