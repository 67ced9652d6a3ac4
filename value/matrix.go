package value

import "strings"

// Matrix is a dense, row-major matrix of reals.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix returns a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// MatrixFromRows builds a matrix from equally sized rows.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			return nil, Errorf("row %d has %d columns, expected %d", i+1, len(row), m.cols)
		}
		copy(m.data[i*m.cols:], row)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }
func (m *Matrix) Len() int  { return len(m.data) }

func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, x float64) {
	m.data[i*m.cols+j] = x
}

// Index returns the element at the 1-based row i and column j.
func (m *Matrix) Index(i, j int) (Scalar, error) {
	if i < 1 || i > m.rows || j < 1 || j > m.cols {
		return 0, Errorf("index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols)
	}
	return Scalar(m.At(i-1, j-1)), nil
}

// Linear returns the element at the 1-based column-major position k.
func (m *Matrix) Linear(k int) (Scalar, error) {
	if k < 1 || k > len(m.data) {
		return 0, Errorf("index %d out of range for %dx%d matrix", k, m.rows, m.cols)
	}
	k--
	return Scalar(m.At(k%m.rows, k/m.rows)), nil
}

func (m *Matrix) String() string {
	return m.format(DefaultPrecision)
}

func (m *Matrix) format(precision int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(FormatScalar(Scalar(m.At(i, j)), precision))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (m *Matrix) clone() *Matrix {
	c := NewMatrix(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

func (m *Matrix) apply(f func(float64) float64) *Matrix {
	c := NewMatrix(m.rows, m.cols)
	for i, x := range m.data {
		c.data[i] = f(x)
	}
	return c
}

// AsMatrix promotes a scalar to a 1×1 matrix.
func AsMatrix(v Value) (*Matrix, error) {
	switch v := v.(type) {
	case Scalar:
		m := NewMatrix(1, 1)
		m.data[0] = float64(v)
		return m, nil
	case *Matrix:
		return v, nil
	}
	return nil, Errorf("%s cannot be used as a matrix", TypeName(v))
}

// Shrink turns a 1×1 matrix into a scalar.
func Shrink(m *Matrix) Value {
	if m.rows == 1 && m.cols == 1 {
		return Scalar(m.data[0])
	}
	return m
}

// HorzCat concatenates values side by side. Scalars count as 1×1.
func HorzCat(values []Value) (*Matrix, error) {
	var parts []*Matrix
	rows, cols := -1, 0
	for _, v := range values {
		m, err := AsMatrix(v)
		if err != nil {
			return nil, err
		}
		if m.Len() == 0 {
			continue
		}
		if rows >= 0 && m.rows != rows {
			return nil, Errorf("horizontal concatenation: %d rows do not match %d", m.rows, rows)
		}
		rows = m.rows
		cols += m.cols
		parts = append(parts, m)
	}
	if rows < 0 {
		return NewMatrix(0, 0), nil
	}
	out := NewMatrix(rows, cols)
	offset := 0
	for _, p := range parts {
		for i := 0; i < p.rows; i++ {
			for j := 0; j < p.cols; j++ {
				out.Set(i, offset+j, p.At(i, j))
			}
		}
		offset += p.cols
	}
	return out, nil
}

// VertCat stacks matrices on top of each other.
func VertCat(parts []*Matrix) (*Matrix, error) {
	rows, cols := 0, -1
	var kept []*Matrix
	for _, p := range parts {
		if p.Len() == 0 {
			continue
		}
		if cols >= 0 && p.cols != cols {
			return nil, Errorf("vertical concatenation: %d columns do not match %d", p.cols, cols)
		}
		cols = p.cols
		rows += p.rows
		kept = append(kept, p)
	}
	if cols < 0 {
		return NewMatrix(0, 0), nil
	}
	out := NewMatrix(rows, cols)
	offset := 0
	for _, p := range kept {
		copy(out.data[offset*cols:], p.data)
		offset += p.rows
	}
	return out, nil
}
