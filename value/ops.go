package value

import "math"

// elementwise applies f to scalars, or element by element when at least one
// side is a matrix. A scalar is broadcast against a matrix.
func elementwise(op string, a, b Value, f func(x, y float64) float64) (Value, error) {
	switch a := a.(type) {
	case Scalar:
		switch b := b.(type) {
		case Scalar:
			return Scalar(f(float64(a), float64(b))), nil
		case *Matrix:
			return b.apply(func(y float64) float64 { return f(float64(a), y) }), nil
		}
	case *Matrix:
		switch b := b.(type) {
		case Scalar:
			return a.apply(func(x float64) float64 { return f(x, float64(b)) }), nil
		case *Matrix:
			if a.rows != b.rows || a.cols != b.cols {
				return nil, Errorf("%s: dimensions %dx%d and %dx%d do not agree", op, a.rows, a.cols, b.rows, b.cols)
			}
			out := NewMatrix(a.rows, a.cols)
			for i := range a.data {
				out.data[i] = f(a.data[i], b.data[i])
			}
			return out, nil
		}
	}
	return nil, invalid(op, a, b)
}

func invalid(op string, a, b Value) Error {
	return Errorf("%s: invalid operands %s and %s", op, TypeName(a), TypeName(b))
}

func Add(a, b Value) (Value, error) {
	if sa, ok := a.(String); ok {
		if sb, ok := b.(String); ok {
			return sa + sb, nil
		}
	}
	return elementwise("+", a, b, func(x, y float64) float64 { return x + y })
}

func Sub(a, b Value) (Value, error) {
	return elementwise("-", a, b, func(x, y float64) float64 { return x - y })
}

// Mul is the matrix product when both sides are matrices and element-wise
// scaling otherwise.
func Mul(a, b Value) (Value, error) {
	ma, aok := a.(*Matrix)
	mb, bok := b.(*Matrix)
	if !aok || !bok {
		return elementwise("*", a, b, func(x, y float64) float64 { return x * y })
	}
	if ma.cols != mb.rows {
		return nil, Errorf("*: inner dimensions %dx%d and %dx%d do not agree", ma.rows, ma.cols, mb.rows, mb.cols)
	}
	out := NewMatrix(ma.rows, mb.cols)
	for i := 0; i < ma.rows; i++ {
		for j := 0; j < mb.cols; j++ {
			var sum float64
			for k := 0; k < ma.cols; k++ {
				sum += ma.At(i, k) * mb.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out, nil
}

func Div(a, b Value) (Value, error) {
	if _, ok := b.(*Matrix); ok {
		if _, ok := a.(*Matrix); ok {
			return nil, Errorf("/: matrix right division is not supported; use ./")
		}
	}
	return elementwise("/", a, b, func(x, y float64) float64 { return x / y })
}

// Pow raises scalars to any power and square matrices to non-negative
// integer powers.
func Pow(a, b Value) (Value, error) {
	m, ok := a.(*Matrix)
	if !ok {
		return elementwise("^", a, b, math.Pow)
	}
	n, ok := b.(Scalar)
	if !ok || !n.IsInteger() || n < 0 {
		return nil, Errorf("^: matrix power needs a non-negative integer exponent")
	}
	if m.rows != m.cols {
		return nil, Errorf("^: matrix power needs a square matrix, got %dx%d", m.rows, m.cols)
	}
	result := Identity(m.rows)
	base := m.clone()
	for e := int(n); e > 0; e >>= 1 {
		if e&1 == 1 {
			r, err := Mul(result, base)
			if err != nil {
				return nil, err
			}
			result = r.(*Matrix)
		}
		sq, err := Mul(base, base)
		if err != nil {
			return nil, err
		}
		base = sq.(*Matrix)
	}
	return result, nil
}

func ElemMul(a, b Value) (Value, error) {
	return elementwise(".*", a, b, func(x, y float64) float64 { return x * y })
}

func ElemDiv(a, b Value) (Value, error) {
	return elementwise("./", a, b, func(x, y float64) float64 { return x / y })
}

func ElemPow(a, b Value) (Value, error) {
	return elementwise(".^", a, b, math.Pow)
}

func compare(op string, a, b Value, f func(x, y float64) bool) (Value, error) {
	if sa, ok := a.(String); ok {
		if sb, ok := b.(String); ok {
			switch op {
			case "==":
				return Bool(sa == sb), nil
			case "~=":
				return Bool(sa != sb), nil
			}
		}
	}
	return elementwise(op, a, b, func(x, y float64) float64 {
		if f(x, y) {
			return 1
		}
		return 0
	})
}

func Eq(a, b Value) (Value, error) {
	return compare("==", a, b, func(x, y float64) bool { return x == y })
}

func Ne(a, b Value) (Value, error) {
	return compare("~=", a, b, func(x, y float64) bool { return x != y })
}

func Lt(a, b Value) (Value, error) {
	return compare("<", a, b, func(x, y float64) bool { return x < y })
}

func Le(a, b Value) (Value, error) {
	return compare("<=", a, b, func(x, y float64) bool { return x <= y })
}

func Gt(a, b Value) (Value, error) {
	return compare(">", a, b, func(x, y float64) bool { return x > y })
}

func Ge(a, b Value) (Value, error) {
	return compare(">=", a, b, func(x, y float64) bool { return x >= y })
}

func Neg(a Value) (Value, error) {
	switch a := a.(type) {
	case Scalar:
		return -a, nil
	case *Matrix:
		return a.apply(func(x float64) float64 { return -x }), nil
	}
	return nil, Errorf("-: invalid operand %s", TypeName(a))
}

func Not(a Value) (Value, error) {
	switch a := a.(type) {
	case Scalar:
		return Bool(a == 0), nil
	case *Matrix:
		return a.apply(func(x float64) float64 {
			if x == 0 {
				return 1
			}
			return 0
		}), nil
	}
	return nil, Errorf("!: invalid operand %s", TypeName(a))
}

func Transpose(a Value) (Value, error) {
	switch a := a.(type) {
	case Scalar:
		return a, nil
	case *Matrix:
		out := NewMatrix(a.cols, a.rows)
		for i := 0; i < a.rows; i++ {
			for j := 0; j < a.cols; j++ {
				out.Set(j, i, a.At(i, j))
			}
		}
		return out, nil
	}
	return nil, Errorf("': invalid operand %s", TypeName(a))
}

// Factorial is x! for non-negative numbers, extended to reals by the gamma
// function.
func Factorial(a Value) (Value, error) {
	f := func(x float64) float64 {
		if x < 0 {
			return math.NaN()
		}
		return math.Gamma(x + 1)
	}
	switch a := a.(type) {
	case Scalar:
		if a.IsInteger() && a >= 0 && a <= 170 {
			r := 1.0
			for i := 2; i <= int(a); i++ {
				r *= float64(i)
			}
			return Scalar(r), nil
		}
		return Scalar(f(float64(a))), nil
	case *Matrix:
		return a.apply(f), nil
	}
	return nil, Errorf("!: invalid operand %s", TypeName(a))
}
