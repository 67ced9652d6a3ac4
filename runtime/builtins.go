package runtime

import (
	"fmt"
	"math"

	"github.com/dhamidi/calq/value"
)

func scalar(name string, v value.Value) (float64, error) {
	s, ok := v.(value.Scalar)
	if !ok {
		return 0, value.Errorf("%s: expected a scalar, got %s", name, value.TypeName(v))
	}
	return float64(s), nil
}

func dimension(name string, v value.Value) (int, error) {
	x, err := scalar(name, v)
	if err != nil {
		return 0, err
	}
	if x < 0 || x != math.Trunc(x) {
		return 0, value.Errorf("%s: dimension must be a non-negative integer, got %s", name, v)
	}
	return int(x), nil
}

// elementwise lifts a real function to scalars and matrices.
func elementwise(name, help string, f func(float64) float64) *value.Function {
	return &value.Function{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Help:    help,
		Call: func(c value.Context, args []value.Value) (value.Value, error) {
			switch a := args[0].(type) {
			case value.Scalar:
				return value.Scalar(f(float64(a))), nil
			case *value.Matrix:
				out := value.NewMatrix(a.Rows(), a.Cols())
				for i := 0; i < a.Rows(); i++ {
					for j := 0; j < a.Cols(); j++ {
						out.Set(i, j, f(a.At(i, j)))
					}
				}
				return out, nil
			}
			return nil, value.Errorf("%s: invalid argument %s", name, value.TypeName(args[0]))
		},
	}
}

// shaped builds the matrices of zeros(n), zeros(r, c) and friends.
func shaped(name, help string, fill func(m *value.Matrix)) *value.Function {
	return &value.Function{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 2,
		Help:    help,
		Call: func(c value.Context, args []value.Value) (value.Value, error) {
			rows, err := dimension(name, args[0])
			if err != nil {
				return nil, err
			}
			cols := rows
			if len(args) == 2 {
				if cols, err = dimension(name, args[1]); err != nil {
					return nil, err
				}
			}
			m := value.NewMatrix(rows, cols)
			fill(m)
			return m, nil
		},
	}
}

// reduce folds the elements of a matrix, or the scalar itself.
func reduce(name, help string, init float64, f func(acc, x float64) float64) *value.Function {
	return &value.Function{
		Name:    name,
		MinArgs: 1,
		MaxArgs: -1,
		Help:    help,
		Call: func(c value.Context, args []value.Value) (value.Value, error) {
			acc := init
			for _, arg := range args {
				m, err := value.AsMatrix(arg)
				if err != nil {
					return nil, value.Errorf("%s: %s", name, err)
				}
				for i := 0; i < m.Rows(); i++ {
					for j := 0; j < m.Cols(); j++ {
						acc = f(acc, m.At(i, j))
					}
				}
			}
			return value.Scalar(acc), nil
		},
	}
}

func matrixInfo(name, help string, f func(m *value.Matrix) (value.Value, error)) *value.Function {
	return &value.Function{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Help:    help,
		Call: func(c value.Context, args []value.Value) (value.Value, error) {
			m, err := value.AsMatrix(args[0])
			if err != nil {
				return nil, value.Errorf("%s: %s", name, err)
			}
			return f(m)
		},
	}
}

func builtins() []*value.Function {
	return []*value.Function{
		elementwise("sin", "sine of x in radians", math.Sin),
		elementwise("cos", "cosine of x in radians", math.Cos),
		elementwise("tan", "tangent of x in radians", math.Tan),
		elementwise("exp", "e raised to x", math.Exp),
		elementwise("log", "natural logarithm of x", math.Log),
		elementwise("sqrt", "square root of x", math.Sqrt),
		elementwise("abs", "absolute value of x", math.Abs),
		elementwise("floor", "largest integer not above x", math.Floor),
		elementwise("ceil", "smallest integer not below x", math.Ceil),
		elementwise("round", "x rounded half away from zero", math.Round),
		shaped("zeros", "zeros(n) or zeros(rows, cols): matrix of zeros", func(m *value.Matrix) {}),
		shaped("ones", "ones(n) or ones(rows, cols): matrix of ones", func(m *value.Matrix) {
			for i := 0; i < m.Rows(); i++ {
				for j := 0; j < m.Cols(); j++ {
					m.Set(i, j, 1)
				}
			}
		}),
		shaped("eye", "eye(n) or eye(rows, cols): identity matrix", func(m *value.Matrix) {
			for i := 0; i < min(m.Rows(), m.Cols()); i++ {
				m.Set(i, i, 1)
			}
		}),
		reduce("sum", "sum of all elements", 0, func(acc, x float64) float64 { return acc + x }),
		reduce("max", "largest element", math.Inf(-1), math.Max),
		reduce("min", "smallest element", math.Inf(1), math.Min),
		matrixInfo("size", "[rows, cols] of x", func(m *value.Matrix) (value.Value, error) {
			return value.MatrixFromRows([][]float64{{float64(m.Rows()), float64(m.Cols())}})
		}),
		matrixInfo("length", "largest dimension of x", func(m *value.Matrix) (value.Value, error) {
			if m.Len() == 0 {
				return value.Scalar(0), nil
			}
			return value.Scalar(max(m.Rows(), m.Cols())), nil
		}),
		matrixInfo("numel", "number of elements of x", func(m *value.Matrix) (value.Value, error) {
			return value.Scalar(m.Len()), nil
		}),
		matrixInfo("trace", "sum of the diagonal of a square matrix", func(m *value.Matrix) (value.Value, error) {
			if m.Rows() != m.Cols() {
				return nil, value.Errorf("trace: matrix is %dx%d, not square", m.Rows(), m.Cols())
			}
			var sum float64
			for i := 0; i < m.Rows(); i++ {
				sum += m.At(i, i)
			}
			return value.Scalar(sum), nil
		}),
		{
			Name:    "disp",
			MinArgs: 1,
			MaxArgs: 1,
			Help:    "print x",
			Call: func(c value.Context, args []value.Value) (value.Value, error) {
				rc, ok := c.(*Context)
				if !ok {
					return nil, value.Errorf("disp: no output")
				}
				_, err := fmt.Fprintln(rc.out, value.Format(args[0], c.Precision()))
				return nil, err
			},
		},
	}
}
