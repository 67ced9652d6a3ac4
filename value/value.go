// Package value holds the runtime values produced by evaluating calq trees.
package value

import "fmt"

// Value is the result of evaluating an expression.
type Value interface {
	String() string
}

// Context is the environment an expression is evaluated in: the binding of
// names to values and functions.
type Context interface {
	// Lookup returns the value bound to name.
	Lookup(name string) (Value, bool)
	// Assign binds name to v.
	Assign(name string, v Value) error
	// Function returns the builtin function called name.
	Function(name string) (*Function, bool)
	// Precision is the number of decimal places used when printing scalars.
	Precision() int
	// Err reports whether evaluation should stop, for example because
	// the caller cancelled it.
	Err() error
}

// Function is a builtin callable from expressions as name(args...).
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 means any number of arguments.
	Help    string
	Call    func(c Context, args []Value) (Value, error)
}

// Invoke checks the argument count and calls the function.
func (fn *Function) Invoke(c Context, args []Value) (Value, error) {
	if len(args) < fn.MinArgs || (fn.MaxArgs >= 0 && len(args) > fn.MaxArgs) {
		switch {
		case fn.MinArgs == fn.MaxArgs:
			return nil, Errorf("%s: expected %d arguments, got %d", fn.Name, fn.MinArgs, len(args))
		case fn.MaxArgs < 0:
			return nil, Errorf("%s: expected at least %d arguments, got %d", fn.Name, fn.MinArgs, len(args))
		default:
			return nil, Errorf("%s: expected %d to %d arguments, got %d", fn.Name, fn.MinArgs, fn.MaxArgs, len(args))
		}
	}
	return fn.Call(c, args)
}

// Error is an evaluation error.
type Error string

func (err Error) Error() string {
	return string(err)
}

func Errorf(format string, args ...interface{}) Error {
	return Error(fmt.Sprintf(format, args...))
}

// TypeName returns a short name for the type of v, used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case Scalar:
		return "scalar"
	case *Matrix:
		return "matrix"
	case String:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Truthy reports whether v counts as true in a condition.
// Matrices are true when they are non-empty and all elements are non-zero.
func Truthy(v Value) (bool, error) {
	switch v := v.(type) {
	case Scalar:
		return v != 0, nil
	case *Matrix:
		if len(v.data) == 0 {
			return false, nil
		}
		for _, x := range v.data {
			if x == 0 {
				return false, nil
			}
		}
		return true, nil
	case String:
		return v != "", nil
	}
	return false, Errorf("%s cannot be used as a condition", TypeName(v))
}

// Bool converts a Go boolean to the scalar 1 or 0.
func Bool(b bool) Scalar {
	if b {
		return 1
	}
	return 0
}
