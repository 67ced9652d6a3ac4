package elements

import (
	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/value"
)

// Operator levels. Higher levels bind tighter.
const (
	AssignLevel  = 0
	OrLevel      = 2
	AndLevel     = 3
	CompareLevel = 5
	AddLevel     = 10
	MulLevel     = 20
	PrefixLevel  = 50
	PowerLevel   = 100
	PostfixLevel = 200
)

type binaryFunc func(a, b value.Value) (value.Value, error)

type unaryFunc func(a value.Value) (value.Value, error)

func interpretAll(ctx value.Context, operands []*parser.Container) ([]value.Value, error) {
	values := make([]value.Value, len(operands))
	for i, operand := range operands {
		if operand.IsEmpty() {
			return nil, value.Errorf("%s: missing operand", operand.Pos())
		}
		v, err := operand.Interpret(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, value.Errorf("%s: expression has no value", operand.Pos())
		}
		values[i] = v
	}
	return values, nil
}

// BinaryOperator evaluates both operands and combines them.
type BinaryOperator struct {
	parser.Block
	Symbol string
	level  int
	rtl    bool
	fn     binaryFunc
}

func (op *BinaryOperator) String() string    { return op.Symbol }
func (op *BinaryOperator) Arity() int        { return 2 }
func (op *BinaryOperator) Level() int        { return op.level }
func (op *BinaryOperator) RightToLeft() bool { return op.rtl }

func (op *BinaryOperator) Apply(ctx value.Context, operands []*parser.Container) (value.Value, error) {
	args, err := interpretAll(ctx, operands)
	if err != nil {
		return nil, err
	}
	return op.fn(args[0], args[1])
}

// LogicalOperator is && or ||. The right operand is only evaluated when the
// left one does not decide the result.
type LogicalOperator struct {
	parser.Block
	Symbol string
	level  int
	// shortCircuit is the truth value of the left operand that decides
	// the result on its own.
	shortCircuit bool
}

func (op *LogicalOperator) String() string    { return op.Symbol }
func (op *LogicalOperator) Arity() int        { return 2 }
func (op *LogicalOperator) Level() int        { return op.level }
func (op *LogicalOperator) RightToLeft() bool { return false }

func (op *LogicalOperator) Apply(ctx value.Context, operands []*parser.Container) (value.Value, error) {
	left, err := interpretAll(ctx, operands[:1])
	if err != nil {
		return nil, err
	}
	truth, err := value.Truthy(left[0])
	if err != nil {
		return nil, err
	}
	if truth == op.shortCircuit {
		return value.Bool(truth), nil
	}
	right, err := interpretAll(ctx, operands[1:])
	if err != nil {
		return nil, err
	}
	truth, err = value.Truthy(right[0])
	if err != nil {
		return nil, err
	}
	return value.Bool(truth), nil
}

// AssignmentOperator binds the value of the right operand to the name on
// the left. Compound forms such as += combine with the current value first.
type AssignmentOperator struct {
	parser.Block
	Symbol  string
	combine binaryFunc
}

func (op *AssignmentOperator) String() string     { return op.Symbol }
func (op *AssignmentOperator) Arity() int         { return 2 }
func (op *AssignmentOperator) Level() int         { return AssignLevel }
func (op *AssignmentOperator) RightToLeft() bool  { return true }
func (op *AssignmentOperator) IsAssignment() bool { return true }

func (op *AssignmentOperator) Apply(ctx value.Context, operands []*parser.Container) (value.Value, error) {
	name, ok := AssignedName(operands[0])
	if !ok {
		return nil, value.Errorf("%s: cannot assign to %s", op.Pos(), operands[0])
	}
	args, err := interpretAll(ctx, operands[1:])
	if err != nil {
		return nil, err
	}
	v := args[0]
	if op.combine != nil {
		current, ok := ctx.Lookup(name)
		if !ok {
			return nil, value.Errorf("%s: undefined: %s", op.Pos(), name)
		}
		if v, err = op.combine(current, v); err != nil {
			return nil, err
		}
	}
	if err := ctx.Assign(name, v); err != nil {
		return nil, err
	}
	return v, nil
}

// AssignedName returns the name a container can be assigned to.
func AssignedName(c *parser.Container) (string, bool) {
	if sym, ok := c.Expression().(*Symbol); ok {
		return sym.Name, true
	}
	return "", false
}

// UnaryOperator is a prefix operator, deferred until its operand is known,
// or a postfix operator, applied to the expression before it.
type UnaryOperator struct {
	parser.Block
	Symbol  string
	level   int
	postfix bool
	fn      unaryFunc
}

func (op *UnaryOperator) String() string    { return op.Symbol }
func (op *UnaryOperator) Arity() int        { return 1 }
func (op *UnaryOperator) Level() int        { return op.level }
func (op *UnaryOperator) RightToLeft() bool { return op.postfix }

func (op *UnaryOperator) Apply(ctx value.Context, operands []*parser.Container) (value.Value, error) {
	args, err := interpretAll(ctx, operands)
	if err != nil {
		return nil, err
	}
	return op.fn(args[0])
}

func identity(a value.Value) (value.Value, error) {
	switch a.(type) {
	case value.Scalar, *value.Matrix:
		return a, nil
	}
	return nil, value.Errorf("+: invalid operand %s", value.TypeName(a))
}

type operatorDef struct {
	symbol string
	build  func() parser.Operator
}

func binary(symbol string, level int, rtl bool, fn binaryFunc) operatorDef {
	return operatorDef{symbol, func() parser.Operator {
		return &BinaryOperator{Symbol: symbol, level: level, rtl: rtl, fn: fn}
	}}
}

func logical(symbol string, level int, shortCircuit bool) operatorDef {
	return operatorDef{symbol, func() parser.Operator {
		return &LogicalOperator{Symbol: symbol, level: level, shortCircuit: shortCircuit}
	}}
}

func assignment(symbol string, combine binaryFunc) operatorDef {
	return operatorDef{symbol, func() parser.Operator {
		return &AssignmentOperator{Symbol: symbol, combine: combine}
	}}
}

func unary(symbol string, level int, postfix bool, fn unaryFunc) operatorDef {
	return operatorDef{symbol, func() parser.Operator {
		return &UnaryOperator{Symbol: symbol, level: level, postfix: postfix, fn: fn}
	}}
}

func binaryOperators() []operatorDef {
	return []operatorDef{
		assignment("=", nil),
		assignment("+=", value.Add),
		assignment("-=", value.Sub),
		assignment("*=", value.Mul),
		assignment("/=", value.Div),
		logical("||", OrLevel, true),
		logical("&&", AndLevel, false),
		binary("==", CompareLevel, false, value.Eq),
		binary("~=", CompareLevel, false, value.Ne),
		binary("!=", CompareLevel, false, value.Ne),
		binary("<", CompareLevel, false, value.Lt),
		binary("<=", CompareLevel, false, value.Le),
		binary(">", CompareLevel, false, value.Gt),
		binary(">=", CompareLevel, false, value.Ge),
		binary("+", AddLevel, false, value.Add),
		binary("-", AddLevel, false, value.Sub),
		binary("*", MulLevel, false, value.Mul),
		binary("/", MulLevel, false, value.Div),
		binary(".*", MulLevel, false, value.ElemMul),
		binary("./", MulLevel, false, value.ElemDiv),
		binary("^", PowerLevel, true, value.Pow),
		binary(".^", PowerLevel, true, value.ElemPow),
	}
}

func postfixOperators() []operatorDef {
	return []operatorDef{
		unary("'", PostfixLevel, true, value.Transpose),
		unary("!", PostfixLevel, true, value.Factorial),
	}
}

func prefixOperators() []operatorDef {
	return []operatorDef{
		unary("-", PrefixLevel, false, value.Neg),
		unary("+", PrefixLevel, false, identity),
		unary("!", PrefixLevel, false, value.Not),
		unary("~", PrefixLevel, false, value.Not),
	}
}
