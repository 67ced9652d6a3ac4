package parser

import (
	"fmt"

	"github.com/dhamidi/calq/value"
)

// Element is anything the recognizer can produce.
type Element interface {
	fmt.Stringer
	Pos() Span
}

// Expression is a leaf or self-contained composite unit of the tree.
type Expression interface {
	Element
	// IsSingleStatement reports whether the expression forms a complete
	// statement on its own, such as a keyword construct.
	IsSingleStatement() bool
	Interpret(ctx value.Context) (value.Value, error)
}

// Operator combines one or two operand trees.
type Operator interface {
	Element
	Arity() int
	// Level is the precedence; higher levels bind tighter.
	Level() int
	RightToLeft() bool
	// Apply evaluates the operator. The operands are passed unevaluated so
	// that operators such as assignment can inspect them.
	Apply(ctx value.Context, operands []*Container) (value.Value, error)
}

// Muter is implemented by single-statement expressions whose own body can
// end in ';'. A statement starting with a muted expression is muted too.
type Muter interface {
	IsMuted() bool
}

// Assignment is implemented by operators that bind a name.
type Assignment interface {
	IsAssignment() bool
}

// Referencer is implemented by expressions that mention identifiers.
type Referencer interface {
	References() []string
}

// Composite is implemented by expressions that own nested trees, such as
// bracketed sub-statements or blocks.
type Composite interface {
	Containers() []*Container
}

// Recognizer finds grammar elements at the engine's current position.
// On success a Find method advances the engine past the matched text;
// on failure it returns a nil interface and leaves the engine untouched.
type Recognizer interface {
	FindOperator(e *Engine) Operator
	FindLeftUnaryOperator(e *Engine) Operator
	FindExpression(e *Engine) Expression
}

// Resolver is implemented by recognizers that know which names are bound
// to functions or constants.
type Resolver interface {
	Known(name string) bool
}

// VoidLevel is the precedence of the void operator. It is below every real
// operator but above the statement's starting level.
const VoidLevel = -50

type voidOperator struct {
	Block
}

// Void returns the sentinel binary operator used when an operator is required
// and none was found. Applying it is an error.
func Void(e *Engine) Operator {
	op := &voidOperator{}
	if e != nil {
		op.Begin(e)
	}
	return op
}

func (*voidOperator) String() string    { return "void" }
func (*voidOperator) Arity() int        { return 2 }
func (*voidOperator) Level() int        { return VoidLevel }
func (*voidOperator) RightToLeft() bool { return false }

func (op *voidOperator) Apply(ctx value.Context, operands []*Container) (value.Value, error) {
	return nil, value.Errorf("%s: missing operator", op.Pos())
}
