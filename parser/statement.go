package parser

import (
	"errors"

	"github.com/dhamidi/calq/value"
)

var (
	ErrNotFinalized = errors.New("statement is not finalized")
	ErrNoTree       = errors.New("statement has errors and no tree")
)

// startLevel is below every operator level, the void operator included.
const startLevel = -100

// Statement reduces an alternating stream of expressions and operators into
// a single tree. Operators are deferred on a stack while their levels
// increase; when a lower level arrives, deferred operators are folded into
// the expression stack.
type Statement struct {
	engine *Engine

	exprs []*Container
	ops   []Operator
	// maxLevel is the level of the last binary operator pushed. Operators
	// below it are already folded.
	maxLevel     int
	takeOperator bool
	pushed       int

	muted     bool
	finished  bool
	finalized bool
	container *Container
	errors    []*ParseError
}

// NewStatement returns an empty statement whose errors are reported to e.
// A nil engine keeps errors on the statement.
func NewStatement(e *Engine) *Statement {
	return &Statement{engine: e, maxLevel: startLevel}
}

// TakesOperator reports whether the next element must be an operator.
func (st *Statement) TakesOperator() bool {
	return st.takeOperator
}

func (st *Statement) PushExpression(expr Expression) {
	if st.finalized {
		return
	}
	if st.pushed == 0 && expr != nil {
		st.finished = expr.IsSingleStatement()
		if m, ok := expr.(Muter); ok && st.finished && m.IsMuted() {
			st.muted = true
		}
	}
	st.pushed++
	st.exprs = append(st.exprs, Leaf(expr))
	st.takeOperator = true
}

func (st *Statement) PushOperator(op Operator) {
	if st.finalized {
		return
	}
	st.pushed++

	if op.Arity() == 1 {
		if op.RightToLeft() {
			if len(st.exprs) == 0 {
				st.addError(ExpressionMissing, op)
				return
			}
			top := st.exprs[len(st.exprs)-1]
			st.exprs[len(st.exprs)-1] = Apply(op, top)
			return
		}
		st.ops = append(st.ops, op)
		st.takeOperator = false
		return
	}

	if !st.extends(op) {
		st.reduce(op)
	}
	st.maxLevel = op.Level()
	st.ops = append(st.ops, op)
	st.takeOperator = false
}

func (st *Statement) extends(op Operator) bool {
	if op.RightToLeft() {
		return op.Level() >= st.maxLevel
	}
	return op.Level() >= st.maxLevel+1
}

// reduce folds deferred operators that bind at least as tightly as op.
func (st *Statement) reduce(op Operator) {
	for len(st.ops) > 0 {
		top := st.ops[len(st.ops)-1]
		if top.Level() < op.Level() {
			break
		}
		if op.RightToLeft() && top.Level() == op.Level() {
			break
		}
		st.fold()
	}
}

// fold pops the top operator with its operands and pushes the application.
func (st *Statement) fold() {
	op := st.ops[len(st.ops)-1]
	st.ops = st.ops[:len(st.ops)-1]
	node := Apply(op, st.popExpressions(op)...)
	if op.Arity() == 2 {
		node = st.reduceUnary(node)
	}
	st.exprs = append(st.exprs, node)
}

func (st *Statement) popExpressions(op Operator) []*Container {
	n := op.Arity()
	operands := make([]*Container, n)
	available := min(n, len(st.exprs))
	if available < n {
		st.addError(ExpressionMissing, op)
	}
	copy(operands, st.exprs[len(st.exprs)-available:])
	st.exprs = st.exprs[:len(st.exprs)-available]
	for i := available; i < n; i++ {
		operands[i] = Empty()
	}
	return operands
}

// reduceUnary attaches deferred prefix operators that bind tighter than the
// binary node to its first operand.
func (st *Statement) reduceUnary(node *Container) *Container {
	for len(st.ops) > 0 {
		top := st.ops[len(st.ops)-1]
		if top.Arity() != 1 || top.Level() < node.Operator().Level() {
			break
		}
		st.ops = st.ops[:len(st.ops)-1]
		node = node.WithFirst(Apply(top, node.Children()[0]))
	}
	return node
}

func (st *Statement) addError(kind ErrorKind, node Element) {
	st.errors = append(st.errors, NewErrorAt(st.engine, kind, node, ""))
}

// Finalize drains the stacks into the statement's tree. Errors collected
// while building are handed to the engine and leave the statement without
// a tree. Calling Finalize again has no effect.
func (st *Statement) Finalize() *Statement {
	if st.finalized {
		return st
	}
	defer func() { st.finalized = true }()

	if len(st.ops) == 0 && len(st.exprs) > 1 {
		st.errors = append(st.errors, NewError(st.engine, ExpressionMissing, ""))
	}
	if len(st.errors) == 0 {
		for len(st.ops) > 0 {
			st.fold()
		}
	}
	if len(st.errors) == 0 && len(st.exprs) > 1 {
		st.addError(OperatorMissing, st.exprs[1])
	}
	if len(st.errors) > 0 {
		if st.engine != nil {
			st.engine.errors = append(st.engine.errors, st.errors...)
		}
		return st
	}

	if len(st.exprs) == 1 {
		st.container = st.exprs[0]
	} else {
		st.container = Empty()
	}
	st.exprs, st.ops = nil, nil
	return st
}

// IsEmpty reports whether nothing was pushed into the statement.
func (st *Statement) IsEmpty() bool {
	return st.pushed == 0 && (!st.finalized || st.container.IsEmpty())
}

// IsFinished reports whether the first expression forms a whole statement.
func (st *Statement) IsFinished() bool {
	return st.finished
}

// IsMuted reports whether the statement ended with ';', directly or
// through the body of the keyword construct it consists of.
func (st *Statement) IsMuted() bool {
	return st.muted
}

func (st *Statement) IsFinalized() bool {
	return st.finalized
}

// IsAssignment reports whether the root of the tree binds a name.
func (st *Statement) IsAssignment() bool {
	if assignment, ok := st.container.Operator().(Assignment); ok {
		return assignment.IsAssignment()
	}
	return false
}

// Container returns the finalized tree, or nil if the statement has errors
// or is not finalized.
func (st *Statement) Container() *Container {
	return st.container
}

func (st *Statement) Errors() []*ParseError {
	return st.errors
}

func (st *Statement) Pos() Span {
	return st.container.Pos()
}

func (st *Statement) String() string {
	if st.container == nil {
		return "<invalid>"
	}
	return st.container.String()
}

// Interpret evaluates the tree. Muted statements are evaluated for their
// effects but produce no value.
func (st *Statement) Interpret(ctx value.Context) (value.Value, error) {
	if !st.finalized {
		return nil, ErrNotFinalized
	}
	if st.container == nil {
		return nil, ErrNoTree
	}
	v, err := st.container.Interpret(ctx)
	if err != nil || st.muted {
		return nil, err
	}
	return v, nil
}
