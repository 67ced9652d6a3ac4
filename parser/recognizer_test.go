package parser

import (
	"strings"

	"github.com/dhamidi/calq/value"
)

// testGrammar recognizes single-letter symbols, integers, parentheses,
// braces and a configurable set of operators. '@' is a single-statement
// expression.
type testGrammar struct {
	binary  map[rune]testOp
	prefix  map[rune]testOp
	postfix map[rune]testOp
	known   map[string]bool
}

type testOp struct {
	Block
	symbol rune
	arity  int
	level  int
	rtl    bool
}

func (op *testOp) String() string    { return string(op.symbol) }
func (op *testOp) Arity() int        { return op.arity }
func (op *testOp) Level() int        { return op.level }
func (op *testOp) RightToLeft() bool { return op.rtl }

func (op *testOp) IsAssignment() bool { return op.symbol == '=' }

func (op *testOp) Apply(ctx value.Context, operands []*Container) (value.Value, error) {
	if op.symbol == '=' {
		v, err := operands[1].Interpret(ctx)
		if err != nil {
			return nil, err
		}
		return v, ctx.Assign(operands[0].Expression().String(), v)
	}
	args := make([]value.Value, len(operands))
	for i, operand := range operands {
		v, err := operand.Interpret(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if op.arity == 1 {
		switch op.symbol {
		case '!':
			return value.Factorial(args[0])
		}
		return value.Neg(args[0])
	}
	switch op.symbol {
	case '+':
		return value.Add(args[0], args[1])
	case '-':
		return value.Sub(args[0], args[1])
	case '*':
		return value.Mul(args[0], args[1])
	case '^':
		return value.Pow(args[0], args[1])
	}
	return nil, value.Errorf("unknown operator %c", op.symbol)
}

type testExpr struct {
	Block
	text   string
	single bool
	nested []*Container
}

func (x *testExpr) String() string          { return x.text }
func (x *testExpr) IsSingleStatement() bool { return x.single }

func (x *testExpr) Containers() []*Container { return x.nested }

func (x *testExpr) References() []string {
	if IsIdentifierStart([]rune(x.text)[0]) {
		return []string{x.text}
	}
	return nil
}

func (x *testExpr) Interpret(ctx value.Context) (value.Value, error) {
	if len(x.nested) > 0 {
		var last value.Value
		for _, c := range x.nested {
			v, err := c.Interpret(ctx)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	}
	if IsDigit([]rune(x.text)[0]) {
		n := 0
		for _, r := range x.text {
			n = n*10 + int(r-'0')
		}
		return value.Scalar(n), nil
	}
	if v, ok := ctx.Lookup(x.text); ok {
		return v, nil
	}
	return nil, value.Errorf("undefined: %s", x.text)
}

func newTestGrammar() *testGrammar {
	g := &testGrammar{
		binary:  map[rune]testOp{},
		prefix:  map[rune]testOp{},
		postfix: map[rune]testOp{},
		known:   map[string]bool{"p": true},
	}
	g.binary['='] = testOp{symbol: '=', arity: 2, level: 0, rtl: true}
	g.binary['+'] = testOp{symbol: '+', arity: 2, level: 1}
	g.binary['-'] = testOp{symbol: '-', arity: 2, level: 1}
	g.binary['*'] = testOp{symbol: '*', arity: 2, level: 2}
	g.binary['^'] = testOp{symbol: '^', arity: 2, level: 3, rtl: true}
	g.prefix['-'] = testOp{symbol: '-', arity: 1, level: 5}
	g.postfix['!'] = testOp{symbol: '!', arity: 1, level: 10, rtl: true}
	return g
}

func (g *testGrammar) withPrefixLevel(level int) *testGrammar {
	g.prefix['-'] = testOp{symbol: '-', arity: 1, level: level}
	return g
}

func (g *testGrammar) find(e *Engine, table map[rune]testOp) Operator {
	proto, ok := table[e.Current()]
	if !ok {
		return nil
	}
	op := proto
	op.Begin(e)
	e.Advance()
	op.End(e)
	return &op
}

func (g *testGrammar) FindOperator(e *Engine) Operator {
	if op := g.find(e, g.postfix); op != nil {
		return op
	}
	return g.find(e, g.binary)
}

func (g *testGrammar) FindLeftUnaryOperator(e *Engine) Operator {
	return g.find(e, g.prefix)
}

func (g *testGrammar) FindExpression(e *Engine) Expression {
	x := &testExpr{}
	x.Begin(e)
	r := e.Current()
	switch {
	case r == '@':
		x.text, x.single = "@", true
		e.Advance()
	case IsIdentifierStart(r):
		x.text = string(r)
		e.Advance()
	case IsDigit(r):
		start := e.Pointer()
		for IsDigit(e.Current()) {
			e.Advance()
		}
		x.text = e.Slice(start, e.Pointer())
	case r == '(':
		e.Advance()
		st, _ := e.ParseStatementUntil(')', nil, nil)
		if c := st.Container(); c != nil {
			x.nested = []*Container{c}
		}
		x.text = "(" + st.String() + ")"
	case r == '{':
		e.Advance()
		child := e.Spawn()
		var parts []string
		for !child.AtEnd() && !child.IsTerminated() {
			st := child.ParseStatement()
			if !st.IsEmpty() && st.Container() != nil {
				x.nested = append(x.nested, st.Container())
				parts = append(parts, st.String())
			}
		}
		if child.IsTerminated() {
			child.Advance()
		} else {
			child.AddError(NewError(child, TerminatorMissing, "'}' expected"))
		}
		e.Join(child)
		x.text, x.single = "{"+strings.Join(parts, "; ")+"}", true
	default:
		return nil
	}
	x.End(e)
	return x
}

func (g *testGrammar) Known(name string) bool {
	return g.known[name]
}

type testContext struct {
	vars map[string]value.Value
}

func newTestContext() *testContext {
	return &testContext{vars: map[string]value.Value{}}
}

func (c *testContext) Lookup(name string) (value.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

func (c *testContext) Assign(name string, v value.Value) error {
	c.vars[name] = v
	return nil
}

func (c *testContext) Function(name string) (*value.Function, bool) { return nil, false }
func (c *testContext) Precision() int                               { return value.DefaultPrecision }
func (c *testContext) Err() error                                   { return nil }
