package elements

import (
	"strconv"
	"strings"

	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/value"
)

type Number struct {
	parser.Block
	Text  string
	Value value.Scalar
}

func (n *Number) String() string          { return n.Text }
func (n *Number) IsSingleStatement() bool { return false }

func (n *Number) Interpret(ctx value.Context) (value.Value, error) {
	return n.Value, nil
}

// scanNumber matches 12, 1.5, .5 and 2e-3. A '.' must be followed by a
// digit so that 2.*x reads as 2 .* x.
func scanNumber(e *parser.Engine) *Number {
	start := e.Pointer()
	n := 0
	for parser.IsDigit(e.Peek(n)) {
		n++
	}
	if e.Peek(n) == '.' && parser.IsDigit(e.Peek(n+1)) {
		n++
		for parser.IsDigit(e.Peek(n)) {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	if r := e.Peek(n); r == 'e' || r == 'E' {
		m := n + 1
		if s := e.Peek(m); s == '+' || s == '-' {
			m++
		}
		if parser.IsDigit(e.Peek(m)) {
			for parser.IsDigit(e.Peek(m)) {
				m++
			}
			n = m
		}
	}
	num := &Number{}
	num.Begin(e)
	num.Text = e.Slice(start, start+n)
	f, _ := strconv.ParseFloat(num.Text, 64)
	num.Value = value.Scalar(f)
	e.AdvanceBy(n)
	num.End(e)
	return num
}

type StringLiteral struct {
	parser.Block
	Value value.String
}

func (s *StringLiteral) String() string          { return s.Value.Quote() }
func (s *StringLiteral) IsSingleStatement() bool { return false }

func (s *StringLiteral) Interpret(ctx value.Context) (value.Value, error) {
	return s.Value, nil
}

var escapes = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
}

func scanString(e *parser.Engine) *StringLiteral {
	if e.Current() != '"' {
		return nil
	}
	s := &StringLiteral{}
	s.Begin(e)
	e.Advance()
	var b strings.Builder
	for {
		if e.AtEnd() || parser.IsNewline(e.Current()) {
			e.AddError(parser.NewErrorAt(e, parser.TerminatorMissing, s, "unterminated string"))
			break
		}
		r := e.Current()
		e.Advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if esc, ok := escapes[e.Current()]; ok {
				r = esc
				e.Advance()
			}
		}
		b.WriteRune(r)
	}
	s.Value = value.String(b.String())
	s.End(e)
	return s
}

// Symbol is a reference to a variable or constant, or a call of a
// function that takes no arguments.
type Symbol struct {
	parser.Block
	Name string
}

func (s *Symbol) String() string          { return s.Name }
func (s *Symbol) IsSingleStatement() bool { return false }
func (s *Symbol) References() []string    { return []string{s.Name} }

func (s *Symbol) Interpret(ctx value.Context) (value.Value, error) {
	if v, ok := ctx.Lookup(s.Name); ok {
		return v, nil
	}
	if fn, ok := ctx.Function(s.Name); ok {
		return fn.Invoke(ctx, nil)
	}
	return nil, value.Errorf("%s: undefined: %s", s.Pos(), s.Name)
}

func scanIdentifier(e *parser.Engine) string {
	if !parser.IsIdentifierStart(e.Current()) {
		return ""
	}
	n := 1
	for parser.IsIdentifierPart(e.Peek(n)) {
		n++
	}
	return e.Slice(e.Pointer(), e.Pointer()+n)
}
