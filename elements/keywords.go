package elements

import (
	"errors"
	"strings"

	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/value"
)

// ErrBreak is returned by a break statement and stops the innermost loop.
var ErrBreak = errors.New("break")

// Group is a block of statements in braces, parsed by a child engine.
type Group struct {
	parser.Block
	Statements []*parser.Statement
}

func (g *Group) String() string {
	parts := make([]string, len(g.Statements))
	for i, st := range g.Statements {
		parts[i] = st.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (g *Group) IsSingleStatement() bool { return true }

func (g *Group) Containers() []*parser.Container {
	containers := make([]*parser.Container, 0, len(g.Statements))
	for _, st := range g.Statements {
		if c := st.Container(); c != nil {
			containers = append(containers, c)
		}
	}
	return containers
}

// Interpret runs the statements in order and returns the value of the last
// one that produced a value.
func (g *Group) Interpret(ctx value.Context) (value.Value, error) {
	var last value.Value
	for _, st := range g.Statements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := st.Interpret(ctx)
		if err != nil {
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

func scanGroup(e *parser.Engine) *Group {
	if e.Current() != '{' {
		return nil
	}
	g := &Group{}
	g.Begin(e)
	e.Advance()
	child := e.Spawn()
	for !child.AtEnd() && !child.IsTerminated() {
		st := child.ParseStatement()
		if !st.IsEmpty() {
			g.Statements = append(g.Statements, st)
		}
	}
	if child.IsTerminated() {
		child.Advance()
	} else {
		child.AddError(parser.NewErrorAt(child, parser.TerminatorMissing, g, "'}' expected"))
	}
	e.Join(child)
	g.End(e)
	return g
}

// If is if (cond) body, optionally followed by else body.
type If struct {
	parser.Block
	Condition *parser.Container
	Then      *parser.Statement
	Else      *parser.Statement
}

func (x *If) String() string {
	s := "if " + x.Condition.String() + " " + x.Then.String()
	if x.Else != nil {
		s += " else " + x.Else.String()
	}
	return s
}

func (x *If) IsSingleStatement() bool { return true }

func (x *If) Containers() []*parser.Container {
	containers := []*parser.Container{x.Condition, x.Then.Container()}
	if x.Else != nil {
		containers = append(containers, x.Else.Container())
	}
	return containers
}

func (x *If) Interpret(ctx value.Context) (value.Value, error) {
	ok, err := condition(ctx, x.Condition)
	if err != nil {
		return nil, err
	}
	if ok {
		return body(ctx, x.Then)
	}
	if x.Else != nil {
		return body(ctx, x.Else)
	}
	return nil, nil
}

// IsMuted reports whether the last body ends in ';'.
func (x *If) IsMuted() bool {
	if x.Else != nil {
		return x.Else.IsMuted()
	}
	return x.Then.IsMuted()
}

// body evaluates a keyword body. A ';' after the body separates it from
// what follows and does not hide its value.
func body(ctx value.Context, st *parser.Statement) (value.Value, error) {
	if c := st.Container(); c != nil {
		return c.Interpret(ctx)
	}
	return st.Interpret(ctx)
}

func condition(ctx value.Context, c *parser.Container) (bool, error) {
	v, err := c.Interpret(ctx)
	if err != nil {
		return false, err
	}
	return value.Truthy(v)
}

// While is while (cond) body.
type While struct {
	parser.Block
	Condition *parser.Container
	Body      *parser.Statement
}

func (w *While) String() string {
	return "while " + w.Condition.String() + " " + w.Body.String()
}

func (w *While) IsSingleStatement() bool { return true }

func (w *While) Containers() []*parser.Container {
	return []*parser.Container{w.Condition, w.Body.Container()}
}

func (w *While) Interpret(ctx value.Context) (value.Value, error) {
	var last value.Value
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := condition(ctx, w.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return last, nil
		}
		v, err := body(ctx, w.Body)
		if errors.Is(err, ErrBreak) {
			return last, nil
		}
		if err != nil {
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
}

func (w *While) IsMuted() bool { return w.Body.IsMuted() }

type Break struct {
	parser.Block
}

func (b *Break) String() string          { return "break" }
func (b *Break) IsSingleStatement() bool { return true }

func (b *Break) Interpret(ctx value.Context) (value.Value, error) {
	return nil, ErrBreak
}

// keyword reports whether word starts at the current position and is not
// the prefix of a longer identifier.
func keyword(e *parser.Engine, word string) bool {
	n := len([]rune(word))
	return e.HasPrefix(word) && !parser.IsIdentifierPart(e.Peek(n))
}

// parseCondition reads the parenthesised condition after a keyword.
func parseCondition(e *parser.Engine, kw string) *parser.Container {
	e.Skip()
	if e.Current() != '(' {
		e.AddError(parser.NewError(e, parser.ExpressionExpected, "'(' expected after %s", kw))
		return parser.Empty()
	}
	e.Advance()
	st, _ := e.ParseStatementUntil(')', nil, nil)
	if st.Container() == nil {
		return parser.Empty()
	}
	return st.Container()
}

// parseBody reads the statement after a keyword construct's head. The body
// ends early where stop reports true.
func parseBody(e *parser.Engine, stop func(*parser.Engine) bool) *parser.Statement {
	e.Skip()
	return e.ParseStatementBefore(stop)
}

func scanIf(e *parser.Engine) *If {
	x := &If{}
	x.Begin(e)
	e.AdvanceBy(2)
	x.Condition = parseCondition(e, "if")
	x.Then = parseBody(e, func(e *parser.Engine) bool { return keyword(e, "else") })

	saved := e.Pointer()
	e.Skip()
	if keyword(e, "else") {
		e.AdvanceBy(4)
		x.Else = parseBody(e, nil)
	} else {
		e.SetPointer(saved)
	}
	x.End(e)
	return x
}

func scanWhile(e *parser.Engine) *While {
	w := &While{}
	w.Begin(e)
	e.AdvanceBy(5)
	w.Condition = parseCondition(e, "while")

	saved := e.Markers()
	e.SetMarker(parser.Breakable)
	w.Body = parseBody(e, nil)
	e.RestoreMarkers(saved)

	w.End(e)
	return w
}

func scanBreak(e *parser.Engine) *Break {
	b := &Break{}
	b.Begin(e)
	if !e.HasMarker(parser.Breakable) {
		e.AddError(parser.NewError(e, parser.KeywordMisplaced, "break outside of a loop"))
	}
	e.AdvanceBy(5)
	b.End(e)
	return b
}

// Misplaced stands for a keyword found where it is not allowed. It is only
// produced together with a KeywordMisplaced error.
type Misplaced struct {
	parser.Block
	Word string
}

func (m *Misplaced) String() string          { return m.Word }
func (m *Misplaced) IsSingleStatement() bool { return false }

func (m *Misplaced) Interpret(ctx value.Context) (value.Value, error) {
	return nil, value.Errorf("%s: %s is not allowed here", m.Pos(), m.Word)
}

func scanMisplaced(e *parser.Engine, word, message string) *Misplaced {
	log.Debugf("%s:%d:%d: %s", e.Name(), e.Line(), e.Column(), message)
	m := &Misplaced{Word: word}
	m.Begin(e)
	e.AddError(parser.NewError(e, parser.KeywordMisplaced, "%s", message))
	e.AdvanceBy(len([]rune(word)))
	m.End(e)
	return m
}
