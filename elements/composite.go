package elements

import (
	"strings"

	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/value"
)

// Bracket is a parenthesised sub-statement.
type Bracket struct {
	parser.Block
	Inner *parser.Container
}

func (b *Bracket) String() string                  { return b.Inner.String() }
func (b *Bracket) IsSingleStatement() bool         { return false }
func (b *Bracket) Containers() []*parser.Container { return []*parser.Container{b.Inner} }

func (b *Bracket) Interpret(ctx value.Context) (value.Value, error) {
	if b.Inner.IsEmpty() {
		return nil, value.Errorf("%s: empty parentheses", b.Pos())
	}
	return b.Inner.Interpret(ctx)
}

func scanBracket(e *parser.Engine) *Bracket {
	if e.Current() != '(' {
		return nil
	}
	b := &Bracket{}
	b.Begin(e)
	e.Advance()
	st, _ := e.ParseStatementUntil(')', nil, nil)
	b.Inner = st.Container()
	b.End(e)
	return b
}

// parseList reads statements separated by ',' up to and including
// closing. When rows is set, ';' starts a new row. The opening bracket is
// already consumed.
func parseList(e *parser.Engine, closing rune, rows bool) [][]*parser.Container {
	list := [][]*parser.Container{nil}
	var prev rune
	for {
		var sep rune
		st, _ := e.ParseStatementUntil(closing, nil, func(r rune, _ *parser.Statement) bool {
			if r == ',' || (rows && r == ';') {
				sep = r
				e.Advance()
				return true
			}
			return false
		})
		last := len(list) - 1
		if !st.IsEmpty() || sep != 0 || prev == ',' {
			list[last] = append(list[last], st.Container())
		}
		switch sep {
		case 0:
			if len(list[last]) == 0 {
				list = list[:last]
			}
			return list
		case ';':
			list = append(list, nil)
		}
		prev = sep
	}
}

// Call is name(args...). It calls a builtin function, or indexes the
// matrix bound to name with one linear or two row and column indices.
type Call struct {
	parser.Block
	Name string
	Args []*parser.Container
}

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = arg.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Call) IsSingleStatement() bool         { return false }
func (c *Call) References() []string            { return []string{c.Name} }
func (c *Call) Containers() []*parser.Container { return c.Args }

func (c *Call) Interpret(ctx value.Context) (value.Value, error) {
	args := make([]value.Value, len(c.Args))
	for i, arg := range c.Args {
		if arg == nil || arg.IsEmpty() {
			return nil, value.Errorf("%s: %s: argument %d is empty", c.Pos(), c.Name, i+1)
		}
		v, err := arg.Interpret(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if v, ok := ctx.Lookup(c.Name); ok {
		return index(c.Name, v, args)
	}
	if fn, ok := ctx.Function(c.Name); ok {
		return fn.Invoke(ctx, args)
	}
	return nil, value.Errorf("%s: undefined function: %s", c.Pos(), c.Name)
}

func index(name string, v value.Value, args []value.Value) (value.Value, error) {
	m, err := value.AsMatrix(v)
	if err != nil {
		return nil, value.Errorf("%s: cannot index %s", name, value.TypeName(v))
	}
	positions := make([]int, len(args))
	for i, arg := range args {
		s, ok := arg.(value.Scalar)
		if !ok || !s.IsInteger() {
			return nil, value.Errorf("%s: index must be an integer, got %s", name, arg)
		}
		positions[i] = int(s)
	}
	switch len(positions) {
	case 1:
		return m.Linear(positions[0])
	case 2:
		return m.Index(positions[0], positions[1])
	}
	return nil, value.Errorf("%s: expected 1 or 2 indices, got %d", name, len(positions))
}

// MatrixLiteral is [a, b; c, d]: commas separate columns, semicolons rows.
type MatrixLiteral struct {
	parser.Block
	Rows [][]*parser.Container
}

func (m *MatrixLiteral) String() string {
	rows := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell.String()
		}
		rows[i] = strings.Join(cells, ", ")
	}
	return "[" + strings.Join(rows, "; ") + "]"
}

func (m *MatrixLiteral) IsSingleStatement() bool { return false }

func (m *MatrixLiteral) Containers() []*parser.Container {
	var all []*parser.Container
	for _, row := range m.Rows {
		all = append(all, row...)
	}
	return all
}

func (m *MatrixLiteral) Interpret(ctx value.Context) (value.Value, error) {
	parts := make([]*value.Matrix, 0, len(m.Rows))
	for i, row := range m.Rows {
		cells := make([]value.Value, len(row))
		for j, cell := range row {
			if cell == nil || cell.IsEmpty() {
				return nil, value.Errorf("%s: empty element in row %d", m.Pos(), i+1)
			}
			v, err := cell.Interpret(ctx)
			if err != nil {
				return nil, err
			}
			cells[j] = v
		}
		part, err := value.HorzCat(cells)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	res, err := value.VertCat(parts)
	if err != nil {
		return nil, err
	}
	return value.Shrink(res), nil
}

func scanMatrix(e *parser.Engine) *MatrixLiteral {
	if e.Current() != '[' {
		return nil
	}
	m := &MatrixLiteral{}
	m.Begin(e)
	e.Advance()
	m.Rows = parseList(e, ']', true)
	m.End(e)
	return m
}

func scanCall(e *parser.Engine, name string) *Call {
	if e.Peek(len([]rune(name))) != '(' {
		return nil
	}
	c := &Call{Name: name}
	c.Begin(e)
	e.AdvanceBy(len([]rune(name)) + 1)
	if list := parseList(e, ')', false); len(list) > 0 {
		c.Args = list[0]
	}
	c.End(e)
	return c
}
