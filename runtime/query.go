package runtime

import (
	"context"

	"github.com/dhamidi/calq/elements"
	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/value"
)

// Result is the outcome of one statement.
type Result struct {
	Statement *parser.Statement
	// Name is the variable assigned by the statement, or "ans".
	Name  string
	Value value.Value
	Muted bool
}

func (r Result) String() string {
	if r.Value == nil {
		return ""
	}
	return r.Name + " = " + r.Value.String()
}

// Query is one piece of input evaluated against a Context.
type Query struct {
	Input   string
	context *Context
	options []parser.Option
	engine  *parser.Engine
}

func NewQuery(input string, c *Context, opts ...parser.Option) *Query {
	return &Query{Input: input, context: c, options: opts}
}

// Catalog returns the grammar with the context's constants and functions
// marked as known.
func (c *Context) Catalog() *elements.Catalog {
	return elements.NewCatalog(c.Known()...)
}

// Parse parses the input. It is called by Run if needed.
func (q *Query) Parse() *parser.Engine {
	q.engine = parser.New(q.Input, q.context.Catalog(), q.options...).Parse()
	return q.engine
}

func (q *Query) Engine() *parser.Engine {
	if q.engine == nil {
		q.Parse()
	}
	return q.engine
}

// Missing returns the symbols the input uses that are not bound in the
// context and not assigned by the input itself.
func (q *Query) Missing() []string {
	assigned := map[string]bool{}
	for _, st := range q.Engine().Statements() {
		if !st.IsAssignment() {
			continue
		}
		if name, ok := elements.AssignedName(st.Container().Children()[0]); ok {
			assigned[name] = true
		}
	}
	var missing []string
	for _, name := range q.Engine().CollectedSymbols() {
		if _, ok := q.context.Lookup(name); !ok && !assigned[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Run evaluates the statements in order. It stops at the first error or
// when ctx is cancelled, returning the results so far. Parse errors are
// returned as a parser.ErrorList and nothing is evaluated.
func (q *Query) Run(ctx context.Context) ([]Result, error) {
	e := q.Engine()
	if !e.CanRun() {
		return nil, e.Errors()
	}
	c := q.context.with(ctx)
	var results []Result
	for _, st := range e.Statements() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if c.config.Debug("tree") {
			c.log.Infof("%s: %s", st.Pos(), st)
		}
		v, err := st.Interpret(c)
		if err != nil {
			return results, err
		}
		r := Result{Statement: st, Name: "ans", Value: v, Muted: st.IsMuted()}
		if st.IsAssignment() {
			r.Name, _ = elements.AssignedName(st.Container().Children()[0])
		} else if v != nil {
			if err := c.Assign("ans", v); err != nil {
				return results, err
			}
		}
		results = append(results, r)
	}
	return results, nil
}
