// Package elements is the grammar of calq: the operators, literals and
// keywords recognized at a position in the source text.
package elements

import (
	"sort"

	"github.com/dhamidi/calq/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("calq.elements")

var keywords = []string{"break", "else", "if", "while"}

// Catalog recognizes the calq grammar. The zero value is not usable; use
// NewCatalog.
type Catalog struct {
	binary  []operatorDef
	prefix  []operatorDef
	postfix []operatorDef
	known   map[string]bool
}

func NewCatalog(known ...string) *Catalog {
	c := &Catalog{
		binary:  longestFirst(binaryOperators()),
		prefix:  longestFirst(prefixOperators()),
		postfix: longestFirst(postfixOperators()),
		known:   map[string]bool{},
	}
	c.AddKnown(known...)
	return c
}

func longestFirst(defs []operatorDef) []operatorDef {
	sort.SliceStable(defs, func(i, j int) bool {
		return len(defs[i].symbol) > len(defs[j].symbol)
	})
	return defs
}

// AddKnown marks names as bound to functions or constants, so that they
// are not reported as free symbols.
func (c *Catalog) AddKnown(names ...string) {
	for _, name := range names {
		c.known[name] = true
	}
}

func (c *Catalog) Known(name string) bool {
	return c.known[name]
}

func (c *Catalog) Keywords() []string {
	return append([]string(nil), keywords...)
}

// Operators returns every operator symbol, binary ones first.
func (c *Catalog) Operators() []string {
	var symbols []string
	seen := map[string]bool{}
	for _, group := range [][]operatorDef{c.binary, c.postfix, c.prefix} {
		for _, def := range group {
			if !seen[def.symbol] {
				seen[def.symbol] = true
				symbols = append(symbols, def.symbol)
			}
		}
	}
	sort.Strings(symbols)
	return symbols
}

// match returns the longest operator of the groups starting at the
// current position.
func match(e *parser.Engine, groups ...[]operatorDef) parser.Operator {
	var best *operatorDef
	for _, group := range groups {
		for i := range group {
			def := &group[i]
			if e.HasPrefix(def.symbol) && (best == nil || len(def.symbol) > len(best.symbol)) {
				best = def
			}
		}
	}
	if best == nil {
		return nil
	}
	op := best.build()
	begin(op, e)
	e.AdvanceBy(len([]rune(best.symbol)))
	end(op, e)
	return op
}

type spanned interface {
	Begin(e *parser.Engine)
	End(e *parser.Engine)
}

func begin(el any, e *parser.Engine) {
	if s, ok := el.(spanned); ok {
		s.Begin(e)
	}
}

func end(el any, e *parser.Engine) {
	if s, ok := el.(spanned); ok {
		s.End(e)
	}
}

func (c *Catalog) FindOperator(e *parser.Engine) parser.Operator {
	return match(e, c.postfix, c.binary)
}

func (c *Catalog) FindLeftUnaryOperator(e *parser.Engine) parser.Operator {
	return match(e, c.prefix)
}

func (c *Catalog) FindExpression(e *parser.Engine) parser.Expression {
	r := e.Current()
	switch {
	case parser.IsDigit(r) || (r == '.' && parser.IsDigit(e.Peek(1))):
		return scanNumber(e)
	case r == '"':
		return scanString(e)
	case r == '(':
		return scanBracket(e)
	case r == '[':
		return scanMatrix(e)
	case r == '{':
		return scanGroup(e)
	}

	name := scanIdentifier(e)
	if name == "" {
		return nil
	}
	switch name {
	case "if":
		return scanIf(e)
	case "while":
		return scanWhile(e)
	case "break":
		return scanBreak(e)
	case "else":
		return scanMisplaced(e, name, "else without if")
	}
	if call := scanCall(e, name); call != nil {
		return call
	}
	sym := &Symbol{Name: name}
	sym.Begin(e)
	e.AdvanceBy(len([]rune(name)))
	sym.End(e)
	return sym
}
