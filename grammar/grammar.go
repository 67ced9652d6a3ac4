// Package grammar holds the lexical grammar of calq in EBNF and a lexer
// driven by it. The grammar documents the token set the parser recognizes
// and drives syntax highlighting in the tokens command.
package grammar

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Start is the production every other production is reachable from.
const Start = "Tokens"

// tokenProduction lists the token kinds as alternatives.
const tokenProduction = "Token"

//go:embed calq.ebnf
var source string

const filename = "calq.ebnf"

func Source() string {
	return source
}

// Load parses and verifies the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return Parse(filename, source, Start)
}

// Parse parses an EBNF grammar. If start is not empty the grammar is also
// verified from that production.
func Parse(name, text, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(name, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if start != "" {
		if err := ebnf.Verify(g, start); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Kinds returns the token kinds in the order they are listed in the Token
// production. Earlier kinds win ties between matches of equal length.
func Kinds(g ebnf.Grammar) ([]string, error) {
	prod, ok := g[tokenProduction]
	if !ok || prod.Expr == nil {
		return nil, fmt.Errorf("grammar has no %s production", tokenProduction)
	}
	var kinds []string
	switch x := prod.Expr.(type) {
	case ebnf.Alternative:
		for _, alt := range x {
			name, ok := alt.(*ebnf.Name)
			if !ok {
				return nil, fmt.Errorf("%s: alternatives must be production names", prod.Pos())
			}
			kinds = append(kinds, name.String)
		}
	case *ebnf.Name:
		kinds = append(kinds, x.String)
	default:
		return nil, fmt.Errorf("%s: alternatives must be production names", prod.Pos())
	}
	return kinds, nil
}

// Literals returns the literal tokens a production is made of, such as the
// symbols of Operator.
func Literals(g ebnf.Grammar, name string) []string {
	prod, ok := g[name]
	if !ok {
		return nil
	}
	var out []string
	var collect func(expr ebnf.Expression)
	collect = func(expr ebnf.Expression) {
		switch x := expr.(type) {
		case *ebnf.Token:
			out = append(out, x.String)
		case ebnf.Alternative:
			for _, e := range x {
				collect(e)
			}
		case ebnf.Sequence:
			for _, e := range x {
				collect(e)
			}
		case *ebnf.Group:
			collect(x.Body)
		case *ebnf.Option:
			collect(x.Body)
		case *ebnf.Repetition:
			collect(x.Body)
		}
	}
	collect(prod.Expr)
	return out
}
