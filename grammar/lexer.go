package grammar

import (
	"io"

	"github.com/dhamidi/calq/parser"
	"golang.org/x/exp/ebnf"
)

// Error is the kind of a token no production matches.
const Error = "Error"

type Token struct {
	Kind string
	Text string
	Span parser.Span
}

type memoKey struct {
	name   string
	offset int
}

// Lexer splits input into the tokens of a grammar. At each position every
// token kind is tried and the longest match wins.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    []rune
	pos      int
	line     int
	column   int
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func NewLexer(g ebnf.Grammar, input string) (*Lexer, error) {
	kinds, err := Kinds(g)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		grammar: g,
		kinds:   kinds,
		input:   []rune(input),
		line:    1,
		column:  1,
	}, nil
}

func (l *Lexer) span(length int) parser.Span {
	return parser.Span{Offset: l.pos, Line: l.line, Column: l.column, Length: length}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// Next returns the next token, or io.EOF at the end of input. A rune no
// kind matches becomes a one-rune Error token.
func (l *Lexer) Next() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{}, io.EOF
	}

	l.memo = make(map[memoKey]int)
	best, bestKind := 0, Error
	for _, kind := range l.kinds {
		l.visiting = make(map[memoKey]bool)
		if n := l.matchName(kind, l.pos); n > best {
			best, bestKind = n, kind
		}
	}
	if best == 0 {
		best = 1
	}

	tok := Token{Kind: bestKind, Text: string(l.input[l.pos : l.pos+best]), Span: l.span(best)}
	for i := 0; i < best; i++ {
		l.advance()
	}
	return tok, nil
}

// Tokenize returns every token of the input.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// match returns the number of runes expr matches at offset, 0 for none.
// Repetitions and alternatives are greedy and never backtrack.
func (l *Lexer) match(expr ebnf.Expression, offset int) int {
	switch x := expr.(type) {
	case *ebnf.Token:
		return l.matchLiteral(x.String, offset)

	case *ebnf.Range:
		return l.matchRange(x.Begin.String, x.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range x {
			n := l.match(item, offset+total)
			if n == 0 && !optional(item) {
				return 0
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := 0
		for _, alt := range x {
			if n := l.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.match(x.Body, offset+total)
			if n == 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		return l.match(x.Body, offset)

	case *ebnf.Group:
		return l.match(x.Body, offset)

	case *ebnf.Name:
		return l.matchName(x.String, offset)
	}
	return 0
}

// optional reports whether expr may match nothing.
func optional(expr ebnf.Expression) bool {
	switch expr.(type) {
	case *ebnf.Option, *ebnf.Repetition:
		return true
	}
	return false
}

func (l *Lexer) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := l.memo[key]; ok {
		return n
	}
	if l.visiting[key] {
		return 0
	}
	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = 0
		return 0
	}

	l.visiting[key] = true
	n := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = n
	return n
}

func (l *Lexer) matchLiteral(text string, offset int) int {
	runes := []rune(text)
	if offset+len(runes) > len(l.input) {
		return 0
	}
	for i, r := range runes {
		if l.input[offset+i] != r {
			return 0
		}
	}
	return len(runes)
}

func (l *Lexer) matchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return 0
	}
	lo, hi := []rune(begin), []rune(end)
	if len(lo) != 1 || len(hi) != 1 {
		return 0
	}
	if r := l.input[offset]; r >= lo[0] && r <= hi[0] {
		return 1
	}
	return 0
}
