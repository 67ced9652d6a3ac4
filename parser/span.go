package parser

import "fmt"

// Span is the extent of a grammar element in the engine's buffer.
// Offset counts runes from the start of the buffer; Line and Column are 1-based.
type Span struct {
	Offset int
	Line   int
	Column int
	Length int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Covers reports whether the 1-based line and column fall inside s,
// assuming s does not span lines.
func (s Span) Covers(line, column int) bool {
	if line != s.Line {
		return false
	}
	return column >= s.Column && column <= s.Column+max(s.Length, 1)-1
}

// Block is embedded by grammar elements. It records where the element begins
// in the source; the start is assigned once and never moves afterwards.
type Block struct {
	span  Span
	begun bool
}

// Begin records the engine's current position as the start of the element.
func (b *Block) Begin(e *Engine) {
	if b.begun {
		return
	}
	b.span = Span{Offset: e.pointer, Line: e.line, Column: e.column}
	b.begun = true
}

// End records the element's length, measured up to the engine's current position.
func (b *Block) End(e *Engine) {
	b.span.Length = e.pointer - b.span.Offset
}

func (b Block) Pos() Span {
	return b.span
}
