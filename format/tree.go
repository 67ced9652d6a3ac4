package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/calq/parser"
)

// TreeEncoder writes every statement as an indented tree, one node per line.
type TreeEncoder struct {
	w             io.Writer
	showPositions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

// WithPositions makes the encoder print the line and column of each node.
func (e *TreeEncoder) WithPositions() *TreeEncoder {
	e.showPositions = true
	return e
}

func (e *TreeEncoder) Encode(engine *parser.Engine) error {
	text, err := e.MarshalText(engine)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(engine *parser.Engine) ([]byte, error) {
	var b strings.Builder
	for _, st := range engine.Statements() {
		b.WriteString("Statement")
		if st.IsMuted() {
			b.WriteString(" muted")
		}
		if e.showPositions {
			fmt.Fprintf(&b, " [%s]", st.Pos())
		}
		b.WriteByte('\n')
		if c := st.Container(); c != nil {
			e.writeNode(&b, c, 1)
		} else {
			b.WriteString("  ERROR\n")
		}
	}
	for _, err := range engine.Errors() {
		fmt.Fprintf(&b, "ERROR: %s\n", err)
	}
	return []byte(b.String()), nil
}

func (e *TreeEncoder) writeNode(b *strings.Builder, c *parser.Container, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	switch {
	case c.IsApplied():
		b.WriteString("Operator")
	case c.IsLeaf():
		b.WriteString(Kind(c.Expression()))
	default:
		b.WriteString("Empty\n")
		return
	}
	if tok := token(c); tok != "" {
		b.WriteString(" " + tok)
	}
	if e.showPositions {
		el := parser.Element(c.Expression())
		if c.IsApplied() {
			el = c.Operator()
		}
		fmt.Fprintf(b, " [%s]", el.Pos())
	}
	b.WriteByte('\n')
	for _, child := range children(c) {
		if child == nil {
			continue
		}
		e.writeNode(b, child, indent+1)
	}
}
