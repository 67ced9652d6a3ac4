// Package format renders parsed calq input: statement trees as indented
// text, one line per statement, or JSON, and diagnostics for terminals.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/calq/parser"
)

type Encoder interface {
	Encode(e *parser.Engine) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"tree", "line", "json"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "tree":
		return NewTreeEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q, expected one of %s", name, strings.Join(Formats, ", "))
}

// Kind names the type of a tree element, such as "Number" or "If".
func Kind(el parser.Element) string {
	name := fmt.Sprintf("%T", el)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

// nested returns the trees owned by a leaf's expression.
func nested(c *parser.Container) []*parser.Container {
	if composite, ok := c.Expression().(parser.Composite); ok {
		return composite.Containers()
	}
	return nil
}

// token is the text shown for a node: the operator symbol, the expression
// itself, or for expressions with nested trees the names they reference.
func token(c *parser.Container) string {
	switch {
	case c.IsApplied():
		return c.Operator().String()
	case c.IsLeaf():
		if _, ok := c.Expression().(parser.Composite); ok {
			if ref, ok := c.Expression().(parser.Referencer); ok {
				return strings.Join(ref.References(), " ")
			}
			return ""
		}
		return c.Expression().String()
	}
	return ""
}

func children(c *parser.Container) []*parser.Container {
	if c.IsApplied() {
		return c.Children()
	}
	return nested(c)
}
