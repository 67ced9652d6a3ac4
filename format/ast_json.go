package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/calq/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(engine *parser.Engine) error {
	text, err := e.MarshalText(engine)
	if err != nil {
		return err
	}
	if _, err = e.w.Write(text); err != nil {
		return err
	}
	_, err = e.w.Write([]byte("\n"))
	return err
}

func (e *ASTJSONEncoder) MarshalText(engine *parser.Engine) ([]byte, error) {
	return json.MarshalIndent(documentToJSON(engine), "", "  ")
}

type astJSONDocument struct {
	File       string          `json:"file,omitempty"`
	Statements []*astJSONNode  `json:"statements"`
	Errors     []*astJSONError `json:"errors,omitempty"`
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Token    string         `json:"token,omitempty"`
	Muted    bool           `json:"muted,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONError struct {
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
	Start   astJSONPosition `json:"start"`
}

func documentToJSON(engine *parser.Engine) *astJSONDocument {
	doc := &astJSONDocument{File: engine.Name(), Statements: []*astJSONNode{}}
	for _, st := range engine.Statements() {
		jn := &astJSONNode{Kind: "Statement", Muted: st.IsMuted()}
		if c := st.Container(); c != nil {
			jn.Span = spanToJSON(engine, st.Pos(), c)
			jn.Children = []*astJSONNode{nodeToJSON(engine, c)}
		}
		doc.Statements = append(doc.Statements, jn)
	}
	for _, err := range engine.Errors() {
		doc.Errors = append(doc.Errors, &astJSONError{
			Kind:    err.Kind.String(),
			Message: err.Text(),
			Start:   astJSONPosition{Line: err.Line, Column: err.Column},
		})
	}
	return doc
}

// spanToJSON spans from start to the end of the rightmost element of c.
func spanToJSON(engine *parser.Engine, start parser.Span, c *parser.Container) *astJSONSpan {
	if start.Line == 0 {
		return nil
	}
	last := rightmost(c)
	line, column := engine.Locate(last.Offset + last.Length)
	return &astJSONSpan{
		Start: astJSONPosition{Line: start.Line, Column: start.Column},
		End:   astJSONPosition{Line: line, Column: column},
	}
}

func rightmost(c *parser.Container) parser.Span {
	switch {
	case c.IsLeaf():
		return c.Expression().Pos()
	case c.IsApplied():
		span := c.Operator().Pos()
		if last := c.Children()[len(c.Children())-1]; !last.IsEmpty() {
			if s := rightmost(last); s.Offset+s.Length > span.Offset+span.Length {
				return s
			}
		}
		return span
	}
	return parser.Span{}
}

func nodeToJSON(engine *parser.Engine, c *parser.Container) *astJSONNode {
	jn := &astJSONNode{Token: token(c)}
	switch {
	case c.IsApplied():
		jn.Kind = "Operator"
	case c.IsLeaf():
		jn.Kind = Kind(c.Expression())
	default:
		jn.Kind = "Empty"
		return jn
	}
	jn.Span = spanToJSON(engine, c.Pos(), c)
	for _, child := range children(c) {
		if child == nil {
			continue
		}
		jn.Children = append(jn.Children, nodeToJSON(engine, child))
	}
	return jn
}
