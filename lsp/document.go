package lsp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dhamidi/calq/format"
	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/runtime"
	"github.com/dhamidi/calq/value"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// evalTimeout bounds the evaluation done to answer hover requests.
const evalTimeout = 200 * time.Millisecond

// Document is an open calq source file.
type Document struct {
	URI    string
	Text   string
	Engine *parser.Engine
}

// NewDocument parses text.
func NewDocument(uri, text string) *Document {
	ctx := runtime.NewContext(nil)
	name, err := uriToPath(uri)
	if err != nil {
		name = uri
	}
	return &Document{
		URI:    uri,
		Text:   text,
		Engine: parser.New(text, ctx.Catalog(), parser.WithName(name)).Parse(),
	}
}

// Diagnostics converts the parse errors of e into LSP diagnostics.
func Diagnostics(e *parser.Engine) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	diags := []protocol.Diagnostic{}
	for _, err := range e.Errors() {
		start := protocol.Position{Line: uinteger(err.Line - 1), Character: uinteger(err.Column - 1)}
		end := protocol.Position{Line: start.Line, Character: start.Character + 1}
		if err.Node != nil {
			if n := err.Node.Pos().Length; n > 1 {
				end.Character = start.Character + uinteger(n)
			}
		}
		code := protocol.IntegerOrString{Value: err.Kind.String()}
		diags = append(diags, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  err.Text(),
		})
	}
	return diags
}

func uinteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}

// NodeAt returns the innermost leaf at the 1-based line and column, and the
// statement containing it.
func (d *Document) NodeAt(line, column int) (*parser.Container, *parser.Statement) {
	for _, st := range d.Engine.Statements() {
		var found *parser.Container
		st.Container().Walk(func(c *parser.Container) bool {
			if c.IsLeaf() && c.Expression().Pos().Covers(line, column) {
				found = c
			}
			return true
		})
		if found != nil {
			return found, st
		}
	}
	return nil, nil
}

// Hover describes the element at the 1-based line and column in markdown.
// Symbols are shown with their value after evaluating the document.
func (d *Document) Hover(line, column int) string {
	node, st := d.NodeAt(line, column)
	if node == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** `%s`\n\n", format.Kind(node.Expression()), node.Expression())
	fmt.Fprintf(&b, "```\n%s\n```\n", st)

	ref, ok := node.Expression().(parser.Referencer)
	if !ok || !d.Engine.CanRun() {
		return b.String()
	}
	c := runtime.NewContext(nil)
	// stdout carries the protocol stream.
	c.SetOutput(io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()
	// Evaluation errors only limit what can be shown.
	_, _ = runtime.NewQuery(d.Text, c).Run(ctx)
	for _, name := range ref.References() {
		if v, ok := c.Lookup(name); ok {
			fmt.Fprintf(&b, "\n%s = %s\n", name, value.Format(v, c.Precision()))
		} else if fn, ok := c.Function(name); ok {
			fmt.Fprintf(&b, "\n%s: %s\n", name, fn.Help)
		}
	}
	return b.String()
}

// Completions lists keywords, builtins, constants and the variables the
// document assigns.
func (d *Document) Completions() []protocol.CompletionItem {
	c := runtime.NewContext(nil)
	var items []protocol.CompletionItem
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		item := protocol.CompletionItem{Label: label, Kind: &kind}
		if detail != "" {
			item.Detail = &detail
		}
		items = append(items, item)
	}
	for _, kw := range c.Catalog().Keywords() {
		add(kw, protocol.CompletionItemKindKeyword, "")
	}
	for _, fn := range c.Builtins() {
		add(fn.Name, protocol.CompletionItemKindFunction, fn.Help)
	}
	for _, name := range c.Known() {
		if !c.IsBuiltin(name) {
			add(name, protocol.CompletionItemKindConstant, "")
		}
	}
	seen := map[string]bool{}
	for _, name := range d.Engine.CollectedSymbols() {
		if !seen[name] {
			seen[name] = true
			add(name, protocol.CompletionItemKindVariable, "")
		}
	}
	return items
}
