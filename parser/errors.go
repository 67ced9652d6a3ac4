package parser

import (
	"fmt"
	"strings"
)

type ErrorKind int

const (
	// OperatorMissing is reported when two expressions follow each other
	// without an operator between them.
	OperatorMissing ErrorKind = iota
	// ExpressionExpected is reported when nothing recognizable appears
	// where an operand is required.
	ExpressionExpected
	// ExpressionMissing is reported when an operator has fewer operands
	// than its arity requires.
	ExpressionMissing
	// TerminatorMissing is reported when a bracketed construct reaches the
	// end of the input without its closing character.
	TerminatorMissing
	// BlockUnbalanced is reported for a closing brace with no opening brace.
	BlockUnbalanced
	// KeywordMisplaced is reported for a keyword used where it is not allowed.
	KeywordMisplaced
)

var errorKindNames = map[ErrorKind]string{
	OperatorMissing:    "OperatorMissing",
	ExpressionExpected: "ExpressionExpected",
	ExpressionMissing:  "ExpressionMissing",
	TerminatorMissing:  "TerminatorMissing",
	BlockUnbalanced:    "BlockUnbalanced",
	KeywordMisplaced:   "KeywordMisplaced",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var defaultMessages = map[ErrorKind]string{
	OperatorMissing:    "operator missing",
	ExpressionExpected: "expression expected",
	ExpressionMissing:  "expression missing",
	TerminatorMissing:  "terminator missing",
	BlockUnbalanced:    "unbalanced closing brace",
	KeywordMisplaced:   "keyword not allowed here",
}

// ParseError is a diagnostic collected while parsing. Parse errors never
// stop the engine; they accumulate and gate evaluation through CanRun.
type ParseError struct {
	Kind    ErrorKind
	File    string
	Line    int
	Column  int
	Message string
	// Node is the element the error is about, when there is one.
	Node Element
}

// Text is the message without the position.
func (err *ParseError) Text() string {
	if err.Message == "" {
		return defaultMessages[err.Kind]
	}
	return err.Message
}

func (err *ParseError) Error() string {
	msg := err.Text()
	if err.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", err.File, err.Line, err.Column, msg)
	}
	return fmt.Sprintf("%d:%d: %s", err.Line, err.Column, msg)
}

// NewError returns an error of the given kind at the engine's current position.
func NewError(e *Engine, kind ErrorKind, format string, args ...any) *ParseError {
	err := &ParseError{Kind: kind}
	if e != nil {
		err.File, err.Line, err.Column = e.name, e.line, e.column
	}
	if format != "" {
		err.Message = fmt.Sprintf(format, args...)
	}
	return err
}

// NewErrorAt returns an error of the given kind positioned at node.
func NewErrorAt(e *Engine, kind ErrorKind, node Element, format string, args ...any) *ParseError {
	err := NewError(e, kind, format, args...)
	if node != nil {
		pos := node.Pos()
		err.Line, err.Column, err.Node = pos.Line, pos.Column, node
	}
	return err
}

// ErrorList lets callers treat a set of diagnostics as a single error.
type ErrorList []*ParseError

func (list ErrorList) Error() string {
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	}
	msgs := make([]string, len(list))
	for i, err := range list {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns nil for an empty list so it can be returned as an error.
func (list ErrorList) Err() error {
	if len(list) == 0 {
		return nil
	}
	return list
}
