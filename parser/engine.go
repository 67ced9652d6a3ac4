// Package parser builds expression trees directly from source text.
//
// An Engine scans the text, skipping whitespace and comments and splitting
// it into statements. It does not tokenize: at each position it asks a
// Recognizer for the operator or expression found there and feeds the
// result into a Statement, which reduces the stream by operator level.
//
// Malformed input never stops the engine. Diagnostics accumulate as
// ParseError values and CanRun reports whether the statements are safe to
// evaluate.
package parser

import (
	"github.com/tliron/commonlog"
)

type Option func(*Engine)

// WithName sets the file name reported in diagnostics.
func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

type position struct {
	pointer int
	line    int
	column  int
}

type Engine struct {
	name       string
	log        commonlog.Logger
	recognizer Recognizer

	buffer  []rune
	pointer int
	line    int
	column  int
	// origin is where scanning starts; SetPointer replays from it.
	origin position

	statements []*Statement
	errors     []*ParseError
	markers    Marker
	// closers holds the terminators of the enclosing ParseStatementUntil
	// calls, innermost last.
	closers []rune

	parsing    bool
	parsed     bool
	terminated bool
	halted     bool
	parent     *Engine
}

func New(text string, recognizer Recognizer, opts ...Option) *Engine {
	e := &Engine{
		log:        commonlog.GetLogger("calq.parser"),
		recognizer: recognizer,
		buffer:     []rune(text),
		origin:     position{line: 1, column: 1},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.pointer, e.line, e.column = e.origin.pointer, e.origin.line, e.origin.column
	e.statements = nil
	e.errors = nil
	e.closers = nil
	e.parsed = false
	e.terminated = false
	e.halted = false
}

// Parse splits the whole buffer into statements. Calling it again discards
// the previous result and parses from the start.
func (e *Engine) Parse() *Engine {
	e.reset()
	e.parsing = true
	for !e.AtEnd() && !e.halted {
		st := e.ParseStatement()
		if !st.IsEmpty() {
			e.statements = append(e.statements, st)
		}
		if e.terminated {
			break
		}
	}
	e.parsing = false
	e.parsed = true
	e.log.Debugf("%s: parsed %d statements, %d errors", e.displayName(), len(e.statements), len(e.errors))
	return e
}

func (e *Engine) displayName() string {
	if e.name == "" {
		return "<input>"
	}
	return e.name
}

// ParseStatement parses up to the next ';' or ',', up to a closing '}' that
// ends the enclosing block, or up to the end of a single-statement
// expression. A statement ending in ';' is muted. Inside a bracketed
// construct the statement instead ends before the innermost terminator,
// ',' or ';', leaving them to the construct.
func (e *Engine) ParseStatement() *Statement {
	return e.ParseStatementBefore(nil)
}

// ParseStatementBefore works like ParseStatement but also ends the
// statement, without consuming anything, at the first significant position
// where stop reports true.
func (e *Engine) ParseStatementBefore(stop func(*Engine) bool) *Statement {
	st := NewStatement(e)
	for !e.AtEnd() && !e.halted {
		r := e.Current()
		switch {
		case IsWhitespace(r), IsNewline(r):
			e.Advance()
		case e.closes(r):
			return st.Finalize()
		case r == ';':
			st.muted = true
			e.Advance()
			return st.Finalize()
		case r == ',':
			e.Advance()
			return st.Finalize()
		case r == '}':
			if e.parent == nil {
				e.AddError(NewError(e, BlockUnbalanced, ""))
				e.Advance()
				continue
			}
			e.terminated = true
			return st.Finalize()
		case e.skipComment():
		case stop != nil && stop(e):
			return st.Finalize()
		default:
			e.parseBlock(st)
			if st.IsFinished() {
				return st.Finalize()
			}
		}
	}
	return st.Finalize()
}

// closes reports whether r ends a statement nested in a bracketed
// construct.
func (e *Engine) closes(r rune) bool {
	if len(e.closers) == 0 {
		return false
	}
	return r == e.closers[len(e.closers)-1] || r == ',' || r == ';' || r == '}'
}

// ParseStatementUntil parses the contents of a bracketed construct up to
// and including terminator. The handle function is offered every
// significant rune first; returning true ends the statement there, leaving
// the handler responsible for consuming the rune. When the buffer ends
// before the terminator, the error built by missing is recorded; a nil
// missing reports TerminatorMissing. The second result reports whether
// the terminator was consumed.
func (e *Engine) ParseStatementUntil(terminator rune, missing func(*Engine) *ParseError, handle func(r rune, st *Statement) bool) (*Statement, bool) {
	e.closers = append(e.closers, terminator)
	defer func() { e.closers = e.closers[:len(e.closers)-1] }()

	st := NewStatement(e)
	for !e.halted {
		if e.AtEnd() || e.Current() == '}' && terminator != '}' {
			if missing == nil {
				e.AddError(NewError(e, TerminatorMissing, "%q expected", terminator))
			} else {
				e.AddError(missing(e))
			}
			break
		}
		r := e.Current()
		switch {
		case IsWhitespace(r), IsNewline(r):
			e.Advance()
		case r == terminator:
			e.Advance()
			return st.Finalize(), true
		case e.skipComment():
		case handle != nil && handle(r, st):
			return st.Finalize(), false
		default:
			e.parseBlock(st)
		}
	}
	return st.Finalize(), false
}

// parseBlock asks the recognizer for the element at the current position
// and pushes it into st.
func (e *Engine) parseBlock(st *Statement) {
	if st.TakesOperator() {
		if op := e.recognizer.FindOperator(e); op != nil {
			st.PushOperator(op)
			return
		}
		void := Void(e)
		if expr := e.recognizer.FindExpression(e); expr != nil {
			e.AddError(NewErrorAt(e, OperatorMissing, expr, ""))
			st.PushOperator(void)
			st.PushExpression(expr)
			return
		}
		e.AddError(NewError(e, OperatorMissing, "unexpected %q", e.Current()))
		return
	}
	if op := e.recognizer.FindLeftUnaryOperator(e); op != nil {
		st.PushOperator(op)
		return
	}
	if expr := e.recognizer.FindExpression(e); expr != nil {
		st.PushExpression(expr)
		return
	}
	e.AddError(NewError(e, ExpressionExpected, "unexpected %q", e.Current()))
}

// skipComment consumes a comment starting at the current position.
func (e *Engine) skipComment() bool {
	switch {
	case IsLineComment(e.Current(), e.Peek(1)):
		for !e.AtEnd() && !IsNewline(e.Current()) {
			e.Advance()
		}
		return true
	case IsBlockCommentStart(e.Current(), e.Peek(1)):
		e.AdvanceBy(2)
		if !e.AdvanceTo("*/") {
			e.AddError(NewError(e, TerminatorMissing, "unterminated comment"))
		}
		return true
	}
	return false
}

// Skip moves past whitespace, newlines and comments.
func (e *Engine) Skip() {
	for !e.AtEnd() {
		r := e.Current()
		if IsWhitespace(r) || IsNewline(r) {
			e.Advance()
			continue
		}
		if !e.skipComment() {
			return
		}
	}
}

// AddError records err unless the previous error is at the same position.
// In that case the engine is stuck, so it moves one rune forward instead,
// or stops parsing at the end of the buffer.
func (e *Engine) AddError(err *ParseError) {
	if n := len(e.errors); n > 0 {
		last := e.errors[n-1]
		if last.Line == err.Line && last.Column == err.Column {
			if e.AtEnd() {
				e.halted = true
			} else {
				e.Advance()
			}
			return
		}
	}
	e.log.Debugf("%s: %s", e.displayName(), err)
	e.errors = append(e.errors, err)
}

// Advance moves one rune forward. A CR LF pair counts as one line break.
func (e *Engine) Advance() {
	if e.AtEnd() {
		return
	}
	r := e.buffer[e.pointer]
	e.pointer++
	switch {
	case r == '\r' && e.Current() == '\n':
	case IsNewline(r):
		e.line++
		e.column = 1
	default:
		e.column++
	}
}

func (e *Engine) AdvanceBy(n int) {
	for i := 0; i < n && !e.AtEnd(); i++ {
		e.Advance()
	}
}

// AdvanceTo moves past the next occurrence of target. If target does not
// occur, the engine moves to the end of the buffer and reports false.
func (e *Engine) AdvanceTo(target string) bool {
	for !e.AtEnd() {
		if e.HasPrefix(target) {
			e.AdvanceBy(len([]rune(target)))
			return true
		}
		e.Advance()
	}
	return false
}

// SetPointer moves to the rune offset p, forwards or backwards, keeping
// line and column accurate.
func (e *Engine) SetPointer(p int) {
	p = max(min(p, len(e.buffer)), e.origin.pointer)
	if p < e.pointer {
		e.pointer, e.line, e.column = e.origin.pointer, e.origin.line, e.origin.column
	}
	for e.pointer < p {
		e.Advance()
	}
}

// Locate returns the line and column of the rune offset p, counted the same
// way Advance counts them.
func (e *Engine) Locate(p int) (line, column int) {
	line, column = 1, 1
	p = min(p, len(e.buffer))
	for i := 0; i < p; i++ {
		r := e.buffer[i]
		switch {
		case r == '\r' && i+1 < len(e.buffer) && e.buffer[i+1] == '\n':
		case IsNewline(r):
			line++
			column = 1
		default:
			column++
		}
	}
	return line, column
}

// Spawn returns an engine over the same buffer, starting at the current
// position, for parsing a nested block. It inherits the markers.
func (e *Engine) Spawn() *Engine {
	child := &Engine{
		name:       e.name,
		log:        e.log,
		recognizer: e.recognizer,
		buffer:     e.buffer,
		origin:     position{pointer: e.pointer, line: e.line, column: e.column},
		markers:    e.markers,
		parent:     e,
	}
	child.reset()
	return child
}

// Join moves e to where child stopped and takes over its errors.
func (e *Engine) Join(child *Engine) {
	e.pointer, e.line, e.column = child.pointer, child.line, child.column
	e.errors = append(e.errors, child.errors...)
	if child.halted {
		e.halted = true
	}
}

// Current returns the rune at the pointer, or 0 at the end of the buffer.
func (e *Engine) Current() rune {
	return e.Peek(0)
}

// Peek returns the rune n positions after the pointer, or 0 past the end.
func (e *Engine) Peek(n int) rune {
	if i := e.pointer + n; i >= 0 && i < len(e.buffer) {
		return e.buffer[i]
	}
	return 0
}

func (e *Engine) HasPrefix(s string) bool {
	i := e.pointer
	for _, r := range s {
		if i >= len(e.buffer) || e.buffer[i] != r {
			return false
		}
		i++
	}
	return true
}

// Slice returns the text between the rune offsets from and to.
func (e *Engine) Slice(from, to int) string {
	from = max(from, 0)
	to = min(to, len(e.buffer))
	if from >= to {
		return ""
	}
	return string(e.buffer[from:to])
}

func (e *Engine) AtEnd() bool     { return e.pointer >= len(e.buffer) }
func (e *Engine) Pointer() int    { return e.pointer }
func (e *Engine) Line() int       { return e.line }
func (e *Engine) Column() int     { return e.column }
func (e *Engine) Name() string    { return e.name }
func (e *Engine) Len() int        { return len(e.buffer) }
func (e *Engine) IsParsing() bool { return e.parsing }
func (e *Engine) IsParsed() bool  { return e.parsed }
func (e *Engine) IsTerminated() bool {
	return e.terminated
}

func (e *Engine) Parent() *Engine {
	return e.parent
}

func (e *Engine) Recognizer() Recognizer {
	return e.recognizer
}

func (e *Engine) Logger() commonlog.Logger {
	return e.log
}

func (e *Engine) Statements() []*Statement {
	return e.statements
}

func (e *Engine) Errors() ErrorList {
	return e.errors
}

func (e *Engine) HasErrors() bool {
	return len(e.errors) > 0
}

// CanRun reports whether the buffer was parsed without errors.
func (e *Engine) CanRun() bool {
	return e.parsed && !e.HasErrors()
}

// CollectedSymbols returns the identifiers referenced by the statements that
// the recognizer does not know as functions or constants, in order of first
// appearance.
func (e *Engine) CollectedSymbols() []string {
	resolver, _ := e.recognizer.(Resolver)
	seen := map[string]bool{}
	var symbols []string
	for _, st := range e.statements {
		st.Container().Walk(func(c *Container) bool {
			ref, ok := c.Expression().(Referencer)
			if !ok {
				return true
			}
			for _, name := range ref.References() {
				if seen[name] || (resolver != nil && resolver.Known(name)) {
					continue
				}
				seen[name] = true
				symbols = append(symbols, name)
			}
			return true
		})
	}
	return symbols
}
