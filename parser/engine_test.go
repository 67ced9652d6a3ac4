package parser

import (
	"testing"

	"github.com/dhamidi/calq/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReparseIsIdempotent(t *testing.T) {
	e := New("a+b*c; x = -y^2; a b", newTestGrammar())
	first := e.Parse().Statements()
	firstErrors := len(e.Errors())
	second := e.Parse().Statements()

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Container().Equal(second[i].Container()), "statement %d", i)
	}
	assert.Equal(t, firstErrors, len(e.Errors()))
}

func TestBoundedErrorRecovery(t *testing.T) {
	inputs := []string{"###", "a+#", "((((", "#\n#\n#", ")))"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			e := New(input, newTestGrammar()).Parse()
			assert.True(t, e.HasErrors())
			assert.False(t, e.CanRun())
			assert.LessOrEqual(t, len(e.Errors()), len([]rune(input))+1)

			seen := map[[2]int]bool{}
			for _, err := range e.Errors() {
				key := [2]int{err.Line, err.Column}
				assert.False(t, seen[key], "duplicate error at %d:%d", err.Line, err.Column)
				seen[key] = true
			}
		})
	}
}

func TestUnrecognizedInputErrorsPerColumn(t *testing.T) {
	e := New("###", newTestGrammar()).Parse()
	require.Len(t, e.Errors(), 3)
	for i, err := range e.Errors() {
		assert.Equal(t, ExpressionExpected, err.Kind)
		assert.Equal(t, i+1, err.Column)
	}
	assert.Empty(t, e.Statements())
}

func TestEmptyStatementsAreElided(t *testing.T) {
	inputs := []string{"", "  ;  // x\n ;", "/* a */;;", "\n\r\n\t"}
	for _, input := range inputs {
		e := New(input, newTestGrammar()).Parse()
		assert.Empty(t, e.Statements(), "input %q", input)
		assert.Empty(t, e.Errors(), "input %q", input)
		assert.True(t, e.CanRun())
	}
}

func TestCollectedSymbols(t *testing.T) {
	e := New("x + p; y*x; (z)", newTestGrammar()).Parse()
	require.True(t, e.CanRun())
	assert.ElementsMatch(t, []string{"x", "y", "z"}, e.CollectedSymbols())

	e = New("{x + y; p}", newTestGrammar()).Parse()
	require.True(t, e.CanRun())
	assert.ElementsMatch(t, []string{"x", "y"}, e.CollectedSymbols())
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input    string
		expected value.Value
	}{
		{"2+3*4", value.Scalar(14)},
		{"(2+3)*4", value.Scalar(20)},
		{"2^3^2", value.Scalar(512)},
		{"10-4-3", value.Scalar(3)},
		{"-2*3", value.Scalar(-6)},
		{"3!+1", value.Scalar(7)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := New(tt.input, newTestGrammar()).Parse()
			require.True(t, e.CanRun(), "errors: %v", e.Errors())
			got, err := e.Statements()[0].Interpret(newTestContext())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMutedStatementHasNoValue(t *testing.T) {
	ctx := newTestContext()
	e := New("a = 2; a*3", newTestGrammar()).Parse()
	require.True(t, e.CanRun())

	v, err := e.Statements()[0].Interpret(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = e.Statements()[1].Interpret(ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Scalar(6), v)
}

func TestOperatorMissing(t *testing.T) {
	e := New("a b", newTestGrammar()).Parse()
	require.Len(t, e.Errors(), 1)
	assert.Equal(t, OperatorMissing, e.Errors()[0].Kind)
	assert.Equal(t, 3, e.Errors()[0].Column)
	require.Len(t, e.Statements(), 1)
	assert.Equal(t, "(void a b)", e.Statements()[0].Container().String())

	_, err := e.Statements()[0].Interpret(newTestContext())
	assert.Error(t, err)
}

func TestExpressionMissing(t *testing.T) {
	e := New("a+;b", newTestGrammar()).Parse()
	require.Len(t, e.Errors(), 1)
	assert.Equal(t, ExpressionMissing, e.Errors()[0].Kind)
	require.Len(t, e.Statements(), 2)
	assert.Nil(t, e.Statements()[0].Container())
	assert.Equal(t, "b", e.Statements()[1].Container().String())
}

func TestTerminatorMissing(t *testing.T) {
	e := New("(a+b", newTestGrammar(), WithName("t.calq")).Parse()
	require.NotEmpty(t, e.Errors())
	err := e.Errors()[0]
	assert.Equal(t, TerminatorMissing, err.Kind)
	assert.Equal(t, `t.calq:1:5: ')' expected`, err.Error())
}

func TestStrayClosingBrace(t *testing.T) {
	e := New("a}b", newTestGrammar()).Parse()
	require.NotEmpty(t, e.Errors())
	assert.Equal(t, BlockUnbalanced, e.Errors()[0].Kind)
	assert.Equal(t, 2, e.Errors()[0].Column)
}

func TestBlocks(t *testing.T) {
	e := New("{a = 1; b = 2}\nc", newTestGrammar()).Parse()
	require.Empty(t, e.Errors())
	require.Len(t, e.Statements(), 2)
	assert.Equal(t, "{(= a 1); (= b 2)}", e.Statements()[0].Container().String())
	assert.Equal(t, 2, e.Statements()[1].Pos().Line)
	assert.Equal(t, 1, e.Statements()[1].Pos().Column)

	e = New("{a", newTestGrammar()).Parse()
	require.NotEmpty(t, e.Errors())
	assert.Equal(t, TerminatorMissing, e.Errors()[len(e.Errors())-1].Kind)
}

func TestPositions(t *testing.T) {
	e := New("a;\r\n  b;\n\n   c", newTestGrammar()).Parse()
	require.Len(t, e.Statements(), 3)
	assert.Equal(t, Span{Offset: 0, Line: 1, Column: 1, Length: 1}, e.Statements()[0].Pos())
	assert.Equal(t, Span{Offset: 6, Line: 2, Column: 3, Length: 1}, e.Statements()[1].Pos())
	assert.Equal(t, Span{Offset: 13, Line: 4, Column: 4, Length: 1}, e.Statements()[2].Pos())
}

func TestSetPointer(t *testing.T) {
	e := New("ab\ncd\nef", newTestGrammar())
	e.SetPointer(7)
	assert.Equal(t, 3, e.Line())
	assert.Equal(t, 2, e.Column())
	assert.Equal(t, 'f', e.Current())

	e.SetPointer(1)
	assert.Equal(t, 1, e.Line())
	assert.Equal(t, 2, e.Column())
	assert.Equal(t, 'b', e.Current())

	e.SetPointer(100)
	assert.True(t, e.AtEnd())
}

func TestAdvanceTo(t *testing.T) {
	e := New("abc*/def", newTestGrammar())
	assert.True(t, e.AdvanceTo("*/"))
	assert.Equal(t, 'd', e.Current())
	assert.False(t, e.AdvanceTo("*/"))
	assert.True(t, e.AtEnd())
}

func TestSpawnJoin(t *testing.T) {
	e := New("ab\ncd}", newTestGrammar())
	e.SetMarker(Breakable)
	e.AdvanceBy(1)

	child := e.Spawn()
	assert.True(t, child.HasMarker(Breakable))
	assert.Nil(t, e.Parent())
	assert.Equal(t, e, child.Parent())

	child.AdvanceBy(3)
	child.ClearMarker(Breakable)
	assert.Equal(t, 1, e.Pointer(), "parent does not move with the child")
	assert.True(t, e.HasMarker(Breakable))

	child.SetPointer(0)
	assert.Equal(t, 1, child.Pointer(), "child cannot move before its origin")

	child.AdvanceBy(3)
	e.Join(child)
	assert.Equal(t, 4, e.Pointer())
	assert.Equal(t, 2, e.Line())
	assert.Equal(t, 2, e.Column())
}

func TestMarkers(t *testing.T) {
	e := New("", newTestGrammar())
	assert.False(t, e.HasMarker(Breakable))
	saved := e.Markers()
	e.SetMarker(Breakable)
	assert.True(t, e.HasMarker(Breakable))
	e.RestoreMarkers(saved)
	assert.False(t, e.HasMarker(Breakable))
}

func TestCharacterClasses(t *testing.T) {
	assert.True(t, IsWhitespace(' '))
	assert.True(t, IsWhitespace('\u3000'))
	assert.False(t, IsWhitespace('\n'))
	assert.True(t, IsNewline('\u2028'))
	assert.True(t, IsIdentifierStart('é'))
	assert.False(t, IsIdentifierStart('1'))
	assert.True(t, IsIdentifierPart('1'))
	assert.True(t, IsLineComment('/', '/'))
	assert.True(t, IsBlockCommentStart('/', '*'))
	assert.True(t, IsBlockCommentEnd('*', '/'))
}

func TestLocate(t *testing.T) {
	e := New("ab\r\ncd\nef", newTestGrammar())
	line, column := e.Locate(0)
	assert.Equal(t, [2]int{1, 1}, [2]int{line, column})
	line, column = e.Locate(5)
	assert.Equal(t, [2]int{2, 2}, [2]int{line, column})
	line, column = e.Locate(100)
	assert.Equal(t, [2]int{3, 3}, [2]int{line, column})
}

func TestErrorText(t *testing.T) {
	err := &ParseError{Kind: ExpressionMissing, File: "a.calq", Line: 2, Column: 3}
	assert.Equal(t, "expression missing", err.Text())
	assert.Equal(t, "a.calq:2:3: expression missing", err.Error())

	err.Message = "'(' expected"
	assert.Equal(t, "'(' expected", err.Text())
}
