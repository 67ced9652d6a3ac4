package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, g *testGrammar, input string) *Statement {
	t.Helper()
	e := New(input, g).Parse()
	require.Empty(t, e.Errors(), "input %q", input)
	require.Len(t, e.Statements(), 1, "input %q", input)
	return e.Statements()[0]
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a+b*c", "(+ a (* b c))"},
		{"a*b+c", "(+ (* a b) c)"},
		{"a+b*c+d", "(+ (+ a (* b c)) d)"},
		{"a*b+c*d", "(+ (* a b) (* c d))"},
		{"a+b^c*d", "(+ a (* (^ b c) d))"},
		{"a^b*c^d", "(* (^ a b) (^ c d))"},
		{"(a+b)*c", "(* ((+ a b)) c)"},
		{"a", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st := parseOne(t, newTestGrammar(), tt.input)
			assert.Equal(t, tt.expected, st.Container().String())
		})
	}
}

func TestAssociativity(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a-b-c", "(- (- a b) c)"},
		{"a^b^c", "(^ a (^ b c))"},
		{"a^b^c^d", "(^ a (^ b (^ c d)))"},
		{"a=b=c+d", "(= a (= b (+ c d)))"},
		{"a-b+c-d", "(- (+ (- a b) c) d)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st := parseOne(t, newTestGrammar(), tt.input)
			assert.Equal(t, tt.expected, st.Container().String())
		})
	}
}

func TestUnaryBinding(t *testing.T) {
	tests := []struct {
		level    int
		input    string
		expected string
	}{
		{5, "-a*b", "(* (- a) b)"},
		{1, "-a*b", "(- (* a b))"},
		{5, "a*-b", "(* a (- b))"},
		{5, "-a^b", "(^ (- a) b)"},
		{2, "-a^b", "(- (^ a b))"},
		{5, "a*-b+c", "(+ (* a (- b)) c)"},
		{5, "-a*b*c", "(* (* (- a) b) c)"},
		{5, "-a+b*c", "(+ (- a) (* b c))"},
		{5, "--a", "(- (- a))"},
		{5, "a!", "(! a)"},
		{5, "a!*b", "(* (! a) b)"},
		{5, "a^b!", "(^ a (! b))"},
		{5, "-a!", "(- (! a))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st := parseOne(t, newTestGrammar().withPrefixLevel(tt.level), tt.input)
			assert.Equal(t, tt.expected, st.Container().String())
		})
	}
}

func TestStatementWithoutEngine(t *testing.T) {
	g := newTestGrammar()
	plus, times := g.binary['+'], g.binary['*']
	st := NewStatement(nil)
	st.PushExpression(&testExpr{text: "a"})
	st.PushOperator(&plus)
	st.PushExpression(&testExpr{text: "b"})
	st.PushOperator(&times)
	st.PushExpression(&testExpr{text: "c"})
	st.Finalize()

	require.NotNil(t, st.Container())
	assert.Equal(t, "(+ a (* b c))", st.Container().String())

	st.PushExpression(&testExpr{text: "d"})
	assert.Equal(t, "(+ a (* b c))", st.Container().String(), "pushes after Finalize are ignored")
}

func TestStatementMissingOperand(t *testing.T) {
	g := newTestGrammar()
	plus := g.binary['+']
	st := NewStatement(nil)
	st.PushExpression(&testExpr{text: "a"})
	st.PushOperator(&plus)
	st.Finalize()

	assert.Nil(t, st.Container())
	require.Len(t, st.Errors(), 1)
	assert.Equal(t, ExpressionMissing, st.Errors()[0].Kind)

	_, err := st.Interpret(newTestContext())
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestStatementNotFinalized(t *testing.T) {
	st := NewStatement(nil)
	_, err := st.Interpret(newTestContext())
	assert.ErrorIs(t, err, ErrNotFinalized)
}

func TestStatementFlags(t *testing.T) {
	e := New("a = 1; b; @", newTestGrammar()).Parse()
	require.Empty(t, e.Errors())
	require.Len(t, e.Statements(), 3)

	assign, muted, single := e.Statements()[0], e.Statements()[1], e.Statements()[2]
	assert.True(t, assign.IsAssignment())
	assert.True(t, assign.IsMuted())
	assert.False(t, muted.IsAssignment())
	assert.True(t, muted.IsMuted())
	assert.True(t, single.IsFinished())
	assert.False(t, single.IsMuted())
}

func TestApplyChecksArity(t *testing.T) {
	g := newTestGrammar()
	plus := g.binary['+']
	assert.Panics(t, func() {
		Apply(&plus, Leaf(&testExpr{text: "a"}))
	})
}

func TestContainerEqual(t *testing.T) {
	a := New("a + b*c", newTestGrammar()).Parse().Statements()[0].Container()
	b := New("a+b * c", newTestGrammar()).Parse().Statements()[0].Container()
	c := New("(a+b)*c", newTestGrammar()).Parse().Statements()[0].Container()
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, Empty().Equal(Empty()))
	assert.False(t, a.Equal(Empty()))
}

func TestCommaSeparatesStatements(t *testing.T) {
	e := New("a, b; c", newTestGrammar()).Parse()
	require.Empty(t, e.Errors())
	require.Len(t, e.Statements(), 3)
	assert.False(t, e.Statements()[0].IsMuted())
	assert.True(t, e.Statements()[1].IsMuted())
	assert.False(t, e.Statements()[2].IsMuted())
}
