package runtime

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dhamidi/calq/config"
	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, c *Context, input string) []Result {
	t.Helper()
	results, err := NewQuery(input, c).Run(context.Background())
	require.NoError(t, err, "%q", input)
	return results
}

func TestRun(t *testing.T) {
	c := NewContext(nil)
	results := eval(t, c, "x = 2; y = x^3, 2+3*4")
	require.Len(t, results, 3)

	assert.Equal(t, "x", results[0].Name)
	assert.True(t, results[0].Muted)
	assert.Nil(t, results[0].Value)

	assert.Equal(t, "y", results[1].Name)
	assert.Equal(t, value.Scalar(8), results[1].Value)
	assert.Equal(t, "y = 8", results[1].String())

	assert.Equal(t, "ans", results[2].Name)
	assert.Equal(t, value.Scalar(14), results[2].Value)

	ans, ok := c.Lookup("ans")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(14), ans)
}

func TestVariablesPersistAcrossQueries(t *testing.T) {
	c := NewContext(nil)
	eval(t, c, "a = [1, 2; 3, 4];")
	results := eval(t, c, "trace(a) + sum(a)")
	assert.Equal(t, "15", results[0].Value.String())
	assert.Equal(t, []string{"a", "ans"}, c.Names())

	c.Clear()
	assert.Empty(t, c.Names())
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sqrt(16)", "4"},
		{"abs(-3)", "3"},
		{"floor(2.7) + ceil(2.2)", "5"},
		{"round(-2.5)", "-3"},
		{"exp(0) + log(1)", "1"},
		{"sin(0) + cos(0)", "1"},
		{"zeros(2)", "[0, 0; 0, 0]"},
		{"ones(1, 3)", "[1, 1, 1]"},
		{"eye(2)", "[1, 0; 0, 1]"},
		{"size([1, 2, 3; 4, 5, 6])", "[2, 3]"},
		{"length([1, 2, 3; 4, 5, 6])", "3"},
		{"numel([1, 2, 3; 4, 5, 6])", "6"},
		{"max([1, 7, 3]) - min(4, [2, 9])", "5"},
		{"sum([1, 2; 3, 4])", "10"},
		{"abs([-1, 2])", "[1, 2]"},
		{"pi > 3 && e < 3", "1"},
		{"1 + eps > 1", "1"},
		{"true + false", "1"},
		{"1 / 3", "0.3333333333"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			results := eval(t, NewContext(nil), tt.input)
			require.Len(t, results, 1)
			assert.Equal(t, tt.expected, results[0].Value.String())
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	for _, input := range []string{"zeros(-1)", "zeros(1.5)", "trace([1, 2])", "sqrt()", "sqrt(\"x\")"} {
		t.Run(input, func(t *testing.T) {
			_, err := NewQuery(input, NewContext(nil)).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestDisp(t *testing.T) {
	var out bytes.Buffer
	c := NewContext(nil)
	c.SetOutput(&out)
	results := eval(t, c, "disp(1/4); disp([1, 2])")
	assert.Len(t, results, 2)
	assert.Equal(t, "0.25\n[1, 2]\n", out.String())
}

func TestPrecision(t *testing.T) {
	conf := config.Default()
	require.NoError(t, conf.SetPrecision(2))
	c := NewContext(conf)
	var out bytes.Buffer
	c.SetOutput(&out)
	eval(t, c, "disp(2/3)")
	assert.Equal(t, "0.67\n", out.String())
	assert.Equal(t, 2, c.Precision())
}

func TestConstantsCannotBeAssigned(t *testing.T) {
	for _, input := range []string{"pi = 3", "sqrt = 1"} {
		_, err := NewQuery(input, NewContext(nil)).Run(context.Background())
		assert.Error(t, err, input)
	}
	_, err := NewQuery("pi = 3", NewContext(nil)).Run(context.Background())
	assert.ErrorContains(t, err, ErrConstant.Error())
}

func TestParseErrorsPreventEvaluation(t *testing.T) {
	c := NewContext(nil)
	results, err := NewQuery("x = 1; 2 +", c).Run(context.Background())
	assert.Nil(t, results)

	var list parser.ErrorList
	require.True(t, errors.As(err, &list))
	assert.Equal(t, parser.ExpressionMissing, list[0].Kind)
	_, ok := c.Lookup("x")
	assert.False(t, ok)
}

func TestRunStopsAtFirstError(t *testing.T) {
	c := NewContext(nil)
	results, err := NewQuery("a = 1; b = nope; c = 3", c).Run(context.Background())
	require.Error(t, err)
	assert.Len(t, results, 1)
	_, ok := c.Lookup("c")
	assert.False(t, ok)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewQuery("while (1) {}", NewContext(nil)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoopCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewContext(nil)
	c.functions["stop"] = &value.Function{Name: "stop", Call: func(value.Context, []value.Value) (value.Value, error) {
		cancel()
		return value.Scalar(1), nil
	}}
	_, err := NewQuery("while (1) { stop }", c).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMissing(t *testing.T) {
	c := NewContext(nil)
	eval(t, c, "known = 1;")
	q := NewQuery("a = 2; a + b * known + sin(pi) + c(1)", c)
	assert.Equal(t, []string{"b", "c"}, q.Missing())
}

func TestBreakInLoop(t *testing.T) {
	results := eval(t, NewContext(nil), "n = 0; while (n < 100) { n += 1; if (n == 7) break; }; n")
	assert.Equal(t, value.Scalar(7), results[len(results)-1].Value)
}

func TestKnown(t *testing.T) {
	c := NewContext(nil)
	known := c.Known()
	assert.Contains(t, known, "pi")
	assert.Contains(t, known, "sqrt")
	assert.True(t, c.IsBuiltin("disp"))
	assert.False(t, c.IsBuiltin("pi"))
	assert.NotEmpty(t, c.Builtins())
	assert.True(t, c.Catalog().Known("eye"))
}
