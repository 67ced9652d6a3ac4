package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/calq/elements"
	"github.com/dhamidi/calq/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(input string) *parser.Engine {
	return parser.New(input, elements.NewCatalog("sin"), parser.WithName("t.calq")).Parse()
}

func TestTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeEncoder(&buf).Encode(parse("x = 1+2*3; sin(x)")))
	expected := `Statement muted
  Operator =
    Symbol x
    Operator +
      Number 1
      Operator *
        Number 2
        Number 3
Statement
  Call sin
    Symbol x
`
	assert.Equal(t, expected, buf.String())
}

func TestTreeEncoderPositions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeEncoder(&buf).WithPositions().Encode(parse("1 +\n 2")))
	expected := `Statement [1:1]
  Operator + [1:3]
    Number 1 [1:1]
    Number 2 [2:2]
`
	assert.Equal(t, expected, buf.String())
}

func TestTreeEncoderErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeEncoder(&buf).Encode(parse("1 +")))
	assert.Equal(t, "Statement\n  ERROR\nERROR: t.calq:1:3: expression missing\n", buf.String())
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(parse("a = [1, 2];\nb' * a")))
	assert.Equal(t, "1:1\t(= a [1, 2]);\n2:1\t(* (' b) a)\n", buf.String())

	buf.Reset()
	require.NoError(t, NewLineEncoder(&buf).Encode(parse("(1")))
	assert.Equal(t, "1:1\t1\n1:3\terror: ')' expected\n", buf.String())
}

func TestASTJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(parse("1+2; 3 4")))

	var doc struct {
		File       string
		Statements []struct {
			Kind     string
			Muted    bool
			Span     *astJSONSpan
			Children []astJSONNode
		}
		Errors []astJSONError
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "t.calq", doc.File)
	require.Len(t, doc.Statements, 2)

	first := doc.Statements[0]
	assert.True(t, first.Muted)
	assert.Equal(t, astJSONPosition{Line: 1, Column: 1}, first.Span.Start)
	assert.Equal(t, astJSONPosition{Line: 1, Column: 4}, first.Span.End)
	require.Len(t, first.Children, 1)
	op := first.Children[0]
	assert.Equal(t, "Operator", op.Kind)
	assert.Equal(t, "+", op.Token)
	require.Len(t, op.Children, 2)
	assert.Equal(t, "Number", op.Children[1].Kind)
	assert.Equal(t, "2", op.Children[1].Token)
	assert.Equal(t, astJSONPosition{Line: 1, Column: 3}, op.Children[1].Span.Start)

	require.Len(t, doc.Errors, 1)
	assert.Equal(t, "OperatorMissing", doc.Errors[0].Kind)
	assert.Equal(t, astJSONPosition{Line: 1, Column: 8}, doc.Errors[0].Start)
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Formats {
		enc, err := NewEncoder(name, &bytes.Buffer{})
		require.NoError(t, err)
		assert.NotNil(t, enc)
	}
	_, err := NewEncoder("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Number", Kind(&elements.Number{}))
	assert.Equal(t, "If", Kind(&elements.If{}))
}

func TestDiagnosticPrinter(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	source := "x = 1;\n\ty = (2 +"
	e := parse(source)
	require.True(t, e.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, NewDiagnosticPrinter(&buf, source).Print(e.Errors()[:1]))
	assert.Equal(t, "t.calq:2:10: error: ')' expected (TerminatorMissing)\n  \ty = (2 +\n  \t        ^\n", buf.String())
}
