package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/calq/parser"
)

// LineEncoder writes one line per statement: its position and its tree as
// an S-expression. Errors follow, one per line.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(engine *parser.Engine) error {
	text, err := e.MarshalText(engine)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(engine *parser.Engine) ([]byte, error) {
	var b strings.Builder
	for _, st := range engine.Statements() {
		suffix := ""
		if st.IsMuted() {
			suffix = ";"
		}
		fmt.Fprintf(&b, "%s\t%s%s\n", st.Pos(), st, suffix)
	}
	for _, err := range engine.Errors() {
		fmt.Fprintf(&b, "%d:%d\terror: %s\n", err.Line, err.Column, err.Text())
	}
	return []byte(b.String()), nil
}
