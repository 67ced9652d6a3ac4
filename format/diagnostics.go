package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/calq/parser"
	"github.com/fatih/color"
)

var (
	errorLabelFmt = color.New(color.FgRed, color.Bold).SprintFunc()
	locationFmt   = color.New(color.Bold).SprintFunc()
	kindFmt       = color.New(color.FgYellow).SprintFunc()
	caretFmt      = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// DiagnosticPrinter writes parse errors with the offending source line and
// a caret under the error column. Colour follows color.NoColor.
type DiagnosticPrinter struct {
	w     io.Writer
	lines []string
}

func NewDiagnosticPrinter(w io.Writer, source string) *DiagnosticPrinter {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return &DiagnosticPrinter{w: w, lines: strings.Split(source, "\n")}
}

func (p *DiagnosticPrinter) Print(errs parser.ErrorList) error {
	for _, err := range errs {
		if err := p.PrintError(err); err != nil {
			return err
		}
	}
	return nil
}

func (p *DiagnosticPrinter) PrintError(err *parser.ParseError) error {
	location := fmt.Sprintf("%d:%d", err.Line, err.Column)
	if err.File != "" {
		location = err.File + ":" + location
	}
	_, werr := fmt.Fprintf(p.w, "%s: %s: %s %s\n",
		locationFmt(location), errorLabelFmt("error"), err.Text(), kindFmt("("+err.Kind.String()+")"))
	if werr != nil {
		return werr
	}
	if err.Line < 1 || err.Line > len(p.lines) {
		return nil
	}
	line := []rune(p.lines[err.Line-1])
	pad := make([]rune, 0, err.Column)
	for i := 0; i < err.Column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	_, werr = fmt.Fprintf(p.w, "  %s\n  %s%s\n", string(line), string(pad), caretFmt("^"))
	return werr
}
