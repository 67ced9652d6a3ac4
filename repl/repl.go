// Package repl is the interactive calq prompt.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/dhamidi/calq/config"
	"github.com/dhamidi/calq/format"
	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/runtime"
	"github.com/dhamidi/calq/value"
	"github.com/peterh/liner"
	"github.com/tliron/commonlog"
)

const continuationPrompt = "...   "

var log = commonlog.GetLogger("calq.repl")

type REPL struct {
	conf    *config.Config
	context *runtime.Context
	out     io.Writer
}

func New(conf *config.Config, out io.Writer) *REPL {
	if conf == nil {
		conf = config.Default()
	}
	c := runtime.NewContext(conf)
	c.SetOutput(out)
	return &REPL{conf: conf, context: c, out: out}
}

func (r *REPL) Context() *runtime.Context {
	return r.context
}

// Start reads input until EOF or an exit command. Incomplete input, such as
// an open bracket, continues on the next line.
func (r *REPL) Start(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(r.Complete)

	if path := r.conf.History(); path != "" {
		if f, err := os.Open(path); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(path)
			if err != nil {
				log.Warningf("failed to save history: %s", err)
				return
			}
			line.WriteHistory(f)
			f.Close()
		}()
	}

	var buffer strings.Builder
	for {
		prompt := r.conf.Prompt()
		if buffer.Len() > 0 {
			prompt = continuationPrompt
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buffer.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if buffer.Len() == 0 {
			if trimmed == "" {
				continue
			}
			if trimmed == "exit" || trimmed == "quit" {
				return nil
			}
			if strings.HasPrefix(trimmed, ":") {
				r.Command(trimmed)
				line.AppendHistory(trimmed)
				continue
			}
		} else {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)

		full := buffer.String()
		if NeedsMoreInput(full) {
			continue
		}
		buffer.Reset()
		line.AppendHistory(full)

		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		if err := r.Eval(runCtx, full); err != nil {
			log.Debugf("%s", err)
		}
		stop()
	}
}

// Eval runs input and prints the value of every statement not muted by a
// semicolon. Parse errors are printed with the offending line. The error
// is returned after it has been printed.
func (r *REPL) Eval(ctx context.Context, input string, opts ...parser.Option) error {
	q := runtime.NewQuery(input, r.context, opts...)
	if r.conf.Debug("symbols") {
		fmt.Fprintf(r.out, "symbols: %s\n", strings.Join(q.Engine().CollectedSymbols(), " "))
	}
	results, err := q.Run(ctx)
	for _, res := range results {
		if res.Muted || res.Value == nil {
			continue
		}
		fmt.Fprintf(r.out, "%s = %s\n", res.Name, value.Format(res.Value, r.context.Precision()))
	}
	var list parser.ErrorList
	switch {
	case errors.As(err, &list):
		format.NewDiagnosticPrinter(r.out, input).Print(list)
	case err != nil:
		fmt.Fprintf(r.out, "error: %s\n", err)
	}
	return err
}

// Command runs a prompt command such as ":vars".
func (r *REPL) Command(cmd string) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  :help              show this help")
		fmt.Fprintln(r.out, "  :vars              list variables")
		fmt.Fprintln(r.out, "  :funcs             list functions")
		fmt.Fprintln(r.out, "  :clear             remove all variables")
		fmt.Fprintln(r.out, "  :precision [n]     show or set printed digits")
		fmt.Fprintln(r.out, "  :debug flag on|off toggle a debug flag (tree, symbols)")
		fmt.Fprintln(r.out, "  exit, quit         leave")
	case ":vars":
		names := r.context.Names()
		if len(names) == 0 {
			fmt.Fprintln(r.out, "(no variables)")
		}
		for _, name := range names {
			v, _ := r.context.Lookup(name)
			fmt.Fprintf(r.out, "  %s: %s = %s\n", name, value.TypeName(v), value.Format(v, r.context.Precision()))
		}
	case ":funcs":
		for _, fn := range r.context.Builtins() {
			fmt.Fprintf(r.out, "  %-8s %s\n", fn.Name, fn.Help)
		}
	case ":clear":
		r.context.Clear()
		fmt.Fprintln(r.out, "variables cleared")
	case ":precision":
		if len(fields) == 1 {
			fmt.Fprintln(r.out, r.conf.Precision())
			return
		}
		var n int
		if _, err := fmt.Sscanf(fields[1], "%d", &n); err != nil {
			fmt.Fprintf(r.out, "error: precision must be a number\n")
			return
		}
		if err := r.conf.SetPrecision(n); err != nil {
			fmt.Fprintf(r.out, "error: %s\n", err)
		}
	case ":debug":
		if len(fields) != 3 || (fields[2] != "on" && fields[2] != "off") {
			fmt.Fprintln(r.out, "usage: :debug flag on|off")
			return
		}
		r.conf.SetDebug(fields[1], fields[2] == "on")
	default:
		fmt.Fprintf(r.out, "unknown command %s, type :help for commands\n", cmd)
	}
}

// Complete returns the lines formed by completing the last word of line with
// a keyword, function, constant or variable name.
func (r *REPL) Complete(line string) []string {
	start := len(line)
	for start > 0 && parser.IsIdentifierPart(rune(line[start-1])) {
		start--
	}
	word := line[start:]
	if word == "" {
		return nil
	}

	candidates := r.context.Catalog().Keywords()
	candidates = append(candidates, r.context.Known()...)
	candidates = append(candidates, r.context.Names()...)
	sort.Strings(candidates)
	var out []string
	for i, name := range candidates {
		if i > 0 && candidates[i-1] == name {
			continue
		}
		if strings.HasPrefix(name, word) {
			out = append(out, line[:start]+name)
		}
	}
	return out
}

// NeedsMoreInput reports whether input leaves a bracket, brace, parenthesis
// or string open.
func NeedsMoreInput(input string) bool {
	depth := 0
	inString, escaped := false, false
	lineComment, blockComment := false, false
	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		ch, next := runes[i], rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case lineComment:
			lineComment = !parser.IsNewline(ch)
		case blockComment:
			if parser.IsBlockCommentEnd(ch, next) {
				blockComment = false
				i++
			}
		case inString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
		case ch == '"':
			inString = true
		case parser.IsLineComment(ch, next):
			lineComment = true
		case parser.IsBlockCommentStart(ch, next):
			blockComment = true
			i++
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		}
	}
	return depth > 0 || inString || blockComment
}
