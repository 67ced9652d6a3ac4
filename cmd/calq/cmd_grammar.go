package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/dhamidi/calq/grammar"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the lexical grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), grammar.Source())
			return nil
		},
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarTokensCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file, by default the built-in one",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, text := "calq.ebnf", grammar.Source()
			if len(args) == 1 {
				filename = args[0]
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				text = string(data)
			}

			if _, err := grammar.Parse(filename, text, startProduction); err != nil {
				printErrors(err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

var tokenColors = map[string]*color.Color{
	"Comment":     color.New(color.FgHiBlack),
	"Number":      color.New(color.FgCyan),
	"String":      color.New(color.FgGreen),
	"Keyword":     color.New(color.FgMagenta, color.Bold),
	"Operator":    color.New(color.FgYellow),
	grammar.Error: color.New(color.FgRed, color.Underline),
}

func newGrammarTokensCmd() *cobra.Command {
	var highlight bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Split a file into tokens using the grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readSource(args[0])
			if err != nil {
				return err
			}
			g, err := grammar.Load()
			if err != nil {
				return fmt.Errorf("load grammar: %w", err)
			}
			lexer, err := grammar.NewLexer(g, input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tok := range lexer.Tokenize() {
				if highlight {
					if c, ok := tokenColors[tok.Kind]; ok {
						c.Fprint(out, tok.Text)
					} else {
						fmt.Fprint(out, tok.Text)
					}
					continue
				}
				if tok.Kind == "Whitespace" {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%q\n", tok.Span, tok.Kind, tok.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&highlight, "highlight", false, "print the source with syntax colouring instead of a token list")

	return cmd
}

func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}
