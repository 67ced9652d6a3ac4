package main

import (
	"fmt"

	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/runtime"
	"github.com/spf13/cobra"
)

func newSymbolsCmd() *cobra.Command {
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the variables and functions a file refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readSource(args[0])
			if err != nil {
				return err
			}

			q := runtime.NewQuery(input, runtime.NewContext(conf), parser.WithName(args[0]))
			missing := map[string]bool{}
			for _, name := range q.Missing() {
				missing[name] = true
			}

			out := cmd.OutOrStdout()
			for _, name := range q.Engine().CollectedSymbols() {
				switch {
				case missing[name]:
					fmt.Fprintf(out, "%s\tunbound\n", name)
				case !missingOnly:
					fmt.Fprintf(out, "%s\tassigned\n", name)
				}
			}
			return q.Engine().Errors().Err()
		},
	}

	cmd.Flags().BoolVar(&missingOnly, "missing", false, "only list symbols that are never assigned")

	return cmd
}
