package main

import (
	"errors"

	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/repl"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate a file, standard input or an expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			input := expr
			if expr == "" {
				text, err := readSource(name)
				if err != nil {
					return err
				}
				input = text
			} else if len(args) == 1 {
				return errors.New("eval takes either a file or --expr, not both")
			}

			var opts []parser.Option
			if expr == "" && name != "-" {
				opts = append(opts, parser.WithName(name))
			}
			r := repl.New(conf, cmd.OutOrStdout())
			if err := r.Eval(cmd.Context(), input, opts...); err != nil {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "expression to evaluate")

	return cmd
}
