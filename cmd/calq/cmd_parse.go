package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/calq/format"
	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/runtime"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and dump its statement trees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			input, err := readSource(filename)
			if err != nil {
				return err
			}

			c := runtime.NewContext(conf)
			engine := parser.New(input, c.Catalog(), parser.WithName(filename)).Parse()

			var encoder format.Encoder
			switch outputFormat {
			case "tree":
				enc := format.NewTreeEncoder(cmd.OutOrStdout())
				if includePositions {
					enc = enc.WithPositions()
				}
				encoder = enc
			default:
				encoder, err = format.NewEncoder(outputFormat, cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			if err := encoder.Encode(engine); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			if conf.Debug("symbols") {
				fmt.Fprintf(cmd.ErrOrStderr(), "symbols: %s\n", strings.Join(engine.CollectedSymbols(), " "))
			}
			if engine.HasErrors() && outputFormat == "tree" {
				format.NewDiagnosticPrinter(cmd.ErrOrStderr(), input).Print(engine.Errors())
			}
			if engine.HasErrors() {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return engine.Errors().Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include positions in tree output")

	return cmd
}
