package main

import (
	"os"

	"github.com/dhamidi/calq/repl"
	"github.com/spf13/cobra"
)

func newREPLCmd() *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("history") {
				conf.SetHistory(history)
			}
			return repl.New(conf, os.Stdout).Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&history, "history", "", "file to keep the prompt history in")

	return cmd
}
