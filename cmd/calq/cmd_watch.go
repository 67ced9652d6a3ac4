package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/calq/parser"
	"github.com/dhamidi/calq/repl"
	"github.com/dhamidi/calq/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration
	var clearScreen bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Evaluate a file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w, err := watch.New(args[0], func(path string, data []byte) {
				if clearScreen {
					fmt.Fprint(os.Stdout, "\033[H\033[2J")
				}
				fmt.Fprintf(os.Stdout, "== %s (%s)\n", args[0], time.Now().Format(time.TimeOnly))
				runCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				// Each run starts from a fresh set of variables.
				repl.New(conf, os.Stdout).Eval(runCtx, string(data), parser.WithName(args[0]))
			})
			if err != nil {
				return err
			}
			w.SetDebounce(debounce)
			if err := w.Start(); err != nil {
				return err
			}
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "time to wait for writes to settle")
	cmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the screen before each run")

	return cmd
}
