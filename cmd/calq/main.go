package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhamidi/calq/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// conf is loaded before any command runs.
var conf = config.Default()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbosity int
	var precision int
	var debug []string

	rootCmd := &cobra.Command{
		Use:     "calq",
		Short:   "A calculator language with matrices",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			conf = loaded
			if cmd.Flags().Changed("verbose") {
				conf.SetVerbosity(verbosity)
			}
			if cmd.Flags().Changed("precision") {
				if err := conf.SetPrecision(precision); err != nil {
					return err
				}
			}
			for _, flag := range debug {
				conf.SetDebug(flag, true)
			}
			commonlog.Configure(conf.Verbosity(), nil)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "configuration file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")
	rootCmd.PersistentFlags().IntVar(&precision, "precision", config.DefaultPrecision, "significant decimal places when printing numbers")
	rootCmd.PersistentFlags().StringSliceVar(&debug, "debug", nil, "debug flags to enable (tree, symbols)")

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newSymbolsCmd())
	rootCmd.AddCommand(newREPLCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newGrammarCmd())

	return rootCmd
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "calq.yaml"
	}
	return filepath.Join(dir, "calq", "config.yaml")
}

// readSource reads a file, or standard input for "-".
func readSource(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
