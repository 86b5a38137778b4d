package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("jmodel")

// cfg is loaded before any subcommand runs.
var cfg *Config

func newRootCmd() *cobra.Command {
	var configPath string
	var noColor bool

	rootCmd := &cobra.Command{
		Use:           "jmodel",
		Short:         "Flatten Java class hierarchies described by fact documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded
			if noColor {
				pterm.DisableStyling()
			}
			var logPath *string
			if cfg.LogFile != "" {
				logPath = &cfg.LogFile
			}
			commonlog.Configure(cfg.Verbosity, logPath)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default: nearest "+configFileName+")")
	flags.StringSlice("facts", []string{"."}, "fact documents or directories to load")
	flags.Bool("lenient", false, "drop supertypes no document declares instead of failing")
	flags.CountP("verbosity", "v", "log verbosity (repeat for more)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newFlattenCmd())
	rootCmd.AddCommand(newImportsCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}
