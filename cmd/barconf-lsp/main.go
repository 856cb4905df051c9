package main

import (
	"os"

	"github.com/jsvensson/barconf/internal/config"
	"github.com/jsvensson/barconf/internal/host"
	"github.com/jsvensson/barconf/internal/lsp"
	"github.com/spf13/cobra"
)

var (
	flagVerbosity int
	flagLog       string
	flagEnvFiles  []string
	version       = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "barconf-lsp",
	Short:   "Language server for HCL bar configuration files, speaking LSP over stdio",
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []config.Option
		if len(flagEnvFiles) > 0 {
			env, err := host.WithDotenv(host.OSEnv{}, flagEnvFiles...)
			if err != nil {
				return err
			}
			opts = append(opts, config.WithEnv(env))
		}

		var logPath *string
		if flagLog != "" {
			logPath = &flagLog
		}
		return lsp.NewServer(version, opts...).Run(flagVerbosity, logPath)
	},
}

func init() {
	rootCmd.Flags().IntVar(&flagVerbosity, "verbosity", 1, "log verbosity")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "log to this file instead of stderr")
	rootCmd.Flags().StringArrayVar(&flagEnvFiles, "env-file", nil, "dotenv file filling in unset ${env:...} variables (can be repeated)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
