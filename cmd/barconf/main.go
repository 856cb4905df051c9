package main

import (
	"fmt"
	"os"

	"github.com/jsvensson/barconf"
	"github.com/jsvensson/barconf/internal/config"
	"github.com/jsvensson/barconf/internal/engine"
	"github.com/jsvensson/barconf/internal/format"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig    string
	flagBar       string
	flagEnvFiles  []string
	flagNoXrm     bool
	flagVerbose   int
	flagOut       string
	flagTemplates string
	flagApp       []string
	flagCheck     bool
	version       = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:           "barconf",
	Short:         "Inspect, check and render status bar configuration files",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render templates against the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format configuration files",
	Long:  "Format one or more .ini or .hcl configuration files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "config.ini", "path to the configuration file (.ini or .hcl)")
	pf.StringVarP(&flagBar, "bar", "b", "", "name of the bar section to use (bar/<name>); may be omitted when there is only one")
	pf.StringArrayVar(&flagEnvFiles, "env-file", nil, "dotenv file filling in unset ${env:...} variables (can be repeated)")
	pf.BoolVar(&flagNoXrm, "no-xrm", false, "do not query the X resource database; ${xrdb:...} uses its fallback")
	pf.CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")

	renderCmd.Flags().StringVar(&flagOut, "out", "output", "output directory")
	renderCmd.Flags().StringVar(&flagTemplates, "templates", "templates", "templates directory")
	renderCmd.Flags().StringArrayVar(&flagApp, "app", nil, "render only specific templates (can be repeated)")
	fmtCmd.Flags().BoolVar(&flagCheck, "check", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(getCmd, listCmd, gradientCmd, checkCmd, dumpCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	opts := []barconf.Option{barconf.WithEnvFiles(flagEnvFiles...)}
	if flagNoXrm {
		opts = append(opts, barconf.WithoutResources())
	}
	return barconf.Load(flagConfig, flagBar, opts...)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	e := &engine.Engine{
		TemplatesDir: flagTemplates,
		OutputDir:    flagOut,
		Apps:         flagApp,
	}

	if err := e.Run(cfg); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered templates in %s\n", flagOut)
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	failed := 0
	unformatted := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			failed++
			continue
		}

		content := string(data)
		formatted, err := format.File(path, content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			failed++
			continue
		}

		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		unformatted++

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				failed++
			}
		}
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d files could not be formatted", failed)
	case flagCheck && unformatted > 0:
		return fmt.Errorf("%d files need formatting", unformatted)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
