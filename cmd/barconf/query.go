package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jsvensson/barconf/internal/color"
	"github.com/jsvensson/barconf/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagType    string
	flagDefault string
	flagRaw     bool
)

var getCmd = &cobra.Command{
	Use:   "get SECTION.KEY",
	Short: "Print the resolved value of a key",
	Long: `Print the resolved value of a key. "root" names the active bar's section,
so "root.height" is the height of the selected bar.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var listCmd = &cobra.Command{
	Use:   "list SECTION.KEY",
	Short: "Print the resolved values of a list key (KEY-0, KEY-1, ...)",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var gradientCmd = &cobra.Command{
	Use:   "gradient NAME [POSITION...]",
	Short: "Print the stops of gradient/NAME, or its colors at the given positions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGradient,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve every key and report all failures",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every section as YAML with references resolved",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func init() {
	getCmd.Flags().StringVarP(&flagType, "type", "t", "string", "convert the value: string, int, float, bool, duration, color or colorspace")
	getCmd.Flags().StringVarP(&flagDefault, "default", "d", "", "value to print when the key is missing or unresolvable")
	dumpCmd.Flags().BoolVar(&flagRaw, "raw", false, "print values without resolving references")
}

// splitPath splits "section.key" at the first dot.
func splitPath(cfg *config.Config, path string) (section, key string, err error) {
	section, key, ok := strings.Cut(path, ".")
	if !ok || section == "" || key == "" {
		return "", "", fmt.Errorf("invalid key %q: must be section.key", path)
	}
	if section == "root" {
		section = cfg.Section()
	}
	return section, key, nil
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	section, key, err := splitPath(cfg, args[0])
	if err != nil {
		return err
	}

	var def *string
	if cmd.Flags().Changed("default") {
		def = &flagDefault
	}

	var v string
	switch flagType {
	case "string":
		v, err = typed[string](cfg, section, key, def)
	case "int":
		v, err = typed[int](cfg, section, key, def)
	case "float":
		v, err = typed[float64](cfg, section, key, def)
	case "bool":
		v, err = typed[bool](cfg, section, key, def)
	case "duration":
		v, err = typed[time.Duration](cfg, section, key, def)
	case "color":
		v, err = typed[color.Color](cfg, section, key, def)
	case "colorspace":
		v, err = typed[color.Space](cfg, section, key, def)
	default:
		return fmt.Errorf("unknown type %q", flagType)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

// typed reads section.key as T, falling back to def when it is set.
func typed[T config.Value](cfg *config.Config, section, key string, def *string) (string, error) {
	if def == nil {
		v, err := config.Get[T](cfg, section, key)
		return fmt.Sprint(v), err
	}
	d, err := config.Convert[T](*def)
	if err != nil {
		return "", fmt.Errorf("default %q: %w", *def, err)
	}
	v, err := config.GetOr(cfg, section, key, d)
	return fmt.Sprint(v), err
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	section, key, err := splitPath(cfg, args[0])
	if err != nil {
		return err
	}

	list, err := cfg.GetListRequired(section, key)
	if err != nil {
		return err
	}
	for _, v := range list {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

func runGradient(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	g, err := cfg.Gradient(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		for _, s := range g.Stops() {
			fmt.Fprintf(out, "%g\t%s\n", s.Position, s.Color.Packed().Short())
		}
		return nil
	}
	for _, arg := range args[1:] {
		pos, err := config.Convert[float64](arg)
		if err != nil {
			return fmt.Errorf("position %q: %w", arg, err)
		}
		c, err := g.At(pos)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%g\t%s\n", pos, c.Packed().Short())
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	err = cfg.Check()
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d files, %d sections)\n", cfg.FilePath(), len(cfg.Included()), len(cfg.Sections()))
		return nil
	}

	for _, e := range merr.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
	return fmt.Errorf("%d keys failed to resolve", len(merr.Errors))
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := map[string]map[string]string{}
	for _, section := range cfg.Sections() {
		values := map[string]string{}
		for _, key := range cfg.Keys(section) {
			raw, _ := cfg.Lookup(section, key)
			if flagRaw {
				values[key] = raw
				continue
			}
			v, err := cfg.Resolve(section, key, raw)
			if err != nil {
				return err
			}
			values[key] = v
		}
		out[section] = values
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
