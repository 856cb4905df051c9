// Package barconf loads a status bar configuration: it reads the INI or HCL
// file with its includes, applies section inheritance, and returns a
// Config that resolves ${...} references on demand.
package barconf

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jsvensson/barconf/internal/config"
	"github.com/jsvensson/barconf/internal/host"
	"github.com/jsvensson/barconf/internal/parser"
	"github.com/jsvensson/barconf/internal/xrm"
)

// ErrUndefinedBar is returned when the requested bar has no section.
var ErrUndefinedBar = errors.New("undefined bar")

type options struct {
	env          host.Env
	envFiles     []string
	resources    xrm.Database
	useResources bool
}

// Option configures Load.
type Option func(*options)

// WithEnv replaces the process environment used by ${env:...}.
func WithEnv(env host.Env) Option {
	return func(o *options) { o.env = env }
}

// WithEnvFiles layers dotenv files under the environment.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.envFiles = append(o.envFiles, paths...) }
}

// WithResources answers ${xrdb:...} from db instead of running xrdb.
func WithResources(db xrm.Database) Option {
	return func(o *options) { o.resources = db }
}

// WithoutResources disables the X resource database; ${xrdb:...}
// references then resolve to their fallback.
func WithoutResources() Option {
	return func(o *options) { o.useResources = false }
}

// Load reads the configuration at path for the bar named bar. An empty bar
// name selects the only bar section when there is exactly one.
func Load(path, bar string, opts ...Option) (*config.Config, error) {
	o := options{env: host.OSEnv{}, useResources: true}
	for _, opt := range opts {
		opt(&o)
	}

	env := o.env
	if len(o.envFiles) > 0 {
		var err error
		if env, err = host.WithDotenv(o.env, o.envFiles...); err != nil {
			return nil, err
		}
	}

	res, err := parser.Load(path, env)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	bar, err = selectBar(res.Sections, bar)
	if err != nil {
		return nil, err
	}

	cfgOpts := []config.Option{config.WithEnv(env)}
	if o.resources != nil {
		cfgOpts = append(cfgOpts, config.WithResources(o.resources))
	}
	cfg := config.New(path, bar, cfgOpts...)
	// SetSections resolves inherit values, which may read X resources.
	if o.useResources {
		cfg.UseResources()
	}
	cfg.SetIncluded(res.Included)
	if err := cfg.SetSections(res.Sections); err != nil {
		return nil, err
	}
	return cfg, nil
}

func selectBar(sections config.SectionMap, bar string) (string, error) {
	var bars []string
	for name := range sections {
		if b, ok := strings.CutPrefix(name, "bar/"); ok {
			bars = append(bars, b)
		}
	}
	slices.Sort(bars)

	if bar == "" {
		if len(bars) == 1 {
			return bars[0], nil
		}
		return "", fmt.Errorf("%w: no bar name given and the config defines %d bars %v", ErrUndefinedBar, len(bars), bars)
	}
	if !slices.Contains(bars, bar) {
		return "", fmt.Errorf("%w: %q (defined bars: %s)", ErrUndefinedBar, bar, strings.Join(bars, ", "))
	}
	return bar, nil
}
