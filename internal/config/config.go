// Package config stores the section/key map of a bar configuration and
// resolves the ${...} references in its values.
package config

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jsvensson/barconf/internal/gradient"
	"github.com/jsvensson/barconf/internal/host"
	"github.com/jsvensson/barconf/internal/xrm"
	"github.com/tliron/commonlog"
)

// SectionMap maps section name to key to raw value.
type SectionMap map[string]map[string]string

// Config is a loaded configuration for one bar. It is not safe for
// concurrent mutation; only gradient loading is synchronized.
type Config struct {
	path     string
	bar      string
	sections SectionMap
	included []string

	env   host.Env
	files host.Files
	xrm   xrm.Database
	log   commonlog.Logger

	mu        sync.Mutex
	gradients map[string]*gradient.Gradient
}

// Option configures a Config.
type Option func(*Config)

// WithEnv sets the environment used by env: references and path expansion.
func WithEnv(env host.Env) Option {
	return func(c *Config) { c.env = env }
}

// WithFiles sets the filesystem used by file: references.
func WithFiles(files host.Files) Option {
	return func(c *Config) { c.files = files }
}

// WithResources sets the X resource database used by xrdb: references.
func WithResources(db xrm.Database) Option {
	return func(c *Config) { c.xrm = db }
}

func WithLogger(log commonlog.Logger) Option {
	return func(c *Config) { c.log = log }
}

// New returns an empty configuration for the bar named bar, loaded from path.
func New(path, bar string, opts ...Option) *Config {
	c := &Config{
		path:      path,
		bar:       bar,
		sections:  SectionMap{},
		env:       host.OSEnv{},
		log:       commonlog.GetLogger("barconf.config"),
		gradients: map[string]*gradient.Gradient{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.files == nil {
		c.files = host.OSFiles{Env: c.env}
	}
	return c
}

// FilePath returns the path of the main configuration file.
func (c *Config) FilePath() string { return c.path }

func (c *Config) BarName() string { return c.bar }

// Section returns the name of the active bar's section, "bar/<name>".
func (c *Config) Section() string {
	return "bar/" + c.bar
}

// UseResources enables the xrdb collaborator if none was configured. Call it
// before SetSections so inherit values can use ${xrdb:...}.
func (c *Config) UseResources() {
	if c.xrm == nil {
		c.log.Info("enabling X resource database")
		c.xrm = xrm.NewQuery()
	}
}

// SetSections installs the section map and applies section inheritance.
func (c *Config) SetSections(sections SectionMap) error {
	c.sections = sections
	if c.sections == nil {
		c.sections = SectionMap{}
	}
	return c.copyInherited()
}

// SetIncluded records every file read while loading, main file included.
func (c *Config) SetIncluded(files []string) {
	c.included = slices.Clone(files)
}

func (c *Config) Included() []string {
	return slices.Clone(c.included)
}

// Sections returns the sorted section names.
func (c *Config) Sections() []string {
	return slices.Sorted(maps.Keys(c.sections))
}

// Keys returns the sorted keys of section.
func (c *Config) Keys(section string) []string {
	return slices.Sorted(maps.Keys(c.sections[section]))
}

func (c *Config) Has(section, key string) bool {
	_, ok := c.Lookup(section, key)
	return ok
}

// Set stores a raw value, creating the section if needed. Inheritance is
// not re-applied.
func (c *Config) Set(section, key, value string) {
	values, ok := c.sections[section]
	if !ok {
		values = map[string]string{}
		c.sections[section] = values
	}
	values[key] = value
}

// Lookup returns the raw, unresolved value of section.key.
func (c *Config) Lookup(section, key string) (string, bool) {
	v, ok := c.sections[section][key]
	return v, ok
}

// Get returns the resolved value of section.key.
func (c *Config) Get(section, key string) (string, error) {
	raw, ok := c.Lookup(section, key)
	if !ok {
		return "", c.missing(section, key)
	}
	return c.Resolve(section, key, raw)
}

// GetOr is like Get but returns def when the key is absent or resolution
// fails with a recoverable error.
func (c *Config) GetOr(section, key, def string) (string, error) {
	return GetOr(c, section, key, def)
}

// GetList returns key-0, key-1, ... up to the first missing index. Empty
// values are kept as is; the rest are resolved under their own key.
func (c *Config) GetList(section, key string) ([]string, error) {
	var list []string
	for i := 0; ; i++ {
		k := fmt.Sprintf("%s-%d", key, i)
		raw, ok := c.Lookup(section, k)
		if !ok {
			return list, nil
		}
		if raw != "" {
			v, err := c.Resolve(section, k, raw)
			if err != nil {
				return nil, err
			}
			raw = v
		}
		list = append(list, raw)
	}
}

// GetListRequired is like GetList but fails when the list is empty.
func (c *Config) GetListRequired(section, key string) ([]string, error) {
	list, err := c.GetList(section, key)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, c.missing(section, key+"-0")
	}
	return list, nil
}

// WarnDeprecated logs a warning if section.key is set.
func (c *Config) WarnDeprecated(section, key, replacement string) {
	if c.Has(section, key) {
		c.log.Warningf("the config parameter %s.%s is deprecated, use %s.%s instead", section, key, section, replacement)
	}
}

// Deprecated returns the value of the deprecated key old when it is set,
// otherwise the value of newKey or fallback.
func (c *Config) Deprecated(section, old, newKey, fallback string) (string, error) {
	if c.Has(section, old) {
		c.WarnDeprecated(section, old, newKey)
		return c.Get(section, old)
	}
	return c.GetOr(section, newKey, fallback)
}

// DeprecatedList is the list form of Deprecated.
func (c *Config) DeprecatedList(section, old, newKey string) ([]string, error) {
	if c.Has(section, old+"-0") {
		c.WarnDeprecated(section, old+"-0", newKey+"-0")
		return c.GetList(section, old)
	}
	return c.GetList(section, newKey)
}

func (c *Config) missing(section, key string) error {
	return &KeyError{Path: section + "." + key, Err: c.notFound(section, key)}
}

// notFound describes a missing section.key, suggesting a close match.
func (c *Config) notFound(section, key string) error {
	values, ok := c.sections[section]
	if !ok {
		return fmt.Errorf("%w: no section %q%s", ErrMissingParameter, section, suggest(section, c.Sections()))
	}
	return fmt.Errorf("%w: no key %q in %s%s", ErrMissingParameter, key, section,
		suggest(key, slices.Collect(maps.Keys(values))))
}
