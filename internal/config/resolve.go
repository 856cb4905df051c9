package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jsvensson/barconf/internal/xrm"
)

// IsReference reports whether value has the ${...} reference form.
func IsReference(value string) bool {
	return len(value) >= 3 && strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}")
}

// Resolve resolves raw as the value of section.key. Values that are not
// references are returned unchanged.
func (c *Config) Resolve(section, key, raw string) (string, error) {
	return c.resolve(section, key, raw, nil)
}

// resolve is the recursive step. trace holds the keys visited so far; it is
// clipped before appending so sibling branches never share a backing array.
func (c *Config) resolve(section, key, value string, trace []string) (string, error) {
	if !IsReference(value) {
		return value, nil
	}

	keyPath := section + "." + key
	if slices.Contains(trace, keyPath) {
		return "", &CycleError{Trace: append(slices.Clone(trace), keyPath)}
	}
	trace = append(slices.Clip(trace), keyPath)

	path := value[2 : len(value)-1]

	var (
		result string
		err    error
	)
	switch {
	case strings.HasPrefix(path, "env:"):
		result, err = c.resolveEnv(path[len("env:"):])
	case strings.HasPrefix(path, "xrdb:"):
		result, err = c.resolveXrdb(path[len("xrdb:"):])
	case strings.HasPrefix(path, "file:"):
		result, err = c.resolveFile(path[len("file:"):])
	case strings.HasPrefix(path, "color:"):
		result, err = c.resolveColor(section, path[len("color:"):], trace)
	case strings.Contains(path, "."):
		result, err = c.resolveLocal(section, path, trace)
	default:
		err = fmt.Errorf("%w %q", ErrInvalidReference, value)
	}
	if err != nil {
		return "", withPath(keyPath, err)
	}
	return result, nil
}

func (c *Config) resolveEnv(ref string) (string, error) {
	name, fallback, hasFallback := strings.Cut(ref, ":")
	if v, ok := c.env.LookupEnv(name); ok {
		c.log.Infof("environment variable ${%s} found (value=%s)", name, v)
		return v, nil
	}
	if hasFallback {
		c.log.Infof("environment variable ${%s} is undefined, using fallback %q", name, fallback)
		return fallback, nil
	}
	return "", fmt.Errorf("%w: environment variable %s is not set and has no fallback", ErrMissingParameter, name)
}

func (c *Config) resolveXrdb(ref string) (string, error) {
	name, fallback, hasFallback := strings.Cut(ref, ":")

	if c.xrm == nil {
		c.log.Warningf("%s: cannot resolve ${xrdb:%s}, no resource database configured", ErrResourceUnavailable, name)
		return fallback, nil
	}

	v, err := c.xrm.Resource(name)
	switch {
	case err == nil:
		c.log.Infof("found X resource %s (value=%s)", name, v)
		return v, nil
	case errors.Is(err, xrm.ErrUnavailable):
		c.log.Warningf("%s: cannot resolve ${xrdb:%s}: %v", ErrResourceUnavailable, name, err)
		return fallback, nil
	case errors.Is(err, xrm.ErrNotFound) && hasFallback:
		c.log.Infof("X resource %s not found, using fallback %q", name, fallback)
		return fallback, nil
	case errors.Is(err, xrm.ErrNotFound):
		return "", fmt.Errorf("%w: X resource %s not found and has no fallback", ErrMissingParameter, name)
	}
	return "", err
}

func (c *Config) resolveFile(ref string) (string, error) {
	path, fallback, hasFallback := strings.Cut(ref, ":")

	expanded, err := c.files.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}

	if !c.files.Exists(expanded) {
		if hasFallback {
			c.log.Infof("file %s not found, using fallback %q", expanded, fallback)
			return fallback, nil
		}
		return "", fmt.Errorf("%w: file %s does not exist and has no fallback", ErrMissingParameter, expanded)
	}

	data, err := c.files.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", expanded, err)
	}
	c.log.Infof("file reference %s found", expanded)
	return strings.TrimSuffix(string(data), "\n"), nil
}

// resolveLocal resolves "section.key[:fallback]" relative to current.
func (c *Config) resolveLocal(current, ref string, trace []string) (string, error) {
	section, key, _ := strings.Cut(ref, ".")
	key, fallback, hasFallback := strings.Cut(key, ":")

	switch section {
	case "BAR":
		c.log.Warning("${BAR.key} is deprecated, use ${root.key} instead")
		section = c.Section()
	case "root":
		section = c.Section()
	case "self":
		section = current
	}

	raw, ok := c.Lookup(section, key)
	if !ok {
		if hasFallback {
			return fallback, nil
		}
		return "", c.notFound(section, key)
	}
	return c.resolve(section, key, raw, trace)
}
