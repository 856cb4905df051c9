package config

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Check resolves every key of every section and loads every gradient
// section, returning all failures. Each failure is a *KeyError naming the
// key that was checked, even when the cause lies in a key it references.
func (c *Config) Check() error {
	var result *multierror.Error
	for _, section := range c.Sections() {
		for _, key := range c.Keys(section) {
			raw, _ := c.Lookup(section, key)
			if _, err := c.Resolve(section, key, raw); err != nil {
				result = multierror.Append(result, atKey(section+"."+key, err))
			}
		}
		if name, ok := strings.CutPrefix(section, "gradient/"); ok {
			if _, err := c.Gradient(name); err != nil {
				result = multierror.Append(result, withPath(section, err))
			}
		}
	}
	return result.ErrorOrNil()
}

func atKey(path string, err error) error {
	var ke *KeyError
	if errors.As(err, &ke) && ke.Path == path {
		return err
	}
	return &KeyError{Path: path, Err: err}
}
