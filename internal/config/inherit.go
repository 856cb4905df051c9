package config

import (
	"fmt"
	"slices"
)

// copyInherited copies into every section with an "inherit" key the keys of
// its base section that it does not define itself. Bases are completed
// first, so chains of inheritance see transitive keys.
func (c *Config) copyInherited() error {
	done := map[string]bool{}

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		if done[name] {
			return nil
		}
		values := c.sections[name]
		raw, ok := values["inherit"]
		if !ok {
			done[name] = true
			return nil
		}

		base, err := c.Resolve(name, "inherit", raw)
		if err != nil {
			return err
		}

		path := name + ".inherit"
		chain = append(slices.Clip(chain), name)
		switch {
		case base == "":
			return &KeyError{Path: path, Err: fmt.Errorf("%w: empty section name", ErrInvalidInherit)}
		case base == name:
			return &KeyError{Path: path, Err: fmt.Errorf("%w: section %q inherits from itself", ErrInvalidInherit, name)}
		case slices.Contains(chain, base):
			return &KeyError{Path: path, Err: fmt.Errorf("%w: inheritance loop %v -> %s", ErrInvalidInherit, chain, base)}
		}
		if _, ok := c.sections[base]; !ok {
			return &KeyError{Path: path, Err: fmt.Errorf("%w: no section %q%s", ErrInvalidInherit, base, suggest(base, c.Sections()))}
		}

		if err := visit(base, chain); err != nil {
			return err
		}

		c.log.Debugf("copying missing parameters from %s into %s", base, name)
		for k, v := range c.sections[base] {
			if _, ok := values[k]; !ok {
				values[k] = v
			}
		}
		done[name] = true
		return nil
	}

	for _, name := range c.Sections() {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}
