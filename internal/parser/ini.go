package parser

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// iniOptions keeps values such as "#ff0000" or "a ; b" intact: comments are
// only recognized at the start of a line. Repeated keys are kept as shadows
// so every include directive in a section is followed.
var iniOptions = ini.LoadOptions{
	IgnoreInlineComment:        true,
	KeyValueDelimiters:         "=",
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
}

// ParseINI parses INI source with the bar's comment and delimiter rules.
func ParseINI(src []byte) (*ini.File, error) {
	return ini.LoadSources(iniOptions, src)
}

func (l *loader) includeINI(path string, src []byte, stack []string) error {
	f, err := ParseINI(src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	var u iniUnit
	for _, sec := range f.Sections() {
		name := sec.Name()
		for _, key := range sec.Keys() {
			values := key.ValueWithShadows()
			switch key.Name() {
			case includeFileKey, includeDirectoryKey:
				for _, target := range values {
					if err := l.includeAll(path, key.Name(), target, stack); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				continue
			}
			if name == ini.DefaultSection {
				return fmt.Errorf("%s: key %q defined outside of a section", path, key.Name())
			}
			// The last non-empty assignment of a repeated key wins.
			value := key.Value()
			if len(values) > 0 {
				value = values[len(values)-1]
			}
			l.declare(name, key.Name())
			u.entries = append(u.entries, entry{section: name, key: key.Name(), value: value})
		}
		if name != ini.DefaultSection {
			l.declare(name, "")
			if len(sec.Keys()) == 0 {
				u.entries = append(u.entries, entry{section: name})
			}
		}
	}

	l.units = append(l.units, u)
	return nil
}
