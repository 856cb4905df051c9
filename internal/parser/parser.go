// Package parser loads bar configuration files into a section map. INI files
// use the bar's native syntax; files ending in .hcl use HCL blocks.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/barconf/internal/config"
	"github.com/jsvensson/barconf/internal/host"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("barconf.parser")

const (
	includeFileKey      = "include-file"
	includeDirectoryKey = "include-directory"
)

// Result is a loaded configuration.
type Result struct {
	Sections config.SectionMap
	// Included lists the absolute path of every file read, main file first.
	Included []string
}

// Load reads path and every file it includes. Variables in include paths
// are looked up in env, or the process environment when env is nil.
func Load(path string, env host.Env) (*Result, error) {
	l := &loader{
		names: map[string]map[string]bool{},
		files: host.OSFiles{Env: env},
	}
	if err := l.include(path, nil); err != nil {
		return nil, err
	}

	sections := config.SectionMap{}
	for _, u := range l.units {
		if err := u.apply(l, sections); err != nil {
			return nil, err
		}
	}
	return &Result{Sections: sections, Included: l.included}, nil
}

// IsHCL reports whether path is loaded as HCL.
func IsHCL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hcl")
}

// loader collects files in include order. Section and key names are
// gathered from every file before HCL bodies are evaluated, so HCL
// references can point into other files.
type loader struct {
	units    []unit
	included []string
	names    map[string]map[string]bool
	files    host.Files
}

type unit interface {
	apply(l *loader, dest config.SectionMap) error
}

func (l *loader) declare(section, key string) {
	keys, ok := l.names[section]
	if !ok {
		keys = map[string]bool{}
		l.names[section] = keys
	}
	if key != "" {
		keys[key] = true
	}
}

func (l *loader) include(path string, stack []string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if slices.Contains(stack, abs) {
		return fmt.Errorf("recursive include of %s: %s", abs, strings.Join(append(stack, abs), " -> "))
	}
	stack = append(slices.Clip(stack), abs)

	src, err := l.files.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if !slices.Contains(l.included, abs) {
		l.included = append(l.included, abs)
	}
	log.Debugf("loading %s", abs)

	if IsHCL(abs) {
		return l.includeHCL(abs, src, stack)
	}
	return l.includeINI(abs, src, stack)
}

// includeAll follows an include-file or include-directory directive found
// in the file at from.
func (l *loader) includeAll(from, directive, target string, stack []string) error {
	path, err := l.expandPath(filepath.Dir(from), target)
	if err != nil {
		return err
	}

	if directive == includeFileKey {
		return l.include(path, stack)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", directive, path, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	for _, f := range files {
		if err := l.include(f, stack); err != nil {
			return err
		}
	}
	return nil
}

// expandPath expands $VAR and ~ in path and makes it relative to dir.
func (l *loader) expandPath(dir, path string) (string, error) {
	expanded, err := l.files.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	path = expanded
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return path, nil
}

// hclUnit is an HCL file waiting for evaluation.
type hclUnit struct {
	path string
	body *hclsyntax.Body
}

func (u hclUnit) apply(l *loader, dest config.SectionMap) error {
	doc, diags := evaluate(u.body, l.names)
	if diags.HasErrors() {
		return fmt.Errorf("evaluating %s: %s", u.path, diags.Error())
	}
	merge(dest, doc.Sections)
	return nil
}

// iniUnit holds the ordered key/value entries of one INI file.
type iniUnit struct {
	entries []entry
}

type entry struct {
	section, key, value string
}

func (u iniUnit) apply(_ *loader, dest config.SectionMap) error {
	for _, e := range u.entries {
		values, ok := dest[e.section]
		if !ok {
			values = map[string]string{}
			dest[e.section] = values
		}
		if e.key != "" {
			values[e.key] = e.value
		}
	}
	return nil
}

// merge copies src into dest; later values win.
func merge(dest, src config.SectionMap) {
	for section, values := range src {
		d, ok := dest[section]
		if !ok {
			d = map[string]string{}
			dest[section] = d
		}
		for k, v := range values {
			d[k] = v
		}
	}
}
