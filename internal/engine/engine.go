// Package engine renders Go templates against a resolved bar configuration,
// so other programs' config files can share the bar's colors and values.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/jsvensson/barconf/internal/color"
	"github.com/jsvensson/barconf/internal/config"
)

// Engine loads and executes Go templates against a Config.
type Engine struct {
	TemplatesDir string
	OutputDir    string
	Apps         []string // if non-empty, only render these template basenames
}

// Run loads all .tmpl files from the templates directory, executes them
// against cfg, and writes output files.
func (e *Engine) Run(cfg *config.Config) error {
	pattern := filepath.Join(e.TemplatesDir, "*.tmpl")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("globbing templates: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no .tmpl files found in %s", e.TemplatesDir)
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data := buildTemplateData(cfg)

	for _, tmplPath := range matches {
		baseName := strings.TrimSuffix(filepath.Base(tmplPath), ".tmpl")

		if !e.shouldRender(baseName) {
			continue
		}

		if err := e.renderTemplate(tmplPath, baseName, data); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) shouldRender(name string) bool {
	if len(e.Apps) == 0 {
		return true
	}
	return slices.Contains(e.Apps, name)
}

func (e *Engine) renderTemplate(tmplPath, outputName string, data templateData) error {
	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(data.FuncMap).ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	outPath := filepath.Join(e.OutputDir, outputName)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("executing template %s: %w", tmplPath, err)
	}

	return nil
}

// templateData is the data passed to templates.
type templateData struct {
	Bar      string
	Section  string
	File     string
	Sections []string
	FuncMap  template.FuncMap
}

// splitPath splits "section.key" at the first dot. "root" names the
// active bar's section.
func splitPath(cfg *config.Config, path string) (section, key string, err error) {
	section, key, ok := strings.Cut(path, ".")
	if !ok || section == "" || key == "" {
		return "", "", fmt.Errorf("invalid path %q: must be section.key format", path)
	}
	if section == "root" {
		section = cfg.Section()
	}
	return section, key, nil
}

func buildTemplateData(cfg *config.Config) templateData {
	return templateData{
		Bar:      cfg.BarName(),
		Section:  cfg.Section(),
		File:     cfg.FilePath(),
		Sections: cfg.Sections(),
		FuncMap: template.FuncMap{
			"get": func(path string) (string, error) {
				section, key, err := splitPath(cfg, path)
				if err != nil {
					return "", err
				}
				return cfg.Get(section, key)
			},
			"getOr": func(path, def string) (string, error) {
				section, key, err := splitPath(cfg, path)
				if err != nil {
					return "", err
				}
				return cfg.GetOr(section, key, def)
			},
			"list": func(path string) ([]string, error) {
				section, key, err := splitPath(cfg, path)
				if err != nil {
					return nil, err
				}
				return cfg.GetList(section, key)
			},
			"keys": cfg.Keys,
			"color": func(path string) (color.Color, error) {
				section, key, err := splitPath(cfg, path)
				if err != nil {
					return color.Color{}, err
				}
				return config.Get[color.Color](cfg, section, key)
			},
			"hex": func(c color.Color) string {
				return c.Hex()
			},
			"hexBare": func(c color.Color) string {
				return fmt.Sprintf("%06x", uint32(c.Packed())&0xffffff)
			},
			"short": func(c color.Color) string {
				return c.Packed().Short()
			},
			"rgb": func(c color.Color) string {
				p := c.Packed()
				return fmt.Sprintf("rgb(%d, %d, %d)", p.Red(), p.Green(), p.Blue())
			},
			"gradient": func(name string, pos float64) (string, error) {
				g, err := cfg.Gradient(name)
				if err != nil {
					return "", err
				}
				return g.Hex(pos)
			},
		},
	}
}
