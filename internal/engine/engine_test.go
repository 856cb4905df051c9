package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsvensson/barconf/internal/config"
	"github.com/jsvensson/barconf/internal/host"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New("/etc/bar/config.ini", "top", config.WithEnv(host.MapEnv{"FONT": "Iosevka"}))
	err := cfg.SetSections(config.SectionMap{
		"bar/top": {
			"background": "${colors.base}",
			"font-0":     "${env:FONT}",
			"font-1":     "Noto Emoji",
		},
		"colors": {
			"base":   "#191724",
			"love":   "#eb6f92",
			"accent": "${color:colors.base:lum+0.2}",
			"white":  "#ffffff",
		},
		"gradient/mono": {
			"point-0":    "#000000",
			"point-1":    "${colors.white}",
			"colorspace": "rgb",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func setupTemplateDir(t *testing.T, templates map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func render(t *testing.T, cfg *config.Config, tmpl string) (string, error) {
	t.Helper()
	tmplDir := setupTemplateDir(t, map[string]string{"test.txt.tmpl": tmpl})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Engine{TemplatesDir: tmplDir, OutputDir: outDir}
	if err := e.Run(cfg); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filepath.Join(outDir, "test.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return string(content), nil
}

func TestRun(t *testing.T) {
	got, err := render(t, testConfig(t), `bar={{ .Bar }}
section={{ .Section }}
bg={{ get "root.background" }}
font={{ get "bar/top.font-0" }}`)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantLines := []string{
		"bar=top",
		"section=bar/top",
		"bg=#191724",
		"font=Iosevka",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestTemplateFunctions(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"hex", `{{ color "colors.base" | hex }}`, "#ff191724"},
		{"hexBare", `{{ color "colors.love" | hexBare }}`, "eb6f92"},
		{"short", `{{ color "colors.white" | short }}`, "#fff"},
		{"rgb", `{{ color "colors.base" | rgb }}`, "rgb(25, 23, 36)"},
		{"getOr present", `{{ getOr "colors.base" "#000" }}`, "#191724"},
		{"getOr absent", `{{ getOr "colors.missing" "#000" }}`, "#000"},
		{"list", `{{ range list "root.font" }}[{{ . }}]{{ end }}`, "[Iosevka][Noto Emoji]"},
		{"keys", `{{ keys "colors" }}`, "[accent base love white]"},
		{"sections", `{{ .Sections }}`, "[bar/top colors gradient/mono]"},
		{"gradient start", `{{ gradient "mono" 0 }}`, "#ff000000"},
		{"gradient end", `{{ gradient "mono" 100 }}`, "#ffffffff"},
	}

	cfg := testConfig(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(t, cfg, tt.template)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTemplateColorAdjusted(t *testing.T) {
	got, err := render(t, testConfig(t), `{{ get "colors.accent" }}`)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.HasPrefix(got, "#ff") || got == "#ff191724" {
		t.Errorf("adjusted color = %q, want a lighter opaque color", got)
	}
}

func TestTemplateErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantErr  string
	}{
		{"missing key", `{{ get "colors.nope" }}`, "colors.nope"},
		{"bad path", `{{ get "colors" }}`, "section.key"},
		{"not a color", `{{ color "root.font-1" }}`, "invalid color"},
		{"unknown gradient", `{{ gradient "fire" 10 }}`, "gradient/fire"},
		{"unknown function", `{{ palette "base" }}`, "palette"},
	}

	cfg := testConfig(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render(t, cfg, tt.template)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunAppFilter(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"app1.txt.tmpl": "app1={{ .Bar }}",
		"app2.txt.tmpl": "app2={{ .Bar }}",
	})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Engine{
		TemplatesDir: tmplDir,
		OutputDir:    outDir,
		Apps:         []string{"app1.txt"},
	}

	if err := e.Run(testConfig(t)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "app1.txt")); err != nil {
		t.Error("app1.txt should exist")
	}
	if _, err := os.Stat(filepath.Join(outDir, "app2.txt")); err == nil {
		t.Error("app2.txt should not exist when filtered")
	}
}

func TestRunNoTemplates(t *testing.T) {
	e := &Engine{
		TemplatesDir: t.TempDir(),
		OutputDir:    filepath.Join(t.TempDir(), "output"),
	}

	if err := e.Run(testConfig(t)); err == nil {
		t.Error("expected error for empty templates dir")
	}
}
