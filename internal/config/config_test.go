package config

import (
	"errors"
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/barconf/internal/color"
	"github.com/jsvensson/barconf/internal/host"
	"github.com/jsvensson/barconf/internal/xrm"
)

// memFiles is an in-memory host.Files with "~" mapped to /home/u.
type memFiles map[string]string

func (m memFiles) Expand(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		path = "/home/u" + path[1:]
	}
	return path, nil
}

func (m memFiles) Exists(path string) bool {
	_, ok := m[path]
	return ok
}

func (m memFiles) ReadFile(path string) ([]byte, error) {
	v, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(v), nil
}

func newTestConfig(t *testing.T, sections SectionMap, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithEnv(host.MapEnv{"HOME": "/home/u", "EMPTY": ""}),
		WithFiles(memFiles{
			"/home/u/color":   "#123456\n",
			"/home/u/motd":    "hello\n\n",
			"/etc/bar/height": "24",
		}),
	}
	c := New("/etc/bar/config.ini", "top", append(base, opts...)...)
	if err := c.SetSections(sections); err != nil {
		t.Fatalf("SetSections: %v", err)
	}
	return c
}

func TestAccessors(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"bar/top": {"width": "100%", "height": "24"},
		"colors":  {"bg": "#000"},
	})

	if c.FilePath() != "/etc/bar/config.ini" || c.BarName() != "top" || c.Section() != "bar/top" {
		t.Errorf("FilePath, BarName, Section = %q, %q, %q", c.FilePath(), c.BarName(), c.Section())
	}
	if diff := cmp.Diff([]string{"bar/top", "colors"}, c.Sections()); diff != "" {
		t.Errorf("Sections() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"height", "width"}, c.Keys("bar/top")); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if !c.Has("colors", "bg") || c.Has("colors", "fg") || c.Has("nope", "bg") {
		t.Error("Has() returned wrong results")
	}

	c.Set("colors", "fg", "#fff")
	c.Set("new", "key", "v")
	if v, _ := c.Get("colors", "fg"); v != "#fff" {
		t.Errorf("Get after Set = %q", v)
	}
	if v, _ := c.Get("new", "key"); v != "v" {
		t.Errorf("Get on new section = %q", v)
	}

	c.SetIncluded([]string{"/etc/bar/config.ini", "/etc/bar/colors.ini"})
	if got := c.Included(); len(got) != 2 {
		t.Errorf("Included() = %v", got)
	}
}

func TestResolve(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"bar/top": {
			"background": "${colors.bg}",
			"height":     "24",
		},
		"colors": {
			"bg":      "${colors.base}",
			"base":    "#282828",
			"fg":      "${self.bg}",
			"primary": "${root.background}",
			"legacy":  "${BAR.height}",
		},
	}, WithResources(xrm.Map{"*background": "#1d1f21"}))

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "plain value", "plain value"},
		{"not closed", "${colors.bg", "${colors.bg"},
		{"local", "${colors.base}", "#282828"},
		{"chained", "${colors.bg}", "#282828"},
		{"self", "${self.base}", "#282828"},
		{"root", "${root.height}", "24"},
		{"BAR", "${BAR.height}", "24"},
		{"root chain", "${colors.primary}", "#282828"},
		{"self in target", "${colors.fg}", "#282828"},
		{"local fallback", "${colors.nope:#ffffff}", "#ffffff"},
		{"local fallback unused", "${colors.base:#ffffff}", "#282828"},
		{"missing section fallback", "${nope.key:x}", "x"},
		{"env", "${env:HOME}", "/home/u"},
		{"env empty value", "${env:EMPTY:fb}", ""},
		{"env fallback", "${env:MISSING:fallback}", "fallback"},
		{"env empty fallback", "${env:MISSING:}", ""},
		{"env fallback with colon", "${env:MISSING:a:b}", "a:b"},
		{"file", "${file:~/color}", "#123456"},
		{"file keeps inner newline", "${file:~/motd}", "hello\n"},
		{"file fallback", "${file:/nope:x}", "x"},
		{"xrdb", "${xrdb:background}", "#1d1f21"},
		{"xrdb fallback", "${xrdb:foreground:#eee}", "#eee"},
		{"color literal", "${color:#ff0000}", "#ff0000"},
		{"color reference", "${color:colors.base}", "#282828"},
		{"color alpha", "${color:#ff0000:alpha=0.5}", "#80ff0000"},
		{"color clause on reference", "${color:colors.base:opacity = 0}", "#00282828"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve("colors", "test", tt.raw)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveColorLightness(t *testing.T) {
	c := newTestConfig(t, SectionMap{"colors": {"red": "#ff0000"}})
	redJz := color.MustParse("#ff0000").Convert(color.Jzazbz).A
	literal := regexp.MustCompile(`^#[0-9a-f]{8}$`)

	tests := []struct {
		name    string
		raw     string
		lighter bool
	}{
		{"small increase", "${color:#ff0000:lum+0.01}", true},
		{"saturates to white", "${color:#ff0000:lum+10}", true},
		{"through reference", "${color:colors.red:lum+0.01}", true},
		{"halved", "${color:#ff0000:lum*0.5}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve("colors", "test", tt.raw)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.raw, err)
			}
			if !literal.MatchString(got) {
				t.Fatalf("Resolve(%q) = %q, want an #aarrggbb literal", tt.raw, got)
			}
			jz := color.MustParse(got).Convert(color.Jzazbz).A
			if tt.lighter && jz <= redJz {
				t.Errorf("Resolve(%q) = %s with Jz %.4f, want lighter than red (%.4f)", tt.raw, got, jz, redJz)
			}
			if !tt.lighter && jz >= redJz {
				t.Errorf("Resolve(%q) = %s with Jz %.4f, want darker than red (%.4f)", tt.raw, got, jz, redJz)
			}
		})
	}

	if got, _ := c.Resolve("colors", "test", "${color:#ff0000:lum+10}"); got != "#ffffffff" {
		t.Errorf("lum+10 = %q, want #ffffffff", got)
	}
}

func TestResolveErrors(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"colors": {"base": "#282828", "bad": "not a color"},
	}, WithResources(xrm.Map{}))

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"local missing", "${colors.nope}", ErrMissingParameter},
		{"section missing", "${nope.key}", ErrMissingParameter},
		{"env missing", "${env:MISSING}", ErrMissingParameter},
		{"file missing", "${file:/nope}", ErrMissingParameter},
		{"xrdb missing", "${xrdb:nope}", ErrMissingParameter},
		{"no dot", "${nodot}", ErrInvalidReference},
		{"empty", "${}", ErrInvalidReference},
		{"unknown property", "${color:#fff:brightness+1}", ErrInvalidReference},
		{"no operator", "${color:#fff:lum}", ErrInvalidReference},
		{"bad amount", "${color:#fff:lum+x}", ErrInvalidReference},
		{"bad literal", "${color:#ggg}", color.ErrParse},
		{"bad referenced color", "${color:colors.bad:lum+1}", color.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Resolve("colors", "test", tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tt.raw, err, tt.want)
			}
			var ke *KeyError
			if !errors.As(err, &ke) || ke.Path != "colors.test" {
				t.Errorf("error %v does not carry path colors.test", err)
			}
		})
	}
}

func TestSuggestion(t *testing.T) {
	c := newTestConfig(t, SectionMap{"colors": {"background": "#000"}})

	_, err := c.Resolve("bar/top", "bg", "${colors.backgrond}")
	if err == nil || !strings.Contains(err.Error(), `did you mean "background"`) {
		t.Errorf("missing key error = %v, want a suggestion", err)
	}

	_, err = c.Resolve("bar/top", "bg", "${color:#fff:lightnes+1}")
	if err == nil || !strings.Contains(err.Error(), `did you mean "lightness"`) {
		t.Errorf("property error = %v, want a suggestion", err)
	}
}

func TestCycle(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"a": {"x": "${b.y}", "self": "${self.self}"},
		"b": {"y": "${c.z}"},
		"c": {"z": "${a.x}", "ok": "${a.fine}"},
	})
	c.Set("a", "fine", "#abcdef")

	_, err := c.Get("a", "x")
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("Get(a.x) error = %v, want ErrDependencyCycle", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a *CycleError", err)
	}
	if diff := cmp.Diff([]string{"a.x", "b.y", "c.z", "a.x"}, ce.Trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), ">\tb.y") {
		t.Errorf("error message %q does not print the trace", err)
	}

	if _, err := c.Get("a", "self"); !errors.Is(err, ErrDependencyCycle) {
		t.Errorf("Get(a.self) error = %v, want ErrDependencyCycle", err)
	}

	if _, err := GetOr(c, "a", "x", "default"); !errors.Is(err, ErrDependencyCycle) {
		t.Errorf("GetOr does not propagate cycles: %v", err)
	}

	// Passing through section a again on a different key is fine.
	c.Set("d", "color", "${color:c.ok:lum+0}")
	c.Set("d", "twice", "${d.color}")
	if _, err := c.Get("d", "twice"); err != nil {
		t.Errorf("Get(d.twice): %v", err)
	}
}

func TestXrdbDegrades(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no database", nil},
		{"unavailable", []Option{WithResources(unavailable{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConfig(t, SectionMap{}, tt.opts...)
			if got, err := c.Resolve("s", "k", "${xrdb:color0:#000}"); err != nil || got != "#000" {
				t.Errorf("with fallback = %q, %v", got, err)
			}
			if got, err := c.Resolve("s", "k", "${xrdb:color0}"); err != nil || got != "" {
				t.Errorf("without fallback = %q, %v", got, err)
			}
		})
	}
}

type unavailable struct{}

func (unavailable) Resource(string) (string, error) {
	return "", xrm.ErrUnavailable
}

func TestGetOr(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"s": {
			"set":     "value",
			"missing": "${s.nope}",
			"invalid": "${bad}",
			"badint":  "abc",
			"badcol":  "${color:#zz}",
		},
	})

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"set", "value", false},
		{"absent", "def", false},
		{"missing", "def", false},
		{"invalid", "def", false},
		{"badcol", "def", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := c.GetOr("s", tt.key, "def")
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetOr(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetOr(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	if _, err := GetOr(c, "s", "badint", 5); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("GetOr[int] on non-number: %v, want ErrInvalidValue", err)
	}

	if _, err := c.Get("s", "absent"); !errors.Is(err, ErrMissingParameter) {
		t.Errorf("Get on absent key: %v, want ErrMissingParameter", err)
	}
}

func TestGetList(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"s": {
			"item-0": "a",
			"item-1": "${s.ref}",
			"item-2": "",
			"item-4": "skipped after the gap",
			"ref":    "b",
			"bad-0":  "${s.nope}",
			"old-0":  "x",
		},
	})

	got, err := c.GetList("s", "item")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", ""}, got); diff != "" {
		t.Errorf("GetList mismatch (-want +got):\n%s", diff)
	}

	if got, err := c.GetList("s", "none"); err != nil || len(got) != 0 {
		t.Errorf("GetList on missing = %v, %v", got, err)
	}
	_, err = c.GetListRequired("s", "none")
	var ke *KeyError
	if !errors.Is(err, ErrMissingParameter) || !errors.As(err, &ke) || ke.Path != "s.none-0" {
		t.Errorf("GetListRequired error = %v, want missing s.none-0", err)
	}
	if _, err := c.GetList("s", "bad"); !errors.Is(err, ErrMissingParameter) {
		t.Errorf("GetList with bad ref: %v", err)
	}

	if got, _ := c.DeprecatedList("s", "old", "item"); !cmp.Equal(got, []string{"x"}) {
		t.Errorf("DeprecatedList with old key = %v", got)
	}
	if got, _ := c.DeprecatedList("s", "older", "item"); len(got) != 3 {
		t.Errorf("DeprecatedList without old key = %v", got)
	}
}

func TestDeprecated(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"s": {"old": "1", "new": "2"},
		"t": {"new": "3"},
	})

	tests := []struct {
		section string
		want    string
	}{
		{"s", "1"},
		{"t", "3"},
		{"u", "fallback"},
	}
	for _, tt := range tests {
		got, err := c.Deprecated(tt.section, "old", "new", "fallback")
		if err != nil || got != tt.want {
			t.Errorf("Deprecated(%s) = %q, %v; want %q", tt.section, got, err, tt.want)
		}
	}
}
