package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInherit(t *testing.T) {
	c := newTestConfig(t, SectionMap{
		"module/base": {"format": "<label>", "label": "base", "padding": "1"},
		"module/mid":  {"inherit": "module/base", "label": "mid"},
		"module/leaf": {"inherit": "${self.parent}", "parent": "module/mid", "padding": "2"},
	})

	want := map[string]string{
		"inherit": "${self.parent}",
		"parent":  "module/mid",
		"format":  "<label>",
		"label":   "mid",
		"padding": "2",
	}
	got := map[string]string{}
	for _, k := range c.Keys("module/leaf") {
		got[k], _ = c.Lookup("module/leaf", k)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module/leaf mismatch (-want +got):\n%s", diff)
	}

	// Set after loading does not re-apply inheritance.
	c.Set("module/base", "extra", "x")
	if c.Has("module/mid", "extra") {
		t.Error("inheritance re-applied after Set")
	}
}

func TestInheritErrors(t *testing.T) {
	tests := []struct {
		name     string
		sections SectionMap
		want     error
	}{
		{"empty", SectionMap{"a": {"inherit": ""}}, ErrInvalidInherit},
		{"self", SectionMap{"a": {"inherit": "a"}}, ErrInvalidInherit},
		{"unknown", SectionMap{"a": {"inherit": "b"}}, ErrInvalidInherit},
		{"loop", SectionMap{"a": {"inherit": "b"}, "b": {"inherit": "a"}}, ErrInvalidInherit},
		{"reference cycle", SectionMap{"a": {"inherit": "${a.inherit}"}}, ErrDependencyCycle},
		{"unresolvable", SectionMap{"a": {"inherit": "${env:BARCONF_NO_SUCH_VAR}"}}, ErrMissingParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("", "top")
			err := c.SetSections(tt.sections)
			if !errors.Is(err, tt.want) {
				t.Fatalf("SetSections error = %v, want %v", err, tt.want)
			}
			if Recoverable(err) && tt.want != ErrMissingParameter {
				t.Errorf("error %v should not be recoverable", err)
			}
		})
	}
}
