package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
)

func TestCheck(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		c := newTestConfig(t, SectionMap{
			"bar/top": {"background": "${colors.bg}", "height": "${file:/etc/bar/height}"},
			"colors":  {"bg": "#000"},
		})
		if err := c.Check(); err != nil {
			t.Errorf("Check() = %v", err)
		}
	})

	t.Run("collects every failure", func(t *testing.T) {
		c := newTestConfig(t, SectionMap{
			"bar/top": {
				"background": "${colors.missing}",
				"foreground": "${colors.fg}",
				"font-0":     "${nope}",
			},
			"colors":          {"fg": "${self.fg}"},
			"gradient/broken": {"point-0": "not a color"},
		})

		err := c.Check()
		var merr *multierror.Error
		if !errors.As(err, &merr) {
			t.Fatalf("Check() = %v, want *multierror.Error", err)
		}

		var paths []string
		for _, e := range merr.Errors {
			var ke *KeyError
			if !errors.As(e, &ke) {
				t.Fatalf("error %v is not a *KeyError", e)
			}
			paths = append(paths, ke.Path)
		}
		want := []string{
			"bar/top.background",
			"bar/top.font-0",
			"bar/top.foreground",
			"colors.fg",
			"gradient/broken.point-0",
		}
		if diff := cmp.Diff(want, paths); diff != "" {
			t.Errorf("failing keys (-want +got):\n%s", diff)
		}

		if !errors.Is(merr.Errors[2], ErrDependencyCycle) {
			t.Errorf("foreground error = %v, want a cycle", merr.Errors[2])
		}
		if !errors.Is(merr.Errors[0], ErrMissingParameter) {
			t.Errorf("background error = %v, want missing parameter", merr.Errors[0])
		}
	})
}
