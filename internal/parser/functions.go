package parser

import (
	"fmt"
	"strings"

	"github.com/jsvensson/barconf/internal/color"
	"github.com/jsvensson/barconf/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Functions returns the HCL functions that build ${...} reference strings.
// HCL cannot hold "${env:HOME}" literally, so configs write env("HOME")
// instead.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"ref":   makeSourceFunc("", "path"),
		"env":   makeSourceFunc("env:", "name"),
		"xrdb":  makeSourceFunc("xrdb:", "name"),
		"file":  makeSourceFunc("file:", "path"),
		"color": makeColorFunc(),
	}
}

// makeSourceFunc creates a function returning "${<prefix><arg>[:fallback]}".
// Usage: env("HOME") or env("TERMINAL", "xterm")
func makeSourceFunc(prefix, param string) function.Function {
	return function.New(&function.Spec{
		Description: fmt.Sprintf("Builds a ${%s...} reference with an optional fallback", prefix),
		Params: []function.Parameter{
			{
				Name: param,
				Type: cty.String,
			},
		},
		VarParam: &function.Parameter{
			Name: "fallback",
			Type: cty.String,
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if len(args) > 2 {
				return cty.NilVal, fmt.Errorf("expected at most one fallback, got %d", len(args)-1)
			}
			target := args[0].AsString()
			if prefix == "" && !strings.Contains(target, ".") {
				return cty.NilVal, fmt.Errorf("reference %q must have the form section.key", target)
			}
			ref := "${" + prefix + target
			if len(args) == 2 {
				ref += ":" + args[1].AsString()
			}
			return cty.StringVal(ref + "}"), nil
		},
	})
}

// makeColorFunc creates color(source, clauses...), returning
// "${color:source:clause...}". source is a color literal, a "section.key"
// path or a reference value such as colors.bg.
// Usage: color(colors.bg, "lum+0.02", "alpha=0.8")
func makeColorFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Builds a ${color:...} reference that adjusts a color",
		Params: []function.Parameter{
			{
				Name: "source",
				Type: cty.String,
			},
		},
		VarParam: &function.Parameter{
			Name: "clauses",
			Type: cty.String,
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			source := args[0].AsString()
			if config.IsReference(source) {
				source = source[2 : len(source)-1]
			}
			if strings.HasPrefix(source, "#") || strings.Contains(source, "(") {
				if _, err := color.Parse(source); err != nil {
					return cty.NilVal, err
				}
			}

			parts := []string{source}
			for _, arg := range args[1:] {
				clause := arg.AsString()
				if err := checkClause(clause); err != nil {
					return cty.NilVal, err
				}
				parts = append(parts, clause)
			}
			return cty.StringVal("${color:" + strings.Join(parts, ":") + "}"), nil
		},
	})
}

func checkClause(clause string) error {
	i := strings.IndexAny(clause, color.Operators)
	if i < 0 {
		return fmt.Errorf("color clause %q has no operator (one of %s)", clause, color.Operators)
	}
	if _, ok := color.ParseProperty(clause[:i]); !ok {
		return fmt.Errorf("unknown color property %q", strings.TrimSpace(clause[:i]))
	}
	return nil
}
