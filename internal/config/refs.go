package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jsvensson/barconf/internal/color"
)

// resolveColor handles "SOURCE[:CLAUSE]*" where SOURCE is a color literal or
// a section.key reference and each CLAUSE is "property op amount".
func (c *Config) resolveColor(section, expr string, trace []string) (string, error) {
	parts := strings.Split(expr, ":")
	source, clauses := strings.TrimSpace(parts[0]), parts[1:]

	text := source
	if !strings.HasPrefix(source, "#") && !strings.Contains(source, "(") && strings.Contains(source, ".") {
		v, err := c.resolveLocal(section, source, trace)
		if err != nil {
			return "", err
		}
		text = v
	}

	base, err := color.Parse(text)
	if err != nil {
		return "", err
	}
	if len(clauses) == 0 {
		return text, nil
	}

	edits := make([]color.Edit, 0, len(clauses))
	for _, clause := range clauses {
		e, err := parseClause(clause)
		if err != nil {
			return "", err
		}
		edits = append(edits, e)
	}

	return color.Adjust(base, edits...).Hex(), nil
}

func parseClause(clause string) (color.Edit, error) {
	i := strings.IndexAny(clause, color.Operators)
	if i < 0 {
		return color.Edit{}, fmt.Errorf("%w: color clause %q has no operator (one of %s)", ErrInvalidReference, clause, color.Operators)
	}

	name := strings.ToLower(strings.TrimSpace(clause[:i]))
	prop, ok := color.ParseProperty(name)
	if !ok {
		return color.Edit{}, fmt.Errorf("%w: unknown color property %q%s", ErrInvalidReference, name,
			suggest(name, slices.Sorted(maps.Keys(color.PropertyAliases))))
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(clause[i+1:]), 64)
	if err != nil {
		return color.Edit{}, fmt.Errorf("%w: color clause %q has an invalid amount", ErrInvalidReference, clause)
	}

	return color.Edit{Property: prop, Op: clause[i], Amount: amount}, nil
}
