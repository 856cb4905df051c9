package config

import (
	"fmt"
	"strings"

	"github.com/jsvensson/barconf/internal/color"
	"github.com/jsvensson/barconf/internal/gradient"
)

// Gradient returns the gradient defined in section "gradient/<name>". The
// result is built on first use and cached for the lifetime of c.
//
//	[gradient/fire]
//	point-0 = #ff0000
//	point-1 = #ffff00
//	point-1-position = 30
//	colorspace = jch
//	approx-count = 20
func (c *Config) Gradient(name string) (*gradient.Gradient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.gradients[name]; ok {
		return g, nil
	}
	g, err := c.loadGradient("gradient/" + name)
	if err != nil {
		return nil, err
	}
	c.gradients[name] = g
	return g, nil
}

func (c *Config) loadGradient(section string) (*gradient.Gradient, error) {
	points, err := c.GetListRequired(section, "point")
	if err != nil {
		return nil, err
	}

	g := gradient.New()
	for i, point := range points {
		def := 0.0
		if len(points) > 1 {
			def = float64(i) * 100 / float64(len(points)-1)
		}
		posKey := fmt.Sprintf("point-%d-position", i)
		pos, err := GetOr(c, section, posKey, def)
		if err != nil {
			return nil, err
		}

		col, err := color.Parse(point)
		if err != nil {
			return nil, &KeyError{Path: fmt.Sprintf("%s.point-%d", section, i), Err: err}
		}
		if err := g.AddColor(col, pos); err != nil {
			return nil, &KeyError{Path: section + "." + posKey, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
		}
	}

	space, err := GetOr(c, section, "colorspace", color.Jzazbz)
	if err != nil {
		return nil, err
	}
	count, err := GetOr(c, section, "approx-count", 10)
	if err != nil {
		return nil, err
	}
	if err := g.GeneratePoints(count, space); err != nil {
		return nil, &KeyError{Path: section + ".approx-count", Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return g, nil
}

// AnimatedColor parses "gradient:frames:offset" into an animated color.
func (c *Config) AnimatedColor(value string) (*gradient.Animated, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: animated color %q must be gradient:frames:offset", ErrInvalidValue, value)
	}
	frames, err := Convert[int](parts[1])
	if err != nil {
		return nil, fmt.Errorf("animated color %q frames: %w", value, err)
	}
	offset, err := Convert[int](parts[2])
	if err != nil {
		return nil, fmt.Errorf("animated color %q offset: %w", value, err)
	}

	g, err := c.Gradient(parts[0])
	if err != nil {
		return nil, err
	}
	a, err := gradient.NewAnimated(g, frames, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return a, nil
}
