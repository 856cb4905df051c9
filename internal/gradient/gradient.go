// Package gradient interpolates colors between positioned stops and
// re-samples them densely in a chosen colorspace.
package gradient

import (
	"errors"
	"fmt"

	"github.com/jsvensson/barconf/internal/color"
)

var (
	// ErrEmpty is returned when sampling a gradient without stops.
	ErrEmpty = errors.New("gradient has no color stops")
	// ErrOutOfOrder is returned by Add when a stop is placed before the last one.
	ErrOutOfOrder = errors.New("color stop positions must be in ascending order")
	// ErrPosition is returned for stop positions outside [0, 100].
	ErrPosition = errors.New("color stop position must be between 0 and 100")
)

// Stop is a color placed at a percentage along the gradient.
type Stop struct {
	Color    color.Color
	Position float64
}

// Gradient is an ordered list of color stops.
type Gradient struct {
	stops     []Stop
	generated bool
}

// New returns an empty gradient.
func New() *Gradient {
	return &Gradient{}
}

// Add parses literal with color.Parse and appends it at pos.
func (g *Gradient) Add(literal string, pos float64) error {
	c, err := color.Parse(literal)
	if err != nil {
		return err
	}
	return g.AddColor(c, pos)
}

// AddColor appends c at pos. Positions must not decrease.
func (g *Gradient) AddColor(c color.Color, pos float64) error {
	if pos < 0 || pos > 100 {
		return fmt.Errorf("%w: got %g", ErrPosition, pos)
	}
	if n := len(g.stops); n > 0 && pos < g.stops[n-1].Position {
		return fmt.Errorf("%w: %g comes after %g", ErrOutOfOrder, pos, g.stops[n-1].Position)
	}
	g.stops = append(g.stops, Stop{Color: c, Position: pos})
	return nil
}

// Stops returns a copy of the gradient's stops.
func (g *Gradient) Stops() []Stop {
	return append([]Stop(nil), g.stops...)
}

// Generated reports whether the stops were produced by GeneratePoints.
func (g *Gradient) Generated() bool {
	return g.generated
}

// At samples the gradient at percentage p. Percentages before the first stop
// or after the last one return that stop's color unchanged.
func (g *Gradient) At(p float64) (color.Color, error) {
	if len(g.stops) == 0 {
		return color.Color{}, ErrEmpty
	}

	upper := 0
	for ; upper < len(g.stops); upper++ {
		if g.stops[upper].Position >= p {
			break
		}
	}

	switch {
	case upper == 0:
		return g.stops[0].Color, nil
	case upper == len(g.stops):
		return g.stops[upper-1].Color, nil
	}

	lo, hi := g.stops[upper-1], g.stops[upper]
	t := (p - lo.Position) / (hi.Position - lo.Position)
	return lerp(lo.Color, hi.Color.Convert(lo.Color.Space), t), nil
}

// Hex samples the gradient at p and formats the result as "#aarrggbb".
func (g *Gradient) Hex(p float64) (string, error) {
	c, err := g.At(p)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// GeneratePoints re-samples the gradient into n evenly spaced RGB stops,
// interpolating in space. Later RGB interpolation between the dense stops
// approximates interpolation in space.
func (g *Gradient) GeneratePoints(n int, space color.Space) error {
	if n < 2 {
		return fmt.Errorf("gradient needs at least 2 generated points, got %d", n)
	}
	if len(g.stops) == 0 {
		return ErrEmpty
	}

	for i := range g.stops {
		g.stops[i].Color = g.stops[i].Color.Convert(space)
	}

	dense := make([]Stop, n)
	for i := range dense {
		pos := float64(i) * 100 / float64(n-1)
		c, err := g.At(pos)
		if err != nil {
			return err
		}
		dense[i] = Stop{Color: c.Convert(color.RGB), Position: pos}
	}

	g.stops = dense
	g.generated = true
	return nil
}

func lerp(a, b color.Color, t float64) color.Color {
	return color.Color{
		A:     a.A + (b.A-a.A)*t,
		B:     a.B + (b.B-a.B)*t,
		C:     a.C + (b.C-a.C)*t,
		D:     a.D + (b.D-a.D)*t,
		Space: a.Space,
	}
}
