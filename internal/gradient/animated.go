package gradient

import (
	"fmt"

	"github.com/jsvensson/barconf/internal/color"
)

// Animated cycles through a gradient over a fixed number of frames.
type Animated struct {
	Gradient *Gradient
	Frames   int
	Offset   int
}

// NewAnimated validates frames and returns an animated color.
func NewAnimated(g *Gradient, frames, offset int) (*Animated, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("animated color needs a positive frame count, got %d", frames)
	}
	return &Animated{Gradient: g, Frames: frames, Offset: offset}, nil
}

// At returns the color shown on the given frame.
func (a *Animated) At(frame int) (color.Color, error) {
	step := (a.Offset + frame) % a.Frames
	if step < 0 {
		step += a.Frames
	}
	return a.Gradient.At(float64(step) * 100 / float64(a.Frames))
}
