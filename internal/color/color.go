package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is returned (wrapped) for any color literal that cannot be parsed.
var ErrParse = errors.New("invalid color")

// Color is a color in one of the supported colorspaces. The meaning of the
// A, B and C components depends on Space; D is always the alpha channel.
//
//	RGB    r, g, b in [0, 1]
//	HSL    hue in degrees, saturation and lightness in [0, 1]
//	Jzazbz Jz, az, bz
//	Jch    Jz, chroma, hue in degrees
//	XYZ    X, Y, Z with white at Y = 100
type Color struct {
	A, B, C, D float64
	Space      Space
}

// RGBA returns an RGB color from normalized channels.
func RGBA(r, g, b, a float64) Color {
	return Color{A: r, B: g, C: b, D: a, Space: RGB}
}

// Alpha returns the alpha channel.
func (c Color) Alpha() float64 {
	return c.D
}

// Hex returns the color as an 8-digit "#aarrggbb" string.
func (c Color) Hex() string {
	return c.Packed().Hex()
}

// String returns the hex form for RGB colors and the function form,
// e.g. "jch(0.1, 0.02, 120, 1)", for every other colorspace.
func (c Color) String() string {
	if c.Space == RGB {
		return c.Hex()
	}
	return fmt.Sprintf("%s(%s, %s, %s, %s)", c.Space,
		formatFloat(c.A), formatFloat(c.B), formatFloat(c.C), formatFloat(c.D))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Parse parses a color literal. Accepted forms are hex colors with 3, 4, 6, 8,
// 12 or 16 digits (alpha first when present) and the function syntax
// "space(a, b, c[, alpha])" for rgb, hsl, jzazbz and jch. The result keeps the
// colorspace it was written in.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty string", ErrParse)
	}
	if s[0] == '#' {
		return parseHex(s)
	}
	return parseFunc(s)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (Color, error) {
	digits := s[1:]

	var width, channels int
	switch len(digits) {
	case 3, 4:
		width, channels = 1, len(digits)
	case 6, 8:
		width, channels = 2, len(digits)/2
	case 12, 16:
		width, channels = 4, len(digits)/4
	default:
		return Color{}, fmt.Errorf("%w %q: must have 3, 4, 6, 8, 12 or 16 hex digits", ErrParse, s)
	}

	max := float64(uint64(1)<<(4*width) - 1)
	vals := make([]float64, channels)
	for i := range vals {
		chunk := digits[i*width : (i+1)*width]
		v, err := strconv.ParseUint(chunk, 16, 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: bad hex digit in %q", ErrParse, s, chunk)
		}
		vals[i] = float64(v) / max
	}

	if channels == 3 {
		return RGBA(vals[0], vals[1], vals[2], 1), nil
	}
	return RGBA(vals[1], vals[2], vals[3], vals[0]), nil
}

func parseFunc(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open || strings.TrimSpace(s[end+1:]) != "" {
		return Color{}, fmt.Errorf("%w %q: expected #hex or space(a, b, c[, alpha])", ErrParse, s)
	}

	space, err := ParseSpace(s[:open])
	if err != nil {
		return Color{}, fmt.Errorf("%w %q: %v", ErrParse, s, err)
	}

	args := strings.Split(s[open+1:end], ",")
	if len(args) != 3 && len(args) != 4 {
		return Color{}, fmt.Errorf("%w %q: expected 3 or 4 components, got %d", ErrParse, s, len(args))
	}

	vals := [4]float64{0, 0, 0, 1}
	for i, arg := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: component %d is not a number", ErrParse, s, i+1)
		}
		vals[i] = v
	}

	return Color{A: vals[0], B: vals[1], C: vals[2], D: vals[3], Space: space}, nil
}
