package color

import (
	"fmt"
	"strings"
)

// Space identifies the colorspace a Color's components are expressed in.
type Space uint8

const (
	RGB Space = iota
	HSL
	Jzazbz
	Jch
	// XYZ is the pivot space used between the RGB and Jzazbz families.
	// It cannot be written in configuration files.
	XYZ
)

var spaceNames = [...]string{
	RGB:    "rgb",
	HSL:    "hsl",
	Jzazbz: "jzazbz",
	Jch:    "jch",
	XYZ:    "xyz",
}

func (s Space) String() string {
	if int(s) < len(spaceNames) {
		return spaceNames[s]
	}
	return fmt.Sprintf("Space(%d)", uint8(s))
}

// ParseSpace parses a user-facing colorspace name (rgb, hsl, jzazbz, jch),
// ignoring case and surrounding whitespace.
func ParseSpace(name string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rgb":
		return RGB, nil
	case "hsl":
		return HSL, nil
	case "jzazbz":
		return Jzazbz, nil
	case "jch":
		return Jch, nil
	}
	return 0, fmt.Errorf("unknown colorspace %q (valid: rgb, hsl, jzazbz, jch)", name)
}

// family groups spaces that convert into each other in a single step.
type family uint8

const (
	familyRGB family = iota
	familyJz
	familyXYZ
)

func (s Space) family() family {
	switch s {
	case RGB, HSL:
		return familyRGB
	case Jzazbz, Jch:
		return familyJz
	case XYZ:
		return familyXYZ
	}
	panic(fmt.Sprintf("color: unknown colorspace %d", uint8(s)))
}

// Convert returns c expressed in the target colorspace. Conversions within
// the RGB/HSL or Jzazbz/Jch families take a single step; everything else goes
// up to XYZ and back down, so at most one pivot is involved.
func (c Color) Convert(target Space) Color {
	if c.Space == target {
		return c
	}

	a, b, cc := c.A, c.B, c.C
	switch from, to := c.Space.family(), target.family(); {
	case from == to && from == familyRGB:
		if target == HSL {
			a, b, cc = RGBToHSL(a, b, cc)
		} else {
			a, b, cc = HSLToRGB(a, b, cc)
		}
	case from == to && from == familyJz:
		if target == Jch {
			a, b, cc = ABToCH(a, b, cc)
		} else {
			a, b, cc = CHToAB(a, b, cc)
		}
	default:
		a, b, cc = toXYZ(c.Space, a, b, cc)
		a, b, cc = fromXYZ(target, a, b, cc)
	}

	return Color{A: a, B: b, C: cc, D: c.D, Space: target}
}

func toXYZ(s Space, a, b, c float64) (x, y, z float64) {
	switch s {
	case HSL:
		a, b, c = HSLToRGB(a, b, c)
		fallthrough
	case RGB:
		return RGBToXYZ(a, b, c)
	case Jch:
		a, b, c = CHToAB(a, b, c)
		fallthrough
	case Jzazbz:
		return JzazbzToXYZ(a, b, c)
	}
	return a, b, c
}

func fromXYZ(s Space, x, y, z float64) (a, b, c float64) {
	switch s {
	case RGB:
		return XYZToRGB(x, y, z)
	case HSL:
		return RGBToHSL(XYZToRGB(x, y, z))
	case Jzazbz:
		return XYZToJzazbz(x, y, z)
	case Jch:
		return ABToCH(XYZToJzazbz(x, y, z))
	}
	return x, y, z
}
