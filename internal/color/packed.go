package color

import (
	"fmt"
	"math"
)

// Packed is the compact 32-bit ARGB form used at the rendering boundary.
// It is always RGB.
type Packed uint32

// Packed projects c to RGB and quantizes every channel to 8 bits as
// floor(v * 256) clamped to [0, 255], which maps every 8-bit channel parsed
// from hex back to itself.
func (c Color) Packed() Packed {
	rgb := c.Convert(RGB)
	return Packed(quantize(rgb.D)<<24 | quantize(rgb.A)<<16 | quantize(rgb.B)<<8 | quantize(rgb.C))
}

func quantize(v float64) uint32 {
	if math.IsNaN(v) {
		return 0
	}
	q := math.Floor(v * 256)
	if q < 0 {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint32(q)
}

func (p Packed) Alpha() uint8 { return uint8(p >> 24) }
func (p Packed) Red() uint8   { return uint8(p >> 16) }
func (p Packed) Green() uint8 { return uint8(p >> 8) }
func (p Packed) Blue() uint8  { return uint8(p) }

// Color widens p back to an RGB Color.
func (p Packed) Color() Color {
	return RGBA(
		float64(p.Red())/255,
		float64(p.Green())/255,
		float64(p.Blue())/255,
		float64(p.Alpha())/255,
	)
}

// Hex returns "#aarrggbb".
func (p Packed) Hex() string {
	return fmt.Sprintf("#%08x", uint32(p))
}

// Short returns the shortest hex literal that parses back to p: opaque colors
// drop the alpha byte, and "#rrggbb" with doubled digits collapses to "#rgb".
func (p Packed) Short() string {
	if p.Alpha() != 0xff {
		return p.Hex()
	}
	rgb := fmt.Sprintf("%06x", uint32(p)&0xffffff)
	if rgb[0] == rgb[1] && rgb[2] == rgb[3] && rgb[4] == rgb[5] {
		return "#" + rgb[0:1] + rgb[2:3] + rgb[4:5]
	}
	return "#" + rgb
}
