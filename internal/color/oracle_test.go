package color

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// go-colorful uses slightly different published sRGB matrix coefficients, so
// XYZ agreement is only checked to three decimals of the [0, 1] scale.
func TestAgreesWithColorful(t *testing.T) {
	hexes := []string{"#000000", "#ffffff", "#ff0000", "#7f3fff", "#12a4c8", "#e0e0e0", "#336699"}

	for _, hex := range hexes {
		t.Run(hex, func(t *testing.T) {
			ref, err := colorful.Hex(hex)
			if err != nil {
				t.Fatalf("colorful.Hex(%q): %v", hex, err)
			}
			c := MustParse(hex)

			x, y, z := ref.Xyz()
			xyz := c.Convert(XYZ)
			if !near(xyz.A/100, x, 1e-3) || !near(xyz.B/100, y, 1e-3) || !near(xyz.C/100, z, 1e-3) {
				t.Errorf("XYZ = %v %v %v, colorful = %v %v %v", xyz.A/100, xyz.B/100, xyz.C/100, x, y, z)
			}

			h, s, l := ref.Hsl()
			hsl := c.Convert(HSL)
			if s > 0 && !near(hsl.A, h, 1e-9) {
				t.Errorf("hue = %v, colorful = %v", hsl.A, h)
			}
			if !near(hsl.B, s, 1e-9) || !near(hsl.C, l, 1e-9) {
				t.Errorf("s, l = %v %v, colorful = %v %v", hsl.B, hsl.C, s, l)
			}
		})
	}
}
