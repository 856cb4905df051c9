package color

import (
	"fmt"
	"strings"
)

// Property is a color attribute that can be edited in a perceptual space.
type Property uint8

const (
	Lightness Property = iota
	Chroma
	Hue
	Opacity
)

// PropertyAliases lists every accepted property name.
var PropertyAliases = map[string]Property{
	"lum":        Lightness,
	"lightness":  Lightness,
	"luminosity": Lightness,
	"chroma":     Chroma,
	"sat":        Chroma,
	"saturation": Chroma,
	"hue":        Hue,
	"alpha":      Opacity,
	"opacity":    Opacity,
}

// ParseProperty looks a property up by alias, ignoring case and whitespace.
func ParseProperty(name string) (Property, bool) {
	p, ok := PropertyAliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Edit is a single "property op amount" adjustment.
type Edit struct {
	Property Property
	Op       byte // one of + - * / =
	Amount   float64
}

// Operators holds the accepted Edit operators.
const Operators = "+-*/="

func (e Edit) apply(v float64) float64 {
	switch e.Op {
	case '+':
		return v + e.Amount
	case '-':
		return v - e.Amount
	case '*':
		return v * e.Amount
	case '/':
		return v / e.Amount
	case '=':
		return e.Amount
	}
	panic(fmt.Sprintf("color: unknown operator %q", e.Op))
}

// Adjust applies edits in order and returns the result in RGB. Lightness
// edits work on Jz; chroma and hue edits switch to Jch.
func Adjust(c Color, edits ...Edit) Color {
	target := Jzazbz
	for _, e := range edits {
		if e.Property == Chroma || e.Property == Hue {
			target = Jch
			break
		}
	}

	p := c.Convert(target)
	for _, e := range edits {
		switch e.Property {
		case Lightness:
			p.A = e.apply(p.A)
		case Chroma:
			p.B = e.apply(p.B)
		case Hue:
			p.C = e.apply(p.C)
		case Opacity:
			p.D = e.apply(p.D)
		}
	}
	return p.Convert(RGB)
}
