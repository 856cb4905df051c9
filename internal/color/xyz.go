package color

import "math"

// RGBToXYZ converts gamma-encoded sRGB in [0, 1] to CIE XYZ (D65), scaled so
// that white has Y = 100.
func RGBToXYZ(r, g, b float64) (x, y, z float64) {
	r, g, b = srgbToLinear(r), srgbToLinear(g), srgbToLinear(b)

	x = 41.23865632529916*r + 35.75914909206253*g + 18.045049120356364*b
	y = 21.26368216773238*r + 71.51829818412506*g + 7.218019648142546*b
	z = 1.9330620152483982*r + 11.919716364020843*g + 95.03725870054352*b
	return x, y, z
}

// XYZToRGB is the inverse of RGBToXYZ. Out-of-gamut results are not clamped.
func XYZToRGB(x, y, z float64) (r, g, b float64) {
	r = 0.03241003232976359*x - 0.015373989694887858*y - 0.004986158819963629*z
	g = -0.009692242522025166*x + 0.01875929983695176*y + 0.00041554226340084706*z
	b = 0.0005563941985197545*x - 0.0020401120612391*y + 0.010571489771875336*z
	return linearToSRGB(r), linearToSRGB(g), linearToSRGB(b)
}

// srgbToLinear converts a single sRGB component [0,1] to linear RGB.
func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// linearToSRGB converts a single linear RGB component [0,1] to sRGB.
func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}
