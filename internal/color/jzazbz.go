package color

import "math"

// Jzazbz constants (Safdar et al. 2017). The b and g pre-adaptation factors
// are folded into the LMS matrices below.
const (
	pqC1 = 0.8359375
	pqC2 = 18.8515625
	pqC3 = 18.6875
	pqN  = 0.1593017578125
	pqP  = 134.034375

	jzD0 = 1.6295499532821566e-11
)

// perceptualQuantizer applies the PQ curve to an absolute luminance.
func perceptualQuantizer(x float64) float64 {
	xx := math.Pow(math.Max(x, 0)*1e-4, pqN)
	return math.Pow((pqC1+pqC2*xx)/(1+pqC3*xx), pqP)
}

// inversePerceptualQuantizer undoes perceptualQuantizer. Values that fall
// just outside the curve's domain through rounding map to 0 instead of NaN.
func inversePerceptualQuantizer(x float64) float64 {
	xx := math.Pow(math.Max(x, 0), 1/pqP)
	return 1e4 * math.Pow(math.Max((pqC1-xx)/(pqC3*xx-pqC2), 0), 1/pqN)
}

// XYZToJzazbz converts XYZ (white at Y = 100) to Jzazbz.
func XYZToJzazbz(x, y, z float64) (jz, az, bz float64) {
	lp := perceptualQuantizer(0.674207838*x + 0.382799340*y - 0.047570458*z)
	mp := perceptualQuantizer(0.149284160*x + 0.739628340*y + 0.083327300*z)
	sp := perceptualQuantizer(0.070941080*x + 0.174768000*y + 0.670970020*z)

	iz := 0.5 * (lp + mp)
	az = 3.524000*lp - 4.066708*mp + 0.542708*sp
	bz = 0.199076*lp + 1.096799*mp - 1.295875*sp
	jz = (0.44*iz)/(1-0.56*iz) - jzD0
	return jz, az, bz
}

// JzazbzToXYZ is the inverse of XYZToJzazbz.
func JzazbzToXYZ(jz, az, bz float64) (x, y, z float64) {
	j := jz + jzD0
	iz := j / (0.44 + 0.56*j)

	l := inversePerceptualQuantizer(iz + 1.386050432715393e-1*az + 5.804731615611869e-2*bz)
	m := inversePerceptualQuantizer(iz - 1.386050432715393e-1*az - 5.804731615611891e-2*bz)
	s := inversePerceptualQuantizer(iz - 9.601924202631895e-2*az - 8.118918960560390e-1*bz)

	x = 1.661373055774069e+00*l - 9.145230923250668e-01*m + 2.313620767186147e-01*s
	y = -3.250758740427037e-01*l + 1.571847038366936e+00*m - 2.182538318672940e-01*s
	z = -9.098281098284756e-02*l - 3.127282905230740e-01*m + 1.522766561305260e+00*s
	return x, y, z
}

// ABToCH converts rectangular (a, b) opponent coordinates to chroma and hue.
// Hue is in degrees [0, 360). The lightness component passes through.
func ABToCH(j, a, b float64) (jz, chroma, hue float64) {
	hue = math.Atan2(b, a) * (180.0 / math.Pi)
	if hue < 0 {
		hue += 360.0
	}
	return j, math.Sqrt(a*a + b*b), hue
}

// CHToAB is the inverse of ABToCH. Hue may be any angle in degrees.
func CHToAB(j, chroma, hue float64) (jz, a, b float64) {
	hRad := hue * (math.Pi / 180.0)
	return j, chroma * math.Cos(hRad), chroma * math.Sin(hRad)
}
