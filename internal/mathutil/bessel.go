// Package mathutil provides the special functions behind the Kaiser taper.
package mathutil

import (
	"math"
)

// BesselI0 returns the modified Bessel function of the first kind, order
// zero. Polynomial fits from Abramowitz & Stegun 9.8.1/9.8.2 are used below
// and above |x| = 3.75; relative error is around 1e-7.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArgThreshold / ax
	p := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * p / math.Sqrt(ax)
}

// besselI1 returns the modified Bessel function of the first kind, order one
// (A&S 9.8.3/9.8.4). It is odd: I1(-x) = -I1(x).
func besselI1(x float64) float64 {
	ax := math.Abs(x)

	var result float64
	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		result = ax * (besselI1Coeff0 + t*(besselI1Coeff1+t*(besselI1Coeff2+
			t*(besselI1Coeff3+t*(besselI1Coeff4+t*(besselI1Coeff5+
				t*besselI1Coeff6))))))
	} else {
		t := besselSmallArgThreshold / ax
		p := besselI1AsympCoeff0 + t*(besselI1AsympCoeff1+t*(besselI1AsympCoeff2+
			t*(besselI1AsympCoeff3+t*(besselI1AsympCoeff4+t*(besselI1AsympCoeff5+
				t*(besselI1AsympCoeff6+t*(besselI1AsympCoeff7+t*besselI1AsympCoeff8)))))))
		result = math.Exp(ax) * p / math.Sqrt(ax)
	}

	if x < 0 {
		return -result
	}
	return result
}

// BesselI1OverX returns I1(x)/x, continuous through x = 0 where it equals 1/2.
// It appears in the derivative of I0(sqrt(...)) terms.
func BesselI1OverX(x float64) float64 {
	if math.Abs(x) < besselTinyArgThreshold {
		return 1.0 / halfDivisor
	}
	return besselI1(x) / x
}
