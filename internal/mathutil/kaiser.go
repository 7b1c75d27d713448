package mathutil

import "math"

// KaiserBeta returns the Kaiser β for a desired stopband attenuation in dB
// (Kaiser & Schafer):
//
//	att > 50:        0.1102 * (att - 8.7)
//	21 <= att <= 50: 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//	otherwise:       0
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	case attenuation >= kaiserAttMedium:
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	default:
		return 0
	}
}

// KaiserAttenuation approximately inverts KaiserBeta in its high-attenuation
// branch.
func KaiserAttenuation(beta float64) float64 {
	if beta < kaiserBetaMinThreshold {
		return 0
	}
	return kaiserBetaHighOffset + beta/kaiserBetaHighCoeff1
}

// EstimateTaps returns the odd number of taps a Kaiser-windowed sinc needs
// for the given attenuation (dB) and transition bandwidth (fraction of the
// sample rate), clamped to [3, 8191].
func EstimateTaps(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		transitionBW = defaultTransitionBW
	}

	n := (attenuation - kaiserFilterLengthOffset) /
		(kaiserFilterLengthMultiplier * kaiserFilterLengthPiFactor * math.Pi * transitionBW)

	taps := int(math.Ceil(n))
	if taps%2 == 0 {
		taps++
	}
	return min(max(taps, minFilterLength), maxFilterLength)
}

// KaiserTaper evaluates the continuous Kaiser window I0(β·sqrt(1-u²))/I0(β)
// at normalized position u ∈ [-1, 1] together with its derivative d/du.
// Outside that interval both are zero.
func KaiserTaper(u, beta float64) (w, dw float64) {
	if u < -1 || u > 1 {
		return 0, 0
	}

	i0Beta := BesselI0(beta)
	z := beta * math.Sqrt(1-u*u)

	// d/du I0(z) = I1(z) * dz/du = -β² u * I1(z)/z
	w = BesselI0(z) / i0Beta
	dw = -beta * beta * u * BesselI1OverX(z) / i0Beta
	return w, dw
}
