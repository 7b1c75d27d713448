package mathutil

// Bessel approximation switch points.
const (
	besselSmallArgThreshold = 3.75 // polynomial vs asymptotic form
	besselTinyArgThreshold  = 1e-10

	kaiserBetaMinThreshold = 0.1
)

// Abramowitz & Stegun 9.8.1, |x| < 3.75.
const (
	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2
)

// Abramowitz & Stegun 9.8.2, |x| >= 3.75.
const (
	besselI0AsympCoeff0 = 0.39894228
	besselI0AsympCoeff1 = 0.1328592e-1
	besselI0AsympCoeff2 = 0.225319e-2
	besselI0AsympCoeff3 = -0.157565e-2
	besselI0AsympCoeff4 = 0.916281e-2
	besselI0AsympCoeff5 = -0.2057706e-1
	besselI0AsympCoeff6 = 0.2635537e-1
	besselI0AsympCoeff7 = -0.1647633e-1
	besselI0AsympCoeff8 = 0.392377e-2
)

// Abramowitz & Stegun 9.8.3, |x| < 3.75.
const (
	besselI1Coeff0 = 0.5
	besselI1Coeff1 = 0.87890594
	besselI1Coeff2 = 0.51498869
	besselI1Coeff3 = 0.15084934
	besselI1Coeff4 = 0.2658733e-1
	besselI1Coeff5 = 0.301532e-2
	besselI1Coeff6 = 0.32411e-3
)

// Abramowitz & Stegun 9.8.4, |x| >= 3.75.
const (
	besselI1AsympCoeff0 = 0.39894228
	besselI1AsympCoeff1 = -0.3988024e-1
	besselI1AsympCoeff2 = -0.362018e-2
	besselI1AsympCoeff3 = 0.163801e-2
	besselI1AsympCoeff4 = -0.1031555e-1
	besselI1AsympCoeff5 = 0.2282967e-1
	besselI1AsympCoeff6 = -0.2895312e-1
	besselI1AsympCoeff7 = 0.1787654e-1
	besselI1AsympCoeff8 = -0.420059e-2
)

// Kaiser & Schafer β formula.
const (
	kaiserAttHigh   = 50.0
	kaiserAttMedium = 21.0

	kaiserBetaHighCoeff1 = 0.1102
	kaiserBetaHighOffset = 8.7

	kaiserBetaMediumCoeff1 = 0.5842
	kaiserBetaMediumPower  = 0.4
	kaiserBetaMediumCoeff2 = 0.07886
)

// Kaiser tap estimate: N ≈ (att - 8) / (2.285 · 2π · Δf).
const (
	kaiserFilterLengthOffset     = 8.0
	kaiserFilterLengthMultiplier = 2.285
	kaiserFilterLengthPiFactor   = 2.0

	minFilterLength = 3
	maxFilterLength = 8191

	defaultTransitionBW = 0.01
)

const halfDivisor = 2.0
