package chladni

import "math"

// Coefficients weight the two symmetric terms of the eigenfunction.
type Coefficients struct {
	A, B float64
}

var DefaultCoefficients = Coefficients{A: 1, B: 1}

// Evaluate returns a·sin(πnu)·sin(πmv) + b·sin(πmu)·sin(πnv) where u and v
// are x and y remapped from [-1, 1] to [0, 1].
func Evaluate(x, y, a, b, m, n float64) float64 {
	u := (x + 1) / 2
	v := (y + 1) / 2
	return a*math.Sin(math.Pi*n*u)*math.Sin(math.Pi*m*v) +
		b*math.Sin(math.Pi*m*u)*math.Sin(math.Pi*n*v)
}

// MeanValue averages Evaluate over modes so the displacement stays bounded
// as notes are added. Zero modes yield 0.
func MeanValue(x, y float64, c Coefficients, modes []Mode) float64 {
	if len(modes) == 0 {
		return 0
	}
	sum := 0.0
	for _, md := range modes {
		sum += Evaluate(x, y, c.A, c.B, md.M, md.N)
	}
	return sum / float64(len(modes))
}
