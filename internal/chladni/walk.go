package chladni

import (
	"math"
	"math/rand"
)

const (
	// Stride is the number of floats per particle: x, y, z.
	Stride = 3

	// ParallelThreshold is the particle count above which Update splits the
	// buffer across goroutines.
	ParallelThreshold = 4096

	DefaultVibrationStrength = 0.02
	DefaultMinWalk           = 0.002
	DefaultLift              = 0.1
)

// Params gates the size of the walk and of the cosmetic lift.
type Params struct {
	VibrationStrength float64
	MinWalk           float64
	Lift              float64
	Coefficients      Coefficients
}

func DefaultParams() Params {
	return Params{
		VibrationStrength: DefaultVibrationStrength,
		MinWalk:           DefaultMinWalk,
		Lift:              DefaultLift,
		Coefficients:      DefaultCoefficients,
	}
}

func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"vibration_strength", p.VibrationStrength},
		{"min_walk", p.MinWalk},
		{"lift", p.Lift},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return &ParamError{Name: c.name, Value: c.v, Wrapped: ErrParameterBounds}
		}
	}
	if math.IsNaN(p.Coefficients.A) || math.IsNaN(p.Coefficients.B) {
		return &ParamError{Name: "coefficients", Value: math.NaN(), Wrapped: ErrParameterBounds}
	}
	return nil
}

// Source is the random stream driving the walk. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Int63() int64
}

// NewSource returns a seeded source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Amplitude is the walk size for a field value, floored at MinWalk.
func Amplitude(value float64, p Params) float64 {
	amp := p.VibrationStrength * math.Abs(value)
	if amp <= p.MinWalk {
		amp = p.MinWalk
	}
	return amp
}

// Clamp limits v to [-1, 1].
func Clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// StepParticle moves one particle given the field value at its position.
// x is perturbed before y, each by an independent draw from rng.
func StepParticle(x, y, value float64, p Params, rng Source) (float64, float64, float64) {
	amp := Amplitude(value, p)
	x += (rng.Float64() - 0.5) * amp * 2
	y += (rng.Float64() - 0.5) * amp * 2
	return Clamp(x), Clamp(y), amp * p.Lift
}

// Update advances every particle in positions by one frame. With no modes
// the field is silent: x and y are left alone and z is zeroed.
func Update(positions []float64, modes []Mode, p Params, rng Source) {
	n := len(positions) / Stride
	if len(modes) == 0 {
		for i := 0; i < n; i++ {
			positions[i*Stride+2] = 0
		}
		return
	}

	chunks := Chunks(n, ParallelThreshold)
	if chunks == 1 {
		walkRange(positions, 0, n, modes, p, rng)
		return
	}

	// Seeds are drawn in chunk order so a seeded source reproduces the
	// same frame however the goroutines get scheduled.
	seeds := make([]int64, chunks)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	ParallelFor(n, ParallelThreshold, func(chunk, start, end int) {
		walkRange(positions, start, end, modes, p, NewSource(seeds[chunk]))
	})
}

func walkRange(positions []float64, start, end int, modes []Mode, p Params, rng Source) {
	for i := start; i < end; i++ {
		j := i * Stride
		x, y := positions[j], positions[j+1]
		v := MeanValue(x, y, p.Coefficients, modes)
		positions[j], positions[j+1], positions[j+2] = StepParticle(x, y, v, p, rng)
	}
}
