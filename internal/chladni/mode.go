package chladni

import (
	"fmt"
	"math"
)

const (
	// DefaultMaxM bounds the linear estimate of m across the band.
	DefaultMaxM = 16.0
	// DefaultScaleFactor is the number of m steps per octave above the band floor.
	DefaultScaleFactor = 2.0
	// DefaultFrequency is A4, used when a caller needs a pitch and none is sounding.
	DefaultFrequency = 440.0
)

var (
	// ToneBand is the reference band of the plain tone generator.
	ToneBand = Band{Min: 50, Max: 5000}
	// KeyboardBand spans C3 to D#6, the range of the musical keyboard.
	KeyboardBand = Band{Min: 130.81, Max: 1244.51}
)

// Mode is a pair of spatial frequencies for the eigenfunction. The values
// are real, not integers: the mapper averages two integer estimates.
type Mode struct {
	M, N float64
}

func (m Mode) String() string {
	return fmt.Sprintf("(m=%g, n=%g)", m.M, m.N)
}

// Band is a reference frequency range in Hz.
type Band struct {
	Min, Max float64
}

func (b Band) Width() float64 { return b.Max - b.Min }

func (b Band) Contains(f float64) bool { return f >= b.Min && f <= b.Max }

func (b Band) Validate() error {
	if !(b.Min > 0) || !(b.Max > b.Min) || math.IsInf(b.Max, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidBand, b.Min, b.Max)
	}
	return nil
}

// Mapper turns a frequency into a Mode.
type Mapper struct {
	Band        Band
	MaxM        float64
	ScaleFactor float64
}

func NewMapper(band Band) Mapper {
	return Mapper{Band: band, MaxM: DefaultMaxM, ScaleFactor: DefaultScaleFactor}
}

func ToneMapper() Mapper     { return NewMapper(ToneBand) }
func KeyboardMapper() Mapper { return NewMapper(KeyboardBand) }

// Map returns the mode pair for f. Frequencies below the band floor are
// accepted and produce small or negative components from the log estimate.
func (mp Mapper) Map(f float64) Mode {
	t := (f - mp.Band.Min) / mp.Band.Width()
	m1 := math.Floor(t*mp.MaxM) + 1
	n1 := math.Floor(t*mp.MaxM/2) + 1

	octaves := math.Log2(f / mp.Band.Min)
	m2 := math.Floor(mp.ScaleFactor*octaves) + 1
	n2 := math.Floor(mp.ScaleFactor/2*octaves) + 1

	return Mode{M: (m1 + m2) / 2, N: (n1 + n2) / 2}
}

// MapAll maps each frequency independently, preserving order.
func (mp Mapper) MapAll(freqs []float64) []Mode {
	if len(freqs) == 0 {
		return nil
	}
	modes := make([]Mode, len(freqs))
	for i, f := range freqs {
		modes[i] = mp.Map(f)
	}
	return modes
}

func (mp Mapper) Validate() error {
	if err := mp.Band.Validate(); err != nil {
		return err
	}
	if !(mp.MaxM > 0) {
		return &ParamError{Name: "max_m", Value: mp.MaxM, Wrapped: ErrParameterBounds}
	}
	if !(mp.ScaleFactor > 0) {
		return &ParamError{Name: "scale_factor", Value: mp.ScaleFactor, Wrapped: ErrParameterBounds}
	}
	return nil
}
