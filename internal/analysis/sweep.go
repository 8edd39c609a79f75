package analysis

import (
	"math"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/notes"
)

// SweepPoint is the mode a mapper assigns to one frequency.
type SweepPoint struct {
	Frequency float64 `json:"frequency" csv:"frequency"`
	Note      string  `json:"note" csv:"note"`
	M         float64 `json:"m" csv:"m"`
	N         float64 `json:"n" csv:"n"`
}

// Sweep maps steps frequencies spaced geometrically from lo to hi, so each
// octave gets the same number of samples.
func Sweep(mp chladni.Mapper, lo, hi float64, steps int) []SweepPoint {
	if steps <= 1 {
		steps = 2 // Prevent division by zero
	}
	if lo <= 0 || hi <= lo {
		return nil
	}

	ratio := hi / lo
	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		f := lo * math.Pow(ratio, float64(i)/float64(steps-1))
		mode := mp.Map(f)
		points = append(points, SweepPoint{
			Frequency: f,
			Note:      NearestNote(f),
			M:         mode.M,
			N:         mode.N,
		})
	}
	return points
}

// Transitions keeps the first point and every point whose mode differs
// from the one before it.
func Transitions(points []SweepPoint) []SweepPoint {
	out := make([]SweepPoint, 0, len(points))
	for i, p := range points {
		if i == 0 || p.M != points[i-1].M || p.N != points[i-1].N {
			out = append(out, p)
		}
	}
	return out
}

// NearestNote names the equal-tempered pitch closest to f.
func NearestNote(f float64) string {
	midi := int(math.Round(notes.A4Midi + 12*math.Log2(f/notes.A4Frequency)))
	return notes.Name(midi)
}
