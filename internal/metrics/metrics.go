// Package metrics summarises a run frame by frame.
package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/engine"
)

// MeanLift averages the per-frame mean z.
type MeanLift struct {
	lifts []float64
}

func NewMeanLift() *MeanLift { return &MeanLift{} }

func (m *MeanLift) Name() string { return "mean_lift" }

func (m *MeanLift) Observe(f engine.Frame, _ []float64) {
	m.lifts = append(m.lifts, f.MeanLift)
}

func (m *MeanLift) Value() float64 {
	if len(m.lifts) == 0 {
		return 0
	}
	return stat.Mean(m.lifts, nil)
}

func (m *MeanLift) Reset() { m.lifts = m.lifts[:0] }

// Spread tracks how scattered the particles are: the standard deviation
// of x and of y, averaged, then averaged over frames. A uniform scatter on
// [-1, 1] gives about 0.577; particles packed onto nodal lines give less.
type Spread struct {
	xs, ys  []float64
	samples []float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(_ engine.Frame, positions []float64) {
	n := len(positions) / chladni.Stride
	if n < 2 {
		return
	}
	s.xs = s.xs[:0]
	s.ys = s.ys[:0]
	for i := 0; i < len(positions); i += chladni.Stride {
		s.xs = append(s.xs, positions[i])
		s.ys = append(s.ys, positions[i+1])
	}
	sx := stat.PopStdDev(s.xs, nil)
	sy := stat.PopStdDev(s.ys, nil)
	s.samples = append(s.samples, (sx+sy)/2)
}

func (s *Spread) Value() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

func (s *Spread) Reset() { s.samples = s.samples[:0] }

// Stillness is the fraction of frames with no note sounding.
type Stillness struct {
	silent, frames int
}

func NewStillness() *Stillness { return &Stillness{} }

func (s *Stillness) Name() string { return "stillness" }

func (s *Stillness) Observe(f engine.Frame, _ []float64) {
	s.frames++
	if f.Silent {
		s.silent++
	}
}

func (s *Stillness) Value() float64 {
	if s.frames == 0 {
		return 0
	}
	return float64(s.silent) / float64(s.frames)
}

func (s *Stillness) Reset() { s.silent, s.frames = 0, 0 }

// Polyphony is the mean number of sounding notes per frame.
type Polyphony struct {
	counts []float64
}

func NewPolyphony() *Polyphony { return &Polyphony{} }

func (p *Polyphony) Name() string { return "polyphony" }

func (p *Polyphony) Observe(f engine.Frame, _ []float64) {
	p.counts = append(p.counts, float64(len(f.Notes)))
}

func (p *Polyphony) Value() float64 {
	if len(p.counts) == 0 {
		return 0
	}
	return floats.Sum(p.counts) / float64(len(p.counts))
}

func (p *Polyphony) Reset() { p.counts = p.counts[:0] }

// NodalShare is the fraction of particles walking at the MinWalk floor,
// averaged over frames where the field moved. Those particles sit on or
// near a nodal line.
type NodalShare struct {
	floor  float64
	shares []float64
}

func NewNodalShare(p chladni.Params) *NodalShare {
	return &NodalShare{floor: p.MinWalk * p.Lift}
}

func (n *NodalShare) Name() string { return "nodal_share" }

func (n *NodalShare) Observe(f engine.Frame, positions []float64) {
	if len(f.Modes) == 0 {
		return
	}
	count := len(positions) / chladni.Stride
	if count == 0 {
		return
	}
	onFloor := 0
	for i := 2; i < len(positions); i += chladni.Stride {
		if positions[i] <= n.floor {
			onFloor++
		}
	}
	n.shares = append(n.shares, float64(onFloor)/float64(count))
}

func (n *NodalShare) Value() float64 {
	if len(n.shares) == 0 {
		return 0
	}
	return stat.Mean(n.shares, nil)
}

func (n *NodalShare) Reset() { n.shares = n.shares[:0] }

// Defaults returns the standard set attached to every run.
func Defaults(p chladni.Params) []engine.Metric {
	return []engine.Metric{
		NewMeanLift(),
		NewSpread(),
		NewStillness(),
		NewPolyphony(),
		NewNodalShare(p),
	}
}
