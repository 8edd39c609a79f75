package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/notes"
)

var (
	ErrInvalidFrames   = errors.New("engine: frames must be positive")
	ErrNoTarget        = errors.New("engine: sequencer needs a note target")
	ErrInvalidFallback = errors.New("engine: fallback frequency must be positive")
	ErrUnknownPolicy   = errors.New("engine: unknown silence policy")
)

// Snapshotter supplies the sounding notes once per frame.
// *notes.Registry satisfies it.
type Snapshotter interface {
	Snapshot() []notes.Note
}

// SilencePolicy decides what the field does when no note is sounding.
type SilencePolicy int

const (
	// SilenceFreeze stops the walk: x and y hold and the lift drops to zero.
	SilenceFreeze SilencePolicy = iota
	// SilenceFallback keeps walking as if the fallback frequency were held.
	SilenceFallback
)

func (p SilencePolicy) String() string {
	switch p {
	case SilenceFreeze:
		return "freeze"
	case SilenceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("SilencePolicy(%d)", int(p))
	}
}

func ParseSilencePolicy(s string) (SilencePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "freeze":
		return SilenceFreeze, nil
	case "fallback", "legacy":
		return SilenceFallback, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

type Options struct {
	Mapper            chladni.Mapper
	Silence           SilencePolicy
	FallbackFrequency float64
}

func DefaultOptions() Options {
	return Options{
		Mapper:            chladni.KeyboardMapper(),
		Silence:           SilenceFreeze,
		FallbackFrequency: chladni.DefaultFrequency,
	}
}

func (o Options) Validate() error {
	if err := o.Mapper.Validate(); err != nil {
		return err
	}
	if o.Silence == SilenceFallback && !(o.FallbackFrequency > 0) {
		return fmt.Errorf("%w: %g", ErrInvalidFallback, o.FallbackFrequency)
	}
	return nil
}

// Frame describes one completed tick.
type Frame struct {
	Index    int
	Notes    []notes.Note
	Modes    []chladni.Mode
	Silent   bool
	MeanLift float64
	MaxLift  float64
	Elapsed  time.Duration
}

// Metric accumulates a summary value over frames.
type Metric interface {
	Name() string
	Observe(f Frame, positions []float64)
	Value() float64
	Reset()
}

// Observer sees every frame after the field has been stepped. positions
// is the live buffer and must not be retained.
type Observer interface {
	OnFrame(f Frame, positions []float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame, positions []float64)

func (fn ObserverFunc) OnFrame(f Frame, positions []float64) { fn(f, positions) }

// FrameRecord is the persisted row for one frame.
type FrameRecord struct {
	Frame     int     `csv:"frame" json:"frame"`
	Notes     int     `csv:"notes" json:"notes"`
	Silent    bool    `csv:"silent" json:"silent"`
	MeanM     float64 `csv:"mean_m" json:"mean_m"`
	MeanN     float64 `csv:"mean_n" json:"mean_n"`
	MeanLift  float64 `csv:"mean_lift" json:"mean_lift"`
	MaxLift   float64 `csv:"max_lift" json:"max_lift"`
	ElapsedUS int64   `csv:"elapsed_us" json:"elapsed_us"`
}

func (f Frame) Record() FrameRecord {
	r := FrameRecord{
		Frame:     f.Index,
		Notes:     len(f.Notes),
		Silent:    f.Silent,
		MeanLift:  f.MeanLift,
		MaxLift:   f.MaxLift,
		ElapsedUS: f.Elapsed.Microseconds(),
	}
	if len(f.Modes) > 0 {
		for _, m := range f.Modes {
			r.MeanM += m.M
			r.MeanN += m.N
		}
		r.MeanM /= float64(len(f.Modes))
		r.MeanN /= float64(len(f.Modes))
	}
	return r
}

type Result struct {
	Records   []FrameRecord
	Metrics   map[string]float64
	Positions []float64
	Frames    int
	Elapsed   time.Duration
}

// Lifts returns the mean lift of every recorded frame.
func (r *Result) Lifts() []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.MeanLift
	}
	return out
}
