// Package engine drives a particle field from a set of sounding notes.
//
// Each [Engine.Tick] takes one snapshot of the notes, maps them to modes,
// applies the silence policy and steps the field once. [Engine.Run] wraps
// the tick in a cancellable loop that can replay a scripted score.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/notes"
	"github.com/san-kum/cymatics/internal/score"
)

type Engine struct {
	field     *chladni.Field
	notes     Snapshotter
	opts      Options
	metrics   []Metric
	observers []Observer
	frame     int
}

func New(field *chladni.Field, src Snapshotter, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		field:     field,
		notes:     src,
		opts:      opts,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Field() *chladni.Field { return e.field }
func (e *Engine) Options() Options      { return e.opts }
func (e *Engine) FrameIndex() int       { return e.frame }

func (e *Engine) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	e.opts = opts
	return nil
}

// Modes maps a snapshot to the modes the field will use, after the
// silence policy.
func (e *Engine) Modes(snap []notes.Note) []chladni.Mode {
	if len(snap) == 0 {
		if e.opts.Silence == SilenceFallback {
			return []chladni.Mode{e.opts.Mapper.Map(e.opts.FallbackFrequency)}
		}
		return nil
	}
	return e.opts.Mapper.MapAll(notes.Frequencies(snap))
}

// Tick advances the field by one frame.
func (e *Engine) Tick() Frame {
	start := time.Now()

	snap := e.notes.Snapshot()
	modes := e.Modes(snap)
	e.field.Step(modes)

	pos := e.field.Positions()
	meanLift, maxLift := liftStats(pos)

	f := Frame{
		Index:    e.frame,
		Notes:    snap,
		Modes:    modes,
		Silent:   len(snap) == 0,
		MeanLift: meanLift,
		MaxLift:  maxLift,
		Elapsed:  time.Since(start),
	}
	e.frame++

	for _, m := range e.metrics {
		m.Observe(f, pos)
	}
	for _, obs := range e.observers {
		obs.OnFrame(f, pos)
	}
	return f
}

func liftStats(pos []float64) (mean, peak float64) {
	n := len(pos) / chladni.Stride
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for i := 2; i < len(pos); i += chladni.Stride {
		z := pos[i]
		sum += z
		if z > peak {
			peak = z
		}
	}
	return sum / float64(n), peak
}

// RunConfig controls a headless run. When Sequencer is set its events are
// applied to Target before each tick.
type RunConfig struct {
	Frames    int
	Sequencer *score.Sequencer
	Target    score.Target
}

func (e *Engine) validateConfig(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return ErrInvalidFrames
	}
	if cfg.Sequencer != nil && cfg.Target == nil {
		return ErrNoTarget
	}
	return nil
}

// Run ticks cfg.Frames times. Cancellation is checked between frames; on
// cancel the partial result is returned with ctx.Err().
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := e.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Records: make([]FrameRecord, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		result.Positions = append([]float64(nil), e.field.Positions()...)
		for _, m := range e.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.Sequencer != nil {
			if _, err := cfg.Sequencer.Apply(e.frame, cfg.Target); err != nil {
				return result, err
			}
		}

		f := e.Tick()
		result.Records = append(result.Records, f.Record())
		result.Frames++
	}

	slog.Debug("run finished", "frames", result.Frames, "particles", e.field.Len(), "elapsed", time.Since(start))
	return result, nil
}

// RunWithCallback ticks until fn returns false or ctx is done.
func (e *Engine) RunWithCallback(ctx context.Context, fn func(Frame, []float64) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f := e.Tick()
		if !fn(f, e.field.Positions()) {
			return nil
		}
	}
}
