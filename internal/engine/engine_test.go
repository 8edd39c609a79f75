package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/notes"
	"github.com/san-kum/cymatics/internal/score"
)

func newTestEngine(t *testing.T, count int, seed int64, opts Options) (*Engine, *notes.Registry) {
	t.Helper()
	field, err := chladni.NewField(count, chladni.DefaultParams(), chladni.NewSource(seed))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	reg := notes.NewRegistry()
	eng, err := New(field, reg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, reg
}

type frameCounter struct{ n int }

func (c *frameCounter) Name() string                 { return "frames" }
func (c *frameCounter) Observe(_ Frame, _ []float64) { c.n++ }
func (c *frameCounter) Value() float64               { return float64(c.n) }
func (c *frameCounter) Reset()                       { c.n = 0 }

func TestTickFreezesOnSilence(t *testing.T) {
	eng, _ := newTestEngine(t, 300, 1, DefaultOptions())
	before := append([]float64(nil), eng.Field().Positions()...)

	for i := 0; i < 10; i++ {
		f := eng.Tick()
		if !f.Silent || f.Modes != nil {
			t.Fatalf("frame %d: expected silent frame with no modes, got %+v", i, f)
		}
		if f.MeanLift != 0 || f.MaxLift != 0 {
			t.Fatalf("frame %d: expected zero lift, got mean %g max %g", i, f.MeanLift, f.MaxLift)
		}
	}

	after := eng.Field().Positions()
	for i := 0; i < len(after); i += chladni.Stride {
		if after[i] != before[i] || after[i+1] != before[i+1] {
			t.Fatalf("particle %d moved during silence", i/chladni.Stride)
		}
	}
}

func TestTickFallbackKeepsWalking(t *testing.T) {
	opts := DefaultOptions()
	opts.Silence = SilenceFallback
	eng, _ := newTestEngine(t, 300, 2, opts)
	before := append([]float64(nil), eng.Field().Positions()...)

	f := eng.Tick()
	if !f.Silent {
		t.Error("frame should still report silence")
	}
	if len(f.Modes) != 1 || f.Modes[0] != opts.Mapper.Map(440) {
		t.Errorf("expected fallback mode %v, got %v", opts.Mapper.Map(440), f.Modes)
	}

	minLift := chladni.DefaultMinWalk * chladni.DefaultLift
	if f.MeanLift < minLift-1e-15 {
		t.Errorf("mean lift %g below floor %g", f.MeanLift, minLift)
	}

	moved := false
	after := eng.Field().Positions()
	for i := range before {
		if before[i] != after[i] {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("expected particles to move under the fallback policy")
	}
}

func TestTickMapsSoundingNotes(t *testing.T) {
	eng, reg := newTestEngine(t, 100, 3, DefaultOptions())
	if err := reg.NoteOn("A4", 440); err != nil {
		t.Fatal(err)
	}
	if err := reg.NoteOn("E5", 659.26); err != nil {
		t.Fatal(err)
	}

	f := eng.Tick()
	if f.Silent || len(f.Notes) != 2 {
		t.Fatalf("expected two sounding notes, got %+v", f.Notes)
	}
	mp := chladni.KeyboardMapper()
	if f.Modes[0] != mp.Map(440) || f.Modes[1] != mp.Map(659.26) {
		t.Errorf("unexpected modes %v", f.Modes)
	}
	if f.Index != 0 || eng.FrameIndex() != 1 {
		t.Errorf("unexpected frame indices %d / %d", f.Index, eng.FrameIndex())
	}
}

func TestRunWithScore(t *testing.T) {
	eng, reg := newTestEngine(t, 200, 4, DefaultOptions())
	counter := &frameCounter{}
	eng.AddMetric(counter)

	observed := 0
	eng.AddObserver(ObserverFunc(func(Frame, []float64) { observed++ }))

	cfg := RunConfig{
		Frames:    10,
		Sequencer: score.NewSequencer(score.Hold(5, "A4")),
		Target:    reg,
	}
	result, err := eng.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Frames != 10 || len(result.Records) != 10 {
		t.Fatalf("expected 10 frames, got %d / %d", result.Frames, len(result.Records))
	}
	for i, rec := range result.Records {
		wantNotes := 1
		if i >= 5 {
			wantNotes = 0
		}
		if rec.Notes != wantNotes || rec.Silent != (wantNotes == 0) {
			t.Errorf("frame %d: notes=%d silent=%v", i, rec.Notes, rec.Silent)
		}
		if rec.Frame != i {
			t.Errorf("record %d has frame %d", i, rec.Frame)
		}
	}
	if result.Records[0].MeanM != 4.5 || result.Records[0].MeanN != 2.5 {
		t.Errorf("unexpected mean mode (%g, %g)", result.Records[0].MeanM, result.Records[0].MeanN)
	}
	if result.Metrics["frames"] != 10 {
		t.Errorf("expected metric frames=10, got %v", result.Metrics)
	}
	if observed != 10 {
		t.Errorf("observer saw %d frames, want 10", observed)
	}
	if len(result.Positions) != 200*chladni.Stride {
		t.Errorf("expected final positions copy, got %d floats", len(result.Positions))
	}
	if len(result.Lifts()) != 10 {
		t.Errorf("expected 10 lifts")
	}
}

func TestRunValidation(t *testing.T) {
	eng, _ := newTestEngine(t, 10, 5, DefaultOptions())

	if _, err := eng.Run(context.Background(), RunConfig{Frames: 0}); !errors.Is(err, ErrInvalidFrames) {
		t.Errorf("expected ErrInvalidFrames, got %v", err)
	}

	cfg := RunConfig{Frames: 5, Sequencer: score.NewSequencer(score.Hold(1, "C4"))}
	if _, err := eng.Run(context.Background(), cfg); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}
}

func TestRunCancellation(t *testing.T) {
	eng, _ := newTestEngine(t, 10, 6, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := eng.Run(ctx, RunConfig{Frames: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestRunWithCallback(t *testing.T) {
	eng, _ := newTestEngine(t, 10, 7, DefaultOptions())

	calls := 0
	err := eng.RunWithCallback(context.Background(), func(f Frame, pos []float64) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("RunWithCallback: %v", err)
	}
	if calls != 3 || eng.FrameIndex() != 3 {
		t.Errorf("expected 3 frames, got calls=%d index=%d", calls, eng.FrameIndex())
	}
}

func TestEnsembleIsReproducible(t *testing.T) {
	factory := func(seed int64) (*Engine, RunConfig, error) {
		field, err := chladni.NewField(500, chladni.DefaultParams(), chladni.NewSource(seed))
		if err != nil {
			return nil, RunConfig{}, err
		}
		reg := notes.NewRegistry()
		eng, err := New(field, reg, DefaultOptions())
		if err != nil {
			return nil, RunConfig{}, err
		}
		cfg := RunConfig{Frames: 20, Sequencer: score.NewSequencer(score.Hold(0, "C4", "G4")), Target: reg}
		return eng, cfg, nil
	}

	a, err := NewEnsemble(factory, 3, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	b, err := NewEnsemble(factory, 3, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}

	for i := range a {
		for j := range a[i].Positions {
			if a[i].Positions[j] != b[i].Positions[j] {
				t.Fatalf("run %d diverged at %d", i, j)
			}
		}
	}
	if a[0].Positions[0] == a[1].Positions[0] {
		t.Error("different seeds should give different fields")
	}
}

func TestParseSilencePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SilencePolicy
		wantErr bool
	}{
		{"freeze", SilenceFreeze, false},
		{"", SilenceFreeze, false},
		{"Fallback", SilenceFallback, false},
		{"legacy", SilenceFallback, false},
		{"loop", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSilencePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSilencePolicy(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSilencePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if SilenceFallback.String() != "fallback" {
		t.Errorf("unexpected String() %q", SilenceFallback.String())
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	opts.Silence = SilenceFallback
	opts.FallbackFrequency = 0
	if err := opts.Validate(); !errors.Is(err, ErrInvalidFallback) {
		t.Errorf("expected ErrInvalidFallback, got %v", err)
	}

	opts = DefaultOptions()
	opts.Mapper.Band = chladni.Band{Min: 10, Max: 5}
	if err := opts.Validate(); !errors.Is(err, chladni.ErrInvalidBand) {
		t.Errorf("expected ErrInvalidBand, got %v", err)
	}
}
