package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cymatics/internal/config"
	"github.com/san-kum/cymatics/internal/engine"
	"github.com/san-kum/cymatics/internal/metrics"
	"github.com/san-kum/cymatics/internal/notes"
	"github.com/san-kum/cymatics/internal/score"
	"github.com/san-kum/cymatics/internal/storage"
)

var (
	runName   string
	benchRuns int
)

// headless prepares an engine with default metrics for a non-interactive
// run. Notes from cfg are held from frame 0 and the score, if any, is
// sequenced on top.
func headless(cfg *config.Config) (*engine.Engine, engine.RunConfig, error) {
	reg := notes.NewRegistry()
	if err := holdNotes(reg, cfg.Notes); err != nil {
		return nil, engine.RunConfig{}, err
	}
	eng, err := newEngine(cfg, reg)
	if err != nil {
		return nil, engine.RunConfig{}, err
	}
	for _, m := range metrics.Defaults(cfg.FieldParams()) {
		eng.AddMetric(m)
	}

	rc := engine.RunConfig{Frames: cfg.Frames}
	if cfg.Score != "" {
		sc, err := score.Load(cfg.Score)
		if err != nil {
			return nil, engine.RunConfig{}, err
		}
		rc.Sequencer = score.NewSequencer(sc)
		rc.Target = reg
		if n := rc.Sequencer.Length(); n > rc.Frames {
			rc.Frames = n
		}
	}
	return eng, rc, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Notes) == 0 && cfg.Score == "" {
		fmt.Println("no notes or score given, the plate will stay still")
	}

	eng, rc, err := headless(cfg)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d particles for %d frames...\n", cfg.Particles, rc.Frames)
	result, err := eng.Run(ctx, rc)
	if err != nil {
		if result == nil || ctx.Err() == nil {
			return err
		}
		fmt.Printf("interrupted after %d frames, saving partial run\n", result.Frames)
	}

	name := runName
	if name == "" {
		name = "run"
	}
	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Defaults(cfg.FieldParams()) {
		fmt.Printf("  %-12s %.6f\n", m.Name()+":", result.Metrics[m.Name()])
	}
	return nil
}

func benchField(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Notes) == 0 {
		cfg.Notes = []string{"A4"}
	}
	if benchRuns < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", benchRuns)
	}

	build := func(s int64) (*engine.Engine, engine.RunConfig, error) {
		c := cfg.Clone()
		c.Seed = s
		return headless(c)
	}

	fmt.Printf("benchmarking %d runs of %d particles x %d frames...\n", benchRuns, cfg.Particles, cfg.Frames)
	start := time.Now()
	results, err := engine.NewEnsemble(build, benchRuns, cfg.Seed).Run(cmd.Context())
	if err != nil {
		return err
	}
	wall := time.Since(start)

	var ticks time.Duration
	total := 0
	for _, r := range results {
		ticks += r.Elapsed
		total += r.Frames
	}
	updates := float64(total) * float64(cfg.Particles)

	fmt.Printf("wall time:      %v\n", wall.Round(time.Millisecond))
	fmt.Printf("frames:         %d\n", total)
	fmt.Printf("per frame:      %v\n", (ticks / time.Duration(total)).Round(time.Microsecond))
	fmt.Printf("particles/sec:  %.0f\n", updates/wall.Seconds())
	return nil
}
