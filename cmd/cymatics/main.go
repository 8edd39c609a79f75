package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/config"
	"github.com/san-kum/cymatics/internal/engine"
	"github.com/san-kum/cymatics/internal/notes"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	particles  int
	seed       int64
	frames     int
	frameRate  int
	silence    string
	fallback   float64
	vibration  float64
	minWalk    float64
	lift       float64
	scoreFile  string
	noteNames  []string
	withAudio  bool
	recordLive bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cymatics",
		Short:         "chladni plate particles driven by notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&silence, "silence", engine.SilenceFreeze.String(), "silence policy (freeze, fallback)")
	pf.Float64Var(&fallback, "fallback", chladni.DefaultFrequency, "frequency used by the fallback policy")
	pf.Float64Var(&vibration, "vibration", chladni.DefaultVibrationStrength, "walk scale per unit of field value")
	pf.Float64Var(&minWalk, "min-walk", chladni.DefaultMinWalk, "smallest walk on a nodal line")
	pf.Float64Var(&lift, "lift", chladni.DefaultLift, "z as a fraction of the walk")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play the plate from the keyboard",
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&withAudio, "audio", false, "play held notes through the speaker")
	liveCmd.Flags().BoolVar(&recordLive, "record", false, "record frame statistics to the data directory")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	runCmd := &cobra.Command{
		Use:   "run [note|freq]...",
		Short: "run headless and save the result",
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&scoreFile, "score", "", "score file to play (yaml)")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean lift of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&withPositions, "positions", false, "include final particle positions")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw final particle positions as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	svgCmd.Flags().StringVar(&svgColor, "color", "#e8d8a8", "particle colour")

	modesCmd := &cobra.Command{
		Use:   "modes [note|freq]...",
		Short: "show the mode each pitch maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE:  showModes,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the mapper across a frequency range",
		RunE:  sweepModes,
	}
	sweepCmd.Flags().Float64Var(&sweepLo, "from", 0, "lowest frequency (default band minimum)")
	sweepCmd.Flags().Float64Var(&sweepHi, "to", 0, "highest frequency (default band maximum)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 48, "number of samples")
	sweepCmd.Flags().BoolVar(&sweepAll, "all", false, "print every sample, not just mode changes")

	fieldCmd := &cobra.Command{
		Use:   "field [note|freq]...",
		Short: "render the plate field for a chord",
		Args:  cobra.MinimumNArgs(1),
		RunE:  renderField,
	}
	fieldCmd.Flags().IntVar(&fieldWidth, "width", 60, "width in characters")
	fieldCmd.Flags().IntVar(&fieldHeight, "height", 30, "height in characters")
	fieldCmd.Flags().BoolVar(&fieldBraille, "braille", false, "draw the settled particles instead of shading the field")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [note|freq]...",
		Short: "benchmark the particle update",
		RunE:  benchField,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "concurrent runs")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, svgCmd, modesCmd, sweepCmd, fieldCmd, presetsCmd, benchCmd)

	return rootCmd
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return nil
}

// buildConfig layers defaults, preset, config file and changed flags, in
// that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("silence") {
		cfg.Silence.Policy = silence
	}
	if flags.Changed("fallback") {
		cfg.Silence.FallbackFrequency = fallback
	}
	if flags.Changed("vibration") {
		cfg.Field.VibrationStrength = vibration
	}
	if flags.Changed("min-walk") {
		cfg.Field.MinWalk = minWalk
	}
	if flags.Changed("lift") {
		cfg.Field.Lift = lift
	}
	if flags.Changed("score") {
		cfg.Score = scoreFile
	}
	if flags.Changed("audio") {
		cfg.Audio = withAudio
	}
	if len(args) > 0 {
		cfg.Notes = args
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config", "particles", cfg.Particles, "seed", cfg.Seed, "silence", cfg.Silence.Policy,
		"band", fmt.Sprintf("%g-%g", cfg.Mapper.MinFrequency, cfg.Mapper.MaxFrequency))
	return cfg, nil
}

// newEngine builds a field and engine for cfg, reading notes from reg.
func newEngine(cfg *config.Config, reg *notes.Registry) (*engine.Engine, error) {
	field, err := chladni.NewField(cfg.Particles, cfg.FieldParams(), chladni.NewSource(cfg.Seed))
	if err != nil {
		return nil, err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.New(field, reg, opts)
}

// holdNotes sounds every note name or frequency in names.
func holdNotes(reg *notes.Registry, names []string) error {
	for _, name := range names {
		f, err := notes.ParseFrequency(name)
		if err != nil {
			return err
		}
		if err := reg.NoteOn(name, f); err != nil {
			return err
		}
	}
	return nil
}

func parseModes(mp chladni.Mapper, args []string) ([]chladni.Mode, error) {
	freqs := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := notes.ParseFrequency(a)
		if err != nil {
			return nil, err
		}
		freqs = append(freqs, f)
	}
	return mp.MapAll(freqs), nil
}
