package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/cymatics/internal/analysis"
	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/notes"
	"github.com/san-kum/cymatics/internal/viz"
)

var (
	sweepLo, sweepHi float64
	sweepSteps       int
	sweepAll         bool

	fieldWidth, fieldHeight int
	fieldBraille            bool
)

func showModes(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	mp := cfg.ModeMapper()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tHZ\tNOTE\tM\tN\tIN BAND")
	for _, a := range args {
		f, err := notes.ParseFrequency(a)
		if err != nil {
			return err
		}
		m := mp.Map(f)
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%g\t%g\t%v\n", a, f, analysis.NearestNote(f), m.M, m.N, mp.Band.Contains(f))
	}
	return w.Flush()
}

func sweepModes(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	mp := cfg.ModeMapper()

	lo, hi := sweepLo, sweepHi
	if lo <= 0 {
		lo = mp.Band.Min
	}
	if hi <= 0 {
		hi = mp.Band.Max
	}
	points := analysis.Sweep(mp, lo, hi, sweepSteps)
	if points == nil {
		return fmt.Errorf("invalid range %g-%g Hz", lo, hi)
	}
	if !sweepAll {
		points = analysis.Transitions(points)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HZ\tNOTE\tM\tN")
	for _, p := range points {
		fmt.Fprintf(w, "%.2f\t%s\t%g\t%g\n", p.Frequency, p.Note, p.M, p.N)
	}
	return w.Flush()
}

// renderField shades |field| for a chord, or with --braille runs the
// particles and draws where they settle.
func renderField(cmd *cobra.Command, args []string) error {
	if fieldWidth < 2 || fieldHeight < 2 {
		return fmt.Errorf("field must be at least 2x2, got %dx%d", fieldWidth, fieldHeight)
	}
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	modes, err := parseModes(cfg.ModeMapper(), args)
	if err != nil {
		return err
	}
	coeffs := cfg.FieldParams().Coefficients

	for _, m := range modes {
		fmt.Printf("%s ", m)
	}
	fmt.Println()

	if !fieldBraille {
		fmt.Print(analysis.GridToASCII(analysis.FieldGrid(modes, coeffs, fieldWidth, fieldHeight)))
		return nil
	}

	eng, rc, err := headless(cfg)
	if err != nil {
		return err
	}
	result, err := eng.Run(context.Background(), rc)
	if err != nil {
		return err
	}

	cv := viz.NewCanvas(fieldWidth, fieldHeight)
	for i := 0; i+2 < len(result.Positions); i += chladni.Stride {
		cv.PlotUnit(result.Positions[i], result.Positions[i+1])
	}
	fmt.Print(cv.String())
	fmt.Printf("nodal correlation: %.3f\n", analysis.NodalCorrelation(result.Positions, modes, coeffs))
	return nil
}
