package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cymatics/internal/export"
	"github.com/san-kum/cymatics/internal/storage"
)

var (
	outPath       string
	withPositions bool
	svgSize       int
	svgColor      string
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tFRAMES\tSILENCE\tNOTES\tMEAN LIFT")

	for _, run := range runs {
		played := strings.Join(run.Notes, " ")
		if run.Score != "" {
			played = strings.TrimSpace(played + " " + run.Score)
		}
		if played == "" {
			played = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%.6f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Frames,
			run.Silence,
			played,
			run.Metrics["mean_lift"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	lifts := make([]float64, len(records))
	voices := make([]float64, len(records))
	for i, r := range records {
		lifts[i] = r.MeanLift
		voices[i] = float64(r.Notes)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("frames: %d\n\n", len(records))

	fmt.Println(asciigraph.Plot(lifts,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Precision(5),
		asciigraph.Caption("mean lift"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(voices,
		asciigraph.Height(4),
		asciigraph.Width(80),
		asciigraph.Precision(0),
		asciigraph.Caption("notes sounding"),
	))
	return nil
}

func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0], withPositions)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := storage.ExportJSON(outPath, data); err != nil {
			return err
		}
		fmt.Printf("exported %d frames to %s\n", len(data.Frames), outPath)
		return nil
	}
	return storage.WriteJSON(os.Stdout, data)
}

// svgRun draws a stored run, or runs the configured notes when no run id
// is given.
func svgRun(cmd *cobra.Command, args []string) error {
	var positions []float64
	if len(args) == 1 {
		st := storage.New(dataDir)
		pos, err := st.LoadPositions(args[0])
		if err != nil {
			return err
		}
		positions = pos
	} else {
		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			return err
		}
		if len(cfg.Notes) == 0 && cfg.Score == "" {
			return fmt.Errorf("give a run id, or notes via --config or --preset")
		}
		eng, rc, err := headless(cfg)
		if err != nil {
			return err
		}
		result, err := eng.Run(context.Background(), rc)
		if err != nil {
			return err
		}
		positions = result.Positions
	}

	svg := export.PositionsToSVG(positions, svgSize, svgColor)
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
