package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/cymatics/internal/audio"
	"github.com/san-kum/cymatics/internal/notes"
	"github.com/san-kum/cymatics/internal/storage"
	"github.com/san-kum/cymatics/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	reg := notes.NewRegistry()
	if err := holdNotes(reg, cfg.Notes); err != nil {
		return err
	}
	eng, err := newEngine(cfg, reg)
	if err != nil {
		return err
	}

	opts := []viz.Option{viz.WithFPS(cfg.FPS)}

	if cfg.Audio {
		synth := audio.NewSynth(audio.DefaultSampleRate)
		defer synth.Close()
		if err := synth.Start(); err != nil {
			slog.Warn("continuing without sound", "err", err)
		} else {
			if err := synth.Sync(reg.Snapshot()); err != nil {
				slog.Warn("audio sync", "err", err)
			}
			opts = append(opts, viz.WithAudio(synth))
		}
	}

	if recordLive {
		dir := filepath.Join(cfg.DataDir, "live_"+time.Now().Format("20060102_150405"))
		rec, err := storage.NewRecorder(dir)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				slog.Error("closing recorder", "err", err)
			}
			fmt.Printf("recorded %d frames to %s\n", rec.Frames(), dir)
		}()
		eng.AddObserver(rec)
	}

	p := tea.NewProgram(viz.New(eng, reg, opts...), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
