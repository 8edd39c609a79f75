package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/cymatics/internal/engine"
)

// Recorder streams frame records to a CSV file as an engine observer. The
// header is written with the first frame.
type Recorder struct {
	file          *os.File
	headerWritten bool
	frames        int
	err           error
}

// NewRecorder creates dir if needed and opens dir/frames.csv.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating record directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", framesFile, err)
	}
	return &Recorder{file: f}, nil
}

func (r *Recorder) OnFrame(f engine.Frame, _ []float64) {
	if r.err != nil {
		return
	}

	records := []engine.FrameRecord{f.Record()}

	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(records, r.file)
		r.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(records, r.file)
	}
	if err != nil {
		r.err = fmt.Errorf("writing frame %d: %w", f.Index, err)
		slog.Error("frame recorder stopped", "error", r.err)
		return
	}
	r.frames++
}

func (r *Recorder) Frames() int { return r.frames }

// Close flushes the file and reports the first write error, if any.
func (r *Recorder) Close() error {
	closeErr := r.file.Close()
	if r.err != nil {
		return r.err
	}
	return closeErr
}
