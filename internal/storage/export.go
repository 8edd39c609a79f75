package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cymatics/internal/engine"
)

type ExportData struct {
	Run       RunMetadata          `json:"run"`
	Frames    []engine.FrameRecord `json:"frames"`
	Positions []Particle           `json:"positions,omitempty"`
	Metrics   map[string]float64   `json:"metrics"`
}

// Export gathers a stored run. Positions are left out unless withPositions
// is set, since they dominate the size.
func (s *Store) Export(runID string, withPositions bool) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{Run: *meta, Frames: frames, Metrics: meta.Metrics}
	if withPositions {
		pos, err := s.LoadPositions(runID)
		if err != nil {
			return nil, err
		}
		data.Positions = Particles(pos)
	}
	return data, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
