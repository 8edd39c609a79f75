package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/config"
	"github.com/san-kum/cymatics/internal/engine"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	positionsFile = "positions.csv"
	configFile    = "config.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Frames    int                `json:"frames"`
	Silence   string             `json:"silence"`
	BandMin   float64            `json:"band_min"`
	BandMax   float64            `json:"band_max"`
	Score     string             `json:"score,omitempty"`
	Notes     []string           `json:"notes,omitempty"`
	ElapsedMS int64              `json:"elapsed_ms"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Particle is one row of positions.csv.
type Particle struct {
	X float64 `csv:"x" json:"x"`
	Y float64 `csv:"y" json:"y"`
	Z float64 `csv:"z" json:"z"`
}

func Particles(positions []float64) []Particle {
	out := make([]Particle, len(positions)/chladni.Stride)
	for i := range out {
		j := i * chladni.Stride
		out[i] = Particle{X: positions[j], Y: positions[j+1], Z: positions[j+2]}
	}
	return out
}

func Flatten(ps []Particle) []float64 {
	out := make([]float64, 0, len(ps)*chladni.Stride)
	for _, p := range ps {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// Save writes a run directory and returns its id.
func (s *Store) Save(name string, cfg *config.Config, result *engine.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	runID, runDir, err := s.newRunDir(name)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Particles: len(result.Positions) / chladni.Stride,
		Frames:    result.Frames,
		Silence:   cfg.Silence.Policy,
		BandMin:   cfg.Mapper.MinFrequency,
		BandMax:   cfg.Mapper.MaxFrequency,
		Score:     cfg.Score,
		Notes:     cfg.Notes,
		ElapsedMS: result.Elapsed.Milliseconds(),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), result.Records); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, positionsFile), Particles(result.Positions)); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	return runID, nil
}

// newRunDir picks name_<unix> and adds a suffix when two runs land in the
// same second.
func (s *Store) newRunDir(name string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]engine.FrameRecord, error) {
	return readCSV[engine.FrameRecord](filepath.Join(s.baseDir, runID, framesFile))
}

func (s *Store) LoadPositions(runID string) ([]float64, error) {
	ps, err := readCSV[Particle](filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		return nil, err
	}
	return Flatten(ps), nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}
