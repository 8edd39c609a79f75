package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/cymatics/internal/config"
	"github.com/san-kum/cymatics/internal/engine"
)

func testResult() *engine.Result {
	return &engine.Result{
		Records: []engine.FrameRecord{
			{Frame: 0, Notes: 1, MeanM: 4.5, MeanN: 2.5, MeanLift: 0.0012, MaxLift: 0.004, ElapsedUS: 310},
			{Frame: 1, Notes: 0, Silent: true},
		},
		Metrics:   map[string]float64{"mean_lift": 0.0006},
		Positions: []float64{0.1, -0.25, 0.0002, 1, -1, 0, 0.3333333333333333, 0.7, 0.001},
		Frames:    2,
		Elapsed:   5 * time.Millisecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.Notes = []string{"A4"}
	result := testResult()

	runID, err := st.Save("test", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" || meta.Seed != 42 || meta.Particles != 3 || meta.Frames != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["mean_lift"] != 0.0006 {
		t.Errorf("expected metric to survive, got %v", meta.Metrics)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0] != result.Records[0] || frames[1] != result.Records[1] {
		t.Errorf("frames differ after round trip: %+v", frames)
	}

	pos, err := st.LoadPositions(runID)
	if err != nil {
		t.Fatalf("load positions failed: %v", err)
	}
	if len(pos) != len(result.Positions) {
		t.Fatalf("expected %d floats, got %d", len(result.Positions), len(pos))
	}
	for i := range pos {
		if pos[i] != result.Positions[i] {
			t.Errorf("position %d: %v != %v", i, pos[i], result.Positions[i])
		}
	}

	loadedCfg, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if loadedCfg.Seed != 42 {
		t.Errorf("config snapshot lost seed: %d", loadedCfg.Seed)
	}
}

func TestStoreUniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.DefaultConfig()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id, err := st.Save("burst", cfg, testResult())
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate run id %s", id)
		}
		seen[id] = true
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreList_Empty(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("export", config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatal(err)
	}

	data, err := st.Export(runID, false)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if data.Positions != nil {
		t.Error("positions should be omitted")
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Run.ID != runID || len(decoded.Frames) != 2 {
		t.Errorf("unexpected export %+v", decoded)
	}

	full, err := st.Export(runID, true)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(path, full); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty export file: %v", err)
	}
	if len(full.Positions) != 3 {
		t.Errorf("expected 3 particles, got %d", len(full.Positions))
	}
}

func TestRecorder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "live")
	rec, err := NewRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		rec.OnFrame(engine.Frame{Index: i, Silent: i%2 == 1}, nil)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if rec.Frames() != 4 {
		t.Errorf("expected 4 frames recorded, got %d", rec.Frames())
	}

	rows, err := readCSV[engine.FrameRecord](filepath.Join(dir, framesFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || rows[3].Frame != 3 || !rows[3].Silent {
		t.Errorf("unexpected recorded rows %+v", rows)
	}
}
