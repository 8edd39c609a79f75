package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != 20000 {
		t.Errorf("expected 20000 particles, got %d", cfg.Particles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.FieldParams() != chladni.DefaultParams() {
		t.Errorf("field params %+v differ from kernel defaults", cfg.FieldParams())
	}
	if cfg.ModeMapper() != chladni.KeyboardMapper() {
		t.Errorf("mapper %+v differs from keyboard mapper", cfg.ModeMapper())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("legacy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Mapper.MinFrequency != 50 || cfg.Mapper.MaxFrequency != 5000 {
		t.Errorf("expected tone band, got %+v", cfg.Mapper)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("EngineOptions: %v", err)
	}
	if opts.Silence != engine.SilenceFallback {
		t.Errorf("expected fallback policy, got %v", opts.Silence)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("dense")
	a.Particles = 1
	b := GetPreset("dense")
	if b.Particles != 40000 {
		t.Errorf("preset mutated through a previous copy: %d", b.Particles)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }, ErrInvalidParticles},
		{"zero frames", func(c *Config) { c.Frames = 0 }, ErrInvalidFrames},
		{"fps too high", func(c *Config) { c.FPS = 1000 }, ErrInvalidFPS},
		{"negative walk", func(c *Config) { c.Field.MinWalk = -1 }, chladni.ErrParameterBounds},
		{"inverted band", func(c *Config) { c.Mapper.MaxFrequency = 10 }, chladni.ErrInvalidBand},
		{"bad policy", func(c *Config) { c.Silence.Policy = "shrug" }, engine.ErrUnknownPolicy},
		{"fallback at zero", func(c *Config) {
			c.Silence.Policy = "fallback"
			c.Silence.FallbackFrequency = 0
		}, engine.ErrInvalidFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("particles: 500\nsilence:\n  policy: fallback\nnotes: [A4, E5]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Particles != 500 {
		t.Errorf("expected 500 particles, got %d", cfg.Particles)
	}
	if cfg.Silence.Policy != "fallback" || cfg.Silence.FallbackFrequency != 440 {
		t.Errorf("unexpected silence config %+v", cfg.Silence)
	}
	if cfg.Frames != DefaultFrames || cfg.Field.MinWalk != chladni.DefaultMinWalk {
		t.Error("unset keys should keep their defaults")
	}
	if len(cfg.Notes) != 2 {
		t.Errorf("expected 2 notes, got %v", cfg.Notes)
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("frames: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("dense")
	cfg, err := LoadOver(base, path)
	if err != nil {
		t.Fatalf("LoadOver: %v", err)
	}
	if cfg.Particles != 40000 || cfg.Frames != 50 {
		t.Errorf("expected preset particles with file frames, got %d / %d", cfg.Particles, cfg.Frames)
	}
	if base.Frames != DefaultFrames {
		t.Error("LoadOver modified its base")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	orig := GetPreset("gentle")
	orig.Seed = 42
	if err := Save(path, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Seed != 42 || loaded.Field.VibrationStrength != 0.01 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
