package config

import (
	"sort"

	"github.com/san-kum/cymatics/internal/chladni"
)

func withTone(c *Config) {
	c.Mapper.MinFrequency = chladni.ToneBand.Min
	c.Mapper.MaxFrequency = chladni.ToneBand.Max
}

// Presets cover the behaviours the field has had over time. Each one is
// applied to the defaults.
var Presets = map[string]func(*Config){
	// Tone generator band, keeps walking at 440 Hz in silence.
	"legacy": func(c *Config) {
		withTone(c)
		c.Silence.Policy = "fallback"
	},
	"tone": withTone,
	"keyboard": func(c *Config) {
		c.Mapper.MinFrequency = chladni.KeyboardBand.Min
		c.Mapper.MaxFrequency = chladni.KeyboardBand.Max
	},
	"dense": func(c *Config) {
		c.Particles = 40000
	},
	"gentle": func(c *Config) {
		c.Field.VibrationStrength = 0.01
		c.Field.MinWalk = 0.001
	},
	"sparse": func(c *Config) {
		c.Particles = 4000
		c.Field.VibrationStrength = 0.03
	},
}

// GetPreset returns a fresh config for name, or nil if there is none.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
