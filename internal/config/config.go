package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/engine"
)

const (
	DefaultParticles = 20000
	DefaultFrames    = 600
	DefaultFPS       = 60
	DefaultDataDir   = ".cymatics"
)

var (
	ErrInvalidParticles = errors.New("config: particles must be positive")
	ErrInvalidFrames    = errors.New("config: frames must be positive")
	ErrInvalidFPS       = errors.New("config: fps must be between 1 and 240")
)

type Config struct {
	Particles int           `yaml:"particles"`
	Seed      int64         `yaml:"seed"`
	Frames    int           `yaml:"frames"`
	FPS       int           `yaml:"fps"`
	Field     FieldConfig   `yaml:"field"`
	Mapper    MapperConfig  `yaml:"mapper"`
	Silence   SilenceConfig `yaml:"silence"`
	Score     string        `yaml:"score,omitempty"`
	Notes     []string      `yaml:"notes,omitempty"`
	Audio     bool          `yaml:"audio"`
	DataDir   string        `yaml:"data_dir"`
}

type FieldConfig struct {
	VibrationStrength float64 `yaml:"vibration_strength"`
	MinWalk           float64 `yaml:"min_walk"`
	Lift              float64 `yaml:"lift"`
	A                 float64 `yaml:"a"`
	B                 float64 `yaml:"b"`
}

type MapperConfig struct {
	MinFrequency float64 `yaml:"min_frequency"`
	MaxFrequency float64 `yaml:"max_frequency"`
	MaxM         float64 `yaml:"max_m"`
	ScaleFactor  float64 `yaml:"scale_factor"`
}

type SilenceConfig struct {
	Policy            string  `yaml:"policy"`
	FallbackFrequency float64 `yaml:"fallback_frequency"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: DefaultParticles,
		Frames:    DefaultFrames,
		FPS:       DefaultFPS,
		Field: FieldConfig{
			VibrationStrength: chladni.DefaultVibrationStrength,
			MinWalk:           chladni.DefaultMinWalk,
			Lift:              chladni.DefaultLift,
			A:                 chladni.DefaultCoefficients.A,
			B:                 chladni.DefaultCoefficients.B,
		},
		Mapper: MapperConfig{
			MinFrequency: chladni.KeyboardBand.Min,
			MaxFrequency: chladni.KeyboardBand.Max,
			MaxM:         chladni.DefaultMaxM,
			ScaleFactor:  chladni.DefaultScaleFactor,
		},
		Silence: SilenceConfig{
			Policy:            engine.SilenceFreeze.String(),
			FallbackFrequency: chladni.DefaultFrequency,
		},
		DataDir: DefaultDataDir,
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads a YAML file over base.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Notes = append([]string(nil), c.Notes...)
	return &cp
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidParticles, c.Particles)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidFrames, c.Frames)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("%w, got %d", ErrInvalidFPS, c.FPS)
	}
	if err := c.FieldParams().Validate(); err != nil {
		return err
	}
	_, err := c.EngineOptions()
	return err
}

func (c *Config) FieldParams() chladni.Params {
	return chladni.Params{
		VibrationStrength: c.Field.VibrationStrength,
		MinWalk:           c.Field.MinWalk,
		Lift:              c.Field.Lift,
		Coefficients:      chladni.Coefficients{A: c.Field.A, B: c.Field.B},
	}
}

func (c *Config) ModeMapper() chladni.Mapper {
	return chladni.Mapper{
		Band:        chladni.Band{Min: c.Mapper.MinFrequency, Max: c.Mapper.MaxFrequency},
		MaxM:        c.Mapper.MaxM,
		ScaleFactor: c.Mapper.ScaleFactor,
	}
}

func (c *Config) EngineOptions() (engine.Options, error) {
	policy, err := engine.ParseSilencePolicy(c.Silence.Policy)
	if err != nil {
		return engine.Options{}, err
	}
	opts := engine.Options{
		Mapper:            c.ModeMapper(),
		Silence:           policy,
		FallbackFrequency: c.Silence.FallbackFrequency,
	}
	if err := opts.Validate(); err != nil {
		return engine.Options{}, err
	}
	return opts, nil
}
