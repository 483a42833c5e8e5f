package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/cartoongen/internal/motion"
)

const (
	WindowWidth  = 1280
	WindowHeight = 800
	WindowTitle  = "CartoonGen"

	DefaultPath     = "cartoongen.yaml"
	DefaultEndpoint = "https://oecd-mpg-requires-grab.trycloudflare.com/generate"

	// Prompt card
	CardWidth      = 460
	CardPadding    = 24
	ResultMaxSide  = 320
	FontSize       = 16
	TitleFontSize  = 48
	TitleY         = 36
	StatusDuration = 4 // seconds

	// Terminal front-end
	TerminalTPS         = 30
	TerminalElementSize = 6
	TerminalIntensity   = 1.5
)

// Motion holds the tunables of one render surface.
type Motion struct {
	ElementSize     float64 `yaml:"element_size"`
	Damping         float64 `yaml:"damping"`
	JitterThreshold float64 `yaml:"jitter_threshold"`
	JitterAmplitude float64 `yaml:"jitter_amplitude"`
	SpawnSpeed      float64 `yaml:"spawn_speed"`
	Intensity       float64 `yaml:"intensity"`
}

// Params converts m into engine parameters.
func (m Motion) Params() motion.Params {
	return motion.Params{
		ElementSize:     m.ElementSize,
		Damping:         m.Damping,
		JitterThreshold: m.JitterThreshold,
		JitterAmplitude: m.JitterAmplitude,
		SpawnSpeed:      m.SpawnSpeed,
	}
}

func (m Motion) validate(section string) error {
	switch {
	case m.ElementSize <= 0:
		return fmt.Errorf("%s.element_size must be positive, got %v", section, m.ElementSize)
	case m.Damping <= 0 || m.Damping > 1:
		return fmt.Errorf("%s.damping must be in (0, 1], got %v", section, m.Damping)
	case m.JitterThreshold < 0 || m.JitterAmplitude < 0:
		return fmt.Errorf("%s: jitter values must not be negative", section)
	case m.Intensity < 0:
		return fmt.Errorf("%s.intensity must not be negative, got %v", section, m.Intensity)
	}
	return nil
}

// Config is the optional YAML file next to the binary.
type Config struct {
	Endpoint string `yaml:"endpoint"`
	// AssetDir holds 1.png..6.png overriding the drawn faces.
	AssetDir string `yaml:"asset_dir"`
	Sound    bool   `yaml:"sound"`
	// Headless downloads go here instead of through a save dialog.
	OutputDir string `yaml:"output_dir"`

	Motion   Motion `yaml:"motion"`
	Terminal Motion `yaml:"terminal"`
}

func Default() Config {
	p := motion.DefaultParams()
	window := Motion{
		ElementSize:     p.ElementSize,
		Damping:         p.Damping,
		JitterThreshold: p.JitterThreshold,
		JitterAmplitude: p.JitterAmplitude,
		SpawnSpeed:      p.SpawnSpeed,
		Intensity:       8,
	}
	term := window
	term.ElementSize = TerminalElementSize
	term.Intensity = TerminalIntensity
	return Config{
		Endpoint: DefaultEndpoint,
		Motion:   window,
		Terminal: term,
	}
}

// Parse overlays data on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.Endpoint == "" {
		return Default(), errors.New("config: endpoint must not be empty")
	}
	if err := cfg.Motion.validate("motion"); err != nil {
		return Default(), err
	}
	if err := cfg.Terminal.validate("terminal"); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Load reads path. On any error it returns the defaults together with the
// error, which wraps os.ErrNotExist when the file is missing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}
