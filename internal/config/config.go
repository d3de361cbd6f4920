package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds one editor run's settings, filled from flags with an
// optional YAML overlay underneath.
type Config struct {
	ProjectPath string  `yaml:"project"`
	AudioPath   string  `yaml:"audio"`
	CuesPath    string  `yaml:"cues"`
	Tick        float64 `yaml:"tick"`
	SavePath    string  `yaml:"save"`
	ImportPDF   string  `yaml:"importPdf"`
	ImportImage string  `yaml:"importImage"`
	DPI         int     `yaml:"dpi"`
	Workers     int     `yaml:"workers"`
	QRPath      string  `yaml:"qr"`
	AutosaveDir string  `yaml:"autosaveDir"`
	ShowStats   bool    `yaml:"stats"`
}

// MinTick and MaxTick bound the cue sampling interval. Values outside
// the range are clamped, not rejected.
const (
	MinTick = 0.001
	MaxTick = 1.0
)

// Default returns the settings a run starts from before flags apply.
func Default() Config {
	return Config{
		Tick:        0.05,
		DPI:         150,
		Workers:     4,
		AutosaveDir: "autosave",
	}
}

// LoadFile reads a YAML config file over the defaults. A missing file
// is not an error; a malformed one is.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ClampTick forces the sampling interval into [MinTick, MaxTick].
func ClampTick(tick float64) float64 {
	if tick < MinTick {
		return MinTick
	}
	if tick > MaxTick {
		return MaxTick
	}
	return tick
}
