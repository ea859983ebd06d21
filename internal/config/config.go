package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the tunable parameters needed to bootstrap the
// simulation host (cmd/sandsim).
type Config struct {
	Sim     SimConfig     `json:"sim" yaml:"sim"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// SimConfig governs the tick driver and the randomness it consumes.
type SimConfig struct {
	WindowSize   int           `json:"windowSize" yaml:"windowSize"`     // SIM_WINDOW side length, in cells
	TickInterval time.Duration `json:"tickInterval" yaml:"tickInterval"` // JSON: integer nanoseconds; YAML: e.g. "33ms"
	Seed         int64         `json:"seed" yaml:"seed"`
	Center       Point         `json:"center" yaml:"center"` // the window's starting camera position
}

// StorageConfig governs chunk persistence.
type StorageConfig struct {
	ChunksDir       string        `json:"chunksDir" yaml:"chunksDir"`
	PersistInterval time.Duration `json:"persistInterval" yaml:"persistInterval"` // how often the host calls PersistAll
}

// Point is a signed 2D integer coordinate, used for the config's center
// field (mirrors world.GlobalCoord's shape without importing the world
// package from config).
type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

// Load reads configuration from a JSON file if provided. An empty path
// returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadYAML is Load's YAML-flavored counterpart, for hosts that prefer a
// hand-edited config file over JSON.
func LoadYAML(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns the out-of-the-box configuration for a single-process
// local simulation.
func Default() *Config {
	return &Config{
		Sim: SimConfig{
			WindowSize:   128,
			TickInterval: 33 * time.Millisecond,
			Seed:         1337,
			Center:       Point{X: 0, Y: 0},
		},
		Storage: StorageConfig{
			ChunksDir:       "chunks",
			PersistInterval: 5 * time.Second,
		},
	}
}

func (c *Config) Validate() error {
	if c.Sim.WindowSize <= 0 {
		return errors.New("sim.windowSize must be positive")
	}
	if c.Sim.TickInterval <= 0 {
		return errors.New("sim.tickInterval must be positive")
	}
	if c.Storage.ChunksDir == "" {
		return errors.New("storage.chunksDir must be set")
	}
	if c.Storage.PersistInterval <= 0 {
		return errors.New("storage.persistInterval must be positive")
	}
	return nil
}
