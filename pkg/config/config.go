// Package config provides configuration loading and management for morphengine.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"morphengine/pkg/grid"
	"morphengine/pkg/morphology"
	"morphengine/pkg/structuring"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Engine parameters
	Engine struct {
		// Workers is how many goroutines a single pass may use
		Workers int `yaml:"workers"`

		// Border is the padding mode: constant, replicate, reflect101 or neutral
		Border string `yaml:"border"`

		// BorderValue is the fill value for the constant border
		BorderValue uint8 `yaml:"borderValue"`

		// Iterations is how many times each elementary pass is repeated
		Iterations int `yaml:"iterations"`
	} `yaml:"engine"`

	// Structuring element parameters
	Element struct {
		// Shape is rect, cross or ellipse
		Shape string `yaml:"shape"`

		// Rows and Cols are the element dimensions; both must be odd
		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`
	} `yaml:"element"`

	// Input parameters
	Input struct {
		// Threshold binarizes loaded images when nonzero
		Threshold uint8 `yaml:"threshold"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// Scale multiplies result values before saving (255 for binary grids)
		Scale int `yaml:"scale"`

		// FrameDir, when set, receives one PNG per probe step
		FrameDir string `yaml:"frameDir"`

		// FrameSize is the edge length of rendered probe frames
		FrameSize int `yaml:"frameSize"`

		// VideoPath, when set, receives the probe frames as a video (gocv builds only)
		VideoPath string `yaml:"videoPath"`

		// VideoCodec is the FourCC code of the video writer
		VideoCodec string `yaml:"videoCodec"`

		// VideoFPS is the frame rate of the probe video
		VideoFPS float64 `yaml:"videoFPS"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// BorderNeutral is the config name for morphology.WithNeutralBorder.
const BorderNeutral = "neutral"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default engine parameters
	cfg.Engine.Workers = runtime.NumCPU() // Use all available cores by default
	cfg.Engine.Border = grid.BorderConstant.String()
	cfg.Engine.BorderValue = 0
	cfg.Engine.Iterations = 1

	// Set default structuring element
	cfg.Element.Shape = structuring.Cross.String()
	cfg.Element.Rows = 3
	cfg.Element.Cols = 3

	// Set default output parameters
	cfg.Output.Scale = 255
	cfg.Output.FrameSize = 50
	cfg.Output.VideoCodec = "FMP4"
	cfg.Output.VideoFPS = 10
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configuration describes a usable engine and element
func (c *Config) Validate() error {
	if c.Engine.Border != BorderNeutral {
		if _, err := grid.ParseBorderMode(c.Engine.Border); err != nil {
			return err
		}
	}
	if c.Engine.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d: %w", c.Engine.Iterations, grid.ErrInvalidArgument)
	}
	if _, err := c.StructuringElement(); err != nil {
		return err
	}
	if c.Output.FrameSize < 1 {
		return fmt.Errorf("frameSize must be positive, got %d: %w", c.Output.FrameSize, grid.ErrInvalidArgument)
	}
	return nil
}

// StructuringElement builds the configured element
func (c *Config) StructuringElement() (*structuring.Element, error) {
	shape, err := structuring.ParseShape(c.Element.Shape)
	if err != nil {
		return nil, err
	}
	return structuring.Make(shape, c.Element.Rows, c.Element.Cols)
}

// EngineOptions translates the engine section into morphology options
func (c *Config) EngineOptions() ([]morphology.Option, error) {
	opts := []morphology.Option{
		morphology.WithWorkers(c.Engine.Workers),
		morphology.WithIterations(c.Engine.Iterations),
	}

	if c.Engine.Border == BorderNeutral {
		return append(opts, morphology.WithNeutralBorder()), nil
	}

	mode, err := grid.ParseBorderMode(c.Engine.Border)
	if err != nil {
		return nil, err
	}
	return append(opts, morphology.WithBorder(mode, c.Engine.BorderValue)), nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
