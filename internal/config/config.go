// Package config loads d20 settings from defaults, a YAML file and D20_*
// environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/d20/internal/logger"
	"github.com/taigrr/d20/pkg/dice"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "D20_"

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Config holds all d20 settings.
type Config struct {
	// Seed drives every random choice; 0 picks a fresh seed per run.
	Seed    uint64        `yaml:"seed" env:"SEED"`
	Physics dice.Params   `yaml:"physics" envPrefix:"PHYSICS_"`
	Viewer  ViewerConfig  `yaml:"viewer" envPrefix:"VIEWER_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

// ViewerConfig holds terminal viewer settings.
type ViewerConfig struct {
	FPS        int     `yaml:"fps" env:"FPS"`
	Background string  `yaml:"background" env:"BACKGROUND"` // #rrggbb
	Distance   float64 `yaml:"distance" env:"DISTANCE"`     // 0 fits the die to the view
	Elevation  float64 `yaml:"elevation" env:"ELEVATION"`   // Degrees above the table
	ShowHUD    bool    `yaml:"show_hud" env:"SHOW_HUD"`
	Wireframe  bool    `yaml:"wireframe" env:"WIREFRAME"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string            `yaml:"level" env:"LEVEL"`
	File  logger.FileConfig `yaml:"file" envPrefix:"FILE_"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Physics: dice.DefaultParams(),
		Viewer: ViewerConfig{
			FPS:        60,
			Background: "#123424",
			Elevation:  20,
			ShowHUD:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  logger.DefaultFileConfig(""),
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: physics: %w", ErrInvalid, err)
	}
	if c.Viewer.FPS <= 0 {
		return fmt.Errorf("%w: viewer.fps must be positive, got %d", ErrInvalid, c.Viewer.FPS)
	}
	if _, err := colorful.Hex(c.Viewer.Background); err != nil {
		return fmt.Errorf("%w: viewer.background %q: %w", ErrInvalid, c.Viewer.Background, err)
	}
	if c.Viewer.Distance < 0 {
		return fmt.Errorf("%w: viewer.distance must not be negative", ErrInvalid)
	}
	if c.Viewer.Elevation < -90 || c.Viewer.Elevation > 90 {
		return fmt.Errorf("%w: viewer.elevation %v outside [-90, 90]", ErrInvalid, c.Viewer.Elevation)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}
	return nil
}
