// Package config loads optional server settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/overlay-tools-mcp/internal/imaging"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath = "OVERLAY_MCP_CONFIG"
	EnvLogLevel   = "OVERLAY_MCP_LOG_LEVEL"
)

// MaxCanvasSize is the largest canvas width or height accepted anywhere.
const MaxCanvasSize = 8192

// Config contains settings for the overlay server. The zero value is not
// useful; start from Default.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Text   Text   `toml:"text"`
	Images Images `toml:"images"`
	Log    Log    `toml:"log"`
}

// Canvas holds the default render target used when a render request does not
// supply a base image.
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type Text struct {
	DefaultFontSize int `toml:"default_font_size"`
}

type Images struct {
	// MonitorFiles evicts cached images when their files change on disk.
	MonitorFiles bool `toml:"monitor_files"`
}

type Log struct {
	Level string `toml:"level"` // "info" or "debug"
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 512, Height: 512, Background: "transparent"},
		Text:   Text{DefaultFontSize: 12},
		Images: Images{MonitorFiles: true},
		Log:    Log{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path, a missing file, or an
// empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config: %q: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by OVERLAY_MCP_CONFIG (or path when non-empty)
// and applies OVERLAY_MCP_LOG_LEVEL on top.
func FromEnv(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.Log.Level = strings.ToLower(level)
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("load config: %s: %w", EnvLogLevel, err)
		}
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Canvas.Width < 1 || c.Canvas.Width > MaxCanvasSize {
		return fmt.Errorf("canvas width must be between 1 and %d, got %d", MaxCanvasSize, c.Canvas.Width)
	}
	if c.Canvas.Height < 1 || c.Canvas.Height > MaxCanvasSize {
		return fmt.Errorf("canvas height must be between 1 and %d, got %d", MaxCanvasSize, c.Canvas.Height)
	}
	if _, err := imaging.ParseColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("canvas background: %w", err)
	}
	if c.Text.DefaultFontSize <= 0 {
		return fmt.Errorf("default font size must be positive, got %d", c.Text.DefaultFontSize)
	}
	switch c.Log.Level {
	case "info", "debug":
	default:
		return fmt.Errorf("log level must be info or debug, got %q", c.Log.Level)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool { return c.Log.Level == "debug" }

// BackgroundColor returns the parsed canvas background.
func (c Config) BackgroundColor() color.Color {
	bg, err := imaging.ParseColor(c.Canvas.Background)
	if err != nil {
		return color.Transparent
	}
	return bg
}

// Marshal renders c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
