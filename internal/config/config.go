// Package config provides the TOML configuration file for the zoom demo.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appDir     = "zoompan"
	configFile = "config.toml"
)

// Config holds user settings. Keys absent from the file keep their Default
// value; density, min_scale and max_scale treat zero as "unset".
type Config struct {
	Title string `toml:"title"`
	// Asset is a bundled asset name or a path to an image on disk.
	Asset string `toml:"asset"`
	// Strategy is "reprojected" or "simple".
	Strategy  string  `toml:"strategy"`
	CellSize  float64 `toml:"cell_size"`
	Label     string  `toml:"label"`
	TextSize  float64 `toml:"text_size"`
	TextColor string  `toml:"text_color"`
	// Background fills the letterbox around the fitted image.
	Background string `toml:"background"`
	// Density overrides the toolkit's logical-to-device pixel factor.
	Density  float64 `toml:"density"`
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	Debug    bool    `toml:"debug"`

	WindowWidth  float64 `toml:"window_width"`
	WindowHeight float64 `toml:"window_height"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Title:        "Layer Performance",
		Strategy:     "reprojected",
		CellSize:     15,
		Label:        "Hi",
		TextSize:     10,
		TextColor:    "#ff0000",
		Background:   "#202024",
		MinScale:     0.1,
		MaxScale:     10,
		WindowWidth:  800,
		WindowHeight: 600,
	}
}

// Path returns ~/.config/zoompan/config.toml (or the platform equivalent).
func Path() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("Config: ignoring unknown key %q in %s", key.String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %v", c.CellSize)
	}
	if c.TextSize < 0 {
		return fmt.Errorf("text_size must not be negative, got %v", c.TextSize)
	}
	if c.Density < 0 {
		return fmt.Errorf("density must not be negative, got %v", c.Density)
	}
	if c.MinScale < 0 || c.MaxScale < 0 || (c.MinScale > 0 && c.MaxScale > 0 && c.MinScale > c.MaxScale) {
		return fmt.Errorf("invalid scale range [%v, %v]", c.MinScale, c.MaxScale)
	}
	if _, err := ParseColor(c.TextColor); err != nil {
		return fmt.Errorf("text_color: %w", err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
