// Package config loads the glbatch YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFilename = "glbatch.yaml"

	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultTitle      = "glbatch"
	DefaultClearColor = "#1a1a1f"
	DefaultLogLevel   = "info"
	DefaultShapes     = 400
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Version int `yaml:"version"`

	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Debug    DebugConfig    `yaml:"debug"`
	Capture  CaptureConfig  `yaml:"capture"`
	Log      LogConfig      `yaml:"log"`
	Scene    SceneConfig    `yaml:"scene"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	VSync     bool   `yaml:"vsync,omitempty"`
	FixedSize bool   `yaml:"fixedSize,omitempty"`
}

type RendererConfig struct {
	// MaxTriangles is the batch capacity; 0 selects the renderer default.
	MaxTriangles     int    `yaml:"maxTriangles,omitempty"`
	ClearColor       string `yaml:"clearColor"`
	ClearOnAutoFlush bool   `yaml:"clearOnAutoFlush,omitempty"`
}

type DebugConfig struct {
	Enabled bool `yaml:"enabled"`
	// Output receives the debug report: "stderr", "stdout", a file path, or
	// empty for slog only.
	Output string `yaml:"output,omitempty"`
}

type CaptureConfig struct {
	// Screenshot is written after the last frame when set.
	Screenshot string `yaml:"screenshot,omitempty"`
	// Frames stops the loop after this many frames; 0 runs until closed.
	Frames int `yaml:"frames,omitempty"`
	// Trace records per-frame phase timings to this file when set.
	Trace string `yaml:"trace,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Source bool   `yaml:"source,omitempty"`
}

type SceneConfig struct {
	// Shapes is the number of animated shapes drawn per frame.
	Shapes int `yaml:"shapes"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

func (c *Config) normalize() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width == 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height == 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Renderer.ClearColor == "" {
		c.Renderer.ClearColor = DefaultClearColor
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Scene.Shapes == 0 {
		c.Scene.Shapes = DefaultShapes
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalid, c.Version)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Renderer.MaxTriangles < 0 {
		return fmt.Errorf("%w: renderer.maxTriangles %d", ErrInvalid, c.Renderer.MaxTriangles)
	}
	if _, err := ParseColor(c.Renderer.ClearColor); err != nil {
		return fmt.Errorf("%w: renderer.clearColor: %v", ErrInvalid, err)
	}
	if c.Capture.Frames < 0 {
		return fmt.Errorf("%w: capture.frames %d", ErrInvalid, c.Capture.Frames)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if c.Scene.Shapes < 0 {
		return fmt.Errorf("%w: scene.shapes %d", ErrInvalid, c.Scene.Shapes)
	}
	return nil
}

// LogLevel parses Log.Level ("debug", "info", "warn", "error", optionally
// with an offset such as "debug-4").
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Load reads, normalizes and validates the config at path. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	c.normalize()

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Write stores c at path in YAML form.
func Write(path string, c Config) error {
	c.normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&c); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
