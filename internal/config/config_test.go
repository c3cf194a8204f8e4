package config

import (
	"errors"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFilename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Window.Width != DefaultWidth || c.Window.Height != DefaultHeight || c.Scene.Shapes != DefaultShapes {
		t.Errorf("defaults = %+v", c)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
window:
  width: 1280
  vsync: true
renderer:
  maxTriangles: 256
  clearColor: "#ff8000"
debug:
  enabled: true
  output: stderr
log:
  level: debug
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Window.Width != 1280 || c.Window.Height != DefaultHeight || !c.Window.VSync {
		t.Errorf("window = %+v", c.Window)
	}
	if c.Renderer.MaxTriangles != 256 || !c.Debug.Enabled || c.Debug.Output != "stderr" {
		t.Errorf("renderer/debug = %+v %+v", c.Renderer, c.Debug)
	}
	if level, _ := c.LogLevel(); level != slog.LevelDebug {
		t.Errorf("level = %v", level)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	c, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c != Default() {
		t.Errorf("empty file = %+v, want defaults", c)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"unknown key", "window:\n  depth: 3\n", false},
		{"bad version", "version: 2\n", true},
		{"negative capacity", "renderer:\n  maxTriangles: -1\n", true},
		{"bad color", "renderer:\n  clearColor: red\n", true},
		{"bad level", "log:\n  level: loud\n", true},
		{"negative frames", "capture:\n  frames: -3\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if errors.Is(err, ErrInvalid) != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalid) = %v, want %v", err, !tt.invalid, tt.invalid)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want ErrNotExist", err)
	}
}

func TestWriteLoad(t *testing.T) {
	want := Default()
	want.Window.Title = "written"
	want.Capture = CaptureConfig{Screenshot: "out/frame.png", Frames: 120, Trace: "frames.tslf"}
	want.Renderer.ClearOnAutoFlush = true

	path := filepath.Join(t.TempDir(), "sub", DefaultFilename)
	if err := Write(path, want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff8000", color.RGBA{255, 128, 0, 255}, true},
		{"#10203040", color.RGBA{0x10, 0x20, 0x30, 0x40}, true},
		{"ff8000", color.RGBA{}, false},
		{"#ff80", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v", tt.in, got, err)
		}
	}
}
