package gl_test

import (
	"testing"

	"github.com/tinyrange/glbatch/internal/gowin/gl"
	"github.com/tinyrange/glbatch/internal/gowin/gl/gltest"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
		wantErr      bool
	}{
		{in: "3.3.0 NVIDIA 535.54.03", major: 3, minor: 3},
		{in: "4.6 (Core Profile) Mesa 24.0.5", major: 4, minor: 6},
		{in: "OpenGL ES 3.2 Mesa 23.1", major: 3, minor: 2},
		{in: "", wantErr: true},
		{in: "unknown", wantErr: true},
	}
	for _, tt := range tests {
		major, minor, err := gl.ParseVersion(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVersion(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q) failed: %v", tt.in, err)
			continue
		}
		if major != tt.major || minor != tt.minor {
			t.Errorf("ParseVersion(%q) = %d.%d, want %d.%d", tt.in, major, minor, tt.major, tt.minor)
		}
	}
}

func TestProfileName(t *testing.T) {
	if got := gl.ProfileName(gl.ContextCoreProfileBit); got != "Core" {
		t.Errorf("core = %q", got)
	}
	if got := gl.ProfileName(gl.ContextCompatibilityProfileBit); got != "Compatibility" {
		t.Errorf("compat = %q", got)
	}
	if got := gl.ProfileName(0); got != "Unknown" {
		t.Errorf("zero = %q", got)
	}
}

func TestQueryInfo(t *testing.T) {
	dev := gltest.New()
	delete(dev.Strings, gl.Vendor)

	info := gl.QueryInfo(dev)
	want := gl.Info{
		Version:     "3.3.0 gltest",
		Vendor:      "NULL",
		Renderer:    "gltest",
		GLSLVersion: "3.30",
		Profile:     "Core",
	}
	if info != want {
		t.Errorf("QueryInfo = %+v, want %+v", info, want)
	}
}

func TestRequireVersion(t *testing.T) {
	dev := gltest.New()
	if err := gl.RequireVersion(dev, 3, 3); err != nil {
		t.Errorf("3.3 context rejected: %v", err)
	}
	if err := gl.RequireVersion(dev, 3, 0); err != nil {
		t.Errorf("3.0 requirement rejected: %v", err)
	}
	if err := gl.RequireVersion(dev, 4, 1); err == nil {
		t.Error("4.1 requirement accepted on a 3.3 context")
	}

	dev.Strings[gl.Version] = "2.1 Mesa"
	if err := gl.RequireVersion(dev, 3, 3); err == nil {
		t.Error("2.1 context accepted")
	}
}
