package graphics

import (
	"errors"
	"strings"
	"testing"

	glpkg "github.com/tinyrange/glbatch/internal/gowin/gl"
	"github.com/tinyrange/glbatch/internal/gowin/gl/gltest"
)

func TestCompileProgram(t *testing.T) {
	dev := gltest.New()
	program, err := CompileProgram(dev, batchVertexShaderSource, batchFragmentShaderSource)
	if err != nil {
		t.Fatalf("CompileProgram failed: %v", err)
	}
	live := dev.Live()
	if len(live) != 1 || live[program] != "program" {
		t.Errorf("live objects = %v, want only program %d", live, program)
	}
	if dev.Count("AttachShader") != 2 || dev.Count("LinkProgram") != 1 {
		t.Errorf("calls = %v", dev.Calls)
	}
}

func TestCompileProgramFailures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(d *gltest.Device)
		wantStage ShaderStage
		wantMsg   string
	}{
		{
			name:      "vertex",
			setup:     func(d *gltest.Device) { d.CompileLogs[glpkg.VertexShader] = "bad vertex" },
			wantStage: StageVertex,
			wantMsg:   "vertex shader compilation failed: bad vertex",
		},
		{
			name:      "fragment",
			setup:     func(d *gltest.Device) { d.CompileLogs[glpkg.FragmentShader] = "bad fragment" },
			wantStage: StageFragment,
			wantMsg:   "fragment shader compilation failed: bad fragment",
		},
		{
			name:      "link",
			setup:     func(d *gltest.Device) { d.LinkLog = "unresolved v_color" },
			wantStage: StageLink,
			wantMsg:   "program linking failed: unresolved v_color",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gltest.New()
			tt.setup(dev)

			program, err := CompileProgram(dev, "v", "f")
			if program != 0 {
				t.Errorf("program = %d, want 0", program)
			}
			var shaderErr *ShaderError
			if !errors.As(err, &shaderErr) {
				t.Fatalf("error = %v, want *ShaderError", err)
			}
			if shaderErr.Stage != tt.wantStage {
				t.Errorf("stage = %q, want %q", shaderErr.Stage, tt.wantStage)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
			if live := dev.Live(); len(live) != 0 {
				t.Errorf("objects leaked: %v", live)
			}
		})
	}
}
