package graphics

import (
	"fmt"

	glpkg "github.com/tinyrange/glbatch/internal/gowin/gl"
)

const (
	batchVertexShaderSource = `#version 330 core
in vec2 a_position;
in vec4 a_color;

out vec4 v_color;

uniform mat4 u_proj;

void main() {
	gl_Position = u_proj * vec4(a_position, 0.0, 1.0);
	v_color = a_color;
}`

	batchFragmentShaderSource = `#version 330 core
in vec4 v_color;

out vec4 fragColor;

void main() {
	fragColor = v_color;
}`
)

// ShaderStage names the step of program creation that failed.
type ShaderStage string

const (
	StageVertex   ShaderStage = "vertex"
	StageFragment ShaderStage = "fragment"
	StageLink     ShaderStage = "link"
)

// ShaderError carries the driver's info log for a failed compile or link.
type ShaderError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("program linking failed: %s", e.Log)
	}
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// CompileProgram compiles and links a vertex/fragment pair. On failure every
// object it created has been deleted and the error is a *ShaderError.
func CompileProgram(gl glpkg.OpenGL, vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(gl, glpkg.VertexShader, StageVertex, vertexSrc)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(gl, glpkg.FragmentShader, StageFragment, fragmentSrc)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	// Create program and link
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// Shaders can be deleted after linking
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, glpkg.LinkStatus, &status)
	if status == 0 {
		log := gl.GetProgramInfoLog(program)
		gl.DeleteProgram(program)
		return 0, &ShaderError{Stage: StageLink, Log: log}
	}

	return program, nil
}

func compileShader(gl glpkg.OpenGL, xtype uint32, stage ShaderStage, src string) (uint32, error) {
	shader := gl.CreateShader(xtype)
	gl.ShaderSource(shader, src)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, glpkg.CompileStatus, &status)
	if status == 0 {
		log := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &ShaderError{Stage: stage, Log: log}
	}
	return shader, nil
}
