package gl

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcAddressFunc resolves an entry point of the current context by name. It
// returns nil when the driver does not export the symbol.
type ProcAddressFunc func(name string) unsafe.Pointer

// procGL implements OpenGL by calling driver entry points through purego.
type procGL struct {
	glClearColor              func(r, g, b, a float32)
	glClear                   func(mask uint32)
	glViewport                func(x, y, width, height int32)
	glEnable                  func(cap uint32)
	glDisable                 func(cap uint32)
	glBlendFunc               func(sfactor, dfactor uint32)
	glPixelStorei             func(pname uint32, param int32)
	glGetIntegerv             func(pname uint32, data *int32)
	glGetString               func(name uint32) *byte
	glGenBuffers              func(n int32, buffers *uint32)
	glDeleteBuffers           func(n int32, buffers *uint32)
	glBindBuffer              func(target, buffer uint32)
	glBufferData              func(target uint32, size int, data unsafe.Pointer, usage uint32)
	glBufferSubData           func(target uint32, offset, size int, data unsafe.Pointer)
	glGenVertexArrays         func(n int32, arrays *uint32)
	glDeleteVertexArrays      func(n int32, arrays *uint32)
	glBindVertexArray         func(array uint32)
	glVertexAttribPointer     func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	glEnableVertexAttribArray func(index uint32)
	glCreateShader            func(xtype uint32) uint32
	glShaderSource            func(shader uint32, count int32, src **byte, length *int32)
	glCompileShader           func(shader uint32)
	glGetShaderiv             func(shader, pname uint32, params *int32)
	glGetShaderInfoLog        func(shader uint32, bufSize int32, length *int32, log *byte)
	glDeleteShader            func(shader uint32)
	glCreateProgram           func() uint32
	glAttachShader            func(program, shader uint32)
	glLinkProgram             func(program uint32)
	glGetProgramiv            func(program, pname uint32, params *int32)
	glGetProgramInfoLog       func(program uint32, bufSize int32, length *int32, log *byte)
	glUseProgram              func(program uint32)
	glDeleteProgram           func(program uint32)
	glGetUniformLocation      func(program uint32, name string) int32
	glGetAttribLocation       func(program uint32, name string) int32
	glUniformMatrix4fv        func(location, count int32, transpose bool, value *float32)
	glDrawArrays              func(mode uint32, first, count int32)
	glReadPixels              func(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)

	// KHR_debug, optional.
	glDebugMessageCallback func(callback uintptr, userParam unsafe.Pointer)
	glDebugMessageInsert   func(source, xtype, id, severity uint32, length int32, buf string)

	debugProc     DebugProc
	debugCallback uintptr
}

type entryPoint struct {
	names    []string
	fptr     any
	optional bool
}

func (g *procGL) entryPoints() []entryPoint {
	req := func(name string, fptr any) entryPoint {
		return entryPoint{names: []string{name}, fptr: fptr}
	}
	return []entryPoint{
		req("glClearColor", &g.glClearColor),
		req("glClear", &g.glClear),
		req("glViewport", &g.glViewport),
		req("glEnable", &g.glEnable),
		req("glDisable", &g.glDisable),
		req("glBlendFunc", &g.glBlendFunc),
		req("glPixelStorei", &g.glPixelStorei),
		req("glGetIntegerv", &g.glGetIntegerv),
		req("glGetString", &g.glGetString),
		req("glGenBuffers", &g.glGenBuffers),
		req("glDeleteBuffers", &g.glDeleteBuffers),
		req("glBindBuffer", &g.glBindBuffer),
		req("glBufferData", &g.glBufferData),
		req("glBufferSubData", &g.glBufferSubData),
		req("glGenVertexArrays", &g.glGenVertexArrays),
		req("glDeleteVertexArrays", &g.glDeleteVertexArrays),
		req("glBindVertexArray", &g.glBindVertexArray),
		req("glVertexAttribPointer", &g.glVertexAttribPointer),
		req("glEnableVertexAttribArray", &g.glEnableVertexAttribArray),
		req("glCreateShader", &g.glCreateShader),
		req("glShaderSource", &g.glShaderSource),
		req("glCompileShader", &g.glCompileShader),
		req("glGetShaderiv", &g.glGetShaderiv),
		req("glGetShaderInfoLog", &g.glGetShaderInfoLog),
		req("glDeleteShader", &g.glDeleteShader),
		req("glCreateProgram", &g.glCreateProgram),
		req("glAttachShader", &g.glAttachShader),
		req("glLinkProgram", &g.glLinkProgram),
		req("glGetProgramiv", &g.glGetProgramiv),
		req("glGetProgramInfoLog", &g.glGetProgramInfoLog),
		req("glUseProgram", &g.glUseProgram),
		req("glDeleteProgram", &g.glDeleteProgram),
		req("glGetUniformLocation", &g.glGetUniformLocation),
		req("glGetAttribLocation", &g.glGetAttribLocation),
		req("glUniformMatrix4fv", &g.glUniformMatrix4fv),
		req("glDrawArrays", &g.glDrawArrays),
		req("glReadPixels", &g.glReadPixels),
		{
			names:    []string{"glDebugMessageCallback", "glDebugMessageCallbackKHR"},
			fptr:     &g.glDebugMessageCallback,
			optional: true,
		},
		{
			names:    []string{"glDebugMessageInsert", "glDebugMessageInsertKHR"},
			fptr:     &g.glDebugMessageInsert,
			optional: true,
		},
	}
}

// Load resolves every entry point this package needs. It must be called after
// a context has been made current on the calling thread.
func Load(proc ProcAddressFunc) (OpenGL, error) {
	if proc == nil {
		return nil, fmt.Errorf("gl: nil proc address resolver")
	}

	g := &procGL{}
	var missing []string
	for _, ep := range g.entryPoints() {
		var addr unsafe.Pointer
		for _, name := range ep.names {
			if addr = proc(name); addr != nil {
				break
			}
		}
		if addr == nil {
			if !ep.optional {
				missing = append(missing, ep.names[0])
			}
			continue
		}
		purego.RegisterFunc(ep.fptr, uintptr(addr))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("gl: missing entry points: %s", strings.Join(missing, ", "))
	}
	return g, nil
}

func (g *procGL) ClearColor(r, gr, b, a float32) { g.glClearColor(r, gr, b, a) }
func (g *procGL) Clear(mask uint32)              { g.glClear(mask) }
func (g *procGL) Viewport(x, y, w, h int32)      { g.glViewport(x, y, w, h) }
func (g *procGL) Enable(cap uint32)              { g.glEnable(cap) }
func (g *procGL) Disable(cap uint32)             { g.glDisable(cap) }
func (g *procGL) BlendFunc(s, d uint32)          { g.glBlendFunc(s, d) }

func (g *procGL) PixelStorei(pname uint32, param int32) { g.glPixelStorei(pname, param) }
func (g *procGL) GetIntegerv(pname uint32, data *int32) { g.glGetIntegerv(pname, data) }

func (g *procGL) GetString(name uint32) string {
	return gostring(g.glGetString(name))
}

func (g *procGL) GenBuffers(n int32, buffers *uint32)    { g.glGenBuffers(n, buffers) }
func (g *procGL) DeleteBuffers(n int32, buffers *uint32) { g.glDeleteBuffers(n, buffers) }
func (g *procGL) BindBuffer(target, buffer uint32)       { g.glBindBuffer(target, buffer) }

func (g *procGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	g.glBufferData(target, size, data, usage)
}

func (g *procGL) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	g.glBufferSubData(target, offset, size, data)
}

func (g *procGL) GenVertexArrays(n int32, arrays *uint32)    { g.glGenVertexArrays(n, arrays) }
func (g *procGL) DeleteVertexArrays(n int32, arrays *uint32) { g.glDeleteVertexArrays(n, arrays) }
func (g *procGL) BindVertexArray(array uint32)               { g.glBindVertexArray(array) }
func (g *procGL) EnableVertexAttribArray(index uint32)       { g.glEnableVertexAttribArray(index) }

func (g *procGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	g.glVertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (g *procGL) CreateShader(xtype uint32) uint32 { return g.glCreateShader(xtype) }

func (g *procGL) ShaderSource(shader uint32, source string) {
	csrc := append([]byte(source), 0)
	p := &csrc[0]
	g.glShaderSource(shader, 1, &p, nil)
	runtime.KeepAlive(csrc)
}

func (g *procGL) CompileShader(shader uint32) { g.glCompileShader(shader) }
func (g *procGL) DeleteShader(shader uint32)  { g.glDeleteShader(shader) }

func (g *procGL) GetShaderiv(shader, pname uint32, params *int32) {
	g.glGetShaderiv(shader, pname, params)
}

func (g *procGL) GetShaderInfoLog(shader uint32) string {
	var n int32
	g.glGetShaderiv(shader, InfoLogLength, &n)
	return readInfoLog(n, func(size int32, written *int32, buf *byte) {
		g.glGetShaderInfoLog(shader, size, written, buf)
	})
}

func (g *procGL) CreateProgram() uint32               { return g.glCreateProgram() }
func (g *procGL) AttachShader(program, shader uint32) { g.glAttachShader(program, shader) }
func (g *procGL) LinkProgram(program uint32)          { g.glLinkProgram(program) }
func (g *procGL) UseProgram(program uint32)           { g.glUseProgram(program) }
func (g *procGL) DeleteProgram(program uint32)        { g.glDeleteProgram(program) }

func (g *procGL) GetProgramiv(program, pname uint32, params *int32) {
	g.glGetProgramiv(program, pname, params)
}

func (g *procGL) GetProgramInfoLog(program uint32) string {
	var n int32
	g.glGetProgramiv(program, InfoLogLength, &n)
	return readInfoLog(n, func(size int32, written *int32, buf *byte) {
		g.glGetProgramInfoLog(program, size, written, buf)
	})
}

func readInfoLog(size int32, read func(size int32, written *int32, buf *byte)) string {
	if size <= 1 {
		return ""
	}
	buf := make([]byte, size)
	var written int32
	read(size, &written, &buf[0])
	if written < 0 || written > size {
		written = 0
	}
	return strings.TrimRight(string(buf[:written]), "\x00\n")
}

func (g *procGL) GetUniformLocation(program uint32, name string) int32 {
	return g.glGetUniformLocation(program, name)
}

func (g *procGL) GetAttribLocation(program uint32, name string) int32 {
	return g.glGetAttribLocation(program, name)
}

func (g *procGL) UniformMatrix4fv(location, count int32, transpose bool, value *float32) {
	g.glUniformMatrix4fv(location, count, transpose, value)
}

func (g *procGL) DrawArrays(mode uint32, first, count int32) { g.glDrawArrays(mode, first, count) }

func (g *procGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	g.glReadPixels(x, y, width, height, format, xtype, pixels)
}

func (g *procGL) SupportsDebugOutput() bool {
	return g.glDebugMessageCallback != nil && g.glDebugMessageInsert != nil
}

func (g *procGL) DebugMessageCallback(fn DebugProc) {
	if !g.SupportsDebugOutput() {
		return
	}
	g.debugProc = fn
	if fn == nil {
		g.glDebugMessageCallback(0, nil)
		return
	}
	// purego callbacks are never released, so one trampoline is shared by
	// every receiver installed on this device.
	if g.debugCallback == 0 {
		g.debugCallback = purego.NewCallback(g.dispatchDebug)
	}
	g.glDebugMessageCallback(g.debugCallback, nil)
}

func (g *procGL) DebugMessageInsert(source, xtype, id, severity uint32, message string) {
	if !g.SupportsDebugOutput() {
		return
	}
	g.glDebugMessageInsert(source, xtype, id, severity, int32(len(message)), message)
}

// dispatchDebug is the C-callable trampoline for GLDEBUGPROC. Every argument is
// taken as a full register; GLenum/GLsizei values live in the low 32 bits.
func (g *procGL) dispatchDebug(source, xtype, id, severity, length, message, _ uintptr) uintptr {
	fn := g.debugProc
	if fn == nil || message == 0 {
		return 0
	}
	p := (*byte)(unsafe.Pointer(message))
	var text string
	if n := int32(length); n > 0 {
		text = string(unsafe.Slice(p, int(n)))
	} else {
		text = gostring(p)
	}
	fn(uint32(source), uint32(xtype), uint32(id), uint32(severity), strings.TrimRight(text, "\x00"))
	return 0
}
