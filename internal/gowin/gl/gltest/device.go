// Package gltest provides a recording gl.OpenGL implementation for tests that
// run without a driver.
package gltest

import (
	"fmt"
	"unsafe"

	"github.com/tinyrange/glbatch/internal/gowin/gl"
)

// Draw records one DrawArrays call.
type Draw struct {
	Mode  uint32
	First int32
	Count int32
}

// Upload records one BufferSubData call.
type Upload struct {
	Target uint32
	Offset int
	Data   []byte
}

// DebugMessage records one DebugMessageInsert call.
type DebugMessage struct {
	Source, Type, ID, Severity uint32
	Message                    string
}

// Device is a fake OpenGL device. Object names are handed out from a single
// counter starting at 1, and every name is tracked until it is deleted so
// tests can assert that nothing leaks.
type Device struct {
	// Calls lists every method invoked, by name, in order.
	Calls []string

	Draws   []Draw
	Uploads []Upload
	Clears  []uint32

	ClearColorValue [4]float32
	ViewportValue   [4]int32
	Enabled         map[uint32]bool

	// Strings answers GetString; Integers answers GetIntegerv.
	Strings  map[uint32]string
	Integers map[uint32]int32

	// CompileLogs makes compilation of the given shader type fail with the log.
	CompileLogs map[uint32]string
	// LinkLog makes every link fail with the log when non-empty.
	LinkLog string

	// Matrices holds the last matrix uploaded per uniform location.
	Matrices map[int32][16]float32
	// Attribs maps attribute names to locations; unknown names get -1.
	Attribs  map[string]int32
	Uniforms map[string]int32

	BufferSizes   map[uint32]int
	BoundArray    uint32
	BoundVAO      uint32
	ActiveProgram uint32

	// Debug enables the KHR_debug entry points.
	Debug     bool
	DebugProc gl.DebugProc
	Inserted  []DebugMessage

	// Pixel returns the framebuffer color at (x, y) with y counted from the
	// bottom row, as glReadPixels does.
	Pixel func(x, y int) [4]byte

	nextName    uint32
	shaderTypes map[uint32]uint32
	live        map[uint32]string
}

var _ gl.OpenGL = (*Device)(nil)

// New returns a Device reporting an OpenGL 3.3 core context.
func New() *Device {
	return &Device{
		Enabled: make(map[uint32]bool),
		Strings: map[uint32]string{
			gl.Version:                "3.3.0 gltest",
			gl.Vendor:                 "tinyrange",
			gl.Renderer:               "gltest",
			gl.ShadingLanguageVersion: "3.30",
		},
		Integers: map[uint32]int32{
			gl.ContextProfileMask: gl.ContextCoreProfileBit,
		},
		CompileLogs: make(map[uint32]string),
		Matrices:    make(map[int32][16]float32),
		Attribs: map[string]int32{
			"a_position": 0,
			"a_color":    1,
		},
		Uniforms: map[string]int32{
			"u_proj": 0,
		},
		BufferSizes: make(map[uint32]int),
		shaderTypes: make(map[uint32]uint32),
		live:        make(map[uint32]string),
	}
}

// Live returns the names of objects that were created and not yet deleted.
func (d *Device) Live() map[uint32]string {
	out := make(map[uint32]string, len(d.live))
	for k, v := range d.live {
		out[k] = v
	}
	return out
}

// Count returns how many times the named method was called.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls, draws, uploads and clears.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
	d.Uploads = nil
	d.Clears = nil
}

func (d *Device) record(name string) { d.Calls = append(d.Calls, name) }

func (d *Device) gen(kind string) uint32 {
	d.nextName++
	d.live[d.nextName] = kind
	return d.nextName
}

func (d *Device) release(kind string, name uint32) {
	if name == 0 {
		return
	}
	if got, ok := d.live[name]; !ok || got != kind {
		panic(fmt.Sprintf("gltest: delete of unknown %s %d", kind, name))
	}
	delete(d.live, name)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor")
	d.ClearColorValue = [4]float32{r, g, b, a}
}

func (d *Device) Clear(mask uint32) {
	d.record("Clear")
	d.Clears = append(d.Clears, mask)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport")
	d.ViewportValue = [4]int32{x, y, width, height}
}

func (d *Device) Enable(cap uint32) {
	d.record("Enable")
	d.Enabled[cap] = true
}

func (d *Device) Disable(cap uint32) {
	d.record("Disable")
	delete(d.Enabled, cap)
}

func (d *Device) BlendFunc(sfactor, dfactor uint32) { d.record("BlendFunc") }

func (d *Device) PixelStorei(pname uint32, param int32) { d.record("PixelStorei") }

func (d *Device) GetIntegerv(pname uint32, data *int32) {
	d.record("GetIntegerv")
	*data = d.Integers[pname]
}

func (d *Device) GetString(name uint32) string {
	d.record("GetString")
	return d.Strings[name]
}

func (d *Device) GenBuffers(n int32, buffers *uint32) {
	d.record("GenBuffers")
	out := unsafe.Slice(buffers, n)
	for i := range out {
		out[i] = d.gen("buffer")
	}
}

func (d *Device) DeleteBuffers(n int32, buffers *uint32) {
	d.record("DeleteBuffers")
	for _, b := range unsafe.Slice(buffers, n) {
		d.release("buffer", b)
		delete(d.BufferSizes, b)
	}
}

func (d *Device) BindBuffer(target uint32, buffer uint32) {
	d.record("BindBuffer")
	if target == gl.ArrayBuffer {
		d.BoundArray = buffer
	}
}

func (d *Device) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	d.record("BufferData")
	d.BufferSizes[d.BoundArray] = size
}

func (d *Device) BufferSubData(target uint32, offset int, size int, data unsafe.Pointer) {
	d.record("BufferSubData")
	if limit, ok := d.BufferSizes[d.BoundArray]; ok && offset+size > limit {
		panic(fmt.Sprintf("gltest: BufferSubData overflows buffer %d (%d+%d > %d)", d.BoundArray, offset, size, limit))
	}
	payload := make([]byte, size)
	if size > 0 {
		copy(payload, unsafe.Slice((*byte)(data), size))
	}
	d.Uploads = append(d.Uploads, Upload{Target: target, Offset: offset, Data: payload})
}

func (d *Device) GenVertexArrays(n int32, arrays *uint32) {
	d.record("GenVertexArrays")
	out := unsafe.Slice(arrays, n)
	for i := range out {
		out[i] = d.gen("vao")
	}
}

func (d *Device) DeleteVertexArrays(n int32, arrays *uint32) {
	d.record("DeleteVertexArrays")
	for _, a := range unsafe.Slice(arrays, n) {
		d.release("vao", a)
	}
}

func (d *Device) BindVertexArray(array uint32) {
	d.record("BindVertexArray")
	d.BoundVAO = array
}

func (d *Device) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	d.record("VertexAttribPointer")
}

func (d *Device) EnableVertexAttribArray(index uint32) { d.record("EnableVertexAttribArray") }

func (d *Device) CreateShader(xtype uint32) uint32 {
	d.record("CreateShader")
	name := d.gen("shader")
	d.shaderTypes[name] = xtype
	return name
}

func (d *Device) ShaderSource(shader uint32, source string) { d.record("ShaderSource") }
func (d *Device) CompileShader(shader uint32)               { d.record("CompileShader") }

func (d *Device) GetShaderiv(shader uint32, pname uint32, params *int32) {
	d.record("GetShaderiv")
	switch pname {
	case gl.CompileStatus:
		*params = 1
		if d.CompileLogs[d.shaderTypes[shader]] != "" {
			*params = 0
		}
	case gl.InfoLogLength:
		*params = int32(len(d.CompileLogs[d.shaderTypes[shader]]))
	}
}

func (d *Device) GetShaderInfoLog(shader uint32) string {
	d.record("GetShaderInfoLog")
	return d.CompileLogs[d.shaderTypes[shader]]
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader")
	d.release("shader", shader)
	delete(d.shaderTypes, shader)
}

func (d *Device) CreateProgram() uint32 {
	d.record("CreateProgram")
	return d.gen("program")
}

func (d *Device) AttachShader(program uint32, shader uint32) { d.record("AttachShader") }
func (d *Device) LinkProgram(program uint32)                 { d.record("LinkProgram") }

func (d *Device) GetProgramiv(program uint32, pname uint32, params *int32) {
	d.record("GetProgramiv")
	switch pname {
	case gl.LinkStatus:
		*params = 1
		if d.LinkLog != "" {
			*params = 0
		}
	case gl.InfoLogLength:
		*params = int32(len(d.LinkLog))
	}
}

func (d *Device) GetProgramInfoLog(program uint32) string {
	d.record("GetProgramInfoLog")
	return d.LinkLog
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram")
	d.ActiveProgram = program
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram")
	d.release("program", program)
}

func (d *Device) GetUniformLocation(program uint32, name string) int32 {
	d.record("GetUniformLocation")
	if loc, ok := d.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) GetAttribLocation(program uint32, name string) int32 {
	d.record("GetAttribLocation")
	if loc, ok := d.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	d.record("UniformMatrix4fv")
	var m [16]float32
	copy(m[:], unsafe.Slice(value, 16))
	d.Matrices[location] = m
}

func (d *Device) DrawArrays(mode uint32, first int32, count int32) {
	d.record("DrawArrays")
	d.Draws = append(d.Draws, Draw{Mode: mode, First: first, Count: count})
}

func (d *Device) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	d.record("ReadPixels")
	if format != gl.RGBA || xtype != gl.UnsignedByte || width <= 0 || height <= 0 {
		return
	}
	dst := unsafe.Slice((*byte)(pixels), int(width)*int(height)*4)
	for row := 0; row < int(height); row++ {
		for col := 0; col < int(width); col++ {
			var px [4]byte
			if d.Pixel != nil {
				px = d.Pixel(int(x)+col, int(y)+row)
			}
			copy(dst[(row*int(width)+col)*4:], px[:])
		}
	}
}

func (d *Device) SupportsDebugOutput() bool { return d.Debug }

func (d *Device) DebugMessageCallback(fn gl.DebugProc) {
	d.record("DebugMessageCallback")
	if !d.Debug {
		return
	}
	d.DebugProc = fn
}

// DebugMessageInsert records the message and, like a synchronous debug
// context, delivers it to the installed callback before returning.
func (d *Device) DebugMessageInsert(source, xtype, id, severity uint32, message string) {
	d.record("DebugMessageInsert")
	if !d.Debug {
		return
	}
	d.Inserted = append(d.Inserted, DebugMessage{Source: source, Type: xtype, ID: id, Severity: severity, Message: message})
	if d.DebugProc != nil && d.Enabled[gl.DebugOutput] {
		d.DebugProc(source, xtype, id, severity, message)
	}
}
