package gl

import "unsafe"

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000

	// RGBA is a pixel format representing red/green/blue/alpha.
	RGBA = 0x1908

	// UnsignedByte is a pixel data type indicating 8-bit unsigned values.
	UnsignedByte = 0x1401
	// Float is a data type indicating 32-bit floating point values.
	Float = 0x1406

	// PackAlignment specifies the alignment of rows returned by ReadPixels.
	PackAlignment = 0x0D05

	// Triangles is a primitive type for drawing triangles.
	Triangles = 0x0004

	// ArrayBuffer is the target for vertex buffer objects.
	ArrayBuffer = 0x8892
	// StaticDraw indicates that buffer data will be modified once and used many times.
	StaticDraw = 0x88E4
	// DynamicDraw indicates that buffer data will be modified repeatedly and used many times.
	DynamicDraw = 0x88E8

	// Shader types
	VertexShader   = 0x8B31
	FragmentShader = 0x8B30

	// Shader/Program status
	CompileStatus = 0x8B81
	LinkStatus    = 0x8B82
	InfoLogLength = 0x8B84

	// Blending capabilities and factors.
	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer returns the name of the renderer (usually the GPU).
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
	// ShadingLanguageVersion returns the GLSL version string.
	ShadingLanguageVersion = 0x8B8C

	// ContextProfileMask is queried with GetIntegerv to find the context profile.
	ContextProfileMask             = 0x9126
	ContextCoreProfileBit          = 0x00000001
	ContextCompatibilityProfileBit = 0x00000002

	// KHR_debug capabilities.
	DebugOutput            = 0x92E0
	DebugOutputSynchronous = 0x8242

	// Debug message sources.
	DebugSourceAPI            = 0x8246
	DebugSourceWindowSystem   = 0x8247
	DebugSourceShaderCompiler = 0x8248
	DebugSourceThirdParty     = 0x8249
	DebugSourceApplication    = 0x824A
	DebugSourceOther          = 0x824B

	// Debug message types.
	DebugTypeError              = 0x824C
	DebugTypeDeprecatedBehavior = 0x824D
	DebugTypeUndefinedBehavior  = 0x824E
	DebugTypePortability        = 0x824F
	DebugTypePerformance        = 0x8250
	DebugTypeOther              = 0x8251
	DebugTypeMarker             = 0x8268
	DebugTypePushGroup          = 0x8269
	DebugTypePopGroup           = 0x826A

	// Debug message severities.
	DebugSeverityHigh         = 0x9146
	DebugSeverityMedium       = 0x9147
	DebugSeverityLow          = 0x9148
	DebugSeverityNotification = 0x826B
)

// DebugProc receives messages from the driver's debug output stream.
type DebugProc func(source, xtype, id, severity uint32, message string)

// OpenGL describes the subset of OpenGL entry points used by this module.
//
// Implementations typically wrap platform-specific GL bindings. All methods are
// expected to operate on the currently current GL context for the calling thread.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Enable enables a server-side GL capability (e.g., Blend).
	Enable(cap uint32)

	// Disable disables a server-side GL capability.
	Disable(cap uint32)

	// BlendFunc specifies the pixel arithmetic for blending (e.g., SrcAlpha and OneMinusSrcAlpha).
	BlendFunc(sfactor, dfactor uint32)

	// PixelStorei sets pixel storage modes (e.g., PackAlignment).
	PixelStorei(pname uint32, param int32)

	// GetIntegerv returns the value of a simple state variable.
	GetIntegerv(pname uint32, data *int32)

	// Buffer operations
	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset int, size int, data unsafe.Pointer)

	// Vertex Array Object operations
	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	// Shader operations
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Program operations
	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniform operations
	GetUniformLocation(program uint32, name string) int32
	// GetAttribLocation returns the location of an attribute variable.
	GetAttribLocation(program uint32, name string) int32
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)

	// Drawing
	DrawArrays(mode uint32, first int32, count int32)

	// ReadPixels reads a block of pixels from the framebuffer into client memory.
	ReadPixels(
		x int32,
		y int32,
		width int32,
		height int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)

	// GetString returns a string describing a GL property for the current context.
	//
	// Common names are Vendor and Version.
	// If the name is not recognized or no context is current, implementations may
	// return the empty string.
	GetString(name uint32) string

	// SupportsDebugOutput reports whether the KHR_debug entry points resolved.
	SupportsDebugOutput() bool
	// DebugMessageCallback installs fn as the debug output receiver. A nil fn
	// removes the current receiver.
	DebugMessageCallback(fn DebugProc)
	// DebugMessageInsert injects a message into the debug output stream.
	DebugMessageInsert(source, xtype, id, severity uint32, message string)
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
