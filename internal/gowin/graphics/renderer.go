package graphics

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"unsafe"

	glpkg "github.com/tinyrange/glbatch/internal/gowin/gl"
)

var (
	ErrAlreadySetup = errors.New("renderer already set up")
	ErrNotSetup     = errors.New("renderer not set up")
	ErrClosed       = errors.New("renderer closed")
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	// MaxTriangles is the batch capacity. Zero selects MaxTriangles.
	MaxTriangles int

	// ClearColor is used by BeginFrame. Nil selects ColorBlack.
	ClearColor color.Color

	// ClearOnAutoFlush clears the color buffer again after an automatic
	// flush, erasing what the flush just drew. Off by default.
	ClearOnAutoFlush bool

	// Logger receives lifecycle and misuse messages. Nil selects slog.Default().
	Logger *slog.Logger
}

// Stats counts the work done since the last BeginFrame.
type Stats struct {
	// Flushes is the number of draw calls issued, automatic ones included.
	Flushes int
	// AutoFlushes is the number of flushes triggered by a full batch.
	AutoFlushes int
	// Triangles is the number of triangles pushed.
	Triangles int
	// Vertices is the number of vertices uploaded and drawn.
	Vertices int
}

type rendererState int

const (
	stateNew rendererState = iota
	stateReady
	stateClosed
)

// Renderer accumulates colored triangles and draws each batch with a single
// DrawArrays call. It must only be used from the thread that owns the GL
// context.
type Renderer struct {
	gl   glpkg.OpenGL
	opts RendererOptions
	log  *slog.Logger

	batch *Batch
	state rendererState

	program     uint32
	vao         uint32
	vbo         uint32
	projUniform int32

	proj       Mat4
	clearColor RGBA
	stats      Stats
}

// NewRenderer returns a renderer that will draw through gl. No GL calls are
// made until Setup.
func NewRenderer(gl glpkg.OpenGL, opts RendererOptions) *Renderer {
	if opts.ClearColor == nil {
		opts.ClearColor = ColorBlack
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		gl:         gl,
		opts:       opts,
		log:        logger,
		batch:      NewBatch(opts.MaxTriangles),
		proj:       IdentityMat4(),
		clearColor: ColorToFloat32(opts.ClearColor),
	}
}

// Setup compiles the batch program and creates the vertex array and buffer.
// A GL context must be current.
func (r *Renderer) Setup() error {
	switch r.state {
	case stateReady:
		return ErrAlreadySetup
	case stateClosed:
		return ErrClosed
	}

	program, err := CompileProgram(r.gl, batchVertexShaderSource, batchFragmentShaderSource)
	if err != nil {
		return fmt.Errorf("create batch program: %w", err)
	}

	posLoc := r.gl.GetAttribLocation(program, "a_position")
	colLoc := r.gl.GetAttribLocation(program, "a_color")
	if posLoc < 0 || colLoc < 0 {
		r.gl.DeleteProgram(program)
		return fmt.Errorf("batch program is missing vertex attributes (a_position=%d a_color=%d)", posLoc, colLoc)
	}

	r.program = program
	r.projUniform = r.gl.GetUniformLocation(program, "u_proj")

	var vao, vbo uint32
	r.gl.GenVertexArrays(1, &vao)
	r.gl.GenBuffers(1, &vbo)
	r.vao = vao
	r.vbo = vbo

	r.gl.BindVertexArray(vao)
	r.gl.BindBuffer(glpkg.ArrayBuffer, vbo)
	r.gl.BufferData(glpkg.ArrayBuffer, r.batch.MaxTriangles()*3*int(vertexStride), nil, glpkg.DynamicDraw)

	// Position: 2 floats at offset 0
	r.gl.VertexAttribPointer(uint32(posLoc), 2, glpkg.Float, false, vertexStride, 0)
	r.gl.EnableVertexAttribArray(uint32(posLoc))
	// Color: 4 floats at offset 2*4 = 8
	r.gl.VertexAttribPointer(uint32(colLoc), 4, glpkg.Float, false, vertexStride, vertexColorOffset)
	r.gl.EnableVertexAttribArray(uint32(colLoc))

	r.gl.BindBuffer(glpkg.ArrayBuffer, 0)
	r.gl.BindVertexArray(0)

	r.gl.Enable(glpkg.Blend)
	r.gl.BlendFunc(glpkg.SrcAlpha, glpkg.OneMinusSrcAlpha)

	r.state = stateReady
	r.log.Debug("batch renderer ready",
		"program", program,
		"vao", vao,
		"vbo", vbo,
		"max_triangles", r.batch.MaxTriangles(),
	)
	return nil
}

// Cleanup releases the GL objects owned by the renderer. It is safe to call
// more than once; afterwards every other method fails or does nothing.
func (r *Renderer) Cleanup() {
	if r.state == stateReady {
		vao, vbo := r.vao, r.vbo
		r.gl.DeleteVertexArrays(1, &vao)
		r.gl.DeleteBuffers(1, &vbo)
		r.gl.DeleteProgram(r.program)
		r.vao, r.vbo, r.program = 0, 0, 0
		r.log.Debug("batch renderer released", "high_water", r.batch.HighWater())
	}
	r.state = stateClosed
	r.batch.Reset()
}

func (r *Renderer) usable() error {
	switch r.state {
	case stateNew:
		return ErrNotSetup
	case stateClosed:
		return ErrClosed
	}
	return nil
}

// SetProjection sets the matrix uploaded to u_proj on every flush.
func (r *Renderer) SetProjection(m Mat4) { r.proj = m }

// Projection returns the current projection matrix.
func (r *Renderer) Projection() Mat4 { return r.proj }

// SetClearColor changes the color used by BeginFrame.
func (r *Renderer) SetClearColor(c color.Color) { r.clearColor = ColorToFloat32(c) }

// Resize updates the viewport and recomputes a top-left origin pixel
// projection for a framebuffer of the given size.
func (r *Renderer) Resize(width, height int) error {
	proj, err := ScreenOrtho(width, height)
	if err != nil {
		return err
	}
	if err := r.usable(); err == nil {
		r.gl.Viewport(0, 0, int32(width), int32(height))
	}
	r.proj = proj
	return nil
}

// Batch exposes the host-side vertex buffer.
func (r *Renderer) Batch() *Batch { return r.batch }

// Stats returns the counters for the current frame.
func (r *Renderer) Stats() Stats { return r.stats }

// BeginFrame clears the color buffer and starts an empty batch.
func (r *Renderer) BeginFrame() error {
	if err := r.usable(); err != nil {
		return err
	}
	r.stats = Stats{}
	r.clear()
	r.batch.Reset()
	return nil
}

func (r *Renderer) clear() {
	c := r.clearColor
	r.gl.ClearColor(c[0], c[1], c[2], c[3])
	r.gl.Clear(glpkg.ColorBufferBit)
}

// EndFrame uploads the batch and draws it as a triangle list. An empty batch
// issues a draw of zero vertices.
func (r *Renderer) EndFrame() error {
	if err := r.usable(); err != nil {
		return err
	}
	r.flush()
	return nil
}

func (r *Renderer) flush() {
	verts := r.batch.Vertices()

	r.gl.UseProgram(r.program)
	r.gl.UniformMatrix4fv(r.projUniform, 1, false, &r.proj[0])
	r.gl.BindVertexArray(r.vao)
	r.gl.BindBuffer(glpkg.ArrayBuffer, r.vbo)
	if len(verts) > 0 {
		r.gl.BufferSubData(glpkg.ArrayBuffer, 0, len(verts)*int(vertexStride), unsafe.Pointer(&verts[0]))
	}
	r.gl.DrawArrays(glpkg.Triangles, 0, int32(len(verts)))
	r.gl.BindVertexArray(0)

	r.stats.Flushes++
	r.stats.Vertices += len(verts)
}

// autoFlush draws the full batch and starts a new one within the same frame.
func (r *Renderer) autoFlush() {
	r.flush()
	r.stats.AutoFlushes++
	if r.opts.ClearOnAutoFlush {
		r.clear()
	}
	r.batch.Reset()
}

func (r *Renderer) push(tri [3]Vertex) {
	if r.batch.IsFull() {
		r.autoFlush()
	}
	r.batch.Append(tri)
	r.stats.Triangles++
}

func (r *Renderer) dropped(op string) bool {
	if err := r.usable(); err != nil {
		r.log.Warn("batch push dropped", "op", op, "error", err)
		return true
	}
	return false
}

// PushTriangle appends one triangle, flushing first if the batch is full.
func (r *Renderer) PushTriangle(pos [3]Vec2, col [3]RGBA) {
	if r.dropped("triangle") {
		return
	}
	r.push([3]Vertex{
		NewVertex(pos[0], col[0]),
		NewVertex(pos[1], col[1]),
		NewVertex(pos[2], col[2]),
	})
}

// PushQuad appends the quad v0..v3 as triangles {v0, v1, v2} and {v3, v1, v2}.
// The expected layout is v0=(x,y), v1=(x+w,y), v2=(x,y+h), v3=(x+w,y+h).
func (r *Renderer) PushQuad(pos [4]Vec2, col [4]RGBA) {
	if r.dropped("quad") {
		return
	}
	if r.batch.IsFull() {
		r.autoFlush()
	}
	v0 := NewVertex(pos[0], col[0])
	v1 := NewVertex(pos[1], col[1])
	v2 := NewVertex(pos[2], col[2])
	v3 := NewVertex(pos[3], col[3])
	r.push([3]Vertex{v0, v1, v2})
	r.push([3]Vertex{v3, v1, v2})
}

// PushRect appends an axis-aligned rectangle filled with c.
func (r *Renderer) PushRect(x, y, width, height float32, c color.Color) {
	rgba := ColorToFloat32(c)
	r.PushQuad(
		[4]Vec2{{x, y}, {x + width, y}, {x, y + height}, {x + width, y + height}},
		[4]RGBA{rgba, rgba, rgba, rgba},
	)
}

// PushTriangles appends pre-built triangles in order.
func (r *Renderer) PushTriangles(tris [][3]Vertex) {
	if r.dropped("triangles") {
		return
	}
	for _, tri := range tris {
		r.push(tri)
	}
}
