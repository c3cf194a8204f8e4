package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/tinyrange/glbatch/internal/gowin/gl"
)

var glfwKeys = map[glfw.Key]Key{
	glfw.KeyEscape: KeyEscape,
	glfw.KeySpace:  KeySpace,
	glfw.KeyUp:     KeyUp,
	glfw.KeyDown:   KeyDown,
	glfw.KeyLeft:   KeyLeft,
	glfw.KeyRight:  KeyRight,
	glfw.KeyF1:     KeyF1,
	glfw.KeyF12:    KeyF12,
}

type glfwWindow struct {
	win      *glfw.Window
	keys     *keyTracker
	onResize func(width, height int)

	gl     gl.OpenGL
	closed bool
}

// New initializes GLFW and opens a window with a current OpenGL 3.3 core
// context. It must be called from the thread that will render; callers lock
// the main goroutine to its OS thread in an init function.
func New(opts Options) (Window, error) {
	opts.normalize()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize GLFW: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, boolHint(opts.Debug))
	glfw.WindowHint(glfw.Resizable, boolHint(opts.Resizable))

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()

	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &glfwWindow{win: win, keys: newKeyTracker()}
	win.SetKeyCallback(w.keyEvent)
	win.SetFramebufferSizeCallback(w.fbResized)
	return w, nil
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (w *glfwWindow) keyEvent(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k, ok := glfwKeys[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		w.keys.event(k, actionPress)
		if k == KeyEscape {
			w.win.SetShouldClose(true)
		}
	case glfw.Release:
		w.keys.event(k, actionRelease)
	case glfw.Repeat:
		w.keys.event(k, actionRepeat)
	}
}

func (w *glfwWindow) fbResized(_ *glfw.Window, width, height int) {
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// GL implements Window.
func (w *glfwWindow) GL() (gl.OpenGL, error) {
	if w.gl != nil {
		return w.gl, nil
	}
	device, err := gl.Load(glfw.GetProcAddress)
	if err != nil {
		return nil, fmt.Errorf("load OpenGL: %w", err)
	}
	w.gl = device
	return w.gl, nil
}

// Poll implements Window.
func (w *glfwWindow) Poll() bool {
	if w.closed {
		return false
	}
	w.keys.beginFrame()
	glfw.PollEvents()
	return !w.win.ShouldClose()
}

// Swap implements Window.
func (w *glfwWindow) Swap() {
	if w.closed {
		return
	}
	w.win.SwapBuffers()
}

// BackingSize implements Window. The size is in framebuffer pixels, which
// differs from the window size on HiDPI displays.
func (w *glfwWindow) BackingSize() (width, height int) {
	return w.win.GetFramebufferSize()
}

// Scale implements Window.
func (w *glfwWindow) Scale() float32 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

// GetKeyState implements Window.
func (w *glfwWindow) GetKeyState(key Key) KeyState {
	return w.keys.state(key)
}

// SetResizeCallback implements Window.
func (w *glfwWindow) SetResizeCallback(fn func(width, height int)) {
	w.onResize = fn
}

// SetTitle implements Window.
func (w *glfwWindow) SetTitle(title string) {
	w.win.SetTitle(title)
}

// Close implements Window. The context must not be used afterwards.
func (w *glfwWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.win.Destroy()
	glfw.Terminate()
}
