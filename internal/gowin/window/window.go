package window

import "github.com/tinyrange/glbatch/internal/gowin/gl"

type Window interface {
	GL() (gl.OpenGL, error)
	Close()
	Poll() bool
	Swap()
	BackingSize() (width, height int)
	Scale() float32
	GetKeyState(key Key) KeyState
	SetResizeCallback(fn func(width, height int))
	SetTitle(title string)
}

// Options configures New.
type Options struct {
	Title  string
	Width  int
	Height int

	// Debug requests a debug context so KHR_debug output is available.
	Debug bool
	// VSync selects a swap interval of 1 instead of 0.
	VSync     bool
	Resizable bool
}

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTitle  = "glbatch"
)

func (o *Options) normalize() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
}
