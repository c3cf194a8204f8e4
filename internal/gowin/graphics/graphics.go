package graphics

import (
	"image/color"
	"unsafe"
)

// RGBA is a color with float32 channels in the range [0, 1].
type RGBA [4]float32

// ColorToFloat32 converts a color.Color to RGBA float32 values in the range [0, 1].
func ColorToFloat32(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	// RGBA() returns values in range [0, 0xffff], convert to [0, 1]
	return RGBA{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	}
}

// Default colors using image/color types
var (
	ColorBlack     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	ColorWhite     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorRed       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	ColorGreen     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ColorBlue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	ColorYellow    = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	ColorCyan      = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	ColorMagenta   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	ColorGray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	ColorDarkGray  = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	ColorLightGray = color.RGBA{R: 192, G: 192, B: 192, A: 255}
)

// Vec2 is a position in projection space.
type Vec2 struct {
	X, Y float32
}

// Vertex matches the batch shader input layout:
//
//	a_position: vec2
//	a_color:    vec4
//
// All values are in float32 and packed tightly in this order.
type Vertex struct {
	X float32
	Y float32
	R float32
	G float32
	B float32
	A float32
}

const (
	vertexStride      = int32(unsafe.Sizeof(Vertex{}))
	vertexColorOffset = unsafe.Offsetof(Vertex{}.R)
)

// NewVertex packs a position and a color.
func NewVertex(p Vec2, c RGBA) Vertex {
	return Vertex{X: p.X, Y: p.Y, R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Position returns the vertex position.
func (v Vertex) Position() Vec2 { return Vec2{v.X, v.Y} }

// Color returns the vertex color.
func (v Vertex) Color() RGBA { return RGBA{v.R, v.G, v.B, v.A} }
