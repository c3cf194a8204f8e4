package main

import (
	"image/color"
	"math"
	"time"

	"github.com/tinyrange/glbatch/internal/gowin/graphics"
)

const (
	shapeStep    = 50
	goldenTurn   = 2.39996323 // radians
	emblemSize   = 48
	emblemMargin = 12
)

var (
	backgroundTop    = color.RGBA{R: 24, G: 26, B: 38, A: 255}
	backgroundBottom = color.RGBA{R: 10, G: 10, B: 14, A: 255}
)

// scene is the animated demo content: a gradient backdrop, the classic RGB
// triangle in the middle, a spiral of tessellated shapes around it and the
// window's emblem in the top-left corner.
type scene struct {
	shapes  int
	speed   float64
	elapsed float64
	paused  bool
	emblem  graphics.Emblem
}

func newScene(name string, shapes int) *scene {
	return &scene{shapes: shapes, speed: 1, emblem: graphics.NewEmblem(name)}
}

func (s *scene) update(dt time.Duration) {
	if s.paused {
		return
	}
	s.elapsed += dt.Seconds() * s.speed
}

func (s *scene) togglePause() { s.paused = !s.paused }

func (s *scene) adjustShapes(delta int) {
	s.shapes = max(0, s.shapes+delta)
}

func (s *scene) adjustSpeed(factor float64) {
	s.speed = math.Min(8, math.Max(0.125, s.speed*factor))
}

func (s *scene) draw(r *graphics.Renderer, width, height int) {
	w, h := float32(width), float32(height)

	top := graphics.ColorToFloat32(backgroundTop)
	bottom := graphics.ColorToFloat32(backgroundBottom)
	r.PushQuad(
		[4]graphics.Vec2{{X: 0, Y: 0}, {X: w, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}},
		[4]graphics.RGBA{top, top, bottom, bottom},
	)

	cx, cy := w/2, h/2
	size := min(w, h) / 4
	spin := float32(s.elapsed * 0.5)
	var corners [3]graphics.Vec2
	for i := range corners {
		a := spin + float32(i)*2*math.Pi/3 - math.Pi/2
		corners[i] = graphics.Vec2{
			X: cx + size*float32(math.Cos(float64(a))),
			Y: cy + size*float32(math.Sin(float64(a))),
		}
	}
	r.PushTriangle(corners, [3]graphics.RGBA{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
	})

	maxOrbit := float64(min(w, h)) / 2
	for i := 0; i < s.shapes; i++ {
		r.PushTriangles(s.shape(i, cx, cy, maxOrbit))
	}

	r.PushTriangles(s.emblem.Triangles(emblemMargin, emblemMargin, emblemSize))
}

// shape tessellates the i-th spiral element.
func (s *scene) shape(i int, cx, cy float32, maxOrbit float64) [][3]graphics.Vertex {
	frac := float64(i+1) / float64(s.shapes+1)
	orbit := maxOrbit * (0.3 + 0.7*math.Sqrt(frac))
	angle := float64(i)*goldenTurn + s.elapsed*(0.2+0.3*(1-frac))

	x := cx + float32(orbit*math.Cos(angle))
	y := cy + float32(orbit*math.Sin(angle))
	radius := float32(4 + 8*frac)

	style := graphics.ShapeStyle{FillColor: hue(float64(i) / 37)}
	switch i % 4 {
	case 0:
		return graphics.Circle(x, y, radius, style, graphics.SegmentsForRadius(radius))
	case 1:
		return graphics.Polygon(x, y, radius, 3+i%5, float32(angle), style)
	case 2:
		style.GradientDirection = graphics.GradientVertical
		style.GradientStops = []graphics.ColorStop{
			{Position: 0, Color: style.FillColor},
			{Position: 1, Color: graphics.ColorWhite},
		}
		return graphics.RoundedRect(x-radius, y-radius, radius*2, radius*2,
			graphics.UniformRadius(radius/3), style, 3)
	default:
		return graphics.Pill(x-radius*1.5, y-radius/2, radius*3, radius, style, 4)
	}
}

// hue returns a saturated color for t in turns around the color wheel.
func hue(t float64) color.RGBA {
	t -= math.Floor(t)
	channel := func(offset float64) uint8 {
		v := math.Abs(math.Mod(t*6+offset, 6)-3) - 1
		return uint8(255 * math.Min(1, math.Max(0, v)))
	}
	return color.RGBA{R: channel(0), G: channel(4), B: channel(2), A: 255}
}
