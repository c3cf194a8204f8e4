package graphics

import (
	"image/color"
	"math"
	"testing"
)

func TestSegmentsForRadius(t *testing.T) {
	tests := []struct {
		radius float32
		want   int
	}{
		{0, 4},
		{8, 4},
		{20, 8},
		{1000, 24},
	}
	for _, tt := range tests {
		if got := SegmentsForRadius(tt.radius); got != tt.want {
			t.Errorf("SegmentsForRadius(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestRoundedRectFan(t *testing.T) {
	const segments = 6
	tris := RoundedRect(10, 20, 100, 50, UniformRadius(8), DefaultShapeStyle(), segments)
	if len(tris) != RoundedRectTriangleCount(segments) {
		t.Fatalf("triangles = %d, want %d", len(tris), RoundedRectTriangleCount(segments))
	}

	for i, tri := range tris {
		if tri[0].X != 60 || tri[0].Y != 45 {
			t.Fatalf("triangle %d does not start at the center: %+v", i, tri[0])
		}
		// The fan must close: each triangle's last vertex is the next one's second.
		next := tris[(i+1)%len(tris)]
		if tri[2] != next[1] {
			t.Fatalf("fan broken between triangles %d and %d", i, i+1)
		}
		for _, v := range tri[1:] {
			if v.X < 10-1e-3 || v.X > 110+1e-3 || v.Y < 20-1e-3 || v.Y > 70+1e-3 {
				t.Errorf("perimeter vertex outside bounds: %+v", v)
			}
		}
	}
}

func TestCircleRadius(t *testing.T) {
	tris := Circle(0, 0, 10, DefaultShapeStyle(), 8)
	for _, tri := range tris {
		for _, v := range tri[1:] {
			d := math.Hypot(float64(v.X), float64(v.Y))
			if math.Abs(d-10) > 1e-3 {
				t.Fatalf("perimeter vertex %+v at distance %v, want 10", v, d)
			}
		}
	}
}

func TestPolygon(t *testing.T) {
	tris := Polygon(50, 50, 20, 6, 0, ShapeStyle{FillColor: ColorBlue})
	if len(tris) != 6 {
		t.Fatalf("hexagon triangles = %d, want 6", len(tris))
	}
	top := tris[0][1]
	if math.Abs(float64(top.X-50)) > 1e-3 || math.Abs(float64(top.Y-30)) > 1e-3 {
		t.Errorf("first vertex = (%v, %v), want (50, 30)", top.X, top.Y)
	}
	if top.Color() != (RGBA{0, 0, 1, 1}) {
		t.Errorf("fill color = %v", top.Color())
	}

	if n := len(Polygon(0, 0, 1, 1, 0, DefaultShapeStyle())); n != 3 {
		t.Errorf("degenerate side count gave %d triangles, want 3", n)
	}
}

func TestVerticalGradient(t *testing.T) {
	style := ShapeStyle{
		GradientDirection: GradientVertical,
		GradientStops: []ColorStop{
			{Position: 0, Color: color.RGBA{A: 255}},
			{Position: 1, Color: color.RGBA{R: 255, A: 255}},
		},
	}
	top := interpolateColor(style, 0, 0, 0, 0, 10, 100)
	mid := interpolateColor(style, 0, 50, 0, 0, 10, 100)
	bottom := interpolateColor(style, 0, 100, 0, 0, 10, 100)

	if top[0] != 0 || bottom[0] != 1 || math.Abs(float64(mid[0]-0.5)) > 1e-6 {
		t.Errorf("red channel top/mid/bottom = %v/%v/%v", top[0], mid[0], bottom[0])
	}
}

func TestPushShapesThroughRenderer(t *testing.T) {
	r, dev := newTestRenderer(t, RendererOptions{MaxTriangles: 10})
	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame failed: %v", err)
	}

	tris := Circle(0, 0, 5, DefaultShapeStyle(), 4) // 20 triangles
	r.PushTriangles(tris)
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame failed: %v", err)
	}

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.Draws))
	}
	if dev.Draws[0].Count != 30 || dev.Draws[1].Count != 30 {
		t.Errorf("draws = %+v, want two draws of 30 vertices", dev.Draws)
	}
}
