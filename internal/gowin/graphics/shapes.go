package graphics

import (
	"image/color"
	"math"
)

// CornerRadius specifies the radius for each corner of a rounded rectangle.
type CornerRadius struct {
	TopLeft     float32
	TopRight    float32
	BottomRight float32
	BottomLeft  float32
}

// UniformRadius creates a CornerRadius with the same value for all corners.
func UniformRadius(r float32) CornerRadius {
	return CornerRadius{r, r, r, r}
}

// GradientDirection specifies the direction of a color gradient.
type GradientDirection int

const (
	GradientNone       GradientDirection = iota
	GradientVertical                     // Top to bottom
	GradientHorizontal                   // Left to right
	GradientDiagonalTL                   // Top-left to bottom-right (135deg)
	GradientDiagonalTR                   // Top-right to bottom-left (45deg)
)

// ColorStop defines a color at a specific position in a gradient.
type ColorStop struct {
	Position float32 // 0.0 to 1.0
	Color    color.Color
}

// ShapeStyle defines the visual appearance of a shape.
type ShapeStyle struct {
	// Fill color (used when GradientStops is empty)
	FillColor color.Color

	// Gradient colors (overrides FillColor if set)
	GradientDirection GradientDirection
	GradientStops     []ColorStop
}

// DefaultShapeStyle returns a white solid fill.
func DefaultShapeStyle() ShapeStyle {
	return ShapeStyle{
		FillColor: ColorWhite,
	}
}

// SegmentsForRadius returns appropriate tessellation quality based on radius.
// Larger radii need more segments for smooth curves.
func SegmentsForRadius(radius float32) int {
	// Roughly 1 segment per 4 pixels of arc length, clamped to [4, 24]
	segments := int(math.Ceil(float64(radius) * math.Pi / 8.0))
	if segments < 4 {
		return 4
	}
	if segments > 24 {
		return 24
	}
	return segments
}

// RoundedRectTriangleCount returns the number of triangles RoundedRect emits.
func RoundedRectTriangleCount(segments int) int {
	// Fan from the center over 4 corners * (segments + 1) perimeter vertices.
	return 4 * (segments + 1)
}

// RoundedRect tessellates a rounded rectangle with its top-left corner at
// (x, y) into a triangle fan around its center.
func RoundedRect(
	x, y, width, height float32,
	radius CornerRadius,
	style ShapeStyle,
	segments int,
) [][3]Vertex {
	if segments < 1 {
		segments = 1
	}

	// Clamp radii to prevent overlap
	maxRadius := minf(width/2, height/2)

	tl := clampf(radius.TopLeft, 0, maxRadius)
	tr := clampf(radius.TopRight, 0, maxRadius)
	br := clampf(radius.BottomRight, 0, maxRadius)
	bl := clampf(radius.BottomLeft, 0, maxRadius)

	// Arcs run clockwise starting at the top-left corner.
	corners := [4]struct {
		r, cx, cy  float32
		startAngle float64
	}{
		{tl, x + tl, y + tl, math.Pi},                // 180° to 270°
		{tr, x + width - tr, y + tr, 1.5 * math.Pi},  // 270° to 360°
		{br, x + width - br, y + height - br, 0},     // 0° to 90°
		{bl, x + bl, y + height - bl, 0.5 * math.Pi}, // 90° to 180°
	}

	colorAt := func(px, py float32) RGBA {
		return interpolateColor(style, px, py, x, y, width, height)
	}

	perimeter := make([]Vertex, 0, 4*(segments+1))
	for _, c := range corners {
		for s := 0; s <= segments; s++ {
			angle := c.startAngle + float64(s)*math.Pi/2/float64(segments)
			px := c.cx + c.r*float32(math.Cos(angle))
			py := c.cy + c.r*float32(math.Sin(angle))
			perimeter = append(perimeter, NewVertex(Vec2{px, py}, colorAt(px, py)))
		}
	}

	centerX := x + width/2
	centerY := y + height/2
	center := NewVertex(Vec2{centerX, centerY}, colorAt(centerX, centerY))

	return fan(center, perimeter)
}

// Circle tessellates a circle.
func Circle(cx, cy, radius float32, style ShapeStyle, segments int) [][3]Vertex {
	d := radius * 2
	return RoundedRect(cx-radius, cy-radius, d, d, UniformRadius(radius), style, segments)
}

// Pill tessellates a pill/capsule shape.
func Pill(x, y, width, height float32, style ShapeStyle, segments int) [][3]Vertex {
	r := height / 2
	return RoundedRect(x, y, width, height, UniformRadius(r), style, segments)
}

// Polygon tessellates a regular polygon centered on (cx, cy) whose first
// vertex points up, rotated by rotation radians.
func Polygon(cx, cy, radius float32, sides int, rotation float32, style ShapeStyle) [][3]Vertex {
	if sides < 3 {
		sides = 3
	}

	d := radius * 2
	colorAt := func(px, py float32) RGBA {
		return interpolateColor(style, px, py, cx-radius, cy-radius, d, d)
	}

	perimeter := make([]Vertex, sides)
	for i := 0; i < sides; i++ {
		angle := rotation + float32(i)*2*math.Pi/float32(sides) - math.Pi/2 // Start at top
		px := cx + radius*float32(math.Cos(float64(angle)))
		py := cy + radius*float32(math.Sin(float64(angle)))
		perimeter[i] = NewVertex(Vec2{px, py}, colorAt(px, py))
	}

	return fan(NewVertex(Vec2{cx, cy}, colorAt(cx, cy)), perimeter)
}

// Ring tessellates an annulus as two triangles per segment.
func Ring(cx, cy, outerRadius, innerRadius float32, style ShapeStyle, segments int) [][3]Vertex {
	if segments < 8 {
		segments = 8
	}

	d := outerRadius * 2
	at := func(radius, angle float64) Vertex {
		px := cx + float32(radius*math.Cos(angle))
		py := cy + float32(radius*math.Sin(angle))
		return NewVertex(Vec2{px, py}, interpolateColor(style, px, py, cx-outerRadius, cy-outerRadius, d, d))
	}

	tris := make([][3]Vertex, 0, segments*2)
	for i := 0; i < segments; i++ {
		a0 := float64(i) * 2 * math.Pi / float64(segments)
		a1 := float64(i+1) * 2 * math.Pi / float64(segments)
		outer, inner := at(float64(outerRadius), a0), at(float64(innerRadius), a0)
		nextOuter, nextInner := at(float64(outerRadius), a1), at(float64(innerRadius), a1)
		tris = append(tris,
			[3]Vertex{outer, inner, nextOuter},
			[3]Vertex{nextOuter, inner, nextInner},
		)
	}
	return tris
}

// fan closes the perimeter and emits one triangle per edge around center.
func fan(center Vertex, perimeter []Vertex) [][3]Vertex {
	n := len(perimeter)
	tris := make([][3]Vertex, 0, n)
	for i := 0; i < n; i++ {
		tris = append(tris, [3]Vertex{center, perimeter[i], perimeter[(i+1)%n]})
	}
	return tris
}

// interpolateColor returns the RGBA color at a given point based on the style.
func interpolateColor(style ShapeStyle, px, py, rx, ry, rw, rh float32) RGBA {
	if style.GradientDirection == GradientNone || len(style.GradientStops) < 2 {
		if style.FillColor == nil {
			return ColorToFloat32(ColorWhite)
		}
		return ColorToFloat32(style.FillColor)
	}

	var t float32
	switch style.GradientDirection {
	case GradientVertical:
		t = (py - ry) / rh
	case GradientHorizontal:
		t = (px - rx) / rw
	case GradientDiagonalTL:
		// 135deg: top-left (0,0) = 0.0, bottom-right (1,1) = 1.0
		t = ((px-rx)/rw + (py-ry)/rh) / 2
	case GradientDiagonalTR:
		// 45deg: top-right (1,0) = 0.0, bottom-left (0,1) = 1.0
		t = ((rw-(px-rx))/rw + (py-ry)/rh) / 2
	}

	t = clampf(t, 0, 1)

	// Find surrounding stops
	stops := style.GradientStops
	lower := stops[0]
	upper := stops[len(stops)-1]

	for i := 0; i < len(stops)-1; i++ {
		if t >= stops[i].Position && t <= stops[i+1].Position {
			lower = stops[i]
			upper = stops[i+1]
			break
		}
	}

	if upper.Position == lower.Position {
		return ColorToFloat32(lower.Color)
	}

	factor := clampf((t-lower.Position)/(upper.Position-lower.Position), 0, 1)
	lc := ColorToFloat32(lower.Color)
	uc := ColorToFloat32(upper.Color)

	return RGBA{
		lc[0] + (uc[0]-lc[0])*factor,
		lc[1] + (uc[1]-lc[1])*factor,
		lc[2] + (uc[2]-lc[2])*factor,
		lc[3] + (uc[3]-lc[3])*factor,
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
