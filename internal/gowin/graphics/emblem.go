package graphics

import (
	"hash/fnv"
	"image/color"
	"math"
)

// emblemPalette holds the fill colors an Emblem picks from.
var emblemPalette = []color.RGBA{
	{0x7a, 0xa2, 0xf7, 255}, // blue
	{0x7d, 0xcf, 0xff, 255}, // cyan
	{0x9e, 0xce, 0x6a, 255}, // green
	{0xe0, 0xaf, 0x68, 255}, // amber
	{0xf7, 0x76, 0x8e, 255}, // pink
	{0xbb, 0x9a, 0xf7, 255}, // purple
	{0x73, 0xda, 0xca, 255}, // teal
	{0xff, 0x9e, 0x64, 255}, // orange
	{0x2a, 0xc3, 0xde, 255}, // light blue
	{0xc0, 0xca, 0xf5, 255}, // lavender
	{0x41, 0x48, 0x68, 255}, // slate
	{0x3d, 0x59, 0xa1, 255}, // navy
	{0x56, 0x5f, 0x89, 255}, // muted purple
	{0x1a, 0x9c, 0x9c, 255}, // dark teal
	{0xc5, 0x8a, 0x4c, 255}, // brown
	{0x94, 0x7c, 0xb4, 255}, // violet
}

const (
	shapeCircle = iota
	shapeSquare
	shapeTriangle
	shapeHexagon
	shapeDiamond
	shapePentagon
	shapePill
	shapeOctagon
)

// Emblem is a deterministic geometric mark derived from a name hash. The
// same name always tessellates to the same triangles.
type Emblem struct {
	hash uint64
}

func NewEmblem(name string) Emblem {
	h := fnv.New64a()
	h.Write([]byte(name))
	return Emblem{hash: h.Sum64()}
}

func (e Emblem) Hash() uint64 { return e.hash }

func (e Emblem) bits(start, n int) int {
	return int((e.hash >> start) & (1<<n - 1))
}

// Triangles tessellates the emblem into the size x size square whose
// top-left corner is (x, y).
func (e Emblem) Triangles(x, y, size float32) [][3]Vertex {
	primary := e.bits(0, 3)
	secondary := e.bits(3, 3)
	primaryColor := emblemPalette[e.bits(6, 4)]
	secondaryColor := emblemPalette[e.bits(10, 4)]
	rotation := float32(e.bits(14, 4)) * math.Pi / 8
	arrangement := e.bits(18, 3)
	scale := 0.4 + float32(e.bits(21, 3))*0.05

	cx, cy := x+size/2, y+size/2
	radius := size / 2 * scale

	var tris [][3]Vertex
	add := func(kind int, px, py, r, rot float32, c color.RGBA) {
		tris = append(tris, emblemShape(kind, px, py, r, rot, c)...)
	}

	switch arrangement {
	case 1: // layered, larger behind
		add(secondary, cx, cy, radius, rotation, secondaryColor)
		add(primary, cx, cy, radius*0.6, rotation, primaryColor)
	case 2: // side by side
		offset := radius * 0.6
		add(primary, cx-offset, cy, radius*0.7, rotation, primaryColor)
		add(secondary, cx+offset, cy, radius*0.7, rotation, secondaryColor)
	case 3: // ringed
		tris = append(tris, Ring(cx, cy, radius, radius*0.75, ShapeStyle{FillColor: secondaryColor}, 24)...)
		add(primary, cx, cy, radius*0.6, rotation, primaryColor)
	case 4: // three in a triangle
		offset := radius * 0.5
		for j, a := range []float64{-math.Pi / 2, math.Pi / 6, 5 * math.Pi / 6} {
			c := primaryColor
			if j == 1 {
				c = secondaryColor
			}
			px := cx + offset*float32(math.Cos(a))
			py := cy + offset*float32(math.Sin(a))
			add(primary, px, py, radius*0.45, rotation, c)
		}
	case 5: // four corners
		offset := radius * 0.55
		corners := [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
		colors := [4]color.RGBA{primaryColor, secondaryColor, secondaryColor, primaryColor}
		for j, p := range corners {
			add(primary, cx+p[0]*offset, cy+p[1]*offset, radius*0.4, rotation, colors[j])
		}
	case 6: // concentric
		add(secondary, cx, cy, radius, rotation, secondaryColor)
		add(primary, cx, cy, radius*0.5, rotation+math.Pi/float32(3+primary), primaryColor)
	case 7: // drop shadow
		add(primary, cx+2, cy+2, radius, rotation, darken(primaryColor, 0.5))
		add(primary, cx, cy, radius, rotation, primaryColor)
	default:
		add(primary, cx, cy, radius, rotation, primaryColor)
	}
	return tris
}

func emblemShape(kind int, cx, cy, radius, rotation float32, c color.RGBA) [][3]Vertex {
	style := ShapeStyle{FillColor: c}
	switch kind {
	case shapeSquare:
		return Polygon(cx, cy, radius, 4, rotation+math.Pi/4, style)
	case shapeTriangle:
		return Polygon(cx, cy, radius, 3, rotation, style)
	case shapeHexagon:
		return Polygon(cx, cy, radius, 6, rotation, style)
	case shapeDiamond:
		return Polygon(cx, cy, radius, 4, rotation, style)
	case shapePentagon:
		return Polygon(cx, cy, radius, 5, rotation, style)
	case shapePill:
		return Pill(cx-radius, cy-radius/2, radius*2, radius, style, SegmentsForRadius(radius))
	case shapeOctagon:
		return Polygon(cx, cy, radius, 8, rotation, style)
	default:
		return Circle(cx, cy, radius, style, SegmentsForRadius(radius))
	}
}

func darken(c color.RGBA, factor float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * factor),
		G: uint8(float32(c.G) * factor),
		B: uint8(float32(c.B) * factor),
		A: c.A,
	}
}
