package graphics

import (
	"math"
	"testing"
)

func TestEmblemDeterministic(t *testing.T) {
	a := NewEmblem("glbatch").Triangles(0, 0, 64)
	b := NewEmblem("glbatch").Triangles(0, 0, 64)
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("triangle counts %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("triangle %d differs", i)
		}
	}
	if NewEmblem("glbatch").Hash() == NewEmblem("glbatch2").Hash() {
		t.Error("distinct names share a hash")
	}
}

func TestEmblemStaysInBounds(t *testing.T) {
	names := []string{"a", "b", "renderer", "batch", "triangle", "flush", "quad", "ortho", "shader", "viewport"}
	for _, name := range names {
		for _, tri := range NewEmblem(name).Triangles(100, 50, 40) {
			for _, v := range tri {
				// The drop-shadow arrangement is offset by 2 pixels.
				if v.X < 100-1e-3 || v.X > 142+1e-3 || v.Y < 50-1e-3 || v.Y > 92+1e-3 {
					t.Fatalf("%q: vertex (%v, %v) outside the emblem square", name, v.X, v.Y)
				}
			}
		}
	}
}

func TestRing(t *testing.T) {
	tris := Ring(0, 0, 10, 6, DefaultShapeStyle(), 12)
	if len(tris) != 24 {
		t.Fatalf("triangles = %d, want 24", len(tris))
	}
	for _, tri := range tris {
		for _, v := range tri {
			d := math.Hypot(float64(v.X), float64(v.Y))
			if math.Abs(d-10) > 1e-3 && math.Abs(d-6) > 1e-3 {
				t.Fatalf("vertex at distance %v, want 6 or 10", d)
			}
		}
	}
	if n := len(Ring(0, 0, 2, 1, DefaultShapeStyle(), 3)); n != 16 {
		t.Errorf("minimum segments gave %d triangles, want 16", n)
	}
}
