package graphics

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestOrthoScreen(t *testing.T) {
	m, err := Ortho(0, 800, 600, 0, -1, 1)
	if err != nil {
		t.Fatalf("Ortho failed: %v", err)
	}

	diag := [4]float32{0.0025, -1.0 / 300, -1, 1}
	for i, want := range diag {
		if got := m.At(i, i); !approx(got, want) {
			t.Errorf("m[%d][%d] = %v, want %v", i, i, got, want)
		}
	}
	translation := [4]float32{-1, 1, 0, 1}
	for row, want := range translation {
		if got := m.At(row, 3); !approx(got, want) {
			t.Errorf("translation[%d] = %v, want %v", row, got, want)
		}
	}

	// Screen corners land on the NDC corners.
	corners := []struct{ x, y, nx, ny float32 }{
		{0, 0, -1, 1},
		{800, 0, 1, 1},
		{0, 600, -1, -1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
	}
	for _, c := range corners {
		nx, ny := m.Apply(c.x, c.y)
		if !approx(nx, c.nx) || !approx(ny, c.ny) {
			t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", c.x, c.y, nx, ny, c.nx, c.ny)
		}
	}
}

func TestOrthoClosedForm(t *testing.T) {
	cases := [][6]float32{
		{-3, 5, -2, 7, 0.5, 20},
		{10, -10, 4, 1, -5, 5},
		{0, 1, 0, 1, 1, -1},
	}
	for _, c := range cases {
		l, r, b, tp, n, f := c[0], c[1], c[2], c[3], c[4], c[5]
		m, err := Ortho(l, r, b, tp, n, f)
		if err != nil {
			t.Fatalf("Ortho(%v) failed: %v", c, err)
		}
		want := Mat4{
			2 / (r - l), 0, 0, 0,
			0, 2 / (tp - b), 0, 0,
			0, 0, -2 / (f - n), 0,
			-(r + l) / (r - l), -(tp + b) / (tp - b), -(f + n) / (f - n), 1,
		}
		for i := range want {
			if !approx(m[i], want[i]) {
				t.Errorf("Ortho(%v)[%d] = %v, want %v", c, i, m[i], want[i])
			}
		}
	}
}

func TestOrthoDegenerate(t *testing.T) {
	cases := [][6]float32{
		{1, 1, 0, 1, -1, 1},
		{0, 1, 2, 2, -1, 1},
		{0, 1, 0, 1, 3, 3},
	}
	for _, c := range cases {
		m, err := Ortho(c[0], c[1], c[2], c[3], c[4], c[5])
		if !errors.Is(err, ErrDegenerateProjection) {
			t.Errorf("Ortho(%v) error = %v, want ErrDegenerateProjection", c, err)
		}
		for i, v := range m {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Errorf("Ortho(%v)[%d] = %v", c, i, v)
			}
		}
	}
}

func TestMustOrthoPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDegenerateProjection) {
			t.Errorf("recovered %v, want ErrDegenerateProjection", r)
		}
	}()
	MustOrtho(0, 0, 0, 1, -1, 1)
}

func TestMulMat4(t *testing.T) {
	m := MulMat4(TranslateMat4(10, 20), ScaleMat4(2, 3))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 23 {
		t.Errorf("translate*scale applied to (1,1) = (%v, %v), want (12, 23)", x, y)
	}
	if MulMat4(IdentityMat4(), m) != m {
		t.Error("identity should be a left unit")
	}
}
