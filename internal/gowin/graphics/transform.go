package graphics

import (
	"errors"
	"fmt"
)

// ErrDegenerateProjection is returned by Ortho when a pair of bounds coincide.
var ErrDegenerateProjection = errors.New("degenerate projection bounds")

// Mat4 is a column-major 4x4 matrix compatible with OpenGL uniforms.
type Mat4 [16]float32

func IdentityMat4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func TranslateMat4(x, y float32) Mat4 {
	m := IdentityMat4()
	m[12] = x
	m[13] = y
	return m
}

func ScaleMat4(x, y float32) Mat4 {
	m := IdentityMat4()
	m[0] = x
	m[5] = y
	return m
}

// MulMat4 returns a*b (column-major, vectors on the right).
func MulMat4(a, b Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[c*4+row] =
				a[0*4+row]*b[c*4+0] +
					a[1*4+row]*b[c*4+1] +
					a[2*4+row]*b[c*4+2] +
					a[3*4+row]*b[c*4+3]
		}
	}
	return r
}

// At returns the element at row, col.
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Apply transforms the point (x, y, 0, 1) and returns its x and y.
func (m Mat4) Apply(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// Ortho returns the orthographic projection mapping the box
// [left,right]x[bottom,top]x[near,far] to normalized device coordinates.
func Ortho(left, right, bottom, top, near, far float32) (Mat4, error) {
	if left == right || top == bottom || near == far {
		return Mat4{}, fmt.Errorf("%w: left=%g right=%g bottom=%g top=%g near=%g far=%g",
			ErrDegenerateProjection, left, right, bottom, top, near, far)
	}
	return Mat4{
		2.0 / (right - left), 0, 0, 0,
		0, 2.0 / (top - bottom), 0, 0,
		0, 0, -2.0 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}, nil
}

// MustOrtho is like Ortho but panics on degenerate bounds.
func MustOrtho(left, right, bottom, top, near, far float32) Mat4 {
	m, err := Ortho(left, right, bottom, top, near, far)
	if err != nil {
		panic(err)
	}
	return m
}

// ScreenOrtho maps pixel coordinates with the origin at the top-left corner of
// a width x height viewport.
func ScreenOrtho(width, height int) (Mat4, error) {
	return Ortho(0, float32(width), float32(height), 0, -1, 1)
}
