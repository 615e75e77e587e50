// Package geom holds the 3D math shared by the sampler and renderers:
// 4x4 affine matrices on gonum/mat and positions as r3.Vec.
package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity returns a new 4x4 identity matrix.
func Identity() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Compose builds T·Rz·Ry·Rx·S, the XYZ Euler convention used by scene files.
func Compose(location, rotation, scale r3.Vec) *mat.Dense {
	cx, sx := math.Cos(rotation.X), math.Sin(rotation.X)
	cy, sy := math.Cos(rotation.Y), math.Sin(rotation.Y)
	cz, sz := math.Cos(rotation.Z), math.Sin(rotation.Z)

	// rotation rows of Rz·Ry·Rx
	r := [3][3]float64{
		{cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx},
		{sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx},
		{-sy, cy * sx, cy * cx},
	}
	s := [3]float64{scale.X, scale.Y, scale.Z}
	t := [3]float64{location.X, location.Y, location.Z}

	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, r[i][j]*s[j])
		}
		m.Set(i, 3, t[i])
	}
	m.Set(3, 3, 1)
	return m
}

// Mul returns a·b.
func Mul(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// Apply transforms point p by the affine matrix m.
func Apply(m mat.Matrix, p r3.Vec) r3.Vec {
	in := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(m, in)
	w := out.AtVec(3)
	if w == 0 {
		w = 1
	}
	return r3.Vec{X: out.AtVec(0) / w, Y: out.AtVec(1) / w, Z: out.AtVec(2) / w}
}

// Translation returns the translation column of m.
func Translation(m mat.Matrix) r3.Vec {
	return r3.Vec{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// Inverse returns the inverse of m.
func Inverse(m mat.Matrix) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Centroid returns the mean of pts.
func Centroid(pts []r3.Vec) (r3.Vec, bool) {
	if len(pts) == 0 {
		return r3.Vec{}, false
	}
	var sum r3.Vec
	for _, p := range pts {
		sum.X += p.X
		sum.Y += p.Y
		sum.Z += p.Z
	}
	n := float64(len(pts))
	return r3.Vec{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}, true
}

// Bounds returns the axis-aligned bounds of pts.
func Bounds(pts []r3.Vec) (lo, hi r3.Vec, ok bool) {
	if len(pts) == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi, true
}
