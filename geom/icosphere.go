package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// IcoSphere returns a unit-radius-scaled icosphere. subdivisions counts like
// the host primitive: 1 is the bare icosahedron (12 vertices), 2 gives 42.
func IcoSphere(subdivisions int, radius float64) ([]r3.Vec, [][3]int) {
	t := (1 + math.Sqrt(5)) / 2
	verts := []r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for i := range verts {
		verts[i] = onSphere(verts[i], 1)
	}

	for level := 1; level < subdivisions; level++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			va, vb := verts[a], verts[b]
			m := r3.Vec{X: (va.X + vb.X) / 2, Y: (va.Y + vb.Y) / 2, Z: (va.Z + vb.Z) / 2}
			verts = append(verts, onSphere(m, 1))
			midpoints[key] = len(verts) - 1
			return len(verts) - 1
		}

		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], a, c},
				[3]int{f[1], b, a},
				[3]int{f[2], c, b},
				[3]int{a, b, c},
			)
		}
		faces = next
	}

	for i := range verts {
		verts[i] = onSphere(verts[i], radius)
	}
	return verts, faces
}

func onSphere(v r3.Vec, radius float64) r3.Vec {
	n := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if n == 0 {
		return v
	}
	k := radius / n
	return r3.Vec{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}
