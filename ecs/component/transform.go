package component

import "gonum.org/v1/gonum/spatial/r3"

// Transform is relative to the parent entity, or to world space when there
// is no parent. Rotation is XYZ Euler in radians.
type Transform struct {
	Location r3.Vec
	Rotation r3.Vec
	Scale    r3.Vec
}

// IdentityTransform has unit scale and no translation or rotation.
func IdentityTransform() Transform {
	return Transform{Scale: r3.Vec{X: 1, Y: 1, Z: 1}}
}

var TransformComponent = NewComponent[Transform]()
