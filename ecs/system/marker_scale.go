package system

import (
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"gonum.org/v1/gonum/spatial/r3"
)

// MarkerScaleSystem keeps every tagged marker, template included, at the
// current radius setting. It writes nothing but Transform.Scale.
type MarkerScaleSystem struct {
	radius func() float64
}

func NewMarkerScaleSystem(radius func() float64) *MarkerScaleSystem {
	return &MarkerScaleSystem{radius: radius}
}

func (s *MarkerScaleSystem) Update(w *ecs.World) {
	if s == nil || s.radius == nil || w == nil {
		return
	}
	r := s.radius()
	scale := r3.Vec{X: r, Y: r, Z: r}

	ecs.ForEach2(w, component.GeneratedComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, g *component.Generated, t *component.Transform) {
		if g.Tag != component.MarkerTag {
			return
		}
		t.Scale = scale
	})
}
