package system

import (
	"testing"

	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMarkerScaleSystem(t *testing.T) {
	radius := 0.2
	w := ecs.NewWorld()
	w.AddSystem(NewMarkerScaleSystem(func() float64 { return radius }))

	add := func(tag component.Tag) ecs.Entity {
		e := ecs.CreateEntity(w)
		tr := component.Transform{Location: r3.Vec{X: 3}, Scale: r3.Vec{X: 1, Y: 1, Z: 1}}
		require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
		if tag != component.TagNone {
			require.NoError(t, ecs.Add(w, e, component.GeneratedComponent.Kind(), &component.Generated{Tag: tag}))
		}
		return e
	}
	marker := add(component.MarkerTag)
	path := add(component.PathTag)
	plain := add(component.TagNone)

	for _, r := range []float64{0.2, 0.75, 0.75, 0.01} {
		radius = r
		w.Update()

		tr, _ := ecs.Get(w, marker, component.TransformComponent.Kind())
		assert.Equal(t, r3.Vec{X: r, Y: r, Z: r}, tr.Scale)
		assert.Equal(t, r3.Vec{X: 3}, tr.Location)
	}
	for _, e := range []ecs.Entity{path, plain} {
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, tr.Scale)
	}
}
