package motion

import (
	"testing"

	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/ecs/system"
	"github.com/milk9111/motionpath/geom"
	"github.com/milk9111/motionpath/settings"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestWorld() (*ecs.World, *settings.Store) {
	w := ecs.NewWorld()
	store := settings.NewStore(settings.Default())
	w.AddSystem(system.NewAnimationSystem(nil, zerolog.Nop()))
	w.AddSystem(system.NewMarkerScaleSystem(store.Radius))
	return w, store
}

func newTestOperator(t *testing.T, w *ecs.World, store *settings.Store, opts ...Option) *Operator {
	t.Helper()
	op, err := NewOperator(w, store, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return op
}

func addObject(t *testing.T, w *ecs.World, kind component.ObjectKind, a *component.Animation) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	transform := component.IdentityTransform()
	require.NoError(t, ecs.Add(w, e, component.ObjectComponent.Kind(), &component.Object{Kind: kind}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &transform))
	if a != nil {
		require.NoError(t, ecs.Add(w, e, component.AnimationComponent.Kind(), a))
	}
	return e
}

// slideX moves along x with x equal to the frame.
func slideX() *component.Animation {
	return &component.Animation{
		Location: anim.NewKeyframeChannel("location",
			anim.Keyframe{Frame: 1, Value: r3.Vec{X: 1}},
			anim.Keyframe{Frame: 100, Value: r3.Vec{X: 100}},
		),
	}
}

func markerChildren(t *testing.T, w *ecs.World, path ecs.Entity) []ecs.Entity {
	t.Helper()
	var out []ecs.Entity
	for _, c := range ecs.Children(w, path) {
		g, ok := ecs.Get(w, c, component.GeneratedComponent.Kind())
		require.True(t, ok)
		require.Equal(t, component.MarkerTag, g.Tag)
		out = append(out, c)
	}
	return out
}

// fakeSnapshot resolves everything to identity except what the hooks say.
type fakeSnapshot struct {
	frame int
	kind  func(frame int) (component.ObjectKind, bool)
	world func(frame int) r3.Vec
	verts []r3.Vec
}

func (s fakeSnapshot) Frame() int { return s.frame }

func (s fakeSnapshot) Kind(ecs.Entity) (component.ObjectKind, bool) {
	return s.kind(s.frame)
}

func (s fakeSnapshot) WorldMatrix(ecs.Entity) (mat.Matrix, bool) {
	loc := r3.Vec{}
	if s.world != nil {
		loc = s.world(s.frame)
	}
	return geom.Compose(loc, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}), true
}

func (s fakeSnapshot) Vertex(_ ecs.Entity, index int) (r3.Vec, bool) {
	if index < 0 || index >= len(s.verts) {
		return r3.Vec{}, false
	}
	return s.verts[index], true
}

func (s fakeSnapshot) BoneHead(ecs.Entity, string) (r3.Vec, bool) {
	return r3.Vec{}, false
}
