package system

import (
	"testing"

	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAnimationSystemWritesTransform(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewAnimationSystem(nil, zerolog.Nop()))

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Location: anim.NewKeyframeChannel("location",
			anim.Keyframe{Frame: 1, Value: r3.Vec{}},
			anim.Keyframe{Frame: 11, Value: r3.Vec{X: 10}},
		),
		Rotation: anim.NewScriptChannel("rotation", `value := [0, 0, frame * 0.5]`),
	}))

	tests := []struct {
		frame int
		loc   r3.Vec
		rotZ  float64
	}{
		{frame: 1, loc: r3.Vec{}, rotZ: 0.5},
		{frame: 6, loc: r3.Vec{X: 5}, rotZ: 3},
		{frame: 40, loc: r3.Vec{X: 10}, rotZ: 20},
	}
	for _, tt := range tests {
		w.SetFrame(tt.frame)
		w.Update()
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		require.True(t, ok, "transform created on demand")
		assert.InDelta(t, tt.loc.X, tr.Location.X, 1e-9, "frame %d", tt.frame)
		assert.InDelta(t, tt.rotZ, tr.Rotation.Z, 1e-9, "frame %d", tt.frame)
		assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, tr.Scale)
	}
}

func TestAnimationSystemPosesBones(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewAnimationSystem(nil, zerolog.Nop()))

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.ArmatureComponent.Kind(), &component.Armature{
		Bones: []component.Bone{
			{Name: "root", Head: r3.Vec{Z: 1}},
			{Name: "tip", Head: r3.Vec{Z: 2}, Parent: "root"},
		},
	}))
	require.NoError(t, ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Bones: map[string]*anim.Channel{
			"tip":   anim.NewScriptChannel("tip", `value := [frame, 0, 0]`),
			"ghost": anim.NewScriptChannel("ghost", `value := [1, 1, 1]`),
		},
	}))

	for _, frame := range []int{3, 4} {
		w.SetFrame(frame)
		w.Update()
		pose, ok := ecs.Get(w, e, component.PoseComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, r3.Vec{Z: 1}, pose.Heads["root"])
		assert.Equal(t, r3.Vec{X: float64(frame), Z: 2}, pose.Heads["tip"], "offset from rest, not accumulated")
		assert.NotContains(t, pose.Heads, "ghost")
	}
}

func TestAnimationSystemReportsChannelErrors(t *testing.T) {
	w := ecs.NewWorld()
	s := NewAnimationSystem(nil, zerolog.Nop())
	w.AddSystem(s)

	e := ecs.CreateEntity(w)
	start := component.Transform{Location: r3.Vec{X: 7}, Scale: r3.Vec{X: 1, Y: 1, Z: 1}}
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &start))
	require.NoError(t, ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Location: anim.NewScriptChannel("location", `nothing := 1`),
	}))

	w.Update()
	assert.Error(t, s.Err())
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, r3.Vec{X: 7}, tr.Location)

	anim2, _ := ecs.Get(w, e, component.AnimationComponent.Kind())
	anim2.Location = nil
	w.Update()
	assert.NoError(t, s.Err())
}

func TestAnimationSystemReportsFailedLazyAdds(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	ecs.DestroyEntity(w, e)

	s := NewAnimationSystem(nil, zerolog.Nop())
	if _, ok := s.transformOf(w, e); ok {
		t.Fatalf("expected no transform for a destroyed entity")
	}
	require.ErrorIs(t, s.Err(), component.ErrEntityNotAlive)

	s = NewAnimationSystem(nil, zerolog.Nop())
	if _, ok := s.poseOf(w, e); ok {
		t.Fatalf("expected no pose for a destroyed entity")
	}
	require.ErrorIs(t, s.Err(), component.ErrEntityNotAlive)

	live := ecs.CreateEntity(w)
	s = NewAnimationSystem(nil, zerolog.Nop())
	tr, ok := s.transformOf(w, live)
	require.True(t, ok)
	stored, ok := ecs.Get(w, live, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Same(t, stored, tr)
	assert.NoError(t, s.Err())
}
