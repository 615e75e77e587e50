package system

import (
	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
)

// AnimationSystem evaluates every Animation at the world frame cursor and
// refreshes armature poses. It is the pose/deformation step that has to run
// before world positions for a frame are meaningful.
type AnimationSystem struct {
	runtime *anim.Runtime
	log     zerolog.Logger
	// reported keeps a failing channel from logging on every frame.
	reported map[string]bool
	err      error
}

func NewAnimationSystem(runtime *anim.Runtime, log zerolog.Logger) *AnimationSystem {
	if runtime == nil {
		runtime = anim.NewRuntime()
	}
	return &AnimationSystem{
		runtime:  runtime,
		log:      log.With().Str("system", "animation").Logger(),
		reported: make(map[string]bool),
	}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	frame := w.Frame()
	s.err = nil

	ecs.ForEach(w, component.ArmatureComponent.Kind(), func(e ecs.Entity, arm *component.Armature) {
		pose, ok := s.poseOf(w, e)
		if !ok {
			return
		}
		pose.Heads = make(map[string]r3.Vec, len(arm.Bones))
		for _, b := range arm.Bones {
			pose.Heads[b.Name] = b.Head
		}
	})

	ecs.ForEach(w, component.AnimationComponent.Kind(), func(e ecs.Entity, a *component.Animation) {
		t, ok := s.transformOf(w, e)
		if !ok {
			return
		}
		s.apply(e, a.Location, frame, &t.Location)
		s.apply(e, a.Rotation, frame, &t.Rotation)
		s.apply(e, a.Scale, frame, &t.Scale)

		if len(a.Bones) == 0 {
			return
		}
		pose, ok := ecs.Get(w, e, component.PoseComponent.Kind())
		if !ok {
			return
		}
		for name, ch := range a.Bones {
			rest, ok := pose.Heads[name]
			if !ok {
				continue
			}
			var offset r3.Vec
			s.apply(e, ch, frame, &offset)
			pose.Heads[name] = r3.Add(rest, offset)
		}
	})
}

// Err returns the first channel error of the last Update.
func (s *AnimationSystem) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// poseOf returns the pose of e, adding an empty one when missing.
func (s *AnimationSystem) poseOf(w *ecs.World, e ecs.Entity) (*component.Pose, bool) {
	if pose, ok := ecs.Get(w, e, component.PoseComponent.Kind()); ok {
		return pose, true
	}
	pose := &component.Pose{}
	if err := ecs.Add(w, e, component.PoseComponent.Kind(), pose); err != nil {
		s.fail(err)
		return nil, false
	}
	return pose, true
}

// transformOf returns the transform of e, adding an identity one when missing.
func (s *AnimationSystem) transformOf(w *ecs.World, e ecs.Entity) (*component.Transform, bool) {
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return t, true
	}
	identity := component.IdentityTransform()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &identity); err != nil {
		s.fail(err)
		return nil, false
	}
	return &identity, true
}

func (s *AnimationSystem) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// apply writes the channel value into dst, leaving dst alone on error.
func (s *AnimationSystem) apply(e ecs.Entity, ch *anim.Channel, frame int, dst *r3.Vec) {
	if ch == nil {
		return
	}
	v, err := s.runtime.Evaluate(ch, frame)
	if err != nil {
		s.fail(err)
		key := e.String() + "/" + ch.Name
		if !s.reported[key] {
			s.reported[key] = true
			s.log.Error().Err(err).Str("entity", e.String()).Str("channel", ch.Name).Int("frame", frame).Msg("channel evaluation failed")
		}
		return
	}
	*dst = v
}
