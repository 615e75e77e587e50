package motion

import (
	"errors"
	"fmt"

	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/geom"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot is the evaluated scene at one frame.
type Snapshot interface {
	Frame() int
	Kind(e ecs.Entity) (component.ObjectKind, bool)
	WorldMatrix(e ecs.Entity) (mat.Matrix, bool)
	Vertex(e ecs.Entity, index int) (r3.Vec, bool)
	BoneHead(e ecs.Entity, bone string) (r3.Vec, bool)
}

// Evaluator produces the scene as evaluated at a frame. It is the only way
// the sampler moves through time.
type Evaluator interface {
	EvaluateAt(frame int) (Snapshot, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(frame int) (Snapshot, error)

func (f EvaluatorFunc) EvaluateAt(frame int) (Snapshot, error) {
	return f(frame)
}

var ErrNoWorld = errors.New("motion: world is nil")

// WorldEvaluator evaluates a live world: it moves the frame cursor and runs a
// scene update so animation systems pose everything for that frame.
type WorldEvaluator struct {
	world *ecs.World
}

func NewWorldEvaluator(w *ecs.World) *WorldEvaluator {
	return &WorldEvaluator{world: w}
}

func (e *WorldEvaluator) EvaluateAt(frame int) (Snapshot, error) {
	if e == nil || e.world == nil {
		return nil, ErrNoWorld
	}
	e.world.SetFrame(frame)
	e.world.Update()
	for _, s := range e.world.Systems() {
		if reporter, ok := s.(interface{ Err() error }); ok {
			if err := reporter.Err(); err != nil {
				return nil, fmt.Errorf("motion: evaluate frame %d: %w", frame, err)
			}
		}
	}
	return SnapshotOf(e.world), nil
}

// SnapshotOf reads the world as it currently stands.
func SnapshotOf(w *ecs.World) Snapshot {
	return worldSnapshot{w: w}
}

type worldSnapshot struct {
	w *ecs.World
}

func (s worldSnapshot) Frame() int {
	return s.w.Frame()
}

func (s worldSnapshot) Kind(e ecs.Entity) (component.ObjectKind, bool) {
	obj, ok := ecs.Get(s.w, e, component.ObjectComponent.Kind())
	if !ok {
		return 0, false
	}
	return obj.Kind, true
}

func (s worldSnapshot) WorldMatrix(e ecs.Entity) (mat.Matrix, bool) {
	return WorldMatrix(s.w, e)
}

func (s worldSnapshot) Vertex(e ecs.Entity, index int) (r3.Vec, bool) {
	mesh, ok := ecs.Get(s.w, e, component.MeshComponent.Kind())
	if !ok || index < 0 || index >= len(mesh.Vertices) {
		return r3.Vec{}, false
	}
	return mesh.Vertices[index], true
}

func (s worldSnapshot) BoneHead(e ecs.Entity, bone string) (r3.Vec, bool) {
	if pose, ok := ecs.Get(s.w, e, component.PoseComponent.Kind()); ok {
		if head, ok := pose.Heads[bone]; ok {
			return head, true
		}
	}
	arm, ok := ecs.Get(s.w, e, component.ArmatureComponent.Kind())
	if !ok {
		return r3.Vec{}, false
	}
	b, ok := arm.Bone(bone)
	return b.Head, ok
}

// WorldMatrix composes the local transforms from e up to the root. Entities
// without a Transform contribute identity.
func WorldMatrix(w *ecs.World, e ecs.Entity) (mat.Matrix, bool) {
	if !ecs.IsAlive(w, e) {
		return nil, false
	}
	m := localMatrix(w, e)
	for p, ok := ecs.Parent(w, e); ok; p, ok = ecs.Parent(w, p) {
		m = geom.Mul(localMatrix(w, p), m)
	}
	return m, true
}

// WorldPosition is the translation of e's world matrix.
func WorldPosition(w *ecs.World, e ecs.Entity) (r3.Vec, bool) {
	m, ok := WorldMatrix(w, e)
	if !ok {
		return r3.Vec{}, false
	}
	return geom.Translation(m), true
}

func localMatrix(w *ecs.World, e ecs.Entity) *mat.Dense {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return geom.Identity()
	}
	return geom.Compose(t.Location, t.Rotation, t.Scale)
}
