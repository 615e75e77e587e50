package motion

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	PathName      = "motion_path"
	PathDataName  = "motion_path_curve"
	PathDimension = "3D"
	// PathResolution matches the curve resolution hosts expect for a
	// poly spline.
	PathResolution = 2
)

// Path is the result of one build.
type Path struct {
	Entity  ecs.Entity
	RunID   uuid.UUID
	Range   FrameRange
	Points  []SamplePoint
	Skipped []int
}

// Positions returns the sampled positions in order.
func (p *Path) Positions() []r3.Vec {
	out := make([]r3.Vec, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Position
	}
	return out
}

// PathBuilder samples a reference over a range and inserts the result into
// the world as a tagged polyline.
type PathBuilder struct {
	world   *ecs.World
	sampler *Sampler
}

func NewPathBuilder(w *ecs.World, eval Evaluator) *PathBuilder {
	return &PathBuilder{world: w, sampler: NewSampler(eval)}
}

// Build samples first and only then touches the world, so an evaluator
// failure leaves the scene unchanged. The world frame is restored and the
// world re-posed at it before returning, on failure too.
func (b *PathBuilder) Build(ref EntityRef, r FrameRange, runID uuid.UUID) (*Path, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	cursor := b.world.Frame()
	points, skipped, err := b.sampler.SampleRange(ref, r)
	b.world.SetFrame(cursor)
	b.world.Update()
	if err != nil {
		return nil, fmt.Errorf("motion: build path: %w", err)
	}

	path := &Path{RunID: runID, Range: r, Points: points, Skipped: skipped}
	poly := &component.Polyline{
		DataName:   PathDataName,
		Dimensions: PathDimension,
		Resolution: PathResolution,
		Points:     path.Positions(),
		Frames:     make([]int, len(points)),
	}
	for i, pt := range points {
		poly.Frames[i] = pt.Frame
	}

	e := ecs.CreateEntity(b.world)
	transform := component.IdentityTransform()
	components := []error{
		ecs.Add(b.world, e, component.NameComponent.Kind(), &component.Name{Value: PathName}),
		ecs.Add(b.world, e, component.ObjectComponent.Kind(), &component.Object{Kind: component.ObjectCurve}),
		ecs.Add(b.world, e, component.TransformComponent.Kind(), &transform),
		ecs.Add(b.world, e, component.PolylineComponent.Kind(), poly),
		ecs.Add(b.world, e, component.GeneratedComponent.Kind(), &component.Generated{Tag: component.PathTag, RunID: runID}),
	}
	for _, err := range components {
		if err != nil {
			ecs.DestroyEntity(b.world, e)
			return nil, fmt.Errorf("motion: build path: %w", err)
		}
	}
	path.Entity = e
	return path, nil
}
