package motion

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/geom"
	"github.com/milk9111/motionpath/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	TemplateName = "BaseIcoSphere"
	// TemplateSubdivisions is the icosphere detail level of every marker.
	TemplateSubdivisions = 2
)

var ErrNotTemplate = errors.New("motion: entity is not a marker")

// MarkerFactory builds the marker template and its instances. The template
// mesh has unit radius, so a marker's uniform scale equals its radius.
type MarkerFactory struct {
	world *ecs.World
	made  int
}

func NewMarkerFactory(w *ecs.World) *MarkerFactory {
	return &MarkerFactory{world: w}
}

// NewTemplate creates the prototype marker: hidden from render, smooth
// shaded, colored with alpha 1 and tagged as a marker.
func (f *MarkerFactory) NewTemplate(radius float64, color settings.Color, runID uuid.UUID) (ecs.Entity, error) {
	verts, faces := geom.IcoSphere(TemplateSubdivisions, 1)
	transform := component.IdentityTransform()
	transform.Scale = r3.Vec{X: radius, Y: radius, Z: radius}

	e := ecs.CreateEntity(f.world)
	err := errors.Join(
		ecs.Add(f.world, e, component.NameComponent.Kind(), &component.Name{Value: TemplateName}),
		ecs.Add(f.world, e, component.ObjectComponent.Kind(), &component.Object{Kind: component.ObjectMesh}),
		ecs.Add(f.world, e, component.TransformComponent.Kind(), &transform),
		ecs.Add(f.world, e, component.MeshComponent.Kind(), &component.Mesh{Vertices: verts, Faces: faces}),
		ecs.Add(f.world, e, component.DisplayComponent.Kind(), &component.Display{
			Color:      component.RGBA{R: color.R, G: color.G, B: color.B, A: 1},
			HideRender: true,
			Smooth:     true,
		}),
		ecs.Add(f.world, e, component.GeneratedComponent.Kind(), &component.Generated{Tag: component.MarkerTag, RunID: runID}),
	)
	if err != nil {
		ecs.DestroyEntity(f.world, e)
		return 0, fmt.Errorf("motion: new template: %w", err)
	}
	return e, nil
}

// Instantiate copies template to world position pos under owner. The mesh is
// deep-copied; display, scale and tag are copied by value.
func (f *MarkerFactory) Instantiate(template ecs.Entity, pos r3.Vec, owner ecs.Entity) (ecs.Entity, error) {
	tag, ok := ecs.Get(f.world, template, component.GeneratedComponent.Kind())
	if !ok || tag.Tag != component.MarkerTag {
		return 0, fmt.Errorf("%w: %s", ErrNotTemplate, template)
	}
	mesh, ok := ecs.Get(f.world, template, component.MeshComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("%w: %s has no mesh", ErrNotTemplate, template)
	}

	local := pos
	if ownerWorld, ok := WorldMatrix(f.world, owner); ok {
		inv, err := geom.Inverse(ownerWorld)
		if err != nil {
			return 0, fmt.Errorf("motion: instantiate under %s: %w", owner, err)
		}
		local = geom.Apply(inv, pos)
	}

	transform := component.IdentityTransform()
	if t, ok := ecs.Get(f.world, template, component.TransformComponent.Kind()); ok {
		transform.Scale = t.Scale
	}
	transform.Location = local

	display := component.Display{}
	if d, ok := ecs.Get(f.world, template, component.DisplayComponent.Kind()); ok {
		display = *d
	}
	generated := *tag

	f.made++
	e := ecs.CreateEntity(f.world)
	err := errors.Join(
		ecs.Add(f.world, e, component.NameComponent.Kind(), &component.Name{Value: fmt.Sprintf("%s.%03d", TemplateName, f.made)}),
		ecs.Add(f.world, e, component.ObjectComponent.Kind(), &component.Object{Kind: component.ObjectMesh}),
		ecs.Add(f.world, e, component.TransformComponent.Kind(), &transform),
		ecs.Add(f.world, e, component.MeshComponent.Kind(), mesh.Clone()),
		ecs.Add(f.world, e, component.DisplayComponent.Kind(), &display),
		ecs.Add(f.world, e, component.GeneratedComponent.Kind(), &generated),
		ecs.SetParent(f.world, e, owner),
	)
	if err != nil {
		ecs.DestroyEntity(f.world, e)
		return 0, fmt.Errorf("motion: instantiate marker: %w", err)
	}
	return e, nil
}

// HideTemplate hides the template in the viewport. It stays in the world
// and keeps its tag.
func (f *MarkerFactory) HideTemplate(template ecs.Entity) {
	if d, ok := ecs.Get(f.world, template, component.DisplayComponent.Kind()); ok {
		d.HideViewport = true
	}
}
