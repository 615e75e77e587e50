package motion

import (
	"slices"

	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
)

// CleanupResult counts the entities a cleanup removed.
type CleanupResult struct {
	Paths   int
	Markers int
}

// Registry finds generated entities by tag.
type Registry struct {
	world *ecs.World
}

func NewRegistry(w *ecs.World) *Registry {
	return &Registry{world: w}
}

// Tagged lists every live entity carrying tag, in entity order.
func (r *Registry) Tagged(tag component.Tag) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(r.world, component.GeneratedComponent.Kind(), func(e ecs.Entity, g *component.Generated) {
		if g.Tag == tag {
			out = append(out, e)
		}
	})
	slices.Sort(out)
	return out
}

// Cleanup removes every tagged marker, every path that parents one, and
// every tagged path left without markers. Markers go first, then paths, each
// in entity order. Each removal is guarded so an entity already gone is
// skipped.
func (r *Registry) Cleanup() CleanupResult {
	markers, paths := r.targets()

	var res CleanupResult
	for _, m := range markers {
		if ecs.IsAlive(r.world, m) && ecs.DestroyEntity(r.world, m) {
			res.Markers++
		}
	}
	for _, p := range paths {
		if ecs.IsAlive(r.world, p) && ecs.DestroyEntity(r.world, p) {
			res.Paths++
		}
	}
	return res
}

// targets marks what Cleanup removes. Both lists are sorted and free of
// duplicates.
func (r *Registry) targets() (markers, paths []ecs.Entity) {
	markers = r.Tagged(component.MarkerTag)
	paths = r.Tagged(component.PathTag)
	for _, m := range markers {
		parent, ok := ecs.Parent(r.world, m)
		if !ok {
			continue
		}
		if g, ok := ecs.Get(r.world, parent, component.GeneratedComponent.Kind()); ok && g.Tag == component.PathTag {
			paths = append(paths, parent)
		}
	}
	slices.Sort(paths)
	return markers, slices.Compact(paths)
}
