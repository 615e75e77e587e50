package ecs

import "github.com/milk9111/motionpath/ecs/component"

// World owns entities, component storage, the parent index, the system order
// and the evaluation frame cursor.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	hierarchy hierarchy
	scheduler Scheduler
	events    EventQueue
	frame     int
}

// NewWorld creates an empty world with the cursor at frame 1.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		frame:  1,
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Systems returns the registered systems in update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// Update runs all systems once. Every call is a scene dependency update.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w)
}

// Frame returns the current evaluation frame.
func (w *World) Frame() int {
	if w == nil {
		return 0
	}
	return w.frame
}

// SetFrame moves the evaluation cursor. Systems observe it on the next Update.
func (w *World) SetFrame(frame int) {
	if w == nil {
		return
	}
	w.frame = frame
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e, detaches it from its parent and
// orphans its children. It returns false when e was already gone.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	w.hierarchy.detach(e)
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	w.entities.each(func(e Entity) {
		out = append(out, e)
	})
	return out
}

// Count returns the number of live entities.
func Count(w *World) int {
	if w == nil {
		return 0
	}
	return w.entities.count
}
