package ecs

import (
	"errors"
	"sort"
)

var ErrParentCycle = errors.New("ecs: parent would create a cycle")

// hierarchy is the explicit parent→children index. Both directions are kept
// so unlinking a child is O(1) regardless of sibling count.
type hierarchy struct {
	parent   map[Entity]Entity
	children map[Entity]map[Entity]struct{}
}

func (h *hierarchy) link(child, parent Entity) {
	if h.parent == nil {
		h.parent = make(map[Entity]Entity)
		h.children = make(map[Entity]map[Entity]struct{})
	}
	h.unlink(child)
	h.parent[child] = parent
	set, ok := h.children[parent]
	if !ok {
		set = make(map[Entity]struct{})
		h.children[parent] = set
	}
	set[child] = struct{}{}
}

func (h *hierarchy) unlink(child Entity) {
	parent, ok := h.parent[child]
	if !ok {
		return
	}
	delete(h.parent, child)
	if set, ok := h.children[parent]; ok {
		delete(set, child)
		if len(set) == 0 {
			delete(h.children, parent)
		}
	}
}

// detach removes e from its parent and orphans its children.
func (h *hierarchy) detach(e Entity) {
	h.unlink(e)
	for child := range h.children[e] {
		delete(h.parent, child)
	}
	delete(h.children, e)
}

// SetParent makes parent the parent of child. A zero parent clears the
// relation.
func SetParent(w *World, child, parent Entity) error {
	if !IsAlive(w, child) {
		return errors.New("ecs: set parent: child not alive")
	}
	if parent == 0 {
		w.hierarchy.unlink(child)
		return nil
	}
	if !IsAlive(w, parent) {
		return errors.New("ecs: set parent: parent not alive")
	}
	for p, ok := parent, true; ok; p, ok = w.hierarchy.parent[p] {
		if p == child {
			return ErrParentCycle
		}
	}
	w.hierarchy.link(child, parent)
	return nil
}

// Parent returns the parent of e, if any.
func Parent(w *World, e Entity) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	p, ok := w.hierarchy.parent[e]
	return p, ok
}

// Children returns the direct children of e in id order.
func Children(w *World, e Entity) []Entity {
	if w == nil {
		return nil
	}
	set := w.hierarchy.children[e]
	if len(set) == 0 {
		return nil
	}
	out := make([]Entity, 0, len(set))
	for child := range set {
		out = append(out, child)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id() < out[j].id() })
	return out
}
