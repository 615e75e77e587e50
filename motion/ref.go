// Package motion samples animated entities over a frame range and turns the
// samples into a tagged polyline with one marker per sample.
package motion

import (
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

type EntityKind uint8

const (
	KindObject EntityKind = iota
	KindBone
	KindVertex
	KindEmpty
)

func (k EntityKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindBone:
		return "bone"
	case KindVertex:
		return "vertex"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// EntityRef names the thing being sampled. The set of implementations is
// closed: ObjectRef, EmptyRef, BoneRef and VertexRef.
type EntityRef interface {
	Kind() EntityKind
	// Owner is the scene object whose transform the position depends on.
	Owner() ecs.Entity
	isEntityRef()
}

type ObjectRef struct {
	Object ecs.Entity
}

type EmptyRef struct {
	Object ecs.Entity
}

type BoneRef struct {
	Armature ecs.Entity
	Bone     string
}

type VertexRef struct {
	Mesh  ecs.Entity
	Index int
}

func (ObjectRef) Kind() EntityKind { return KindObject }
func (EmptyRef) Kind() EntityKind  { return KindEmpty }
func (BoneRef) Kind() EntityKind   { return KindBone }
func (VertexRef) Kind() EntityKind { return KindVertex }

func (r ObjectRef) Owner() ecs.Entity { return r.Object }
func (r EmptyRef) Owner() ecs.Entity  { return r.Object }
func (r BoneRef) Owner() ecs.Entity   { return r.Armature }
func (r VertexRef) Owner() ecs.Entity { return r.Mesh }

func (ObjectRef) isEntityRef() {}
func (EmptyRef) isEntityRef()  {}
func (BoneRef) isEntityRef()   {}
func (VertexRef) isEntityRef() {}

// ResolvePosition returns the world-space position of ref in snap. It
// reports false when the owner is gone or no longer of the required type;
// callers treat that as a skipped sample.
func ResolvePosition(ref EntityRef, snap Snapshot) (r3.Vec, bool) {
	if ref == nil || snap == nil {
		return r3.Vec{}, false
	}
	world, ok := snap.WorldMatrix(ref.Owner())
	if !ok {
		return r3.Vec{}, false
	}

	switch r := ref.(type) {
	case ObjectRef, EmptyRef:
		return geom.Translation(world), true
	case VertexRef:
		if kind, ok := snap.Kind(r.Mesh); !ok || kind != component.ObjectMesh {
			return r3.Vec{}, false
		}
		co, ok := snap.Vertex(r.Mesh, r.Index)
		if !ok {
			return r3.Vec{}, false
		}
		return geom.Apply(world, co), true
	case BoneRef:
		if kind, ok := snap.Kind(r.Armature); !ok || kind != component.ObjectArmature {
			return r3.Vec{}, false
		}
		head, ok := snap.BoneHead(r.Armature, r.Bone)
		if !ok {
			return r3.Vec{}, false
		}
		return geom.Apply(world, head), true
	}
	return r3.Vec{}, false
}
