package component

import "gonum.org/v1/gonum/spatial/r3"

// Bone is a rest-pose bone in armature space.
type Bone struct {
	Name   string
	Head   r3.Vec
	Tail   r3.Vec
	Parent string
}

type Armature struct {
	Bones []Bone
}

func (a *Armature) Bone(name string) (Bone, bool) {
	if a == nil {
		return Bone{}, false
	}
	for _, b := range a.Bones {
		if b.Name == name {
			return b, true
		}
	}
	return Bone{}, false
}

var ArmatureComponent = NewComponent[Armature]()

// Pose holds evaluated bone heads in armature space for the current frame.
type Pose struct {
	Heads map[string]r3.Vec
}

var PoseComponent = NewComponent[Pose]()
