package component

import (
	"fmt"
	"strings"
)

type ObjectKind uint8

const (
	ObjectEmpty ObjectKind = iota
	ObjectMesh
	ObjectArmature
	ObjectCurve
	ObjectSurface
	ObjectFont
)

var objectKindNames = map[ObjectKind]string{
	ObjectEmpty:    "empty",
	ObjectMesh:     "mesh",
	ObjectArmature: "armature",
	ObjectCurve:    "curve",
	ObjectSurface:  "surface",
	ObjectFont:     "font",
}

func (k ObjectKind) String() string {
	if name, ok := objectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ObjectKind(%d)", uint8(k))
}

// ParseObjectKind accepts the lower-case kind names used in scene files.
func ParseObjectKind(s string) (ObjectKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, n := range objectKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}

// Object carries the host object type.
type Object struct {
	Kind ObjectKind
}

var ObjectComponent = NewComponent[Object]()

type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
