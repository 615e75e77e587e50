package component

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh holds local-space geometry and the vertex selection.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
	Selected []int
}

// Clone returns a deep copy; instances never share vertex storage.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
		Selected: append([]int(nil), m.Selected...),
	}
	return out
}

// FirstSelected returns the lowest selected vertex index that exists.
func (m *Mesh) FirstSelected() (int, bool) {
	if m == nil || len(m.Selected) == 0 {
		return 0, false
	}
	sel := append([]int(nil), m.Selected...)
	sort.Ints(sel)
	for _, idx := range sel {
		if idx >= 0 && idx < len(m.Vertices) {
			return idx, true
		}
	}
	return 0, false
}

var MeshComponent = NewComponent[Mesh]()
