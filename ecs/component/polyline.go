package component

import "gonum.org/v1/gonum/spatial/r3"

// Polyline is an open, ordered curve. Frames[i] is the frame Points[i] was
// sampled at.
type Polyline struct {
	DataName   string
	Dimensions string
	Resolution int
	Points     []r3.Vec
	Frames     []int
}

var PolylineComponent = NewComponent[Polyline]()
