// Package anim evaluates animation channels at integer frames.
package anim

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

type Keyframe struct {
	Frame float64
	Value r3.Vec
}

// Channel produces a vector per frame, either from keyframes or from a tengo
// script. A script takes precedence when both are set.
type Channel struct {
	Name      string
	Keyframes []Keyframe
	Script    string
}

// NewKeyframeChannel returns a channel with keys sorted by frame.
func NewKeyframeChannel(name string, keys ...Keyframe) *Channel {
	sorted := append([]Keyframe(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })
	return &Channel{Name: name, Keyframes: sorted}
}

// NewScriptChannel returns a channel evaluated by src.
func NewScriptChannel(name, src string) *Channel {
	return &Channel{Name: name, Script: src}
}

// IsScripted reports whether the channel is evaluated by a script.
func (c *Channel) IsScripted() bool {
	return c != nil && c.Script != ""
}

// Interpolate evaluates keys at frame: linear between keys, held constant
// before the first and after the last. Keys must be sorted by frame.
func Interpolate(keys []Keyframe, frame float64) (r3.Vec, bool) {
	switch n := len(keys); {
	case n == 0:
		return r3.Vec{}, false
	case frame <= keys[0].Frame:
		return keys[0].Value, true
	case frame >= keys[n-1].Frame:
		return keys[n-1].Value, true
	}

	i := sort.Search(len(keys), func(i int) bool { return keys[i].Frame > frame })
	a, b := keys[i-1], keys[i]
	span := b.Frame - a.Frame
	if span <= 0 {
		return b.Value, true
	}
	t := (frame - a.Frame) / span
	return r3.Vec{
		X: a.Value.X + (b.Value.X-a.Value.X)*t,
		Y: a.Value.Y + (b.Value.Y-a.Value.Y)*t,
		Z: a.Value.Z + (b.Value.Z-a.Value.Z)*t,
	}, true
}
