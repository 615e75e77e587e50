package component

import "github.com/milk9111/motionpath/anim"

// Animation drives a Transform, and optionally pose bone heads, from the
// world frame cursor. Nil channels leave the stored value untouched.
type Animation struct {
	Location *anim.Channel
	Rotation *anim.Channel
	Scale    *anim.Channel
	// Bones offsets each named bone head from its rest position.
	Bones map[string]*anim.Channel
}

var AnimationComponent = NewComponent[Animation]()
