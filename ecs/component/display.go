package component

import "image/color"

// RGBA is a linear display color with channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// NRGBA converts to an 8-bit color for renderers.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

type Display struct {
	Color        RGBA
	HideRender   bool
	HideViewport bool
	Smooth       bool
}

var DisplayComponent = NewComponent[Display]()
