package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newViewerTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{30, 30, 34, 230}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:     solidNineSlice(color.RGBA{70, 70, 78, 255}),
				Hover:    solidNineSlice(color.RGBA{95, 95, 105, 255}),
				Pressed:  solidNineSlice(color.RGBA{55, 55, 60, 255}),
				Disabled: solidNineSlice(color.RGBA{45, 45, 48, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle:     color.White,
				Disabled: color.Gray{Y: 120},
			},
		},
	}
}
