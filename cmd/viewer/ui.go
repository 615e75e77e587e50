package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// panelWidth is the horizontal space the panel takes from the viewport.
const panelWidth = 190

// Panel is the left-hand column of entry-point buttons.
type Panel struct {
	UI     *ebitenui.UI
	status *widget.Text
	radius *widget.Text
}

// PanelActions are the callbacks the panel buttons fire.
type PanelActions struct {
	Run        func(op string)
	Radius     func(delta float64)
	CopyStatus func()
	Frame      func()
}

var buttonLabels = map[string]string{
	"bone":    "Bone Path",
	"vertex":  "Vertex Path",
	"empty":   "Empty Path",
	"object":  "Object Path",
	"cleanup": "Clean Up",
}

func BuildPanel(ops []string, actions PanelActions) *Panel {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newViewerTheme(&fontFace)
	theme := ui.PrimaryTheme

	column := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(theme.PanelTheme.BackgroundImage),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	column.AddChild(widget.NewText(
		widget.TextOpts.Text("Motion Paths", &fontFace, color.White),
	))

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(panelWidth-20, 30),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	for _, op := range ops {
		op := op
		label, ok := buttonLabels[op]
		if !ok {
			label = op
		}
		column.AddChild(button(label, func() { actions.Run(op) }))
	}

	radiusRow := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	radiusRow.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("-", &fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(30, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			actions.Radius(-radiusStep)
		}),
	))
	radiusLabel := widget.NewText(
		widget.TextOpts.Text("Radius", &fontFace, color.White),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.MinSize(90, 28)),
	)
	radiusRow.AddChild(radiusLabel)
	radiusRow.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("+", &fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(30, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			actions.Radius(radiusStep)
		}),
	))
	column.AddChild(radiusRow)

	column.AddChild(button("Frame All", actions.Frame))
	column.AddChild(button("Copy Status", actions.CopyStatus))

	statusText := widget.NewText(
		widget.TextOpts.Text("", &fontFace, color.RGBA{200, 200, 200, 255}),
	)
	column.AddChild(statusText)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(column)
	ui.Container = root

	return &Panel{UI: ui, status: statusText, radius: radiusLabel}
}

func (p *Panel) SetStatus(msg string) {
	p.status.Label = msg
}

func (p *Panel) SetRadius(label string) {
	p.radius.Label = label
}
