// Package preview draws generated motion paths and markers to an image.
package preview

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/geom"
	"github.com/milk9111/motionpath/motion"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNothingToPlot = errors.New("preview: no motion paths in world")

// Plane selects the two world axes that are plotted.
type Plane uint8

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func ParsePlane(s string) (Plane, error) {
	switch s {
	case "xy", "XY", "":
		return PlaneXY, nil
	case "xz", "XZ":
		return PlaneXZ, nil
	case "yz", "YZ":
		return PlaneYZ, nil
	}
	return 0, fmt.Errorf("preview: unknown plane %q", s)
}

func (p Plane) project(v r3.Vec) plotter.XY {
	switch p {
	case PlaneXZ:
		return plotter.XY{X: v.X, Y: v.Z}
	case PlaneYZ:
		return plotter.XY{X: v.Y, Y: v.Z}
	default:
		return plotter.XY{X: v.X, Y: v.Y}
	}
}

func (p Plane) labels() (string, string) {
	switch p {
	case PlaneXZ:
		return "X", "Z"
	case PlaneYZ:
		return "Y", "Z"
	default:
		return "X", "Y"
	}
}

type Options struct {
	Title  string
	Plane  Plane
	Width  vg.Length
	Height vg.Length
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Motion paths"
	}
	if o.Width == 0 {
		o.Width = 8 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 8 * vg.Inch
	}
	return o
}

// Render plots every tagged path as a line and every visible marker as a
// dot, framed square around the centroid of all points.
func Render(w *ecs.World, opts Options) (*plot.Plot, error) {
	opts = opts.withDefaults()
	reg := motion.NewRegistry(w)
	paths := reg.Tagged(component.PathTag)
	if len(paths) == 0 {
		return nil, ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text, p.Y.Label.Text = opts.Plane.labels()
	p.Add(plotter.NewGrid())

	var all []r3.Vec
	for i, e := range paths {
		world, ok := motion.WorldMatrix(w, e)
		poly, hasPoly := ecs.Get(w, e, component.PolylineComponent.Kind())
		if !ok || !hasPoly || len(poly.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(poly.Points))
		for j, local := range poly.Points {
			v := geom.Apply(world, local)
			all = append(all, v)
			pts[j] = opts.Plane.project(v)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("preview: path %s: %w", e, err)
		}
		line.Color = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("path %d (%d pts)", i+1, len(pts)), line)
	}

	for _, m := range reg.Tagged(component.MarkerTag) {
		d, ok := ecs.Get(w, m, component.DisplayComponent.Kind())
		if !ok || d.HideViewport {
			continue
		}
		pos, ok := motion.WorldPosition(w, m)
		if !ok {
			continue
		}
		dot, err := plotter.NewScatter(plotter.XYs{opts.Plane.project(pos)})
		if err != nil {
			return nil, fmt.Errorf("preview: marker %s: %w", m, err)
		}
		dot.GlyphStyle.Color = d.Color.NRGBA()
		dot.GlyphStyle.Shape = draw.CircleGlyph{}
		dot.GlyphStyle.Radius = vg.Points(3)
		p.Add(dot)
	}

	frame(p, opts.Plane, all)
	p.Legend.Top = true
	return p, nil
}

// Save renders to file; the format follows the extension.
func Save(w *ecs.World, file string, opts Options) error {
	opts = opts.withDefaults()
	p, err := Render(w, opts)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, file); err != nil {
		return fmt.Errorf("preview: save %s: %w", file, err)
	}
	return nil
}

func frame(p *plot.Plot, plane Plane, pts []r3.Vec) {
	center, ok := geom.Centroid(pts)
	if !ok {
		return
	}
	lo, hi, _ := geom.Bounds(pts)
	c := plane.project(center)
	a, b := plane.project(lo), plane.project(hi)
	half := max(c.X-a.X, b.X-c.X, c.Y-a.Y, b.Y-c.Y)*1.1 + 0.5
	p.X.Min, p.X.Max = c.X-half, c.X+half
	p.Y.Min, p.Y.Max = c.Y-half, c.Y+half
}
