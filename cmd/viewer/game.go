package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/geom"
	"github.com/milk9111/motionpath/motion"
	"github.com/milk9111/motionpath/scenes"
	"github.com/milk9111/motionpath/session"
	"github.com/milk9111/motionpath/viewport"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	radiusStep  = 0.05
	orbitSpeed  = 0.01
	zoomPerTick = 1.1
)

type Game struct {
	session *session.Session
	log     zerolog.Logger
	panel   *Panel
	camera  viewport.Camera
	watcher *scenes.Watcher

	width, height int
	playing       bool
	lastStatus    string
	clipboardOK   bool

	dragging   bool
	dragButton ebiten.MouseButton
	lastX      int
	lastY      int
}

func NewGame(s *session.Session, log zerolog.Logger, watch bool) *Game {
	g := &Game{
		session: s,
		log:     log,
		camera:  viewport.NewCamera(),
		width:   1280,
		height:  800,
	}
	g.panel = BuildPanel(session.Operations, PanelActions{
		Run:        g.run,
		Radius:     g.nudgeRadius,
		CopyStatus: g.copyStatus,
		Frame:      g.frameAll,
	})
	g.panel.SetRadius(fmt.Sprintf("Radius %.2f", s.Store.Radius()))

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboardOK = true
	}

	if watch {
		g.watcher = g.startWatcher()
	}
	g.frameAll()
	return g
}

func (g *Game) startWatcher() *scenes.Watcher {
	var paths []string
	if info, err := os.Stat(scenes.Dir); err == nil && info.IsDir() {
		paths = append(paths, scenes.Dir)
		if info, err := os.Stat(filepath.Join(scenes.Dir, "scripts")); err == nil && info.IsDir() {
			paths = append(paths, filepath.Join(scenes.Dir, "scripts"))
		}
	}
	if g.session.SettingsPath != "" {
		paths = append(paths, filepath.Dir(g.session.SettingsPath))
	}
	if len(paths) == 0 {
		return nil
	}
	w, err := scenes.NewWatcher(paths...)
	if err != nil {
		g.log.Warn().Err(err).Msg("watcher disabled")
		return nil
	}
	return w
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) run(op string) {
	st, err := g.session.Run(op)
	if err != nil {
		g.setStatus(err.Error())
		return
	}
	g.setStatus(st.String())
	for _, evt := range g.session.World.Events().Drain() {
		g.log.Debug().Str("event", evt.Type).Msg("world event")
	}
}

func (g *Game) nudgeRadius(delta float64) {
	g.session.SetRadius(g.session.Store.Radius() + delta)
	g.panel.SetRadius(fmt.Sprintf("Radius %.2f", g.session.Store.Radius()))
}

func (g *Game) copyStatus() {
	if !g.clipboardOK || g.lastStatus == "" {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.lastStatus))
}

func (g *Game) setStatus(msg string) {
	g.lastStatus = msg
	g.panel.SetStatus(wrap(msg, 24))
}

// frameAll points the camera at every visible entity.
func (g *Game) frameAll() {
	var pts []r3.Vec
	w := g.session.World
	for _, e := range ecs.Entities(w) {
		if p, ok := motion.WorldPosition(w, e); ok {
			pts = append(pts, p)
		}
	}
	center, ok := geom.Centroid(pts)
	if !ok {
		return
	}
	lo, hi, _ := geom.Bounds(pts)
	radius := r3.Norm(r3.Sub(hi, lo)) / 2
	g.camera.Frame(center, math.Max(radius, 1), g.viewSize())
}

func (g *Game) viewSize() cp.Vector {
	return cp.Vector{X: float64(g.width - panelWidth), Y: float64(g.height)}
}

func (g *Game) Update() error {
	g.pollWatcher()
	g.panel.UI.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.playing = !g.playing
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.frameAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyStatus()
	}
	step := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		step = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		step = -1
	}
	if g.playing {
		step = 1
	}
	if step != 0 {
		g.stepFrame(step)
	}

	g.updateCamera()
	return nil
}

// stepFrame moves the cursor inside the scene's frame range, wrapping at
// the end.
func (g *Game) stepFrame(delta int) {
	w, scene := g.session.World, g.session.Scene
	f := w.Frame() + delta
	if f > scene.FrameEnd {
		f = scene.FrameStart
	}
	if f < scene.FrameStart {
		f = scene.FrameEnd
	}
	w.SetFrame(f)
	w.Update()
}

func (g *Game) updateCamera() {
	x, y := ebiten.CursorPosition()
	if x < panelWidth {
		g.dragging = false
		return
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		if dy > 0 {
			g.camera.ZoomBy(zoomPerTick)
		} else {
			g.camera.ZoomBy(1 / zoomPerTick)
		}
	}

	for _, b := range []ebiten.MouseButton{ebiten.MouseButtonMiddle, ebiten.MouseButtonRight} {
		if inpututil.IsMouseButtonJustPressed(b) {
			g.dragging, g.dragButton = true, b
			g.lastX, g.lastY = x, y
		}
	}
	if g.dragging && !ebiten.IsMouseButtonPressed(g.dragButton) {
		g.dragging = false
	}
	if g.dragging {
		dx, dy := float64(x-g.lastX), float64(y-g.lastY)
		if g.dragButton == ebiten.MouseButtonMiddle || ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.camera.Pan(cp.Vector{X: dx, Y: dy})
		} else {
			g.camera.Orbit(dx*orbitSpeed, dy*orbitSpeed)
		}
		g.lastX, g.lastY = x, y
	}

	const keyOrbit = 0.03
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camera.Orbit(-keyOrbit, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camera.Orbit(keyOrbit, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camera.Orbit(0, -keyOrbit)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camera.Orbit(0, keyOrbit)
	}
}

// pollWatcher applies pending file changes without blocking the frame.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.session.HandleChange(path); err != nil {
				g.log.Error().Err(err).Str("file", path).Msg("reload failed")
				g.setStatus("ERROR: reload failed")
				continue
			}
			g.panel.SetRadius(fmt.Sprintf("Radius %.2f", g.session.Store.Radius()))
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn().Err(err).Msg("watcher")
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	shading := viewport.ShadeSolid
	if g.session.ShadeByObjectColor {
		shading = viewport.ShadeObjectColor
	}

	view := g.viewSize()
	dl := viewport.Collect(g.session.World, g.camera, view, shading)
	off := float32(panelWidth)

	for _, l := range dl.Lines {
		vector.StrokeLine(screen,
			off+float32(l.From.X), float32(l.From.Y),
			off+float32(l.To.X), float32(l.To.Y),
			l.Width, l.Color, true)
	}
	for _, d := range dl.Dots {
		r := d.Radius
		if r < 1.5 {
			r = 1.5
		}
		vector.FillCircle(screen, off+float32(d.At.X), float32(d.At.Y), r, d.Color, true)
	}
	for _, lb := range dl.Labels {
		ebitenutil.DebugPrintAt(screen, lb.Text, panelWidth+int(lb.At.X)+4, int(lb.At.Y)+4)
	}

	scene := g.session.Scene
	mode := "object mode"
	if g.session.EditMode {
		mode = "edit mode"
	}
	playing := ""
	if g.playing {
		playing = " (playing)"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s  frame %d [%d-%d]%s  %s  paths %d",
			scene.Name, g.session.World.Frame(), scene.FrameStart, scene.FrameEnd, playing, mode,
			len(g.session.Operator.Registry().Tagged(component.PathTag))),
		panelWidth+10, 10)
	ebitenutil.DebugPrintAt(screen, "space play  ,/. step  F frame  drag orbit  shift/middle pan  wheel zoom",
		panelWidth+10, g.height-20)

	g.panel.UI.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// wrap breaks msg on spaces so no line runs past width characters.
func wrap(msg string, width int) string {
	var b strings.Builder
	n := 0
	for i, word := range strings.Fields(msg) {
		if i > 0 {
			if n+1+len(word) > width {
				b.WriteByte('\n')
				n = 0
			} else {
				b.WriteByte(' ')
				n++
			}
		}
		b.WriteString(word)
		n += len(word)
	}
	return b.String()
}
