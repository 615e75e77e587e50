// Package session wires a scene, the settings store and the motion operator
// into one host that commands drive.
package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/system"
	"github.com/milk9111/motionpath/motion"
	"github.com/milk9111/motionpath/scenes"
	"github.com/milk9111/motionpath/settings"
	"github.com/rs/zerolog"
)

var ErrUnknownOperation = errors.New("session: unknown operation")

// Operations lists the names Run accepts, in panel order.
var Operations = []string{"bone", "vertex", "empty", "object", "cleanup"}

type Session struct {
	ScenePath    string
	SettingsPath string

	Store    *settings.Store
	World    *ecs.World
	Scene    *scenes.Scene
	Operator *motion.Operator

	// ShadeByObjectColor and EditMode mirror the last status that set them.
	ShadeByObjectColor bool
	EditMode           bool

	runtime *anim.Runtime
	log     zerolog.Logger
}

// New loads settings and the scene. An empty settingsPath uses defaults.
func New(scenePath, settingsPath string, log zerolog.Logger) (*Session, error) {
	s := &Session{
		ScenePath:    scenePath,
		SettingsPath: settingsPath,
		Store:        settings.NewStore(settings.Default()),
		runtime:      anim.NewRuntime(),
		log:          log,
	}
	if err := s.ReloadSettings(); err != nil {
		return nil, err
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load builds a fresh world from the scene file. Generated paths in the old
// world are dropped with it.
func (s *Session) Load() error {
	w := ecs.NewWorld()
	w.AddSystem(system.NewAnimationSystem(s.runtime, s.log))
	w.AddSystem(system.NewMarkerScaleSystem(s.Store.Radius))

	scene, err := scenes.LoadScene(w, s.ScenePath)
	if err != nil {
		return err
	}
	op, err := motion.NewOperator(w, s.Store, s.log)
	if err != nil {
		return err
	}
	w.SetFrame(scene.FrameStart)
	w.Update()

	s.World, s.Scene, s.Operator = w, scene, op
	s.log.Info().Str("scene", scene.Name).Int("objects", len(scene.Names())).Msg("scene loaded")
	return nil
}

// ReloadSettings rereads the settings file into the store and runs a scene
// update so markers pick up the radius.
func (s *Session) ReloadSettings() error {
	if s.SettingsPath == "" {
		return nil
	}
	cfg, err := settings.Load(s.SettingsPath)
	if err != nil {
		return err
	}
	s.Store.Set(cfg)
	if s.World != nil {
		s.World.Update()
	}
	s.log.Info().
		Float64("radius", s.Store.Radius()).
		Bool("use_timeline", cfg.UseTimeline).
		Msg("settings loaded")
	return nil
}

// SetRadius edits the radius live, as a slider would.
func (s *Session) SetRadius(r float64) {
	s.Store.SetRadius(r)
	s.World.Update()
}

// Context is the selection the operator sees.
func (s *Session) Context() motion.Context {
	return motion.Context{
		Active:     s.Scene.Active,
		ActiveBone: s.Scene.ActiveBone,
		Timeline:   motion.FrameRange{Start: s.Scene.FrameStart, End: s.Scene.FrameEnd},
		EditMode:   s.EditMode,
	}
}

// Select makes the named object active. A "name:bone" form also sets the
// active bone.
func (s *Session) Select(name string) error {
	obj, bone, hasBone := strings.Cut(name, ":")
	e, ok := s.Scene.Lookup(obj)
	if !ok {
		return fmt.Errorf("session: no object %q in scene %q", obj, s.Scene.Name)
	}
	s.Scene.Active = e
	if hasBone {
		s.Scene.ActiveBone = bone
	}
	return nil
}

// Run invokes one entry point by name.
func (s *Session) Run(op string) (motion.Status, error) {
	var st motion.Status
	ctx := s.Context()
	switch strings.ToLower(op) {
	case "bone":
		st = s.Operator.CreateBonePath(ctx)
	case "vertex":
		st = s.Operator.CreateVertexPath(ctx)
	case "empty":
		st = s.Operator.CreateEmptyPath(ctx)
	case "object":
		st = s.Operator.CreateObjectPath(ctx)
	case "cleanup", "clean", "clean_up":
		st = s.Operator.CleanUp()
	default:
		return motion.Status{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if st.ShadeByObjectColor {
		s.ShadeByObjectColor = true
	}
	if st.Kind == motion.KindVertex {
		s.EditMode = st.EditMode
	}
	return st, nil
}

// HandleChange reacts to a watched file: the settings file reloads settings,
// anything else reloads the scene.
func (s *Session) HandleChange(path string) error {
	if s.SettingsPath != "" && samePath(path, s.SettingsPath) {
		return s.ReloadSettings()
	}
	return s.Load()
}

func samePath(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
