// Package scenes turns yaml scene descriptions into a populated world.
package scenes

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene is a built scene. Objects are looked up by their file names.
type Scene struct {
	Name       string
	World      *ecs.World
	FrameStart int
	FrameEnd   int
	Active     ecs.Entity
	ActiveBone string
	objects    map[string]ecs.Entity
}

func (s *Scene) Lookup(name string) (ecs.Entity, bool) {
	e, ok := s.objects[name]
	return e, ok && ecs.IsAlive(s.World, e)
}

// Names returns the object names in sorted order.
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type buildContext struct {
	ScenePath string
	Object    string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"object":    addObject,
	"transform": addTransform,
	"mesh":      addMesh,
	"armature":  addArmature,
	"animation": addAnimation,
	"display":   addDisplay,
}

var componentBuildOrder = []string{
	"object",
	"transform",
	"mesh",
	"armature",
	"animation",
	"display",
}

// LoadScene reads a scene file and builds it into w.
func LoadScene(w *ecs.World, path string) (*Scene, error) {
	spec, err := LoadSceneSpec(path)
	if err != nil {
		return nil, err
	}
	return BuildScene(w, spec, path)
}

// BuildScene adds every object of spec to w. On error nothing it created is
// left behind.
func BuildScene(w *ecs.World, spec SceneSpec, path string) (*Scene, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}
	scene := &Scene{
		Name:       spec.Name,
		World:      w,
		FrameStart: spec.FrameStart,
		FrameEnd:   spec.FrameEnd,
		ActiveBone: spec.ActiveBone,
		objects:    make(map[string]ecs.Entity, len(spec.Objects)),
	}
	if scene.FrameStart == 0 && scene.FrameEnd == 0 {
		scene.FrameStart, scene.FrameEnd = 1, 250
	}

	fail := func(err error) (*Scene, error) {
		for _, e := range scene.objects {
			ecs.DestroyEntity(w, e)
		}
		return nil, err
	}

	for _, obj := range spec.Objects {
		if obj.Name == "" {
			return fail(fmt.Errorf("build scene: %q: object without a name", path))
		}
		if _, dup := scene.objects[obj.Name]; dup {
			return fail(fmt.Errorf("build scene: %q: duplicate object %q", path, obj.Name))
		}
		e, err := buildObject(w, obj, &buildContext{ScenePath: path, Object: obj.Name})
		if err != nil {
			return fail(err)
		}
		scene.objects[obj.Name] = e
	}

	for _, obj := range spec.Objects {
		if obj.Parent == "" {
			continue
		}
		parent, ok := scene.objects[obj.Parent]
		if !ok {
			return fail(fmt.Errorf("build scene: %q: %q has unknown parent %q", path, obj.Name, obj.Parent))
		}
		if err := ecs.SetParent(w, scene.objects[obj.Name], parent); err != nil {
			return fail(fmt.Errorf("build scene: %q: parent %q: %w", path, obj.Name, err))
		}
	}

	if spec.Active != "" {
		active, ok := scene.objects[spec.Active]
		if !ok {
			return fail(fmt.Errorf("build scene: %q: unknown active object %q", path, spec.Active))
		}
		scene.Active = active
	}
	return scene, nil
}

func buildObject(w *ecs.World, obj ObjectSpec, ctx *buildContext) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: obj.Name}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}

	remaining := make(map[string]any, len(obj.Components))
	for k, v := range obj.Components {
		remaining[k] = v
	}
	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build scene: %q: %s: add %q: %w", ctx.ScenePath, ctx.Object, name, err)
		}
		delete(remaining, name)
	}
	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build scene: %q: %s: no builder for %s", ctx.ScenePath, ctx.Object, strings.Join(names, ", "))
	}

	if !ecs.Has(w, e, component.ObjectComponent.Kind()) {
		kind := component.ObjectEmpty
		if ecs.Has(w, e, component.MeshComponent.Kind()) {
			kind = component.ObjectMesh
		} else if ecs.Has(w, e, component.ArmatureComponent.Kind()) {
			kind = component.ObjectArmature
		}
		_ = ecs.Add(w, e, component.ObjectComponent.Kind(), &component.Object{Kind: kind})
	}
	if !ecs.Has(w, e, component.TransformComponent.Kind()) {
		t := component.IdentityTransform()
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &t)
	}
	return e, nil
}

func addObject(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := DecodeComponentSpec[ObjectComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode object spec: %w", err)
	}
	kind, err := component.ParseObjectKind(spec.Kind)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ObjectComponent.Kind(), &component.Object{Kind: kind})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := DecodeComponentSpec[TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.IdentityTransform()
	if t.Location, err = vec(spec.Location, t.Location); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	rot, err := vec(spec.Rotation, r3.Vec{})
	if err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	t.Rotation = radians(rot)
	if t.Scale, err = vec(spec.Scale, t.Scale); err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &t)
}

func addMesh(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := DecodeComponentSpec[MeshComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mesh spec: %w", err)
	}
	size := spec.Size
	if size == 0 {
		size = 1
	}

	mesh := &component.Mesh{Selected: spec.Selected}
	switch strings.ToLower(spec.Primitive) {
	case "":
		for i, v := range spec.Vertices {
			p, err := vec(v, r3.Vec{})
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			mesh.Vertices = append(mesh.Vertices, p)
		}
		mesh.Faces = spec.Faces
	case "cube":
		mesh.Vertices, mesh.Faces = geom.Cube(size)
	case "icosphere":
		subdiv := spec.Subdivisions
		if subdiv == 0 {
			subdiv = 2
		}
		mesh.Vertices, mesh.Faces = geom.IcoSphere(subdiv, size)
	default:
		return fmt.Errorf("unknown primitive %q", spec.Primitive)
	}

	for _, idx := range mesh.Selected {
		if idx < 0 || idx >= len(mesh.Vertices) {
			return fmt.Errorf("selected vertex %d out of range", idx)
		}
	}
	for i, f := range mesh.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(mesh.Vertices) {
				return fmt.Errorf("face %d references vertex %d", i, idx)
			}
		}
	}
	return ecs.Add(w, e, component.MeshComponent.Kind(), mesh)
}

func addArmature(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := DecodeComponentSpec[ArmatureComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode armature spec: %w", err)
	}
	arm := &component.Armature{}
	seen := make(map[string]bool, len(spec.Bones))
	for _, b := range spec.Bones {
		if b.Name == "" || seen[b.Name] {
			return fmt.Errorf("bone name %q missing or repeated", b.Name)
		}
		if b.Parent != "" && !seen[b.Parent] {
			return fmt.Errorf("bone %q: parent %q must be listed first", b.Name, b.Parent)
		}
		seen[b.Name] = true
		head, err := vec(b.Head, r3.Vec{})
		if err != nil {
			return fmt.Errorf("bone %q head: %w", b.Name, err)
		}
		tail, err := vec(b.Tail, r3.Add(head, r3.Vec{Z: 1}))
		if err != nil {
			return fmt.Errorf("bone %q tail: %w", b.Name, err)
		}
		arm.Bones = append(arm.Bones, component.Bone{Name: b.Name, Head: head, Tail: tail, Parent: b.Parent})
	}
	return ecs.Add(w, e, component.ArmatureComponent.Kind(), arm)
}

// addAnimation reads rotation keyframes in degrees; rotation scripts return
// radians.
func addAnimation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := DecodeComponentSpec[AnimationComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}
	a := &component.Animation{}
	if a.Location, err = buildChannel("location", spec.Location, false); err != nil {
		return err
	}
	if a.Rotation, err = buildChannel("rotation", spec.Rotation, true); err != nil {
		return err
	}
	if a.Scale, err = buildChannel("scale", spec.Scale, false); err != nil {
		return err
	}
	if len(spec.Bones) > 0 {
		a.Bones = make(map[string]*anim.Channel, len(spec.Bones))
		for name, ch := range spec.Bones {
			c, err := buildChannel("bone:"+name, &ch, false)
			if err != nil {
				return err
			}
			a.Bones[name] = c
		}
	}
	return ecs.Add(w, e, component.AnimationComponent.Kind(), a)
}

func buildChannel(name string, spec *ChannelSpec, degrees bool) (*anim.Channel, error) {
	if spec == nil {
		return nil, nil
	}
	switch {
	case spec.ScriptFile != "":
		src, err := LoadScript(spec.ScriptFile)
		if err != nil {
			return nil, fmt.Errorf("channel %s: load script %q: %w", name, spec.ScriptFile, err)
		}
		return anim.NewScriptChannel(name, string(src)), nil
	case spec.Script != "":
		return anim.NewScriptChannel(name, spec.Script), nil
	case len(spec.Keyframes) > 0:
		keys := make([]anim.Keyframe, 0, len(spec.Keyframes))
		for _, k := range spec.Keyframes {
			v, err := vec(k.Value, r3.Vec{})
			if err != nil {
				return nil, fmt.Errorf("channel %s frame %v: %w", name, k.Frame, err)
			}
			if degrees {
				v = radians(v)
			}
			keys = append(keys, anim.Keyframe{Frame: k.Frame, Value: v})
		}
		return anim.NewKeyframeChannel(name, keys...), nil
	}
	return nil, fmt.Errorf("channel %s: %w", name, anim.ErrEmptyChannel)
}

func addDisplay(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := DecodeComponentSpec[DisplayComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode display spec: %w", err)
	}
	c := component.RGBA{R: 1, G: 1, B: 1, A: 1}
	switch len(spec.Color) {
	case 0:
	case 3, 4:
		c.R, c.G, c.B = spec.Color[0], spec.Color[1], spec.Color[2]
		if len(spec.Color) == 4 {
			c.A = spec.Color[3]
		}
	default:
		return errors.New("color needs 3 or 4 channels")
	}
	return ecs.Add(w, e, component.DisplayComponent.Kind(), &component.Display{
		Color:        c,
		HideRender:   spec.HideRender,
		HideViewport: spec.HideViewport,
		Smooth:       spec.Smooth,
	})
}

func vec(v []float64, def r3.Vec) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return r3.Vec{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
}

func radians(deg r3.Vec) r3.Vec {
	return r3.Scale(math.Pi/180, deg)
}
