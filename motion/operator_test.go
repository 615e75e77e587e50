package motion

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestObjectPathOverFiveFrames(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, slideX())
	w.SetFrame(42)
	op := newTestOperator(t, w, store)

	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 5}})

	require.Equal(t, StateDone, st.State, st.Message)
	assert.Equal(t, LevelInfo, st.Level)
	assert.Equal(t, "Object motion path created", st.Message)
	assert.True(t, st.ShadeByObjectColor)
	assert.Equal(t, []State{
		StateIdle, StateValidatingSelection, StateResolvingRange,
		StateSampling, StateAssemblingMarkers, StateDone,
	}, st.Trace)
	assert.Equal(t, 42, w.Frame(), "frame cursor restored")

	want := []r3.Vec{{X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 5}}
	poly, ok := ecs.Get(w, st.Path, component.PolylineComponent.Kind())
	require.True(t, ok)
	if diff := cmp.Diff(want, poly.Points, approx); diff != "" {
		t.Fatalf("path points mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, poly.Frames)
	assert.Equal(t, PathDataName, poly.DataName)
	assert.Equal(t, PathDimension, poly.Dimensions)
	assert.Equal(t, PathResolution, poly.Resolution)

	markers := markerChildren(t, w, st.Path)
	require.Len(t, markers, 5)
	var got []r3.Vec
	for _, m := range markers {
		pos, ok := WorldPosition(w, m)
		require.True(t, ok)
		got = append(got, pos)
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("marker positions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, st.Markers, "instances plus template")
}

func TestTemplateIsHiddenAndTagged(t *testing.T) {
	w, store := newTestWorld()
	store.Set(settings.Settings{
		UseTimeline: true,
		StartFrame:  1,
		EndFrame:    1,
		Marker:      settings.Marker{Radius: 0.3, Color: settings.Color{R: 0.1, G: 0.2, B: 0.3}},
	})
	obj := addObject(t, w, component.ObjectEmpty, slideX())
	op := newTestOperator(t, w, store)

	st := op.CreateEmptyPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 2}})
	require.Equal(t, StateDone, st.State, st.Message)
	assert.Equal(t, "Empty motion path created", st.Message)

	_, hasParent := ecs.Parent(w, st.Template)
	assert.False(t, hasParent)
	name, _ := ecs.Get(w, st.Template, component.NameComponent.Kind())
	assert.Equal(t, TemplateName, name.Value)

	d, ok := ecs.Get(w, st.Template, component.DisplayComponent.Kind())
	require.True(t, ok)
	assert.True(t, d.HideRender)
	assert.True(t, d.HideViewport)
	assert.True(t, d.Smooth)
	assert.Equal(t, component.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 1}, d.Color)

	for _, m := range markerChildren(t, w, st.Path) {
		md, ok := ecs.Get(w, m, component.DisplayComponent.Kind())
		require.True(t, ok)
		assert.True(t, md.HideRender)
		assert.False(t, md.HideViewport)
		tr, _ := ecs.Get(w, m, component.TransformComponent.Kind())
		assert.InDelta(t, 0.3, tr.Scale.X, 1e-12)
	}

	g, ok := ecs.Get(w, st.Path, component.GeneratedComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.PathTag, g.Tag)
	assert.Equal(t, st.RunID, g.RunID)
}

func TestInstancesDoNotShareGeometry(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, slideX())
	op := newTestOperator(t, w, store)

	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 2}})
	require.Equal(t, StateDone, st.State)

	markers := markerChildren(t, w, st.Path)
	require.Len(t, markers, 2)
	a, _ := ecs.Get(w, markers[0], component.MeshComponent.Kind())
	b, _ := ecs.Get(w, markers[1], component.MeshComponent.Kind())
	tmpl, _ := ecs.Get(w, st.Template, component.MeshComponent.Kind())
	require.Len(t, a.Vertices, 42)

	a.Vertices[0] = r3.Vec{X: 99}
	assert.NotEqual(t, a.Vertices[0], b.Vertices[0])
	assert.NotEqual(t, a.Vertices[0], tmpl.Vertices[0])
}

func TestBonePath(t *testing.T) {
	w, store := newTestWorld()
	arm := addObject(t, w, component.ObjectArmature, &component.Animation{
		Bones: map[string]*anim.Channel{
			"hand": anim.NewKeyframeChannel("hand",
				anim.Keyframe{Frame: 1, Value: r3.Vec{}},
				anim.Keyframe{Frame: 3, Value: r3.Vec{Y: 2}},
			),
		},
	})
	tr, _ := ecs.Get(w, arm, component.TransformComponent.Kind())
	tr.Location = r3.Vec{Z: 2}
	require.NoError(t, ecs.Add(w, arm, component.ArmatureComponent.Kind(), &component.Armature{
		Bones: []component.Bone{
			{Name: "root", Head: r3.Vec{}, Tail: r3.Vec{Z: 1}},
			{Name: "hand", Head: r3.Vec{X: 1}, Tail: r3.Vec{X: 2}, Parent: "root"},
		},
	}))
	op := newTestOperator(t, w, store)

	st := op.CreateBonePath(Context{Active: arm, ActiveBone: "hand", Timeline: FrameRange{Start: 1, End: 3}})
	require.Equal(t, StateDone, st.State, st.Message)
	assert.Equal(t, "Bone motion path created", st.Message)

	poly, _ := ecs.Get(w, st.Path, component.PolylineComponent.Kind())
	want := []r3.Vec{{X: 1, Z: 2}, {X: 1, Y: 1, Z: 2}, {X: 1, Y: 2, Z: 2}}
	if diff := cmp.Diff(want, poly.Points, approx); diff != "" {
		t.Fatalf("bone path mismatch (-want +got):\n%s", diff)
	}
}

func TestVertexPath(t *testing.T) {
	w, store := newTestWorld()
	mesh := addObject(t, w, component.ObjectMesh, slideX())
	tr, _ := ecs.Get(w, mesh, component.TransformComponent.Kind())
	tr.Scale = r3.Vec{X: 2, Y: 2, Z: 2}
	require.NoError(t, ecs.Add(w, mesh, component.MeshComponent.Kind(), &component.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Selected: []int{3, 2},
	}))
	op := newTestOperator(t, w, store)

	st := op.CreateVertexPath(Context{Active: mesh, Timeline: FrameRange{Start: 1, End: 3}})
	require.Equal(t, StateDone, st.State, st.Message)
	assert.Equal(t, "Vertex motion path created", st.Message)
	assert.True(t, st.EditMode)

	poly, _ := ecs.Get(w, st.Path, component.PolylineComponent.Kind())
	want := []r3.Vec{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}
	if diff := cmp.Diff(want, poly.Points, approx); diff != "" {
		t.Fatalf("vertex path mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionMismatchLeavesSceneUnchanged(t *testing.T) {
	w, store := newTestWorld()
	mesh := addObject(t, w, component.ObjectMesh, slideX())
	require.NoError(t, ecs.Add(w, mesh, component.MeshComponent.Kind(), &component.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}},
	}))
	arm := addObject(t, w, component.ObjectArmature, nil)
	require.NoError(t, ecs.Add(w, arm, component.ArmatureComponent.Kind(), &component.Armature{
		Bones: []component.Bone{{Name: "root"}},
	}))
	empty := addObject(t, w, component.ObjectEmpty, nil)
	op := newTestOperator(t, w, store)
	timeline := FrameRange{Start: 1, End: 5}

	tests := []struct {
		name string
		run  func() Status
		msg  string
	}{
		{"bone on mesh", func() Status { return op.CreateBonePath(Context{Active: mesh, ActiveBone: "root", Timeline: timeline}) }, msgNoBone},
		{"bone without active bone", func() Status { return op.CreateBonePath(Context{Active: arm, Timeline: timeline}) }, msgNoBone},
		{"bone unknown name", func() Status { return op.CreateBonePath(Context{Active: arm, ActiveBone: "tail", Timeline: timeline}) }, msgNoBone},
		{"vertex with zero selected", func() Status { return op.CreateVertexPath(Context{Active: mesh, Timeline: timeline, EditMode: true}) }, msgNoVertex},
		{"vertex on empty", func() Status { return op.CreateVertexPath(Context{Active: empty, Timeline: timeline}) }, msgNoMesh},
		{"empty on mesh", func() Status { return op.CreateEmptyPath(Context{Active: mesh, Timeline: timeline}) }, msgNoEmpty},
		{"object on armature", func() Status { return op.CreateObjectPath(Context{Active: arm, Timeline: timeline}) }, msgNoObject},
		{"object with nothing active", func() Status { return op.CreateObjectPath(Context{Timeline: timeline}) }, msgNoObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ecs.Count(w)
			st := tt.run()
			assert.Equal(t, StateRejected, st.State)
			assert.Equal(t, LevelError, st.Level)
			assert.Equal(t, tt.msg, st.Message)
			assert.True(t, errors.Is(st.Err, ErrSelectionMismatch))
			assert.Equal(t, []State{StateIdle, StateValidatingSelection, StateRejected}, st.Trace)
			assert.Equal(t, before, ecs.Count(w))
			assert.Empty(t, op.Registry().Tagged(component.PathTag))
			assert.Empty(t, op.Registry().Tagged(component.MarkerTag))
		})
	}
}

func TestInvalidRangeIsRejected(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, slideX())
	op := newTestOperator(t, w, store)

	s := settings.Default()
	s.UseTimeline = false
	s.StartFrame, s.EndFrame = 10, 2
	store.Set(s)

	before := ecs.Count(w)
	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 5}})
	assert.Equal(t, StateRejected, st.State)
	assert.True(t, errors.Is(st.Err, ErrInvalidRange))
	assert.Equal(t, StateResolvingRange, st.Trace[len(st.Trace)-2])
	assert.Equal(t, before, ecs.Count(w))

	store.Set(settings.Default())
	st = op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 5, End: 1}})
	assert.Equal(t, StateRejected, st.State)
	assert.True(t, errors.Is(st.Err, ErrInvalidRange))
	assert.Equal(t, before, ecs.Count(w))
}

func TestEvaluatorFailureLeavesSceneUnchanged(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, nil)
	boom := errors.New("boom")
	eval := EvaluatorFunc(func(frame int) (Snapshot, error) {
		if frame == 3 {
			return nil, boom
		}
		return SnapshotOf(w), nil
	})
	op := newTestOperator(t, w, store, WithEvaluator(eval))

	before := ecs.Count(w)
	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 5}})
	assert.Equal(t, StateRejected, st.State)
	assert.ErrorIs(t, st.Err, boom)
	assert.Equal(t, before, ecs.Count(w))
}

func TestScriptFailureMidRangeRestoresPose(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, &component.Animation{
		Location: anim.NewScriptChannel("location", `value := frame < 4 ? [frame, 0, 0] : "bad"`),
	})
	w.SetFrame(1)
	w.Update()
	op := newTestOperator(t, w, store)

	transform, ok := ecs.Get(w, obj, component.TransformComponent.Kind())
	require.True(t, ok)
	before := transform.Location
	require.Equal(t, r3.Vec{X: 1}, before)
	count := ecs.Count(w)

	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 5}})
	require.Equal(t, StateRejected, st.State)
	assert.Equal(t, "Sampling failed", st.Message)
	assert.Equal(t, 1, w.Frame())
	assert.Equal(t, before, transform.Location, "pose matches the restored frame")
	assert.Equal(t, count, ecs.Count(w))
}

func TestReentrantCallIsRejectedAsBusy(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, slideX())

	var (
		op    *Operator
		inner []Status
	)
	base := NewWorldEvaluator(w)
	eval := EvaluatorFunc(func(frame int) (Snapshot, error) {
		if len(inner) == 0 {
			inner = append(inner, op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 1}}))
			inner = append(inner, op.CleanUp())
		}
		return base.EvaluateAt(frame)
	})
	op = newTestOperator(t, w, store, WithEvaluator(eval))

	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 3}})
	require.Equal(t, StateDone, st.State)
	require.Len(t, inner, 2)
	for _, s := range inner {
		assert.Equal(t, StateRejected, s.State)
		assert.ErrorIs(t, s.Err, ErrBusy)
	}
	assert.Len(t, op.Registry().Tagged(component.PathTag), 1)
}

func TestCleanupAfterRuns(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, slideX())
	require.NoError(t, ecs.Add(w, obj, component.MeshComponent.Kind(), &component.Mesh{
		Vertices: []r3.Vec{{X: 1}},
		Selected: []int{0},
	}))
	empty := addObject(t, w, component.ObjectEmpty, slideX())
	op := newTestOperator(t, w, store)
	timeline := FrameRange{Start: 1, End: 4}

	runs := []Status{
		op.CreateObjectPath(Context{Active: obj, Timeline: timeline}),
		op.CreateEmptyPath(Context{Active: empty, Timeline: timeline}),
		op.CreateVertexPath(Context{Active: obj, Timeline: timeline}),
	}
	markers := 0
	ids := make(map[uuid.UUID]bool)
	for _, st := range runs {
		require.Equal(t, StateDone, st.State, st.Message)
		markers += st.Markers
		ids[st.RunID] = true
	}
	assert.Len(t, ids, 3)
	assert.Len(t, op.Registry().Tagged(component.PathTag), 3)
	assert.Len(t, op.Registry().Tagged(component.MarkerTag), markers)

	st := op.CleanUp()
	assert.Equal(t, StateDone, st.State)
	assert.Equal(t, msgCleanedUp, st.Message)
	assert.Equal(t, CleanupResult{Paths: 3, Markers: markers}, st.Cleanup)
	assert.Empty(t, op.Registry().Tagged(component.PathTag))
	assert.Empty(t, op.Registry().Tagged(component.MarkerTag))
	assert.True(t, ecs.IsAlive(w, obj))
	assert.True(t, ecs.IsAlive(w, empty))
	assert.Equal(t, 2, ecs.Count(w))

	st = op.CleanUp()
	assert.Equal(t, CleanupResult{}, st.Cleanup)

	var types []string
	for _, evt := range w.Events().Drain() {
		types = append(types, evt.Type)
	}
	assert.Equal(t, []string{EventPathCreated, EventPathCreated, EventPathCreated, EventCleanup, EventCleanup}, types)
}

func TestLiveRescale(t *testing.T) {
	w, store := newTestWorld()
	obj := addObject(t, w, component.ObjectMesh, slideX())
	op := newTestOperator(t, w, store)

	st := op.CreateObjectPath(Context{Active: obj, Timeline: FrameRange{Start: 1, End: 3}})
	require.Equal(t, StateDone, st.State)

	poly, _ := ecs.Get(w, st.Path, component.PolylineComponent.Kind())
	points := append([]r3.Vec(nil), poly.Points...)
	locations := make(map[ecs.Entity]r3.Vec)
	for _, m := range op.Registry().Tagged(component.MarkerTag) {
		tr, _ := ecs.Get(w, m, component.TransformComponent.Kind())
		locations[m] = tr.Location
	}

	store.SetRadius(0.5)
	w.Update()
	w.Update()

	for m, loc := range locations {
		tr, _ := ecs.Get(w, m, component.TransformComponent.Kind())
		assert.Equal(t, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, tr.Scale)
		assert.Equal(t, loc, tr.Location)
	}
	assert.Equal(t, points, poly.Points)

	objTr, _ := ecs.Get(w, obj, component.TransformComponent.Kind())
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, objTr.Scale, "untagged objects keep their scale")
}
