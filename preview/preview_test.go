package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/motionpath/anim"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/ecs/system"
	"github.com/milk9111/motionpath/motion"
	"github.com/milk9111/motionpath/settings"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func sampledWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	store := settings.NewStore(settings.Default())
	w.AddSystem(system.NewAnimationSystem(nil, zerolog.Nop()))
	w.AddSystem(system.NewMarkerScaleSystem(store.Radius))

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.ObjectComponent.Kind(), &component.Object{Kind: component.ObjectEmpty}))
	require.NoError(t, ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Location: anim.NewScriptChannel("location", `value := [frame, frame * frame * 0.1, 1]`),
	}))

	op, err := motion.NewOperator(w, store, zerolog.Nop())
	require.NoError(t, err)
	st := op.CreateEmptyPath(motion.Context{Active: e, Timeline: motion.FrameRange{Start: 1, End: 10}})
	require.Equal(t, motion.StateDone, st.State, st.Message)
	return w
}

func TestRenderFramesAroundCentroid(t *testing.T) {
	w := sampledWorld(t)

	p, err := Render(w, Options{Plane: PlaneXY})
	require.NoError(t, err)
	assert.Equal(t, "Motion paths", p.Title.Text)
	assert.Less(t, p.X.Min, 1.0)
	assert.Greater(t, p.X.Max, 10.0)
	assert.InDelta(t, p.X.Max-p.X.Min, p.Y.Max-p.Y.Min, 1e-9, "square framing")
}

func TestSavePNG(t *testing.T) {
	w := sampledWorld(t)
	out := filepath.Join(t.TempDir(), "paths.png")

	require.NoError(t, Save(w, out, Options{Plane: PlaneXZ}))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderEmptyWorld(t *testing.T) {
	_, err := Render(ecs.NewWorld(), Options{})
	assert.ErrorIs(t, err, ErrNothingToPlot)
}

func TestPlaneProjection(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	for s, want := range map[string][2]float64{"xy": {1, 2}, "XZ": {1, 3}, "yz": {2, 3}} {
		plane, err := ParsePlane(s)
		require.NoError(t, err)
		got := plane.project(v)
		assert.Equal(t, want, [2]float64{got.X, got.Y}, s)
	}
	_, err := ParsePlane("xw")
	assert.Error(t, err)
}
