package motion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/milk9111/motionpath/ecs"
	"github.com/milk9111/motionpath/ecs/component"
	"github.com/milk9111/motionpath/settings"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

const (
	EventPathCreated = "motion.path_created"
	EventCleanup     = "motion.cleanup"
)

const (
	msgNoBone     = "No active bone in selected armature"
	msgNoVertex   = "No vertex selected"
	msgNoMesh     = "No mesh in edit mode selected"
	msgNoEmpty    = "No empty object selected"
	msgNoObject   = "No suitable object selected"
	msgBusy       = "Another motion path operation is running"
	msgCleanedUp  = "Motion path curves and marker spheres cleaned up"
	msgCreatedFmt = "%s motion path created"
)

// Operator runs the entry points against one world. Calls are serialized;
// a call made while another is running is rejected, never queued.
type Operator struct {
	world    *ecs.World
	store    *settings.Store
	log      zerolog.Logger
	builder  *PathBuilder
	markers  *MarkerFactory
	registry *Registry
	metrics  *instruments
	newRunID func() uuid.UUID
	running  sync.Mutex
}

type config struct {
	eval     Evaluator
	meter    metric.Meter
	newRunID func() uuid.UUID
}

// Option configures an Operator.
type Option func(*config)

// WithEvaluator replaces the default world evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(c *config) { c.eval = e }
}

// WithMeter records metrics on m instead of the global meter provider.
func WithMeter(m metric.Meter) Option {
	return func(c *config) { c.meter = m }
}

// WithRunIDs overrides run id generation.
func WithRunIDs(fn func() uuid.UUID) Option {
	return func(c *config) { c.newRunID = fn }
}

func NewOperator(w *ecs.World, store *settings.Store, log zerolog.Logger, opts ...Option) (*Operator, error) {
	if w == nil {
		return nil, ErrNoWorld
	}
	if store == nil {
		store = settings.NewStore(settings.Default())
	}
	cfg := &config{newRunID: uuid.New}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.eval == nil {
		cfg.eval = NewWorldEvaluator(w)
	}
	if cfg.meter == nil {
		cfg.meter = meter()
	}
	in, err := newInstruments(cfg.meter)
	if err != nil {
		return nil, fmt.Errorf("motion: new operator: %w", err)
	}
	return &Operator{
		world:    w,
		store:    store,
		log:      log.With().Str("component", "motion").Logger(),
		builder:  NewPathBuilder(w, cfg.eval),
		markers:  NewMarkerFactory(w),
		registry: NewRegistry(w),
		metrics:  in,
		newRunID: cfg.newRunID,
	}, nil
}

// Registry exposes the tag registry of the operator's world.
func (o *Operator) Registry() *Registry {
	return o.registry
}

func (o *Operator) CreateBonePath(ctx Context) Status {
	return o.createPath(KindBone, ctx, o.selectBone)
}

func (o *Operator) CreateVertexPath(ctx Context) Status {
	st := o.createPath(KindVertex, ctx, o.selectVertex)
	if st.State == StateDone {
		st.EditMode = true
	}
	return st
}

func (o *Operator) CreateEmptyPath(ctx Context) Status {
	return o.createPath(KindEmpty, ctx, o.selectEmpty)
}

func (o *Operator) CreateObjectPath(ctx Context) Status {
	return o.createPath(KindObject, ctx, o.selectObject)
}

// CleanUp removes every generated path and marker.
func (o *Operator) CleanUp() Status {
	st := Status{Trace: []State{StateIdle}}
	if !o.running.TryLock() {
		return o.reject(st, msgBusy, ErrBusy)
	}
	defer o.running.Unlock()

	st.Cleanup = o.registry.Cleanup()
	o.metrics.recordCleanup(context.Background(), st.Cleanup)
	st = o.finish(st, msgCleanedUp)
	o.world.Events().Push(ecs.Event{Type: EventCleanup, Data: st.Cleanup})
	o.log.Info().
		Int("paths", st.Cleanup.Paths).
		Int("markers", st.Cleanup.Markers).
		Msg(st.Message)
	return st
}

type selectFunc func(Context) (EntityRef, string)

func (o *Operator) createPath(kind EntityKind, ctx Context, sel selectFunc) Status {
	st := Status{Kind: kind, Trace: []State{StateIdle}, ShadeByObjectColor: true, EditMode: ctx.EditMode}
	if !o.running.TryLock() {
		return o.reject(st, msgBusy, ErrBusy)
	}
	defer o.running.Unlock()

	st = st.enter(StateValidatingSelection)
	ref, msg := sel(ctx)
	if ref == nil {
		if kind == KindVertex && msg == msgNoVertex {
			st.EditMode = false
		}
		return o.reject(st, msg, ErrSelectionMismatch)
	}

	st = st.enter(StateResolvingRange)
	rng, err := ResolveRange(o.store.Get(), ctx.Timeline)
	if err != nil {
		return o.reject(st, fmt.Sprintf("Invalid frame range %s", rng), err)
	}
	st.Range = rng

	st = st.enter(StateSampling)
	runID := o.newRunID()
	path, err := o.builder.Build(ref, rng, runID)
	if err != nil {
		return o.reject(st, "Sampling failed", err)
	}
	st.RunID = runID
	st.Path = path.Entity
	st.Points = len(path.Points)
	st.Skipped = path.Skipped

	st = st.enter(StateAssemblingMarkers)
	marker := o.store.Get().Clamp().Marker
	created, err := o.assemble(path, marker, runID)
	if err != nil {
		for _, e := range created {
			ecs.DestroyEntity(o.world, e)
		}
		ecs.DestroyEntity(o.world, path.Entity)
		return o.reject(st, "Marker assembly failed", err)
	}
	st.Template = created[0]
	st.Markers = len(created)

	// Runs the marker rescale over the new instances.
	o.world.Update()

	o.metrics.recordRun(context.Background(), kind, path, len(created))
	st = o.finish(st, fmt.Sprintf(msgCreatedFmt, titleCase(kind.String())))
	o.world.Events().Push(ecs.Event{Type: EventPathCreated, Data: st})
	o.log.Info().
		Str("kind", kind.String()).
		Str("run_id", runID.String()).
		Stringer("range", rng).
		Int("points", st.Points).
		Int("skipped", len(st.Skipped)).
		Int("markers", st.Markers).
		Msg(st.Message)
	return st
}

// assemble creates the template and one instance per point. created holds
// the template first.
func (o *Operator) assemble(path *Path, m settings.Marker, runID uuid.UUID) (created []ecs.Entity, err error) {
	template, err := o.markers.NewTemplate(m.Radius, m.Color, runID)
	if err != nil {
		return nil, err
	}
	created = append(created, template)
	for _, pt := range path.Points {
		e, err := o.markers.Instantiate(template, pt.Position, path.Entity)
		if err != nil {
			return created, err
		}
		created = append(created, e)
	}
	o.markers.HideTemplate(template)
	return created, nil
}

func (o *Operator) selectBone(ctx Context) (EntityRef, string) {
	if !o.isKind(ctx.Active, component.ObjectArmature) || ctx.ActiveBone == "" {
		return nil, msgNoBone
	}
	arm, ok := ecs.Get(o.world, ctx.Active, component.ArmatureComponent.Kind())
	if !ok {
		return nil, msgNoBone
	}
	if _, ok := arm.Bone(ctx.ActiveBone); !ok {
		return nil, msgNoBone
	}
	return BoneRef{Armature: ctx.Active, Bone: ctx.ActiveBone}, ""
}

func (o *Operator) selectVertex(ctx Context) (EntityRef, string) {
	if !o.isKind(ctx.Active, component.ObjectMesh) {
		return nil, msgNoMesh
	}
	mesh, ok := ecs.Get(o.world, ctx.Active, component.MeshComponent.Kind())
	if !ok {
		return nil, msgNoVertex
	}
	idx, ok := mesh.FirstSelected()
	if !ok {
		return nil, msgNoVertex
	}
	return VertexRef{Mesh: ctx.Active, Index: idx}, ""
}

func (o *Operator) selectEmpty(ctx Context) (EntityRef, string) {
	if !o.isKind(ctx.Active, component.ObjectEmpty) {
		return nil, msgNoEmpty
	}
	return EmptyRef{Object: ctx.Active}, ""
}

func (o *Operator) selectObject(ctx Context) (EntityRef, string) {
	switch {
	case o.isKind(ctx.Active, component.ObjectMesh),
		o.isKind(ctx.Active, component.ObjectCurve),
		o.isKind(ctx.Active, component.ObjectSurface),
		o.isKind(ctx.Active, component.ObjectFont):
		return ObjectRef{Object: ctx.Active}, ""
	}
	return nil, msgNoObject
}

func (o *Operator) isKind(e ecs.Entity, kind component.ObjectKind) bool {
	if !ecs.IsAlive(o.world, e) {
		return false
	}
	obj, ok := ecs.Get(o.world, e, component.ObjectComponent.Kind())
	return ok && obj.Kind == kind
}

func (o *Operator) reject(st Status, msg string, err error) Status {
	st = st.enter(StateRejected)
	st.Level = LevelError
	st.Message = msg
	st.Err = err
	level := zerolog.ErrorLevel
	if errors.Is(err, ErrSelectionMismatch) || errors.Is(err, ErrBusy) {
		level = zerolog.WarnLevel
	}
	o.log.WithLevel(level).Err(err).Str("kind", st.Kind.String()).Msg(msg)
	return st
}

func (o *Operator) finish(st Status, msg string) Status {
	st = st.enter(StateDone)
	st.Level = LevelInfo
	st.Message = msg
	return st
}

func (s Status) enter(next State) Status {
	s.State = next
	s.Trace = append(s.Trace, next)
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
