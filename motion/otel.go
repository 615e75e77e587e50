package motion

import (
	"context"
	"fmt"

	"github.com/milk9111/motionpath/ecs/component"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/milk9111/motionpath/motion"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	samples metric.Int64Counter
	skipped metric.Int64Counter
	paths   metric.Int64Counter
	markers metric.Int64Counter
	cleaned metric.Int64Counter
}

func newInstruments(m metric.Meter) (*instruments, error) {
	var (
		in  instruments
		err error
	)
	if in.samples, err = m.Int64Counter(
		"motionpath.samples.taken",
		metric.WithDescription("Samples that resolved to a position"),
	); err != nil {
		return nil, fmt.Errorf("creating samples counter: %w", err)
	}
	if in.skipped, err = m.Int64Counter(
		"motionpath.samples.skipped",
		metric.WithDescription("Samples skipped because the reference did not resolve"),
	); err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}
	if in.paths, err = m.Int64Counter(
		"motionpath.paths.created",
		metric.WithDescription("Motion paths created"),
	); err != nil {
		return nil, fmt.Errorf("creating paths counter: %w", err)
	}
	if in.markers, err = m.Int64Counter(
		"motionpath.markers.created",
		metric.WithDescription("Markers created, template included"),
	); err != nil {
		return nil, fmt.Errorf("creating markers counter: %w", err)
	}
	if in.cleaned, err = m.Int64Counter(
		"motionpath.entities.cleaned",
		metric.WithDescription("Generated entities removed by cleanup"),
	); err != nil {
		return nil, fmt.Errorf("creating cleaned counter: %w", err)
	}
	return &in, nil
}

func (in *instruments) recordRun(ctx context.Context, kind EntityKind, p *Path, markers int) {
	attrs := metric.WithAttributes(attribute.String("kind", kind.String()))
	in.samples.Add(ctx, int64(len(p.Points)), attrs)
	in.skipped.Add(ctx, int64(len(p.Skipped)), attrs)
	in.paths.Add(ctx, 1, attrs)
	in.markers.Add(ctx, int64(markers), attrs)
}

func (in *instruments) recordCleanup(ctx context.Context, res CleanupResult) {
	in.cleaned.Add(ctx, int64(res.Paths), metric.WithAttributes(attribute.String("tag", component.PathTag.String())))
	in.cleaned.Add(ctx, int64(res.Markers), metric.WithAttributes(attribute.String("tag", component.MarkerTag.String())))
}
