package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jtripath/maven-dependency-management-extension/pkg/observability"
)

const tracerName = "depmgmt"

// Tracing records resolve events as OpenTelemetry spans and forwards them
// to the wrapped hooks. Spans are emitted when an operation completes,
// backdated to its start.
//
// The tracer comes from the global provider; configure it with
// otel.SetTracerProvider before calling [NewTracing].
type Tracing struct {
	next   observability.ResolveHooks
	tracer trace.Tracer
}

// NewTracing wraps next. A nil next drops the events after tracing.
func NewTracing(next observability.ResolveHooks) *Tracing {
	if next == nil {
		next = observability.NoopResolveHooks{}
	}
	return &Tracing{next: next, tracer: otel.Tracer(tracerName)}
}

func (t *Tracing) OnResolveStart(ctx context.Context, kind, gav string) {
	t.next.OnResolveStart(ctx, kind, gav)
}

func (t *Tracing) OnResolveComplete(ctx context.Context, kind, gav string, entries int, d time.Duration, err error) {
	t.span(ctx, "depmgmt.resolve."+kind, d, err,
		attribute.String("depmgmt.gav", gav),
		attribute.Int("depmgmt.entries", entries),
	)
	t.next.OnResolveComplete(ctx, kind, gav, entries, d, err)
}

func (t *Tracing) OnModelBuild(ctx context.Context, modelID string, lineage int, d time.Duration, err error) {
	t.span(ctx, "depmgmt.model.build", d, err,
		attribute.String("depmgmt.model", modelID),
		attribute.Int("depmgmt.lineage", lineage),
	)
	t.next.OnModelBuild(ctx, modelID, lineage, d, err)
}

func (t *Tracing) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-d)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}
