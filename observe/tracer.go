package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// GenMeta identifies one generation flow for telemetry purposes.
type GenMeta struct {
	Scope    string // logical request scope, e.g. "checklist" (required)
	Feature  string // owning feature, e.g. "monthlyInspection" (optional)
	CacheKey string // derived cache key (optional)
}

// SpanName returns the deterministic span name for this flow.
// Format: gen.resolve.<feature>.<scope> or gen.resolve.<scope>
func (m GenMeta) SpanName() string {
	if m.Feature != "" {
		return "gen.resolve." + m.Feature + "." + m.Scope
	}
	return "gen.resolve." + m.Scope
}

// attrs returns the common telemetry attributes for this flow.
func (m GenMeta) attrs() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen.scope", m.Scope),
	}
	if m.Feature != "" {
		attrs = append(attrs, attribute.String("gen.feature", m.Feature))
	}
	if m.CacheKey != "" {
		attrs = append(attrs, attribute.String("gen.cache_key", m.CacheKey))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with generation-flow span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a generation resolve.
	StartSpan(ctx context.Context, meta GenMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with generation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta GenMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(meta.attrs()...))
}

// EndSpan ends the span, marking it failed when err is non-nil.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("gen.error", true))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that produces no spans.
type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, _ GenMeta) (context.Context, trace.Span) {
	return tracenoop.NewTracerProvider().Tracer("noop").Start(ctx, "noop")
}

func (noopTracer) EndSpan(span trace.Span, _ error) {
	if span != nil {
		span.End()
	}
}

// Ensure implementations satisfy Tracer
var (
	_ Tracer = (*tracerImpl)(nil)
	_ Tracer = noopTracer{}
)
