package observe

import (
	"context"
	"time"
)

// Instrument bundles tracing, metrics, and logging for one generation
// flow. The orchestrator calls it at the resolve boundary and at cache
// and poll events.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Nil receiver: every method is a no-op on a nil *Instrument, so
//     callers need no nil checks.
//   - Errors: observed errors are recorded and must propagate unchanged.
type Instrument struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrument creates an Instrument from its parts. Nil parts default
// to no-ops.
func NewInstrument(tracer Tracer, metrics Metrics, logger Logger) *Instrument {
	if tracer == nil {
		tracer = noopTracer{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Instrument{tracer: tracer, metrics: metrics, logger: logger}
}

// InstrumentFromObserver creates an Instrument from an Observer.
func InstrumentFromObserver(obs Observer) (*Instrument, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewInstrument(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// ResolveDone is returned by StartResolve and must be called exactly
// once when the resolve completes, with its final error.
type ResolveDone func(err error)

// StartResolve opens a span for one resolve and returns the derived
// context plus a completion callback that ends the span, records
// metrics, and logs the outcome.
func (i *Instrument) StartResolve(ctx context.Context, meta GenMeta) (context.Context, ResolveDone) {
	if i == nil {
		return ctx, func(error) {}
	}

	ctx, span := i.tracer.StartSpan(ctx, meta)
	start := time.Now()

	return ctx, func(err error) {
		duration := time.Since(start)
		i.tracer.EndSpan(span, err)
		i.metrics.RecordResolve(ctx, meta, duration, err)

		logger := i.logger.WithGen(meta)
		fields := []Field{{Key: "duration_ms", Value: float64(duration.Milliseconds())}}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "generation resolve failed", fields...)
		} else {
			logger.Info(ctx, "generation resolve completed", fields...)
		}
	}
}

// CacheLookup records a result-cache hit or miss.
func (i *Instrument) CacheLookup(ctx context.Context, meta GenMeta, hit bool) {
	if i == nil {
		return
	}
	i.metrics.RecordCacheLookup(ctx, meta, hit)
	i.logger.WithGen(meta).Debug(ctx, "cache lookup", Field{Key: "hit", Value: hit})
}

// Poll records one status poll.
func (i *Instrument) Poll(ctx context.Context, meta GenMeta) {
	if i == nil {
		return
	}
	i.metrics.RecordPoll(ctx, meta)
}
