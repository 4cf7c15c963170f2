package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records generation-flow measurements.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; recording is best-effort.
type Metrics interface {
	// RecordResolve records one resolve with its duration and outcome.
	RecordResolve(ctx context.Context, meta GenMeta, duration time.Duration, err error)

	// RecordCacheLookup records a result-cache hit or miss.
	RecordCacheLookup(ctx context.Context, meta GenMeta, hit bool)

	// RecordPoll records one status poll for a submitted job.
	RecordPoll(ctx context.Context, meta GenMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	resolveTotal metric.Int64Counter
	resolveErrs  metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheLookups metric.Int64Counter
	pollTotal    metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	resolveTotal, err := meter.Int64Counter(
		"gen.resolve.total",
		metric.WithDescription("Total number of generation resolves"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	resolveErrs, err := meter.Int64Counter(
		"gen.resolve.errors",
		metric.WithDescription("Total number of failed generation resolves"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"gen.resolve.duration_ms",
		metric.WithDescription("Generation resolve duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"gen.cache.lookups",
		metric.WithDescription("Result cache lookups, partitioned by hit"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	pollTotal, err := meter.Int64Counter(
		"gen.job.polls",
		metric.WithDescription("Status polls issued for submitted jobs"),
		metric.WithUnit("{poll}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		resolveTotal: resolveTotal,
		resolveErrs:  resolveErrs,
		durationHist: durationHist,
		cacheLookups: cacheLookups,
		pollTotal:    pollTotal,
	}, nil
}

// RecordResolve records metrics for one resolve.
func (m *metricsImpl) RecordResolve(ctx context.Context, meta GenMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attrs()...)

	m.resolveTotal.Add(ctx, 1, opt)
	if err != nil {
		m.resolveErrs.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCacheLookup records a hit or miss.
func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta GenMeta, hit bool) {
	attrs := append(meta.attrs(), attribute.Bool("gen.cache.hit", hit))
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPoll records one status poll.
func (m *metricsImpl) RecordPoll(ctx context.Context, meta GenMeta) {
	m.pollTotal.Add(ctx, 1, metric.WithAttributes(meta.attrs()...))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordResolve(context.Context, GenMeta, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, GenMeta, bool)             {}
func (noopMetrics) RecordPoll(context.Context, GenMeta)                          {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = noopMetrics{}
)
