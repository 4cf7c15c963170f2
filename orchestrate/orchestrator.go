package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/genflow/cache"
	"github.com/jonwraymond/genflow/job"
	"github.com/jonwraymond/genflow/observe"
)

// Orchestrator resolves a generation request for one scope: cache hit
// when possible, otherwise submit, watch, decode, and cache.
//
// Contract:
// - Concurrency: safe for concurrent use. Without a singleflight group
//   a second overlapping resolve fails fast with ErrInFlight.
// - Context: Resolve and Regenerate honor cancellation; a cancelled
//   watch leaves the backend job running but abandoned.
// - Errors: job-layer errors (TransportError, ServerError,
//   JobFailedError) pass through unchanged for display.
type Orchestrator[V any] struct {
	scope   string
	feature string
	cache   *cache.Store[V]
	client  *job.Client
	threads *job.ThreadStore
	watch   job.WatchConfig
	inst    *observe.Instrument
	keyer   cache.Keyer

	inflight atomic.Bool
	group    *singleflight.Group
}

// Option configures an Orchestrator.
type Option[V any] func(*Orchestrator[V])

// WithCache attaches a result cache. Without one every resolve submits
// a fresh job.
func WithCache[V any](store *cache.Store[V]) Option[V] {
	return func(o *Orchestrator[V]) { o.cache = store }
}

// WithThreads attaches a thread store so follow-up submissions reuse
// the established conversation.
func WithThreads[V any](threads *job.ThreadStore) Option[V] {
	return func(o *Orchestrator[V]) { o.threads = threads }
}

// WithFeature sets the owning feature name for telemetry.
func WithFeature[V any](feature string) Option[V] {
	return func(o *Orchestrator[V]) { o.feature = feature }
}

// WithWatchConfig overrides the default poll schedule.
func WithWatchConfig[V any](cfg job.WatchConfig) Option[V] {
	return func(o *Orchestrator[V]) { o.watch = cfg }
}

// WithInstrument attaches tracing, metrics, and logging.
func WithInstrument[V any](inst *observe.Instrument) Option[V] {
	return func(o *Orchestrator[V]) { o.inst = inst }
}

// WithSingleflight coalesces concurrent resolves for the same inputs
// onto one job instead of rejecting them with ErrInFlight. The group
// may be shared across orchestrators; flights are keyed by cache key.
func WithSingleflight[V any](group *singleflight.Group) Option[V] {
	return func(o *Orchestrator[V]) { o.group = group }
}

// New creates an orchestrator for scope backed by client.
func New[V any](scope string, client *job.Client, opts ...Option[V]) (*Orchestrator[V], error) {
	if scope == "" {
		return nil, ErrNoScope
	}
	if client == nil {
		return nil, ErrNoClient
	}

	o := &Orchestrator[V]{
		scope:  scope,
		client: client,
		keyer:  cache.FNVKeyer{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// ResolveOptions adjusts a single Resolve call.
type ResolveOptions struct {
	// BypassCache makes this resolve one-shot: the cache is neither
	// read nor written, so cached results for these inputs survive.
	BypassCache bool

	// OnStatus receives progress messages while the job runs. It
	// overrides any OnStatus set via WithWatchConfig for this call.
	OnStatus func(message string)
}

// Resolve returns the generation result for inputs. Input order and
// duplicates do not matter: permutations of the same input set share
// one cache entry and one job flight.
func (o *Orchestrator[V]) Resolve(ctx context.Context, inputs []string, opts ResolveOptions) (V, error) {
	var zero V

	meta := o.meta(inputs)
	ctx, done := o.inst.StartResolve(ctx, meta)

	if !opts.BypassCache && o.cache != nil {
		if v, ok := o.cache.Get(o.scope, inputs); ok {
			o.inst.CacheLookup(ctx, meta, true)
			done(nil)
			return v, nil
		}
		o.inst.CacheLookup(ctx, meta, false)
	}

	v, err := o.generate(ctx, meta, inputs, !opts.BypassCache, opts.OnStatus)
	done(err)
	if err != nil {
		return zero, err
	}
	return v, nil
}

// Regenerate forces a fresh generation for inputs, ignoring any cached
// result and overwriting it on success. The conversation thread is kept
// so the backend can refine rather than start over.
func (o *Orchestrator[V]) Regenerate(ctx context.Context, inputs []string) (V, error) {
	var zero V

	meta := o.meta(inputs)
	ctx, done := o.inst.StartResolve(ctx, meta)

	v, err := o.generate(ctx, meta, inputs, true, nil)
	done(err)
	if err != nil {
		return zero, err
	}
	return v, nil
}

// ResetThread forgets the conversation thread. The next submission
// starts a new one. Call this when the user switches context.
func (o *Orchestrator[V]) ResetThread() {
	if o.threads != nil {
		o.threads.Clear()
	}
}

// Forget drops the cached result for inputs, if any.
func (o *Orchestrator[V]) Forget(inputs []string) {
	if o.cache != nil {
		o.cache.Remove(o.scope, inputs)
	}
}

// CacheKey returns the content-addressed key inputs resolve under.
func (o *Orchestrator[V]) CacheKey(inputs []string) string {
	return o.keyer.Key(o.scope, inputs)
}

func (o *Orchestrator[V]) meta(inputs []string) observe.GenMeta {
	return observe.GenMeta{
		Scope:    o.scope,
		Feature:  o.feature,
		CacheKey: o.keyer.Key(o.scope, inputs),
	}
}

// generate runs one guarded job flight.
func (o *Orchestrator[V]) generate(ctx context.Context, meta observe.GenMeta, inputs []string, store bool, onStatus func(string)) (V, error) {
	var zero V

	if o.group != nil {
		res, err, _ := o.group.Do(meta.CacheKey, func() (any, error) {
			return o.run(ctx, meta, inputs, store, onStatus)
		})
		if err != nil {
			return zero, err
		}
		return res.(V), nil
	}

	if !o.inflight.CompareAndSwap(false, true) {
		return zero, ErrInFlight
	}
	defer o.inflight.Store(false)

	return o.run(ctx, meta, inputs, store, onStatus)
}

// run submits the job, watches it to completion, and decodes the result.
func (o *Orchestrator[V]) run(ctx context.Context, meta observe.GenMeta, inputs []string, store bool, onStatus func(string)) (V, error) {
	var zero V

	var threadID string
	if o.threads != nil {
		threadID = o.threads.Get()
	}

	rec, err := o.client.Submit(ctx, o.scope, inputs, threadID)
	if err != nil {
		return zero, err
	}
	if o.threads != nil && rec.ThreadID != "" {
		o.threads.Set(rec.ThreadID)
	}

	cfg := o.watch
	if onStatus != nil {
		cfg.OnStatus = onStatus
	}
	userPoll := cfg.OnPoll
	cfg.OnPoll = func() {
		o.inst.Poll(ctx, meta)
		if userPoll != nil {
			userPoll()
		}
	}

	if err := o.client.Watch(ctx, rec, cfg); err != nil {
		return zero, err
	}

	if len(rec.Result) == 0 {
		return zero, ErrEmptyResult
	}
	var v V
	if err := json.Unmarshal(rec.Result, &v); err != nil {
		return zero, fmt.Errorf("orchestrate: decode result: %w", err)
	}

	if store && o.cache != nil {
		o.cache.Set(o.scope, inputs, v)
	}
	return v, nil
}
