package suggest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonwraymond/genflow/cache"
)

// Defaults applied by NewDebouncer.
const (
	// DefaultDelay is the settle window after the last query change.
	DefaultDelay = 180 * time.Millisecond

	// DefaultMinQueryLength is the shortest query that triggers a fetch.
	DefaultMinQueryLength = 1

	// DefaultScope is the cache scope for suggestion queries.
	DefaultScope = "autocomplete"
)

// ErrNoFetcher is returned by NewDebouncer without a fetch function.
var ErrNoFetcher = errors.New("suggest: fetcher is required")

// Fetcher retrieves suggestions for a normalized query. It must honor
// ctx: a superseded query cancels its fetch mid-flight.
type Fetcher func(ctx context.Context, query string) ([]string, error)

// Config configures a Debouncer.
type Config struct {
	// Scope is the cache scope. Default: "autocomplete"
	Scope string

	// Delay is the debounce window. Default: 180ms
	Delay time.Duration

	// MinQueryLength is the minimum rune count, after normalization,
	// for a query to trigger a fetch. Shorter queries deliver an empty
	// result immediately. Default: 1
	MinQueryLength int

	// Cache serves settled queries without a fetch. Optional.
	Cache *cache.Store[[]string]

	// OnResult receives suggestions for the query that produced them.
	// Only the latest query's results are ever delivered.
	OnResult func(query string, suggestions []string)

	// OnError receives fetch failures for the latest query.
	// Cancellation of a superseded fetch is not reported. Optional.
	OnError func(query string, err error)
}

// Debouncer coalesces rapid query updates into at most one fetch per
// settle window.
//
// Contract:
// - Concurrency: safe for concurrent use; delivery callbacks run on
//   the timer or fetch goroutine, one at a time per settled query.
// - Staleness: a result is delivered only if its query is still the
//   latest; anything superseded is cancelled and dropped.
type Debouncer struct {
	mu    sync.Mutex
	cfg   Config
	fetch Fetcher

	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

// NewDebouncer creates a debouncer with defaults applied.
func NewDebouncer(fetch Fetcher, cfg Config) (*Debouncer, error) {
	if fetch == nil {
		return nil, ErrNoFetcher
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = DefaultMinQueryLength
	}
	return &Debouncer{cfg: cfg, fetch: fetch}, nil
}

// Update registers the current query. The fetch fires only after the
// query stops changing for the settle window; every call supersedes the
// pending window and cancels any in-flight fetch for an older query.
// A cache hit for the normalized query delivers immediately.
func (d *Debouncer) Update(query string) {
	normalized := cache.Normalize(query)

	d.mu.Lock()
	d.supersedeLocked()
	token := d.seq

	if len([]rune(normalized)) < d.cfg.MinQueryLength {
		d.mu.Unlock()
		d.deliver(token, query, nil)
		return
	}

	if d.cfg.Cache != nil {
		if cached, ok := d.cfg.Cache.Get(d.cfg.Scope, []string{normalized}); ok {
			d.mu.Unlock()
			d.deliver(token, query, cached)
			return
		}
	}

	d.timer = time.AfterFunc(d.cfg.Delay, func() {
		d.settled(token, query, normalized)
	})
	d.mu.Unlock()
}

// Cancel drops the pending window and any in-flight fetch. Nothing is
// delivered. Call this when the input loses focus or unmounts.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.supersedeLocked()
	d.mu.Unlock()
}

// supersedeLocked invalidates all prior work: pending timer stopped,
// in-flight fetch cancelled, sequence bumped so late deliveries drop.
func (d *Debouncer) supersedeLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.seq++
}

// settled runs after the window elapses with no newer query.
func (d *Debouncer) settled(token uint64, query, normalized string) {
	d.mu.Lock()
	if token != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	suggestions, err := d.fetch(ctx, normalized)
	cancelled := ctx.Err() != nil

	d.mu.Lock()
	current := token == d.seq
	if current && d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	if !current || cancelled {
		return
	}

	if err != nil {
		if d.cfg.OnError != nil {
			d.cfg.OnError(query, err)
		}
		return
	}

	if d.cfg.Cache != nil {
		d.cfg.Cache.Set(d.cfg.Scope, []string{normalized}, suggestions)
	}
	d.deliver(token, query, suggestions)
}

// deliver invokes OnResult if the token is still current.
func (d *Debouncer) deliver(token uint64, query string, suggestions []string) {
	d.mu.Lock()
	current := token == d.seq
	d.mu.Unlock()

	if current && d.cfg.OnResult != nil {
		d.cfg.OnResult(query, suggestions)
	}
}
