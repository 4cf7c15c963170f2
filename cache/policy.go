package cache

import "time"

// Policy bounds a store in time and size.
type Policy struct {
	// TTL is the maximum entry age. Entries older than TTL are treated
	// as absent and removed lazily. If zero, DefaultPolicy's TTL applies.
	TTL time.Duration

	// MaxEntries caps the store size. After every write the oldest
	// entries are evicted until the cap holds. If zero, DefaultPolicy's
	// cap applies.
	MaxEntries int
}

// DefaultPolicy returns the policy for generation results:
// TTL 30 days, 120 entries.
func DefaultPolicy() Policy {
	return Policy{
		TTL:        30 * 24 * time.Hour,
		MaxEntries: 120,
	}
}

// SuggestPolicy returns the policy for autocomplete suggestions:
// TTL 30 days, 200 entries.
func SuggestPolicy() Policy {
	return Policy{
		TTL:        30 * 24 * time.Hour,
		MaxEntries: 200,
	}
}

// withDefaults fills zero fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.TTL <= 0 {
		p.TTL = def.TTL
	}
	if p.MaxEntries <= 0 {
		p.MaxEntries = def.MaxEntries
	}
	return p
}

// Expired reports whether an entry created at createdAt is past TTL at now.
func (p Policy) Expired(createdAt, now time.Time) bool {
	return now.Sub(createdAt) > p.TTL
}
