package cache

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonwraymond/genflow/storage"
)

func testNS(kind string) storage.Namespace {
	return storage.Namespace{App: "regai", Feature: "test", Kind: kind, Version: "v1"}
}

// TestStore_RoundTrip tests set-then-get within TTL.
func TestStore_RoundTrip(t *testing.T) {
	s := NewStore[string](testNS("roundtrip"), DefaultPolicy(), nil)

	if _, ok := s.Get("chat", []string{"q"}); ok {
		t.Fatal("empty store should miss")
	}

	s.Set("chat", []string{"q"}, "answer")
	got, ok := s.Get("chat", []string{"q"})
	if !ok || got != "answer" {
		t.Fatalf("Get = %q, %v; want answer, true", got, ok)
	}

	// Equivalent inputs hit the same entry.
	got, ok = s.Get("chat", []string{" Q ", "q"})
	if !ok || got != "answer" {
		t.Errorf("equivalent inputs missed: %q, %v", got, ok)
	}
}

// TestStore_TTLExpiry tests the entry boundary around TTL.
func TestStore_TTLExpiry(t *testing.T) {
	s := NewStore[string](testNS("ttl"), Policy{TTL: time.Hour, MaxEntries: 10}, nil)

	t0 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	s.Set("chat", []string{"q"}, "answer")

	s.now = func() time.Time { return t0.Add(time.Hour - time.Second) }
	if _, ok := s.Get("chat", []string{"q"}); !ok {
		t.Error("entry just inside TTL should hit")
	}

	s.now = func() time.Time { return t0.Add(time.Hour + time.Second) }
	if _, ok := s.Get("chat", []string{"q"}); ok {
		t.Error("entry past TTL should miss")
	}
	if s.Len() != 0 {
		t.Errorf("stale entry not removed lazily, Len = %d", s.Len())
	}
}

// TestStore_CapacityEviction tests oldest-first eviction past the cap.
func TestStore_CapacityEviction(t *testing.T) {
	const max = 5
	s := NewStore[int](testNS("evict"), Policy{TTL: time.Hour, MaxEntries: max}, nil)

	t0 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < max+3; i++ {
		tick := t0.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return tick }
		s.Set("chat", []string{fmt.Sprintf("q%d", i)}, i)
	}

	if s.Len() != max {
		t.Fatalf("Len = %d, want %d", s.Len(), max)
	}

	s.now = func() time.Time { return t0.Add(time.Minute) }
	// The three oldest are gone, the five newest survive.
	for i := 0; i < 3; i++ {
		if _, ok := s.Get("chat", []string{fmt.Sprintf("q%d", i)}); ok {
			t.Errorf("oldest entry q%d survived eviction", i)
		}
	}
	for i := 3; i < max+3; i++ {
		if v, ok := s.Get("chat", []string{fmt.Sprintf("q%d", i)}); !ok || v != i {
			t.Errorf("recent entry q%d missing after eviction", i)
		}
	}
}

// TestStore_Overwrite tests that re-setting a key replaces the payload.
func TestStore_Overwrite(t *testing.T) {
	s := NewStore[string](testNS("overwrite"), DefaultPolicy(), nil)

	s.Set("chat", []string{"q"}, "first")
	s.Set("chat", []string{"q"}, "second")

	if got, _ := s.Get("chat", []string{"q"}); got != "second" {
		t.Errorf("Get after overwrite = %q, want second", got)
	}
	if s.Len() != 1 {
		t.Errorf("overwrite grew the store: Len = %d", s.Len())
	}
}

// TestStore_PersistAndLoad tests the flush/load cycle through a backend.
func TestStore_PersistAndLoad(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ns := testNS("persist")

	s := NewStore[string](ns, DefaultPolicy(), backend)
	s.Set("chat", []string{"q"}, "answer")

	// A fresh store over the same backend sees the entry after Load.
	reloaded := NewStore[string](ns, DefaultPolicy(), backend)
	reloaded.Load()
	if got, ok := reloaded.Get("chat", []string{"q"}); !ok || got != "answer" {
		t.Fatalf("reloaded Get = %q, %v; want answer, true", got, ok)
	}
}

// TestStore_LoadTolerance tests that absent or corrupt storage loads as
// an empty store rather than failing.
func TestStore_LoadTolerance(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ns := testNS("corrupt")

	tests := []struct {
		name string
		blob []byte
	}{
		{"absent", nil},
		{"not json", []byte("{{{")},
		{"wrong shape", []byte(`[1,2,3]`)},
		{"null", []byte(`null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.blob != nil {
				if err := backend.Save(ns.Key(), tt.blob); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			s := NewStore[string](ns, DefaultPolicy(), backend)
			s.Load()
			if s.Len() != 0 {
				t.Errorf("Len = %d, want 0", s.Len())
			}

			// Still writable afterwards.
			s.Set("chat", []string{"q"}, "v")
			if _, ok := s.Get("chat", []string{"q"}); !ok {
				t.Error("store unusable after tolerant load")
			}
		})
	}
}

// TestStore_LoadPrunesStale tests that expired entries do not survive a reload.
func TestStore_LoadPrunesStale(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ns := testNS("stale")

	stale := map[string]Entry[string]{
		"deadbeef": {Key: "deadbeef", CreatedAt: time.Now().Add(-90 * 24 * time.Hour), Payload: "old"},
	}
	blob, err := json.Marshal(stale)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.Save(ns.Key(), blob); err != nil {
		t.Fatal(err)
	}

	s := NewStore[string](ns, Policy{TTL: 30 * 24 * time.Hour, MaxEntries: 10}, backend)
	s.Load()
	if s.Len() != 0 {
		t.Errorf("stale entry survived Load, Len = %d", s.Len())
	}
}

// TestStore_Remove tests explicit removal.
func TestStore_Remove(t *testing.T) {
	s := NewStore[string](testNS("remove"), DefaultPolicy(), nil)

	s.Set("chat", []string{"q"}, "answer")
	s.Remove("chat", []string{"q"})
	if _, ok := s.Get("chat", []string{"q"}); ok {
		t.Error("Get after Remove should miss")
	}

	// Removing again is idempotent.
	s.Remove("chat", []string{"q"})
}

// failingBackend always fails Save, to exercise memory-only degradation.
type failingBackend struct{}

func (failingBackend) Load(string) ([]byte, bool) { return nil, false }
func (failingBackend) Save(string, []byte) error  { return storage.ErrSaveFailed }
func (failingBackend) Delete(string) error        { return nil }

// TestStore_FlushFailureSwallowed tests that persistence failures leave
// the in-memory store authoritative.
func TestStore_FlushFailureSwallowed(t *testing.T) {
	s := NewStore[string](testNS("degraded"), DefaultPolicy(), failingBackend{})

	s.Set("chat", []string{"q"}, "answer")
	if got, ok := s.Get("chat", []string{"q"}); !ok || got != "answer" {
		t.Fatalf("in-memory store lost entry after failed flush: %q, %v", got, ok)
	}
}
