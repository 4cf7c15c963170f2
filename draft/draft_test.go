package draft

import (
	"testing"
	"time"

	"github.com/jonwraymond/genflow/storage"
)

type inspectionDraft struct {
	Notes string   `json:"notes"`
	Tags  []string `json:"tags"`
}

func testNamespace(kind string) storage.Namespace {
	return storage.Namespace{App: "genflow", Feature: "monthlyInspection", Kind: kind, Version: "v1"}
}

// TestStore_RoundTrip tests save and load of one draft.
func TestStore_RoundTrip(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, backend)

	want := inspectionDraft{Notes: "지게차 점검 중", Tags: []string{"용접"}}
	s.Save("cat-7", want)

	got, ok := s.Load("cat-7")
	if !ok {
		t.Fatal("draft not found after Save")
	}
	if got.Notes != want.Notes || len(got.Tags) != 1 {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	if _, ok := s.Load("cat-8"); ok {
		t.Error("unrelated id returned a draft")
	}
}

// TestStore_TTL tests that a stale draft is dropped on load.
func TestStore_TTL(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), time.Hour, backend)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Save("cat-7", inspectionDraft{Notes: "old"})

	s.now = func() time.Time { return base.Add(time.Hour - time.Second) }
	if _, ok := s.Load("cat-7"); !ok {
		t.Error("draft missing just inside TTL")
	}

	s.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	if _, ok := s.Load("cat-7"); ok {
		t.Error("stale draft returned past TTL")
	}

	// The stale entry must also be gone from the backend.
	if _, ok := backend.Load(s.key("cat-7")); ok {
		t.Error("stale draft still persisted after lazy removal")
	}
}

// TestStore_CorruptEntry tests that unreadable data loads as absent.
func TestStore_CorruptEntry(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, backend)

	_ = backend.Save(s.key("cat-7"), []byte("{not json"))
	if _, ok := s.Load("cat-7"); ok {
		t.Error("corrupt draft returned")
	}
	if _, ok := backend.Load(s.key("cat-7")); ok {
		t.Error("corrupt draft not removed")
	}
}

// TestStore_Discard tests removal.
func TestStore_Discard(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, backend)

	s.Save("cat-7", inspectionDraft{Notes: "x"})
	s.Discard("cat-7")
	s.Discard("cat-7") // idempotent

	if _, ok := s.Load("cat-7"); ok {
		t.Error("draft survived Discard")
	}
}

// TestStore_NilBackend tests that a memoryless store is inert.
func TestStore_NilBackend(t *testing.T) {
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, nil)
	s.Save("cat-7", inspectionDraft{Notes: "x"})
	if _, ok := s.Load("cat-7"); ok {
		t.Error("nil-backend store returned a draft")
	}
	s.Discard("cat-7")
}

// TestSelectionStore tests the long-retention selection variant.
func TestSelectionStore(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewSelectionStore(testNamespace("selectedTags"), backend)

	if s.ttl != DefaultSelectionTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, DefaultSelectionTTL)
	}

	s.Save("cat-7", []string{"용접", "지게차 운반"})
	got, ok := s.Load("cat-7")
	if !ok || len(got) != 2 {
		t.Errorf("Load = %v, %v; want 2 selections", got, ok)
	}
}

// TestAutosaver_Coalesces tests that a burst of updates lands as the
// final value.
func TestAutosaver_Coalesces(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, backend)
	a := NewAutosaver(s, "cat-7", 20*time.Millisecond)

	a.Update(inspectionDraft{Notes: "지"})
	a.Update(inspectionDraft{Notes: "지게"})
	a.Update(inspectionDraft{Notes: "지게차 점검"})

	deadline := time.After(2 * time.Second)
	for {
		if got, ok := s.Load("cat-7"); ok {
			if got.Notes != "지게차 점검" {
				t.Errorf("saved Notes = %q, want final value", got.Notes)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("autosave never landed")
		case <-time.After(time.Millisecond):
		}
	}
}

// TestAutosaver_Flush tests immediate persistence of the pending value.
func TestAutosaver_Flush(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, backend)
	a := NewAutosaver(s, "cat-7", time.Hour)

	a.Update(inspectionDraft{Notes: "점검 완료"})
	a.Flush()

	got, ok := s.Load("cat-7")
	if !ok || got.Notes != "점검 완료" {
		t.Errorf("Load after Flush = %+v, %v", got, ok)
	}

	// A second flush with nothing pending is a no-op.
	s.Discard("cat-7")
	a.Flush()
	if _, ok := s.Load("cat-7"); ok {
		t.Error("empty Flush re-saved a discarded draft")
	}
}

// TestAutosaver_Stop tests that Stop drops the pending value.
func TestAutosaver_Stop(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := NewStore[inspectionDraft](testNamespace("draft"), 0, backend)
	a := NewAutosaver(s, "cat-7", 10*time.Millisecond)

	a.Update(inspectionDraft{Notes: "버려질 내용"})
	a.Stop()
	time.Sleep(50 * time.Millisecond)

	if _, ok := s.Load("cat-7"); ok {
		t.Error("draft saved after Stop")
	}
}
