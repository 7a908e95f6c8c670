package reportgen

import (
	"fmt"
	"sync"
	"testing"
)

func TestPaperTracker_Add(t *testing.T) {
	t.Parallel()

	t.Run("preserves first-seen order", func(t *testing.T) {
		t.Parallel()

		tracker := NewPaperTracker()
		tracker.Add(Paper{ID: "b", Title: "Second"})
		tracker.Add(Paper{ID: "a", Title: "First added later"})

		papers := tracker.Papers()
		if len(papers) != 2 {
			t.Fatalf("Len = %d, want 2", len(papers))
		}
		if papers[0].ID != "b" || papers[1].ID != "a" {
			t.Errorf("order = %s, %s; want b, a", papers[0].ID, papers[1].ID)
		}
	})

	t.Run("deduplicates by ID keeping first record", func(t *testing.T) {
		t.Parallel()

		tracker := NewPaperTracker()
		tracker.Add(Paper{ID: "x", Title: "Original"})
		tracker.Add(Paper{ID: "x", Title: "Duplicate"})

		papers := tracker.Papers()
		if len(papers) != 1 {
			t.Fatalf("Len = %d, want 1", len(papers))
		}
		if papers[0].Title != "Original" {
			t.Errorf("Title = %q, want %q", papers[0].Title, "Original")
		}
	})

	t.Run("ignores papers without ID", func(t *testing.T) {
		t.Parallel()

		tracker := NewPaperTracker()
		tracker.Add(Paper{Title: "No ID"})
		if tracker.Len() != 0 {
			t.Errorf("Len = %d, want 0", tracker.Len())
		}
	})
}

func TestPaperTracker_PapersReturnsCopy(t *testing.T) {
	t.Parallel()

	tracker := NewPaperTracker()
	tracker.Add(Paper{ID: "a", Title: "Original"})

	snapshot := tracker.Papers()
	snapshot[0].Title = "Mutated"

	if got := tracker.Papers()[0].Title; got != "Original" {
		t.Errorf("internal state mutated through snapshot: %q", got)
	}
}

func TestPaperTracker_Reset(t *testing.T) {
	t.Parallel()

	tracker := NewPaperTracker()
	tracker.Add(Paper{ID: "a"})
	tracker.Reset()

	if tracker.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", tracker.Len())
	}

	// The same ID is trackable again after a reset.
	tracker.Add(Paper{ID: "a"})
	if tracker.Len() != 1 {
		t.Errorf("Len after re-add = %d, want 1", tracker.Len())
	}
}

func TestPaperTracker_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	tracker := NewPaperTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.Add(Paper{ID: fmt.Sprintf("paper-%d", i)})
		}(i)
	}
	wg.Wait()

	if tracker.Len() != 20 {
		t.Errorf("Len = %d, want 20", tracker.Len())
	}
}
