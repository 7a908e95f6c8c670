package reportgen

import "sync"

// PaperTracker accumulates cited-source records for one analysis session,
// deduplicating by paper ID in first-seen order. The host may feed it from
// concurrent search calls, so all methods serialize on an internal mutex.
type PaperTracker struct {
	mu     sync.Mutex
	papers []Paper
	seen   map[string]struct{}
}

// NewPaperTracker returns an empty tracker.
func NewPaperTracker() *PaperTracker {
	return &PaperTracker{seen: make(map[string]struct{})}
}

// Add appends papers whose ID has not been seen before, preserving
// first-seen order. Papers without an ID are ignored.
func (t *PaperTracker) Add(papers ...Paper) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range papers {
		if p.ID == "" {
			continue
		}
		if _, ok := t.seen[p.ID]; ok {
			continue
		}
		t.seen[p.ID] = struct{}{}
		t.papers = append(t.papers, p)
	}
}

// Papers returns a snapshot copy of the tracked papers.
func (t *PaperTracker) Papers() []Paper {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Paper, len(t.papers))
	copy(out, t.papers)
	return out
}

// Len returns the number of tracked papers.
func (t *PaperTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.papers)
}

// Reset clears the tracker for a new analysis session.
func (t *PaperTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.papers = nil
	t.seen = make(map[string]struct{})
}
