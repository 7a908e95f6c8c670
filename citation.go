package reportgen

import (
	"fmt"

	"github.com/arxival/reportgen/internal/markdownir"
)

// CitationEntry records the resolution of one distinct citation marker.
type CitationEntry struct {
	// Index is 1-based, assigned in first-appearance order.
	Index int
	// Paper is nil when the marker could not be matched to a tracked paper.
	Paper *Paper
	// Key is the BibTeX key, "paper<Index>".
	Key string
	// Resolved is false for markers beyond the tracked paper count.
	Resolved bool
}

// Resolution maps citation markers to tracked papers for one render.
//
// The literal number inside a "[Paper N]" marker is agent-generated and
// unreliable, so indices are assigned by first appearance: the k-th distinct
// marker token maps to the k-th tracked paper. Excess markers resolve to
// unresolved entries and render as plain bracket text; excess papers still
// appear in the bibliography.
type Resolution struct {
	entries map[string]*CitationEntry
	order   []string
	papers  []Paper
}

// ResolveCitations walks the document in order and assigns a stable index to
// each distinct marker token. Indices are assigned once and never reassigned
// within a render.
func ResolveCitations(doc *markdownir.Document, papers []Paper) *Resolution {
	r := &Resolution{
		entries: make(map[string]*CitationEntry),
		papers:  papers,
	}
	for _, span := range doc.Citations() {
		token := span.Text
		if _, ok := r.entries[token]; ok {
			continue
		}
		idx := len(r.order) + 1
		entry := &CitationEntry{
			Index: idx,
			Key:   fmt.Sprintf("paper%d", idx),
		}
		if idx <= len(papers) {
			entry.Paper = &papers[idx-1]
			entry.Resolved = true
		}
		r.entries[token] = entry
		r.order = append(r.order, token)
	}
	return r
}

// Lookup returns the entry for a marker token, or nil for a token that never
// appeared in the resolved document.
func (r *Resolution) Lookup(token string) *CitationEntry {
	return r.entries[token]
}

// Entries returns the distinct citation entries in first-appearance order.
func (r *Resolution) Entries() []*CitationEntry {
	out := make([]*CitationEntry, 0, len(r.order))
	for _, token := range r.order {
		out = append(out, r.entries[token])
	}
	return out
}

// Papers returns every tracked paper; the bibliography lists all of them,
// cited or not.
func (r *Resolution) Papers() []Paper {
	return r.papers
}

// ResolvedCount returns the number of markers matched to tracked papers,
// at most min(markers, papers).
func (r *Resolution) ResolvedCount() int {
	n := 0
	for _, token := range r.order {
		if r.entries[token].Resolved {
			n++
		}
	}
	return n
}
