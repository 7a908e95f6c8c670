package reportgen

import (
	"testing"

	"github.com/arxival/reportgen/internal/markdownir"
)

func resolveText(t *testing.T, content string, papers []Paper) *Resolution {
	t.Helper()
	return ResolveCitations(markdownir.Parse(content), papers)
}

func TestResolveCitations_FirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	papers := []Paper{
		{ID: "2301.001", Title: "Alpha"},
		{ID: "2301.002", Title: "Beta"},
	}

	// Marker numbers are deliberately wrong: the agent wrote 7 and 2, but
	// assignment follows appearance order, not the literal number.
	res := resolveText(t, "First [Paper 7], then [Paper 2], then [Paper 7] again.", papers)

	entries := res.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() = %d, want 2", len(entries))
	}

	first := res.Lookup("7")
	if first == nil || !first.Resolved {
		t.Fatal("Lookup(7) not resolved")
	}
	if first.Index != 1 || first.Paper.Title != "Alpha" || first.Key != "paper1" {
		t.Errorf("first marker = %+v, want index 1, Alpha, paper1", first)
	}

	second := res.Lookup("2")
	if second.Index != 2 || second.Paper.Title != "Beta" || second.Key != "paper2" {
		t.Errorf("second marker = %+v, want index 2, Beta, paper2", second)
	}
}

func TestResolveCitations_RepeatedMarkerKeepsIndex(t *testing.T) {
	t.Parallel()

	papers := []Paper{{ID: "a", Title: "Only"}}
	res := resolveText(t, "See [Paper 1]. And again [Paper 1].", papers)

	if len(res.Entries()) != 1 {
		t.Fatalf("Entries() = %d, want 1", len(res.Entries()))
	}
	if res.ResolvedCount() != 1 {
		t.Errorf("ResolvedCount() = %d, want 1", res.ResolvedCount())
	}
}

func TestResolveCitations_ExcessMarkersUnresolved(t *testing.T) {
	t.Parallel()

	papers := []Paper{{ID: "a", Title: "Only"}}
	res := resolveText(t, "Good [Paper 1], bad [Paper 2].", papers)

	if got := res.Lookup("1"); got == nil || !got.Resolved {
		t.Error("first marker should resolve")
	}
	excess := res.Lookup("2")
	if excess == nil {
		t.Fatal("excess marker missing from resolution")
	}
	if excess.Resolved || excess.Paper != nil {
		t.Errorf("excess marker = %+v, want unresolved with nil paper", excess)
	}
	if res.ResolvedCount() != 1 {
		t.Errorf("ResolvedCount() = %d, want 1", res.ResolvedCount())
	}
}

func TestResolveCitations_UncitedPapersStayInBibliography(t *testing.T) {
	t.Parallel()

	papers := []Paper{
		{ID: "a", Title: "Cited"},
		{ID: "b", Title: "Never cited"},
	}
	res := resolveText(t, "Only one [Paper 1] here.", papers)

	if len(res.Papers()) != 2 {
		t.Errorf("Papers() = %d, want 2 (uncited papers stay listed)", len(res.Papers()))
	}
}

func TestResolveCitations_NoMarkers(t *testing.T) {
	t.Parallel()

	res := resolveText(t, "No citations at all.", []Paper{{ID: "a"}})

	if len(res.Entries()) != 0 {
		t.Errorf("Entries() = %d, want 0", len(res.Entries()))
	}
	if res.Lookup("1") != nil {
		t.Error("Lookup(1) = entry, want nil for absent marker")
	}
}

func TestResolveCitations_NonNumericTokens(t *testing.T) {
	t.Parallel()

	papers := []Paper{{ID: "x", Title: "First"}}
	res := resolveText(t, "As shown in [Paper arXiv:2301.00001].", papers)

	entry := res.Lookup("arXiv:2301.00001")
	if entry == nil || !entry.Resolved {
		t.Fatalf("non-numeric token not resolved: %+v", entry)
	}
	if entry.Index != 1 {
		t.Errorf("Index = %d, want 1", entry.Index)
	}
}
