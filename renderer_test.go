package reportgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arxival/reportgen/internal/catalog"
)

// fakeBackend implements pdfBackend without a browser.
type fakeBackend struct {
	available bool
	result    []byte
	err       error
	lastHTML  string
	closed    bool
}

func (f *fakeBackend) RenderHTML(_ context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	return f.result, f.err
}

func (f *fakeBackend) Available() bool { return f.available }

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

var _ pdfBackend = (*fakeBackend)(nil)

func newTestRenderer(t *testing.T, backend pdfBackend, extra ...Option) *Renderer {
	t.Helper()

	opts := append([]Option{
		WithOutputDir(t.TempDir()),
		WithPDFBackend(backend),
		WithClock(func() time.Time { return testClock }),
	}, extra...)
	r := NewRenderer(opts...)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRenderer_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	tests := []struct {
		name string
		req  RenderRequest
	}{
		{
			name: "empty content",
			req:  RenderRequest{Query: "q", Formats: []Format{FormatMarkdown}},
		},
		{
			name: "empty query",
			req:  RenderRequest{Content: "c", Formats: []Format{FormatMarkdown}},
		},
		{
			name: "no formats",
			req:  RenderRequest{Content: "c", Query: "q"},
		},
		{
			name: "unknown format",
			req:  RenderRequest{Content: "c", Query: "q", Formats: []Format{"docx"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := r.Render(context.Background(), tt.req)
			if err == nil {
				t.Error("Render() succeeded, want validation error")
			}
			if results != nil {
				t.Errorf("Render() results = %v, want nil on validation failure", results)
			}
		})
	}
}

func TestRenderer_MarkdownArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewRenderer(
		WithOutputDir(dir),
		WithPDFBackend(&fakeBackend{}),
		WithClock(func() time.Time { return testClock }),
	)
	defer r.Close()

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "# Summary\n\nFindings.",
		Query:   "test query!",
		Formats: []Format{FormatMarkdown},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Message)
	}

	wantName := "20240307_090542_test query_.md"
	if filepath.Base(res.Filepath) != wantName {
		t.Errorf("Filepath base = %q, want %q", filepath.Base(res.Filepath), wantName)
	}

	data, err := os.ReadFile(res.Filepath)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if int64(len(data)) != res.SizeBytes {
		t.Errorf("SizeBytes = %d, file has %d", res.SizeBytes, len(data))
	}
	if !strings.Contains(string(data), "# Research Analysis Report") {
		t.Error("artifact missing report header")
	}
}

func TestRenderer_AllExpandsToThreeFormats(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{available: true, result: []byte("%PDF-1.4 fake")})

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Text.",
		Query:   "q",
		Formats: []Format{FormatAll},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	wantOrder := []Format{FormatMarkdown, FormatPDF, FormatLaTeX}
	for i, want := range wantOrder {
		if results[i].Format != want {
			t.Errorf("results[%d].Format = %v, want %v", i, results[i].Format, want)
		}
		if results[i].Status != StatusSuccess {
			t.Errorf("results[%d].Status = %v (%s)", i, results[i].Status, results[i].Message)
		}
	}
}

func TestRenderer_DuplicateFormatsDeduplicated(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Text.",
		Query:   "q",
		Formats: []Format{FormatMarkdown, FormatMarkdown, FormatText},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestRenderer_PDFSubstitution(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{available: false})

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Text.",
		Query:   "q",
		Formats: []Format{FormatPDF},
	})
	if err != nil {
		t.Fatal(err)
	}

	res := results[0]
	if res.Format != FormatPDF {
		t.Errorf("Format = %v, want pdf", res.Format)
	}
	if res.Status != StatusSubstituted {
		t.Fatalf("Status = %v, want substituted (%s)", res.Status, res.Message)
	}
	if !strings.HasSuffix(res.Filepath, ".md") {
		t.Errorf("substitute artifact = %q, want .md", res.Filepath)
	}
	data, err := os.ReadFile(res.Filepath)
	if err != nil {
		t.Fatalf("substitute not written: %v", err)
	}
	if !strings.Contains(string(data), "# Research Analysis Report") {
		t.Error("substitute is not the markdown artifact")
	}
}

func TestRenderer_PDFSuccess(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{available: true, result: []byte("%PDF-1.4 fake content")}
	r := newTestRenderer(t, backend)

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "# Executive Summary\n\nOverview text.",
		Query:   "pdf query",
		Formats: []Format{FormatPDF},
	})
	if err != nil {
		t.Fatal(err)
	}

	res := results[0]
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Message)
	}
	if !strings.HasSuffix(res.Filepath, ".pdf") {
		t.Errorf("Filepath = %q, want .pdf", res.Filepath)
	}

	data, _ := os.ReadFile(res.Filepath)
	if string(data) != "%PDF-1.4 fake content" {
		t.Error("PDF bytes not written verbatim")
	}
	if !strings.Contains(backend.lastHTML, "RESEARCH ANALYSIS REPORT") {
		t.Error("backend did not receive styled HTML")
	}
}

func TestRenderer_PDFBackendErrorIsolated(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{available: true, err: errors.New("chrome crashed")}
	r := newTestRenderer(t, backend)

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Text.",
		Query:   "q",
		Formats: []Format{FormatMarkdown, FormatPDF, FormatLaTeX},
	})
	if err != nil {
		t.Fatal(err)
	}

	byFormat := map[Format]RenderResult{}
	for _, res := range results {
		byFormat[res.Format] = res
	}

	if byFormat[FormatPDF].Status != StatusError {
		t.Errorf("pdf Status = %v, want error", byFormat[FormatPDF].Status)
	}
	if !strings.Contains(byFormat[FormatPDF].Message, "chrome crashed") {
		t.Errorf("pdf Message = %q", byFormat[FormatPDF].Message)
	}
	if byFormat[FormatMarkdown].Status != StatusSuccess {
		t.Error("markdown failed alongside pdf")
	}
	if byFormat[FormatLaTeX].Status != StatusSuccess {
		t.Error("latex failed alongside pdf")
	}
}

func TestRenderer_LaTeXPair(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Cited [Paper 1].",
		Query:   "latex pair",
		Papers:  []Paper{{ID: "a", Title: "T"}},
		Formats: []Format{FormatLaTeX},
	})
	if err != nil {
		t.Fatal(err)
	}

	res := results[0]
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Message)
	}
	if !strings.HasSuffix(res.Filepath, ".tex") || !strings.HasSuffix(res.BibFilepath, ".bib") {
		t.Fatalf("paths = %q, %q", res.Filepath, res.BibFilepath)
	}

	texStem := strings.TrimSuffix(filepath.Base(res.Filepath), ".tex")
	bibStem := strings.TrimSuffix(filepath.Base(res.BibFilepath), ".bib")
	if texStem != bibStem {
		t.Errorf("stems differ: %q vs %q", texStem, bibStem)
	}

	tex, err := os.ReadFile(res.Filepath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(tex), `\bibliography{`+bibStem+`}`) {
		t.Error("tex does not reference its companion bib stem")
	}

	bib, err := os.ReadFile(res.BibFilepath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bib), "@article{paper1,") {
		t.Error("bib missing paper1 entry")
	}

	if !strings.Contains(res.Message, "pdflatex") || !strings.Contains(res.Message, "bibtex") {
		t.Errorf("Message = %q, want compile instructions", res.Message)
	}
}

func TestRenderer_CitationNumberingConsistentAcrossFormats(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "First [Paper 9], second [Paper 4].",
		Query:   "consistency",
		Papers: []Paper{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta"},
		},
		Formats: []Format{FormatMarkdown, FormatLaTeX},
	})
	if err != nil {
		t.Fatal(err)
	}

	var mdPath, texPath string
	for _, res := range results {
		switch res.Format {
		case FormatMarkdown:
			mdPath = res.Filepath
		case FormatLaTeX:
			texPath = res.Filepath
		}
	}

	md, _ := os.ReadFile(mdPath)
	tex, _ := os.ReadFile(texPath)

	if !strings.Contains(string(md), "First [Paper 1], second [Paper 2].") {
		t.Errorf("markdown numbering wrong:\n%s", md)
	}
	if !strings.Contains(string(tex), `First \cite{paper1}, second \cite{paper2}.`) {
		t.Errorf("latex numbering wrong")
	}
}

func TestRenderer_TrackerAccumulatesAcrossRenders(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	first := RenderRequest{
		Content: "One [Paper 1].",
		Query:   "q",
		Papers:  []Paper{{ID: "a", Title: "From first render"}},
		Formats: []Format{FormatMarkdown},
	}
	if _, err := r.Render(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	// Second render carries no papers, but the session tracker still has
	// the first render's paper for the bibliography.
	second := RenderRequest{
		Content: "Two [Paper 1].",
		Query:   "q2",
		Formats: []Format{FormatMarkdown},
	}
	results, err := r.Render(context.Background(), second)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(results[0].Filepath)
	if !strings.Contains(string(data), "From first render") {
		t.Error("session-tracked paper missing from second render")
	}
}

func TestRenderer_SameSecondRendersDoNotCollide(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	req := RenderRequest{Content: "Text.", Query: "same", Formats: []Format{FormatMarkdown}}

	first, err := r.Render(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if second[0].Status != StatusSuccess {
		t.Fatalf("second render Status = %v (%s)", second[0].Status, second[0].Message)
	}
	if first[0].Filepath == second[0].Filepath {
		t.Error("same-second render reused a filepath")
	}

	data, _ := os.ReadFile(first[0].Filepath)
	if len(data) == 0 {
		t.Error("first artifact clobbered")
	}
}

func TestRenderer_CatalogRecordsArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cat, err := catalog.Open(filepath.Join(dir, "reports.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	r := NewRenderer(
		WithOutputDir(dir),
		WithPDFBackend(&fakeBackend{}),
		WithClock(func() time.Time { return testClock }),
		WithCatalog(cat),
	)
	defer r.Close()

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Text.",
		Query:   "cataloged",
		Formats: []Format{FormatMarkdown, FormatText},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, res := range results {
		entry, err := cat.Get(filepath.Base(res.Filepath))
		if err != nil {
			t.Errorf("artifact %s not cataloged: %v", filepath.Base(res.Filepath), err)
			continue
		}
		if entry.Query != "cataloged" {
			t.Errorf("catalog query = %q", entry.Query)
		}
		if entry.SizeBytes != res.SizeBytes {
			t.Errorf("catalog size = %d, want %d", entry.SizeBytes, res.SizeBytes)
		}
	}
}

func TestRenderer_TextAndJSONFormats(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeBackend{})

	results, err := r.Render(context.Background(), RenderRequest{
		Content: "Plain body.",
		Query:   "q",
		Formats: []Format{FormatText, FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, res := range results {
		if res.Status != StatusSuccess {
			t.Errorf("%s Status = %v (%s)", res.Format, res.Status, res.Message)
		}
	}
	if !strings.HasSuffix(results[0].Filepath, ".txt") {
		t.Errorf("text path = %q", results[0].Filepath)
	}
	if !strings.HasSuffix(results[1].Filepath, ".json") {
		t.Errorf("json path = %q", results[1].Filepath)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "markdown", input: "markdown", want: FormatMarkdown},
		{name: "md alias", input: "md", want: FormatMarkdown},
		{name: "tex alias", input: "tex", want: FormatLaTeX},
		{name: "text alias", input: "text", want: FormatText},
		{name: "case insensitive", input: "PDF", want: FormatPDF},
		{name: "whitespace trimmed", input: " json ", want: FormatJSON},
		{name: "all", input: "all", want: FormatAll},
		{name: "unknown", input: "docx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
