package reportgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arxival/reportgen/internal/catalog"
	"github.com/arxival/reportgen/internal/fileutil"
	"github.com/arxival/reportgen/internal/markdownir"
)

// Renderer coordinates parsing, citation resolution, and per-format emission.
// A Renderer is safe for sequential reuse; for concurrent rendering use a
// RendererPool.
type Renderer struct {
	cfg     rendererConfig
	tracker *PaperTracker
	cat     *catalog.Catalog
	pdf     pdfBackend
	clock   func() time.Time
}

// WithCatalog attaches an artifact catalog; successful writes are recorded
// in it.
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Renderer) {
		r.cat = c
	}
}

// WithPDFBackend replaces the default headless-Chrome backend.
func WithPDFBackend(b pdfBackend) Option {
	return func(r *Renderer) {
		if b != nil {
			r.pdf = b
		}
	}
}

// WithClock overrides the time source used for filenames and headers.
func WithClock(clock func() time.Time) Option {
	return func(r *Renderer) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRenderer creates a Renderer with default configuration, applying any
// options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		cfg: rendererConfig{
			outputDir: defaultOutputDir,
			timeout:   defaultTimeout,
		},
		tracker: NewPaperTracker(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pdf == nil {
		r.pdf = newRodBackend(r.cfg.timeout)
	}
	return r
}

// Tracker returns the session paper tracker.
func (r *Renderer) Tracker() *PaperTracker {
	return r.tracker
}

// Close releases backend resources.
func (r *Renderer) Close() error {
	return r.pdf.Close()
}

// Render validates the request, parses the content once, resolves citations
// once, and emits every requested format. Formats fail independently: one
// RenderResult per expanded format, errors reported in Result.Status rather
// than aborting the batch. The returned error is non-nil only for request
// validation or output directory failures.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) ([]RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.tracker.Add(req.Papers...)
	papers := r.tracker.Papers()

	doc := markdownir.Parse(req.Content)
	res := ResolveCitations(doc, papers)

	if err := os.MkdirAll(r.cfg.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	now := r.clock()
	formats := expandFormats(req.Formats)
	results := make([]RenderResult, 0, len(formats))
	for _, format := range formats {
		results = append(results, r.renderOne(ctx, format, req, doc, res, now))
	}
	return results, nil
}

// expandFormats resolves FormatAll and removes duplicates while preserving
// request order.
func expandFormats(formats []Format) []Format {
	expanded := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	appendOne := func(f Format) {
		if _, dup := seen[f]; dup {
			return
		}
		seen[f] = struct{}{}
		expanded = append(expanded, f)
	}
	for _, f := range formats {
		if f == FormatAll {
			appendOne(FormatMarkdown)
			appendOne(FormatPDF)
			appendOne(FormatLaTeX)
			continue
		}
		appendOne(f)
	}
	return expanded
}

// renderOne emits a single format. Panics in an emitter are contained here
// so one bad format cannot take down the batch.
func (r *Renderer) renderOne(ctx context.Context, format Format, req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) (result RenderResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = RenderResult{
				Format:  format,
				Status:  StatusError,
				Message: fmt.Sprintf("render panicked: %v", rec),
			}
		}
	}()

	switch format {
	case FormatMarkdown:
		return r.writeResult(format, req, now, []byte(renderMarkdown(req, doc, res, now)))

	case FormatText:
		return r.writeResult(format, req, now, []byte(renderText(req, doc, res, now)))

	case FormatJSON:
		data, err := renderJSON(req, doc, res, now)
		if err != nil {
			return errorResult(format, err)
		}
		return r.writeResult(format, req, now, data)

	case FormatLaTeX:
		return r.renderLaTeXPair(req, doc, res, now)

	case FormatPDF:
		return r.renderPDF(ctx, req, doc, res, now)
	}

	return errorResult(format, fmt.Errorf("%w: %q", ErrUnknownFormat, format))
}

// renderPDF prints the styled HTML through the backend. When no browser is
// available it degrades to a markdown artifact with StatusSubstituted, so a
// bare environment still produces a readable report.
func (r *Renderer) renderPDF(ctx context.Context, req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) RenderResult {
	if !r.pdf.Available() {
		result := r.writeResult(FormatMarkdown, req, now, []byte(renderMarkdown(req, doc, res, now)))
		result.Format = FormatPDF
		if result.Status == StatusSuccess {
			result.Status = StatusSubstituted
			result.Message = fmt.Sprintf("%v; wrote markdown instead", ErrBackendUnavailable)
		}
		return result
	}

	pdfBytes, err := r.pdf.RenderHTML(ctx, buildReportHTML(req, doc, res, now))
	if err != nil {
		return errorResult(FormatPDF, err)
	}
	return r.writeResult(FormatPDF, req, now, pdfBytes)
}

// renderLaTeXPair writes the .tex and its companion .bib under one stem so
// \bibliography resolves without edits.
func (r *Renderer) renderLaTeXPair(req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) RenderResult {
	stem := uniqueStem(r.cfg.outputDir, filenameStem(now, req.Query), "tex", "bib")
	tex, bib := renderLaTeX(req, doc, res, stem, now)

	texPath := filepath.Join(r.cfg.outputDir, stem+".tex")
	bibPath := filepath.Join(r.cfg.outputDir, stem+".bib")

	if err := fileutil.WriteExclusive(texPath, []byte(tex)); err != nil {
		return errorResult(FormatLaTeX, err)
	}
	if err := fileutil.WriteExclusive(bibPath, []byte(bib)); err != nil {
		os.Remove(texPath)
		return errorResult(FormatLaTeX, err)
	}

	r.record(FormatLaTeX, texPath, req.Query, int64(len(tex)), now)

	return RenderResult{
		Format:      FormatLaTeX,
		Filepath:    texPath,
		BibFilepath: bibPath,
		SizeBytes:   int64(len(tex)),
		Status:      StatusSuccess,
		Message: fmt.Sprintf("compile with: pdflatex %[1]s.tex && bibtex %[1]s && pdflatex %[1]s.tex && pdflatex %[1]s.tex",
			stem),
	}
}

// writeResult writes one single-file artifact with collision-safe naming.
func (r *Renderer) writeResult(format Format, req RenderRequest, now time.Time, data []byte) RenderResult {
	ext := format.extension()
	stem := uniqueStem(r.cfg.outputDir, filenameStem(now, req.Query), ext)
	path := filepath.Join(r.cfg.outputDir, stem+"."+ext)

	err := fileutil.WriteExclusive(path, data)
	if errors.Is(err, fileutil.ErrFileExists) {
		// Lost a race with a concurrent writer; retry once with a fresh
		// unique suffix.
		stem = uniqueStem(r.cfg.outputDir, stem, ext)
		path = filepath.Join(r.cfg.outputDir, stem+"."+ext)
		err = fileutil.WriteExclusive(path, data)
	}
	if err != nil {
		return errorResult(format, err)
	}

	r.record(format, path, req.Query, int64(len(data)), now)

	return RenderResult{
		Format:    format,
		Filepath:  path,
		SizeBytes: int64(len(data)),
		Status:    StatusSuccess,
	}
}

// record registers a written artifact in the catalog when one is attached.
// Catalog failures never fail a render.
func (r *Renderer) record(format Format, path, query string, size int64, now time.Time) {
	if r.cat == nil {
		return
	}
	_ = r.cat.Record(catalog.Entry{
		Filename:  filepath.Base(path),
		Filepath:  path,
		Format:    string(format),
		Query:     query,
		SizeBytes: size,
		CreatedAt: now,
	})
}

func errorResult(format Format, err error) RenderResult {
	return RenderResult{
		Format:  format,
		Status:  StatusError,
		Message: err.Error(),
	}
}
