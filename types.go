package reportgen

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Format identifies an output artifact format.
type Format string

// Supported output formats. FormatAll expands to markdown, pdf, and latex.
const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatLaTeX    Format = "latex"
	FormatJSON     Format = "json"
	FormatText     Format = "txt"
	FormatAll      Format = "all"
)

// ParseFormat converts a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatLaTeX, "tex":
		return FormatLaTeX, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatText, "text":
		return FormatText, nil
	case FormatAll:
		return FormatAll, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// extension returns the file extension for the format's primary artifact.
func (f Format) extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatPDF:
		return "pdf"
	case FormatLaTeX:
		return "tex"
	case FormatJSON:
		return "json"
	case FormatText:
		return "txt"
	}
	return string(f)
}

// Status classifies the outcome of one format's render.
type Status string

const (
	// StatusSuccess means the requested artifact was written.
	StatusSuccess Status = "success"
	// StatusSubstituted means the requested backend was unavailable and a
	// markdown artifact was written in its place.
	StatusSubstituted Status = "substituted"
	// StatusError means this format failed; other formats are unaffected.
	StatusError Status = "error"
)

// Paper is one cited-source record, deduplicated by ID within a session.
// Papers are immutable once tracked.
type Paper struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors" yaml:"authors"`
	Published  string   `json:"published" yaml:"published"`
	Categories []string `json:"categories" yaml:"categories"`
	Abstract   string   `json:"abstract" yaml:"abstract"`
	AbsURL     string   `json:"abs_url" yaml:"abs_url"`
	PDFURL     string   `json:"pdf_url" yaml:"pdf_url"`
	DOI        string   `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Usage carries token and cost accounting produced by the upstream
// orchestration; it is rendered on the PDF title page when present.
type Usage struct {
	TotalTokens      int     `json:"total_tokens" yaml:"total_tokens"`
	PromptTokens     int     `json:"prompt_tokens,omitempty" yaml:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty" yaml:"completion_tokens,omitempty"`
	APICalls         int     `json:"api_calls" yaml:"api_calls"`
	ActualCost       float64 `json:"actual_cost,omitempty" yaml:"actual_cost,omitempty"`
	CreditsRemaining float64 `json:"credits_remaining,omitempty" yaml:"credits_remaining,omitempty"`
}

// Metadata enumerates the recognized report metadata keys. Unknown keys in
// caller-supplied metadata files are ignored at decode time.
type Metadata struct {
	Agents         []string          `json:"agents,omitempty" yaml:"agents,omitempty"`
	Timestamp      string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Models         map[string]string `json:"models,omitempty" yaml:"models,omitempty"`
	Usage          *Usage            `json:"usage,omitempty" yaml:"usage,omitempty"`
	PapersAnalyzed int               `json:"papers_analyzed,omitempty" yaml:"papers_analyzed,omitempty"`
	InitialCredits float64           `json:"initial_credits,omitempty" yaml:"initial_credits,omitempty"`
}

// RenderRequest describes one report render.
type RenderRequest struct {
	// Content is the markdown-structured report body (required).
	Content string
	// Query is the research question the report answers (required).
	Query string
	// Papers are the cited-source records for the bibliography.
	Papers []Paper
	// Metadata carries optional accounting and provenance details.
	Metadata Metadata
	// Formats lists the requested artifact formats; FormatAll expands to
	// markdown, pdf, and latex.
	Formats []Format
}

// Validate checks that required fields are present and formats are known.
//
// This is the trust boundary for callers that build RenderRequest manually;
// it is the only place a render fails fast instead of returning per-format
// results.
func (r RenderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required.Error(ErrEmptyContent.Error())),
		validation.Field(&r.Query, validation.Required.Error(ErrEmptyQuery.Error())),
		validation.Field(&r.Formats,
			validation.Required.Error(ErrNoFormats.Error()),
			validation.Each(validation.In(
				FormatMarkdown, FormatPDF, FormatLaTeX, FormatJSON, FormatText, FormatAll,
			).Error(ErrUnknownFormat.Error())),
		),
	)
}

// RenderResult reports the outcome of one requested format.
type RenderResult struct {
	Format      Format `json:"format"`
	Filepath    string `json:"filepath,omitempty"`
	BibFilepath string `json:"bib_filepath,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Status      Status `json:"status"`
	Message     string `json:"message,omitempty"`
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	outputDir string
	timeout   time.Duration
}

// Defaults applied by NewRenderer.
const (
	defaultTimeout   = 30 * time.Second
	defaultOutputDir = "outputs/reports"
)

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("reportgen: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithOutputDir sets the directory artifacts are written to.
func WithOutputDir(dir string) Option {
	return func(r *Renderer) {
		if dir != "" {
			r.cfg.outputDir = dir
		}
	}
}

// WithTracker attaches a session-scoped paper tracker. Use this when search
// results are accumulated across multiple renders in one session.
func WithTracker(t *PaperTracker) Option {
	return func(r *Renderer) {
		if t != nil {
			r.tracker = t
		}
	}
}
