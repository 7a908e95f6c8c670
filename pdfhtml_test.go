package reportgen

import (
	"strings"
	"testing"

	"github.com/arxival/reportgen/internal/markdownir"
)

func buildTestHTML(t *testing.T, content string, papers []Paper, meta Metadata) string {
	t.Helper()

	req := RenderRequest{Content: content, Query: "transformers & attention", Metadata: meta}
	doc := markdownir.Parse(content)
	res := ResolveCitations(doc, papers)
	return buildReportHTML(req, doc, res, testClock)
}

func TestBuildReportHTML_TitleBlock(t *testing.T) {
	t.Parallel()

	got := buildTestHTML(t, "Body.", nil, Metadata{
		Models: map[string]string{
			"search_agent": "gpt-4o-mini",
			"orchestrator": "gpt-4o",
		},
		Usage: &Usage{
			TotalTokens:      12345,
			APICalls:         7,
			ActualCost:       0.123456,
			CreditsRemaining: 4.5,
		},
	})

	wantContains := []string{
		"<!DOCTYPE html>",
		`<div class="title-banner">RESEARCH ANALYSIS REPORT</div>`,
		`<div class="query-banner">Analysis of: transformers &amp; attention</div>`,
		"Generated: March 7, 2024 at 09:05",
		"API Usage &amp; Cost Summary",
		"<tr><td>Total Tokens</td><td>12345</td></tr>",
		"<tr><td>API Calls</td><td>7</td></tr>",
		"<tr><td>Actual Cost</td><td>$0.123456</td></tr>",
		"<tr><td>Credits Remaining</td><td>$4.50</td></tr>",
		"<strong>Models Used:</strong>",
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q", want)
		}
	}

	// Model roles are listed in sorted order for stable output.
	orch := strings.Index(got, "<li>orchestrator: gpt-4o</li>")
	search := strings.Index(got, "<li>search_agent: gpt-4o-mini</li>")
	if orch == -1 || search == -1 || orch > search {
		t.Error("model list missing or unsorted")
	}
}

func TestBuildReportHTML_NoUsageOmitsCostTable(t *testing.T) {
	t.Parallel()

	got := buildTestHTML(t, "Body.", nil, Metadata{})
	if strings.Contains(got, "API Usage") {
		t.Error("cost table present without usage metadata")
	}
}

func TestBuildReportHTML_AbstractExtraction(t *testing.T) {
	t.Parallel()

	content := "# Executive Summary\n\nThis report surveys attention mechanisms.\n\n## Details\n\nMore."
	got := buildTestHTML(t, content, nil, Metadata{})

	if !strings.Contains(got, `<p class="abstract">This report surveys attention mechanisms.</p>`) {
		t.Error("abstract paragraph not extracted")
	}
}

func TestBuildReportHTML_NoAbstractHeading(t *testing.T) {
	t.Parallel()

	got := buildTestHTML(t, "# Introduction\n\nText.", nil, Metadata{})
	if strings.Contains(got, `class="abstract"`) {
		t.Error("abstract rendered without a summary heading")
	}
}

func TestBuildReportHTML_SectionBanners(t *testing.T) {
	t.Parallel()

	content := "## Executive Summary\n\nA.\n\n## Critical Analysis\n\nB.\n\n### Methods\n\nC."
	got := buildTestHTML(t, content, nil, Metadata{})

	wantContains := []string{
		`<div class="section-banner" style="background: ` + colorSecondary + `">EXECUTIVE SUMMARY</div>`,
		`<div class="section-banner" style="background: ` + colorOrange + `">CRITICAL ANALYSIS</div>`,
		`<h3 class="subsection">Methods</h3>`,
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestBuildReportHTML_CitationsAndReferences(t *testing.T) {
	t.Parallel()

	papers := []Paper{
		{
			ID:         "2301.00001",
			Title:      "Attention Is All You Need",
			Authors:    []string{"Vaswani", "Shazeer"},
			Published:  "2017-06-12",
			AbsURL:     "https://arxiv.org/abs/1706.03762",
			Categories: []string{"cs.CL", "cs.LG"},
		},
	}
	got := buildTestHTML(t, "Attention dominates [Paper 3]. Unknown claim [Paper 9].", papers, Metadata{})

	wantContains := []string{
		`Attention dominates <span class="citation">[1]</span>.`,
		"Unknown claim [Paper 9].",
		`<div class="section-banner" style="background: ` + colorPurple + `">REFERENCED PAPERS</div>`,
		"<strong>[1] Attention Is All You Need</strong>",
		"<em>Authors:</em> Vaswani, Shazeer",
		"<em>Published:</em> 2017-06-12",
		"<em>ID:</em> 2301.00001",
		"<em>URL:</em> https://arxiv.org/abs/1706.03762",
		"<em>Categories:</em> cs.CL, cs.LG",
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestBuildReportHTML_NoPapersMessage(t *testing.T) {
	t.Parallel()

	got := buildTestHTML(t, "Body.", nil, Metadata{})
	if !strings.Contains(got, "No papers were tracked during this analysis session.") {
		t.Error("empty-references message missing")
	}
}

func TestBuildReportHTML_CodeHighlighting(t *testing.T) {
	t.Parallel()

	content := "```go\nfunc main() {}\n```"
	got := buildTestHTML(t, content, nil, Metadata{})

	if !strings.Contains(got, `<div class="code-block">`) {
		t.Error("code block wrapper missing")
	}
	// Chroma emits inline-styled spans when classes are disabled.
	if !strings.Contains(got, "<span style=") {
		t.Error("code block not highlighted")
	}
	if !strings.Contains(got, "main") {
		t.Error("code content missing")
	}
}

func TestBuildReportHTML_TableAndMath(t *testing.T) {
	t.Parallel()

	content := "| Model | Score |\n|---|---|\n| BERT | 88.5 |\n\n$$\nE = mc^2\n$$"
	got := buildTestHTML(t, content, nil, Metadata{})

	wantContains := []string{
		"<th>Model</th><th>Score</th>",
		"<td>BERT</td><td>88.5</td>",
		`<div class="math-block">E = mc^2</div>`,
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestBuildReportHTML_EscapesMarkup(t *testing.T) {
	t.Parallel()

	got := buildTestHTML(t, "Compare a<b with <script>alert(1)</script> inline.", nil, Metadata{})
	if strings.Contains(got, "<script>") {
		t.Error("raw script tag leaked into HTML")
	}
	if !strings.Contains(got, "a&lt;b") {
		t.Error("angle bracket not escaped")
	}
}

func TestSectionColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "executive summary", title: "Executive Summary", want: colorSecondary},
		{name: "innovation", title: "Key Innovations", want: colorSecondary},
		{name: "critical", title: "Critical Analysis", want: colorOrange},
		{name: "limitations", title: "Limitations and Open Problems", want: colorOrange},
		{name: "recommendations", title: "Recommendations", want: colorGreen},
		{name: "conclusion", title: "Conclusion", want: colorGreen},
		{name: "references", title: "References", want: colorPurple},
		{name: "default", title: "Background", want: colorPrimary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sectionColor(tt.title); got != tt.want {
				t.Errorf("sectionColor(%q) = %s, want %s", tt.title, got, tt.want)
			}
		})
	}
}

func TestBuildReportCSS_KeyRules(t *testing.T) {
	t.Parallel()

	css := buildReportCSS()

	wantContains := []string{
		"font-family: Georgia",
		".title-banner",
		".section-banner",
		".page-break",
		"page-break-after: always",
		"background: " + colorTableHeader,
	}
	for _, want := range wantContains {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q", want)
		}
	}
}
