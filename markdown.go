package reportgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/arxival/reportgen/internal/dateutil"
	"github.com/arxival/reportgen/internal/markdownir"
)

// abstractLimit caps the abstract excerpt in reference entries.
const abstractLimit = 300

// renderMarkdown produces the full markdown artifact: header block,
// re-serialized body with resolved citation markers, and the generated
// references section.
func renderMarkdown(req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Research Analysis Report\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n", req.Query)
	fmt.Fprintf(&b, "**Generated:** %s\n", dateutil.Display(now))
	b.WriteString("**Format:** Markdown\n\n---\n\n")
	b.WriteString(markdownBody(doc, res))
	b.WriteString(referencesMarkdown(res.Papers()))
	return b.String()
}

// renderText produces the plain-text artifact: same body, unstyled header.
func renderText(req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) string {
	var b strings.Builder
	b.WriteString("Research Analysis Report\n\n")
	fmt.Fprintf(&b, "Query: %s\n", req.Query)
	fmt.Fprintf(&b, "Generated: %s\n\n---\n\n", dateutil.Display(now))
	b.WriteString(markdownBody(doc, res))
	b.WriteString(referencesMarkdown(res.Papers()))
	return b.String()
}

// markdownBody re-serializes the document to its literal markdown form.
// Re-parsing the output yields the same block sequence as the original
// parse; emitters rely on this when substituting for the PDF backend.
func markdownBody(doc *markdownir.Document, res *Resolution) string {
	var lines []string
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case markdownir.KindHeading:
			lines = append(lines, strings.Repeat("#", blk.Level)+" "+blk.Text)

		case markdownir.KindParagraph:
			lines = append(lines, spansMarkdown(blk.Spans, res))

		case markdownir.KindList:
			for i, item := range blk.Items {
				if blk.Ordered {
					lines = append(lines, fmt.Sprintf("%d. %s", i+1, spansMarkdown(item, res)))
				} else {
					lines = append(lines, "- "+spansMarkdown(item, res))
				}
			}

		case markdownir.KindTable:
			lines = append(lines, tableMarkdown(blk, res)...)

		case markdownir.KindCode:
			lines = append(lines, "```"+blk.Lang)
			if blk.Content != "" {
				lines = append(lines, strings.Split(blk.Content, "\n")...)
			}
			lines = append(lines, "```")

		case markdownir.KindMath:
			lines = append(lines, `\[`)
			if blk.Content != "" {
				lines = append(lines, strings.Split(blk.Content, "\n")...)
			}
			lines = append(lines, `\]`)

		case markdownir.KindRule:
			lines = append(lines, "---")

		case markdownir.KindBlank:
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func tableMarkdown(blk markdownir.Block, res *Resolution) []string {
	width := len(blk.Header)
	row := func(cells [][]markdownir.Span) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = spansMarkdown(cell, res)
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	lines := []string{row(blk.Header)}
	lines = append(lines, "|"+strings.Repeat("---|", width))
	for _, r := range blk.Rows {
		lines = append(lines, row(r))
	}
	return lines
}

// spansMarkdown renders inline spans back to literal markdown. Resolved
// citation markers emit their assigned index so numbering is identical
// across every artifact; unresolved markers keep their original token.
func spansMarkdown(spans []markdownir.Span, res *Resolution) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markdownir.SpanText:
			b.WriteString(s.Text)
		case markdownir.SpanBold:
			b.WriteString("**" + s.Text + "**")
		case markdownir.SpanItalic:
			b.WriteString("*" + s.Text + "*")
		case markdownir.SpanCode:
			b.WriteString("`" + s.Text + "`")
		case markdownir.SpanMath:
			b.WriteString(s.Text)
		case markdownir.SpanCitation:
			b.WriteString(citationMarkdown(s.Text, res))
		}
	}
	return b.String()
}

func citationMarkdown(token string, res *Resolution) string {
	if entry := res.Lookup(token); entry != nil && entry.Resolved {
		return fmt.Sprintf("[Paper %d]", entry.Index)
	}
	return "[Paper " + token + "]"
}

// referencesMarkdown formats the bibliography listing every tracked paper,
// cited or not, in tracked order.
func referencesMarkdown(papers []Paper) string {
	if len(papers) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n---\n\n## Referenced Papers\n\n")
	b.WriteString("The following papers were referenced in this analysis:\n\n")

	for i, p := range papers {
		fmt.Fprintf(&b, "**[%d] %s**\n", i+1, orDefault(p.Title, "Unknown Title"))
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, "*Authors:* %s\n", formatAuthors(p.Authors))
		}
		if p.Published != "" {
			fmt.Fprintf(&b, "*Published:* %s\n", p.Published)
		}
		fmt.Fprintf(&b, "*ID:* %s\n", orDefault(p.ID, "N/A"))
		fmt.Fprintf(&b, "*URL:* %s\n", orDefault(p.AbsURL, "N/A"))
		fmt.Fprintf(&b, "*PDF:* %s\n", orDefault(p.PDFURL, "N/A"))
		if len(p.Categories) > 0 {
			fmt.Fprintf(&b, "*Categories:* %s\n", strings.Join(p.Categories, ", "))
		}
		if p.Abstract != "" {
			fmt.Fprintf(&b, "*Abstract:* %s\n", truncateAbstract(p.Abstract))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatAuthors lists up to three authors, then "et al. (N authors)".
func formatAuthors(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s et al. (%d authors)", strings.Join(authors[:3], ", "), len(authors))
}

func truncateAbstract(abstract string) string {
	abstract = strings.Join(strings.Fields(abstract), " ")
	runes := []rune(abstract)
	if len(runes) <= abstractLimit {
		return abstract
	}
	return string(runes[:abstractLimit]) + "..."
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
