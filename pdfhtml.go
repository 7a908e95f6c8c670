package reportgen

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/arxival/reportgen/internal/dateutil"
	"github.com/arxival/reportgen/internal/markdownir"
)

// buildReportHTML renders the full styled HTML document the PDF backend
// prints: title block, optional abstract, page break, body, page break,
// references.
func buildReportHTML(req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(req.Query))
	b.WriteString("<style>\n" + buildReportCSS() + "</style>\n</head>\n<body>\n")

	writeTitleBlock(&b, req, now)
	writeAbstract(&b, doc)
	b.WriteString(`<div class="page-break"></div>` + "\n")
	writeBodyHTML(&b, doc, res)
	b.WriteString(`<div class="page-break"></div>` + "\n")
	writeReferencesHTML(&b, res.Papers())

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeTitleBlock(b *strings.Builder, req RenderRequest, now time.Time) {
	b.WriteString(`<div class="title-banner">RESEARCH ANALYSIS REPORT</div>` + "\n")
	fmt.Fprintf(b, `<div class="query-banner">Analysis of: %s</div>`+"\n", html.EscapeString(req.Query))
	fmt.Fprintf(b, `<p class="generated">Generated: %s</p>`+"\n", dateutil.DisplayLong(now))

	if u := req.Metadata.Usage; u != nil {
		b.WriteString("<table>\n<tr><th colspan=\"2\">API Usage &amp; Cost Summary</th></tr>\n")
		fmt.Fprintf(b, "<tr><td>Total Tokens</td><td>%d</td></tr>\n", u.TotalTokens)
		fmt.Fprintf(b, "<tr><td>API Calls</td><td>%d</td></tr>\n", u.APICalls)
		if u.ActualCost > 0 {
			fmt.Fprintf(b, "<tr><td>Actual Cost</td><td>$%.6f</td></tr>\n", u.ActualCost)
		}
		if u.CreditsRemaining > 0 {
			fmt.Fprintf(b, "<tr><td>Credits Remaining</td><td>$%.2f</td></tr>\n", u.CreditsRemaining)
		}
		b.WriteString("</table>\n")
	}

	if len(req.Metadata.Models) > 0 {
		b.WriteString("<p><strong>Models Used:</strong></p>\n<ul>\n")
		for _, role := range sortedKeys(req.Metadata.Models) {
			fmt.Fprintf(b, "<li>%s: %s</li>\n",
				html.EscapeString(role), html.EscapeString(req.Metadata.Models[role]))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString(`<hr class="title-rule">` + "\n")
}

// writeAbstract extracts the paragraph following the first heading named
// like "Executive Summary" or "Abstract" and renders it as an indented
// italic block on the title page. Silence when the report has neither.
func writeAbstract(b *strings.Builder, doc *markdownir.Document) {
	text, ok := abstractText(doc)
	if !ok {
		return
	}
	b.WriteString("<p><strong>Abstract</strong></p>\n")
	fmt.Fprintf(b, `<p class="abstract">%s</p>`+"\n", html.EscapeString(text))
}

func abstractText(doc *markdownir.Document) (string, bool) {
	seen := false
	for _, blk := range doc.Blocks {
		if !seen {
			if blk.Kind == markdownir.KindHeading {
				t := strings.ToLower(blk.Text)
				if strings.Contains(t, "executive summary") || strings.Contains(t, "abstract") {
					seen = true
				}
			}
			continue
		}
		switch blk.Kind {
		case markdownir.KindBlank:
			continue
		case markdownir.KindParagraph:
			return spansPlain(blk.Spans), true
		default:
			return "", false
		}
	}
	return "", false
}

func writeBodyHTML(b *strings.Builder, doc *markdownir.Document, res *Resolution) {
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case markdownir.KindHeading:
			writeHeadingHTML(b, blk)

		case markdownir.KindParagraph:
			fmt.Fprintf(b, "<p>%s</p>\n", spansHTML(blk.Spans, res))

		case markdownir.KindList:
			tag := "ul"
			if blk.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(b, "<%s>\n", tag)
			for _, item := range blk.Items {
				fmt.Fprintf(b, "<li>%s</li>\n", spansHTML(item, res))
			}
			fmt.Fprintf(b, "</%s>\n", tag)

		case markdownir.KindTable:
			writeTableHTML(b, blk, res)

		case markdownir.KindCode:
			b.WriteString(codeBlockHTML(blk.Lang, blk.Content))

		case markdownir.KindMath:
			fmt.Fprintf(b, `<div class="math-block">%s</div>`+"\n", html.EscapeString(blk.Content))

		case markdownir.KindRule:
			b.WriteString("<hr>\n")

		case markdownir.KindBlank:
			// Spacing is handled by block margins.
		}
	}
}

// writeHeadingHTML renders level 1-2 headings as colored section banners
// and deeper levels as subsection headings.
func writeHeadingHTML(b *strings.Builder, blk markdownir.Block) {
	text := stripEmphasis(blk.Text)
	if blk.Level <= 2 {
		fmt.Fprintf(b, `<div class="section-banner" style="background: %s">%s</div>`+"\n",
			sectionColor(text), html.EscapeString(strings.ToUpper(text)))
		return
	}
	level := blk.Level
	if level > 4 {
		level = 4
	}
	fmt.Fprintf(b, `<h%d class="subsection">%s</h%d>`+"\n", level, html.EscapeString(text), level)
}

func writeTableHTML(b *strings.Builder, blk markdownir.Block, res *Resolution) {
	b.WriteString("<table>\n<tr>")
	for _, cell := range blk.Header {
		fmt.Fprintf(b, "<th>%s</th>", spansHTML(cell, res))
	}
	b.WriteString("</tr>\n")
	for _, row := range blk.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", spansHTML(cell, res))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}

// codeBlockHTML highlights fenced code with chroma, falling back to an
// escaped <pre> when the tokenizer rejects the content.
func codeBlockHTML(lang, content string) string {
	highlighted, err := highlightCode(lang, content)
	if err != nil {
		return fmt.Sprintf(`<div class="code-block">%s</div>`+"\n", html.EscapeString(content))
	}
	return `<div class="code-block">` + highlighted + "</div>\n"
}

func highlightCode(lang, content string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return "", err
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.PreventSurroundingPre(true),
	)
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeReferencesHTML(b *strings.Builder, papers []Paper) {
	fmt.Fprintf(b, `<div class="section-banner" style="background: %s">REFERENCED PAPERS</div>`+"\n", colorPurple)
	if len(papers) == 0 {
		b.WriteString("<p>No papers were tracked during this analysis session.</p>\n")
		return
	}
	for i, p := range papers {
		b.WriteString(`<div class="reference-entry">` + "\n")
		fmt.Fprintf(b, "<p><strong>[%d] %s</strong><br>\n", i+1, html.EscapeString(orDefault(p.Title, "Unknown Title")))
		if len(p.Authors) > 0 {
			fmt.Fprintf(b, "<em>Authors:</em> %s<br>\n", html.EscapeString(formatAuthors(p.Authors)))
		}
		if p.Published != "" {
			fmt.Fprintf(b, "<em>Published:</em> %s<br>\n", html.EscapeString(p.Published))
		}
		fmt.Fprintf(b, "<em>ID:</em> %s<br>\n", html.EscapeString(orDefault(p.ID, "N/A")))
		if p.AbsURL != "" {
			fmt.Fprintf(b, "<em>URL:</em> %s<br>\n", html.EscapeString(p.AbsURL))
		}
		if len(p.Categories) > 0 {
			fmt.Fprintf(b, "<em>Categories:</em> %s\n", html.EscapeString(strings.Join(p.Categories, ", ")))
		}
		b.WriteString("</p>\n</div>\n")
	}
}

// spansHTML renders inline spans; resolved citation markers become bracket
// reference numbers matching the bibliography order.
func spansHTML(spans []markdownir.Span, res *Resolution) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markdownir.SpanText:
			b.WriteString(html.EscapeString(s.Text))
		case markdownir.SpanBold:
			b.WriteString("<strong>" + html.EscapeString(s.Text) + "</strong>")
		case markdownir.SpanItalic:
			b.WriteString("<em>" + html.EscapeString(s.Text) + "</em>")
		case markdownir.SpanCode:
			b.WriteString("<code>" + html.EscapeString(s.Text) + "</code>")
		case markdownir.SpanMath:
			b.WriteString(html.EscapeString(s.Text))
		case markdownir.SpanCitation:
			if entry := res.Lookup(s.Text); entry != nil && entry.Resolved {
				fmt.Fprintf(&b, `<span class="citation">[%d]</span>`, entry.Index)
			} else {
				b.WriteString(html.EscapeString("[Paper " + s.Text + "]"))
			}
		}
	}
	return b.String()
}

// spansPlain flattens spans to unformatted text.
func spansPlain(spans []markdownir.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markdownir.SpanCitation:
			b.WriteString("[Paper " + s.Text + "]")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
