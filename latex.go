package reportgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/arxival/reportgen/internal/dateutil"
	"github.com/arxival/reportgen/internal/markdownir"
)

// renderLaTeX produces the .tex source and its companion BibTeX string.
// bibStem must equal the basename of the .bib file the caller writes; the
// emitted \bibliography{bibStem} depends on it.
func renderLaTeX(req RenderRequest, doc *markdownir.Document, res *Resolution, bibStem string, now time.Time) (tex string, bib string) {
	var b strings.Builder

	b.WriteString(latexPreamble(req, now))
	b.WriteString(latexBody(doc, res))
	fmt.Fprintf(&b, "\n\\bibliographystyle{plain}\n\\bibliography{%s}\n\n\\end{document}\n", bibStem)

	return b.String(), renderBibTeX(req.Query, res.Papers())
}

func latexPreamble(req RenderRequest, now time.Time) string {
	author := "Research Analysis Pipeline"
	if len(req.Metadata.Agents) > 0 {
		author = escapeLaTeX(strings.Join(req.Metadata.Agents, ", "))
	}

	var b strings.Builder
	b.WriteString("\\documentclass[11pt]{article}\n")
	b.WriteString("\\usepackage[utf8]{inputenc}\n")
	b.WriteString("\\usepackage[T1]{fontenc}\n")
	b.WriteString("\\usepackage[letterpaper,margin=1in]{geometry}\n")
	b.WriteString("\\usepackage{amsmath}\n")
	b.WriteString("\\usepackage{graphicx}\n")
	b.WriteString("\\usepackage{hyperref}\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "\\title{%s}\n", escapeLaTeX(req.Query))
	fmt.Fprintf(&b, "\\author{%s}\n", author)
	fmt.Fprintf(&b, "\\date{%s}\n", now.Format("January 2, 2006"))
	b.WriteString("\n\\begin{document}\n\\maketitle\n\n")
	return b.String()
}

func latexBody(doc *markdownir.Document, res *Resolution) string {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case markdownir.KindHeading:
			b.WriteString(latexHeading(blk))

		case markdownir.KindParagraph:
			b.WriteString(spansLaTeX(blk.Spans, res) + "\n\n")

		case markdownir.KindList:
			env := "itemize"
			if blk.Ordered {
				env = "enumerate"
			}
			fmt.Fprintf(&b, "\\begin{%s}\n", env)
			for _, item := range blk.Items {
				fmt.Fprintf(&b, "  \\item %s\n", spansLaTeX(item, res))
			}
			fmt.Fprintf(&b, "\\end{%s}\n\n", env)

		case markdownir.KindTable:
			b.WriteString(latexTable(blk, res))

		case markdownir.KindCode:
			b.WriteString("\\begin{verbatim}\n" + blk.Content + "\n\\end{verbatim}\n\n")

		case markdownir.KindMath:
			// Display math passes through byte-verbatim.
			b.WriteString("\\[\n" + blk.Content + "\n\\]\n\n")

		case markdownir.KindRule:
			b.WriteString("\\noindent\\hrulefill\n\n")

		case markdownir.KindBlank:
			// Paragraph breaks are already emitted per block.
		}
	}
	return b.String()
}

func latexHeading(blk markdownir.Block) string {
	text := escapeLaTeX(stripEmphasis(blk.Text))
	switch {
	case blk.Level <= 2:
		return fmt.Sprintf("\\section{%s}\n\n", text)
	case blk.Level == 3:
		return fmt.Sprintf("\\subsection{%s}\n\n", text)
	default:
		return fmt.Sprintf("\\subsubsection{%s}\n\n", text)
	}
}

// latexTable emits a tabular whose column spec is inferred from the header
// width; body rows have already been padded or truncated by the parser.
func latexTable(blk markdownir.Block, res *Resolution) string {
	width := len(blk.Header)
	spec := strings.Repeat("|l", width) + "|"

	row := func(cells [][]markdownir.Span) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = spansLaTeX(cell, res)
		}
		return strings.Join(parts, " & ") + " \\\\"
	}

	var b strings.Builder
	b.WriteString("\\begin{table}[h!]\n\\centering\n")
	fmt.Fprintf(&b, "\\begin{tabular}{%s}\n\\hline\n", spec)

	headerParts := make([]string, width)
	for i, cell := range blk.Header {
		headerParts[i] = "\\textbf{" + spansLaTeX(cell, res) + "}"
	}
	b.WriteString(strings.Join(headerParts, " & ") + " \\\\\n\\hline\n")

	for _, r := range blk.Rows {
		b.WriteString(row(r) + "\n")
	}
	b.WriteString("\\hline\n\\end{tabular}\n\\end{table}\n\n")
	return b.String()
}

// spansLaTeX renders inline spans, escaping every literal text run before
// math spans are reinserted verbatim.
func spansLaTeX(spans []markdownir.Span, res *Resolution) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markdownir.SpanText:
			b.WriteString(escapeLaTeX(s.Text))
		case markdownir.SpanBold:
			b.WriteString("\\textbf{" + escapeLaTeX(s.Text) + "}")
		case markdownir.SpanItalic:
			b.WriteString("\\textit{" + escapeLaTeX(s.Text) + "}")
		case markdownir.SpanCode:
			b.WriteString("\\texttt{" + escapeLaTeX(s.Text) + "}")
		case markdownir.SpanMath:
			b.WriteString(s.Text)
		case markdownir.SpanCitation:
			if entry := res.Lookup(s.Text); entry != nil && entry.Resolved {
				b.WriteString("\\cite{" + entry.Key + "}")
			} else {
				b.WriteString(escapeLaTeX("[Paper " + s.Text + "]"))
			}
		}
	}
	return b.String()
}

// escapeLaTeX maps every LaTeX special character in a literal text run to
// its escaped form. Math content must never pass through here.
func escapeLaTeX(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '%':
			b.WriteString(`\%`)
		case '$':
			b.WriteString(`\$`)
		case '#':
			b.WriteString(`\#`)
		case '_':
			b.WriteString(`\_`)
		case '&':
			b.WriteString(`\&`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripEmphasis drops markdown emphasis markers from heading text.
func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return s
}

// renderBibTeX emits one @article entry per tracked paper, keyed by tracked
// order. With zero papers the file still carries an explanatory comment so
// bibtex can load it.
func renderBibTeX(query string, papers []Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%% Bibliography for: %s\n", query)
	fmt.Fprintf(&b, "%% Generated by reportgen; one entry per tracked paper.\n\n")

	if len(papers) == 0 {
		b.WriteString("% No papers were tracked during this analysis session.\n")
		b.WriteString("% This bibliography is intentionally empty.\n")
		return b.String()
	}

	for i, p := range papers {
		fmt.Fprintf(&b, "@article{paper%d,\n", i+1)
		fmt.Fprintf(&b, "  title={%s},\n", escapeLaTeX(orDefault(p.Title, "Unknown Title")))
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, "  author={%s},\n", escapeLaTeX(strings.Join(p.Authors, " and ")))
		}
		if year := dateutil.Year(p.Published); year != "" {
			fmt.Fprintf(&b, "  year={%s},\n", year)
		}
		if p.AbsURL != "" {
			fmt.Fprintf(&b, "  url={%s},\n", p.AbsURL)
		}
		if p.DOI != "" {
			fmt.Fprintf(&b, "  doi={%s},\n", p.DOI)
		}
		fmt.Fprintf(&b, "  note={arXiv:%s}\n", orDefault(p.ID, "unknown"))
		b.WriteString("}\n\n")
	}
	return b.String()
}
