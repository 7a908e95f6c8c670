package reportgen

import (
	"fmt"
	"strings"
)

// Report color palette (hex), shared by the banner and table styles.
const (
	colorPrimary     = "#2C3E50" // dark blue: title banner, default sections
	colorSecondary   = "#3498DB" // light blue: query subtitle, executive
	colorOrange      = "#F39C12" // critical analysis sections
	colorGreen       = "#27AE60" // recommendation sections
	colorPurple      = "#9B59B6" // references section
	colorCodeBg      = "#ECF0F1"
	colorTableHeader = "#BDC3C7"
	colorTableAlt    = "#F8F9F9"
)

const bodyFontFamily = `Georgia, "Times New Roman", serif`
const headingFontFamily = `Helvetica, Arial, sans-serif`

// sectionColor picks a banner color from a case-insensitive keyword match
// on the heading text.
func sectionColor(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "executive"), strings.Contains(t, "summary"):
		return colorSecondary
	case strings.Contains(t, "innovation"), strings.Contains(t, "contribution"):
		return colorSecondary
	case strings.Contains(t, "critical"), strings.Contains(t, "limitation"), strings.Contains(t, "challenge"):
		return colorOrange
	case strings.Contains(t, "recommendation"), strings.Contains(t, "conclusion"):
		return colorGreen
	case strings.Contains(t, "reference"), strings.Contains(t, "citation"), strings.Contains(t, "paper"):
		return colorPurple
	}
	return colorPrimary
}

// buildReportCSS assembles the stylesheet injected into the PDF backend's
// HTML. Layout rules live here; per-section banner colors are inlined by
// the HTML builder because they depend on heading text.
func buildReportCSS() string {
	var b strings.Builder

	fmt.Fprintf(&b, `
body {
  font-family: %s;
  font-size: 11pt;
  line-height: 1.45;
  color: #1a1a1a;
  margin: 0;
}
`, bodyFontFamily)

	fmt.Fprintf(&b, `
.title-banner {
  background: %s;
  color: #fff;
  font-family: %s;
  font-size: 18pt;
  font-weight: bold;
  text-align: center;
  padding: 15px 10px;
}
.query-banner {
  background: %s;
  color: #fff;
  font-family: %s;
  font-size: 14pt;
  text-align: center;
  padding: 8px 10px;
  margin-bottom: 15px;
}
.generated {
  font-size: 10pt;
  margin: 10px 0;
}
.title-rule {
  border: none;
  border-top: 2px solid %s;
  margin: 15px 0;
}
`, colorPrimary, headingFontFamily, colorSecondary, headingFontFamily, colorPrimary)

	fmt.Fprintf(&b, `
.section-banner {
  color: #fff;
  font-family: %s;
  font-size: 14pt;
  font-weight: bold;
  text-transform: uppercase;
  padding: 10px;
  margin: 20px 0 15px 0;
}
h3.subsection, h4.subsection {
  font-family: %s;
  color: %s;
  margin: 12px 0 8px 0;
}
`, headingFontFamily, headingFontFamily, colorPrimary)

	fmt.Fprintf(&b, `
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 12px 0;
  font-family: %s;
  font-size: 10pt;
}
th {
  background: %s;
  color: #fff;
  font-weight: bold;
}
th, td {
  border: 0.5px solid #808080;
  padding: 6px;
  text-align: left;
  vertical-align: middle;
}
tr:nth-child(even) td {
  background: %s;
}
`, headingFontFamily, colorTableHeader, colorTableAlt)

	fmt.Fprintf(&b, `
.code-block {
  background: %s;
  border: 0.5px solid #808080;
  padding: 12px;
  margin: 12px 0;
  font-family: "Courier New", monospace;
  font-size: 9pt;
  white-space: pre-wrap;
  overflow-wrap: break-word;
}
.math-block {
  font-family: "Courier New", monospace;
  text-align: center;
  margin: 12px 0;
  white-space: pre-wrap;
}
.abstract {
  font-style: italic;
  margin: 0 30px 20px 30px;
}
.citation {
  font-weight: bold;
}
.reference-entry {
  margin-bottom: 15px;
}
`, colorCodeBg)

	// Keep headings attached to the content that follows them.
	b.WriteString(`
.section-banner, h3.subsection, h4.subsection {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
p, li {
  orphans: 2;
  widows: 2;
}
.page-break {
  break-after: page;
  page-break-after: always;
}
`)

	return b.String()
}
