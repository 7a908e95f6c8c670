// Package markdownir parses markdown-structured report text into an ordered
// block/inline document model shared by every output backend.
//
// The grammar is deliberately smaller than CommonMark: a single line-oriented
// block pass with fixed precedence, followed by an inline pass over paragraph,
// list-item, and table-cell text. Code and math content is kept byte-verbatim
// so downstream escaping never touches it.
package markdownir

// BlockKind identifies a block variant.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindList
	KindTable
	KindCode
	KindMath
	KindRule
	KindBlank
)

// String returns the block kind name, used by tests and error messages.
func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	case KindCode:
		return "code"
	case KindMath:
		return "math"
	case KindRule:
		return "rule"
	case KindBlank:
		return "blank"
	}
	return "unknown"
}

// SpanKind identifies an inline span variant.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
	SpanCode
	// SpanMath carries inline math verbatim, delimiters included, so the
	// LaTeX backend can reinsert it after escaping the surrounding text.
	SpanMath
	// SpanCitation carries the literal token from a "[Paper <token>]"
	// marker. The token is agent-generated and not trusted as an index.
	SpanCitation
)

// Span is one inline run of text.
type Span struct {
	Kind SpanKind
	Text string
}

// Block is one structural element of a parsed document.
// Only the fields relevant to Kind are populated.
type Block struct {
	Kind BlockKind

	// Heading
	Level int
	Text  string

	// Paragraph
	Spans []Span

	// List
	Items   [][]Span
	Ordered bool

	// Table; rows are padded or truncated to the header width.
	Header [][]Span
	Rows   [][][]Span

	// Code / Math; Content is byte-verbatim.
	Lang    string
	Content string
}

// Document is an ordered sequence of blocks.
type Document struct {
	Blocks []Block
}

// Citations returns every citation span in document order, including
// duplicates. Code and math content never contributes markers.
func (d *Document) Citations() []Span {
	var out []Span
	walk := func(spans []Span) {
		for _, s := range spans {
			if s.Kind == SpanCitation {
				out = append(out, s)
			}
		}
	}
	for _, b := range d.Blocks {
		switch b.Kind {
		case KindParagraph:
			walk(b.Spans)
		case KindList:
			for _, it := range b.Items {
				walk(it)
			}
		case KindTable:
			for _, cell := range b.Header {
				walk(cell)
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					walk(cell)
				}
			}
		}
	}
	return out
}
