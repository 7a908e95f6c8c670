package markdownir

import (
	"strings"
)

// Parse scans raw report text into a Document. The scan is single-pass and
// line-oriented; malformed structures degrade (tables pad/truncate, an
// unterminated fence consumes the rest of the input as code) rather than
// failing, so Parse never returns an error.
func Parse(input string) *Document {
	p := &parser{lines: splitLines(input)}
	p.run()
	return &Document{Blocks: p.blocks}
}

type parser struct {
	lines  []string
	pos    int
	blocks []Block

	// paragraph accumulator
	para []string
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	// A trailing newline terminates the last line rather than opening an
	// empty one, so "a\n" parses the same as "a".
	input = strings.TrimSuffix(input, "\n")
	if input == "" {
		return nil
	}
	return strings.Split(input, "\n")
}

func (p *parser) run() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			p.flushParagraph()
			p.blocks = append(p.blocks, Block{Kind: KindBlank})
			p.pos++

		case strings.HasPrefix(trimmed, "```"):
			p.flushParagraph()
			p.scanCodeFence(trimmed)

		case strings.HasPrefix(trimmed, `\[`):
			p.flushParagraph()
			p.scanMathBlock()

		case isRule(trimmed):
			p.flushParagraph()
			p.blocks = append(p.blocks, Block{Kind: KindRule})
			p.pos++

		case headingLevel(trimmed) > 0:
			p.flushParagraph()
			level := headingLevel(trimmed)
			p.blocks = append(p.blocks, Block{
				Kind:  KindHeading,
				Level: level,
				Text:  strings.TrimSpace(trimmed[level+1:]),
			})
			p.pos++

		case isListItem(trimmed):
			p.flushParagraph()
			p.scanList()

		case looksLikeTableRow(trimmed) && p.nextIsSeparator():
			p.flushParagraph()
			p.scanTable()

		default:
			p.para = append(p.para, trimmed)
			p.pos++
		}
	}
	p.flushParagraph()
}

func (p *parser) flushParagraph() {
	if len(p.para) == 0 {
		return
	}
	text := strings.Join(p.para, " ")
	p.para = nil
	p.blocks = append(p.blocks, Block{
		Kind:  KindParagraph,
		Spans: ParseInline(text),
	})
}

// scanCodeFence consumes a fenced code block. Policy: an unterminated fence
// consumes the rest of the document as code.
func (p *parser) scanCodeFence(open string) {
	lang := strings.TrimSpace(strings.TrimPrefix(open, "```"))
	p.pos++

	var content []string
	for p.pos < len(p.lines) {
		if strings.HasPrefix(strings.TrimSpace(p.lines[p.pos]), "```") {
			p.pos++
			break
		}
		content = append(content, p.lines[p.pos])
		p.pos++
	}
	p.blocks = append(p.blocks, Block{
		Kind:    KindCode,
		Lang:    lang,
		Content: strings.Join(content, "\n"),
	})
}

// scanMathBlock consumes a display math block delimited by \[ and \].
// Content between the delimiters is kept byte-verbatim. An unterminated
// block consumes the rest of the input, mirroring the fence policy.
func (p *parser) scanMathBlock() {
	first := strings.TrimSpace(p.lines[p.pos])
	rest := strings.TrimPrefix(first, `\[`)

	// Single-line form: \[ content \]
	if idx := strings.Index(rest, `\]`); idx >= 0 {
		p.blocks = append(p.blocks, Block{Kind: KindMath, Content: rest[:idx]})
		p.pos++
		return
	}

	var content []string
	if rest != "" {
		content = append(content, rest)
	}
	p.pos++
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if idx := strings.Index(line, `\]`); idx >= 0 {
			if tail := line[:idx]; strings.TrimSpace(tail) != "" {
				content = append(content, tail)
			}
			p.pos++
			break
		}
		content = append(content, line)
		p.pos++
	}
	p.blocks = append(p.blocks, Block{Kind: KindMath, Content: strings.Join(content, "\n")})
}

// scanList consumes consecutive flat list items of the same orderedness.
func (p *parser) scanList() {
	first := strings.TrimSpace(p.lines[p.pos])
	ordered := orderedItemText(first) != first

	var items [][]Span
	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		if !isListItem(trimmed) {
			break
		}
		itemOrdered := orderedItemText(trimmed) != trimmed
		if itemOrdered != ordered {
			break
		}
		var text string
		if ordered {
			text = orderedItemText(trimmed)
		} else {
			text = strings.TrimSpace(trimmed[2:])
		}
		items = append(items, ParseInline(text))
		p.pos++
	}
	p.blocks = append(p.blocks, Block{Kind: KindList, Items: items, Ordered: ordered})
}

// scanTable consumes a header row, its separator, and the body rows that
// follow. Body rows with fewer or more cells than the header are padded or
// truncated to the header width.
func (p *parser) scanTable() {
	header := splitCells(strings.TrimSpace(p.lines[p.pos]))
	width := len(header)
	p.pos += 2 // header + separator

	headerSpans := make([][]Span, width)
	for i, cell := range header {
		headerSpans[i] = ParseInline(cell)
	}

	var rows [][][]Span
	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		if !looksLikeTableRow(trimmed) {
			break
		}
		cells := splitCells(trimmed)
		row := make([][]Span, width)
		for i := 0; i < width; i++ {
			if i < len(cells) {
				row[i] = ParseInline(cells[i])
			} else {
				row[i] = []Span{{Kind: SpanText, Text: ""}}
			}
		}
		rows = append(rows, row)
		p.pos++
	}
	p.blocks = append(p.blocks, Block{Kind: KindTable, Header: headerSpans, Rows: rows})
}

func (p *parser) nextIsSeparator() bool {
	if p.pos+1 >= len(p.lines) {
		return false
	}
	return isTableSeparator(strings.TrimSpace(p.lines[p.pos+1]))
}

// headingLevel returns 1-6 for a heading line, 0 otherwise.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return 0
	}
	if n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

// isRule reports whether the line consists solely of three or more repeated
// '-' or '*' characters.
func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return true
	}
	return orderedItemText(line) != line
}

// orderedItemText strips an "N. " prefix, returning the line unchanged when
// it is not an ordered item.
func orderedItemText(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(line) || line[i] != '.' || line[i+1] != ' ' {
		return line
	}
	return strings.TrimSpace(line[i+2:])
}

func looksLikeTableRow(line string) bool {
	return strings.Contains(line, "|")
}

// isTableSeparator matches the dash row under a table header, e.g.
// |---|:---:|--- or --- | ---.
func isTableSeparator(line string) bool {
	if !strings.Contains(line, "-") {
		return false
	}
	for _, r := range line {
		switch r {
		case '-', '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitCells splits a table row on '|', dropping the outer empty cells
// produced by leading and trailing pipes.
func splitCells(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
