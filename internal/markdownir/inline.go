package markdownir

import (
	"regexp"
	"strings"
)

// citationPattern matches the literal "[Paper <token>]" marker form. The
// captured token is carried as-is; resolution happens later and never trusts
// the token value.
var citationPattern = regexp.MustCompile(`^\[Paper\s+([^\]]+)\]`)

// ParseInline runs the inline pass over paragraph, list-item, or table-cell
// text. Precedence: inline code, inline math, bold, italic, citation marker,
// plain text. Spans are flat; emphasis content is not re-scanned.
func ParseInline(text string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]

		switch {
		case c == '`':
			if end := strings.IndexByte(text[i+1:], '`'); end >= 0 {
				flush()
				spans = append(spans, Span{Kind: SpanCode, Text: text[i+1 : i+1+end]})
				i += end + 2
				continue
			}

		case c == '$':
			if content, width, ok := scanDollarMath(text[i:]); ok {
				flush()
				spans = append(spans, Span{Kind: SpanMath, Text: content})
				i += width
				continue
			}

		case c == '\\' && strings.HasPrefix(text[i:], `\(`):
			if end := strings.Index(text[i+2:], `\)`); end >= 0 {
				flush()
				spans = append(spans, Span{Kind: SpanMath, Text: text[i : i+2+end+2]})
				i += 2 + end + 2
				continue
			}

		case strings.HasPrefix(text[i:], "**"):
			if content, width, ok := scanDelimited(text[i:], "**"); ok {
				flush()
				spans = append(spans, Span{Kind: SpanBold, Text: content})
				i += width
				continue
			}

		case strings.HasPrefix(text[i:], "__"):
			if content, width, ok := scanDelimited(text[i:], "__"); ok {
				flush()
				spans = append(spans, Span{Kind: SpanBold, Text: content})
				i += width
				continue
			}

		case c == '*':
			if content, width, ok := scanDelimited(text[i:], "*"); ok {
				flush()
				spans = append(spans, Span{Kind: SpanItalic, Text: content})
				i += width
				continue
			}

		case c == '_':
			// Underscore opens emphasis only at a word boundary; identifiers
			// like value_test stay literal.
			if i == 0 || text[i-1] == ' ' || text[i-1] == '\t' {
				if content, width, ok := scanDelimited(text[i:], "_"); ok {
					flush()
					spans = append(spans, Span{Kind: SpanItalic, Text: content})
					i += width
					continue
				}
			}

		case c == '[':
			if m := citationPattern.FindStringSubmatch(text[i:]); m != nil {
				flush()
				spans = append(spans, Span{Kind: SpanCitation, Text: strings.TrimSpace(m[1])})
				i += len(m[0])
				continue
			}
		}

		plain.WriteByte(c)
		i++
	}
	flush()
	return spans
}

// scanDelimited matches delim ... delim with non-empty content that neither
// starts nor ends with a space.
func scanDelimited(s, delim string) (content string, width int, ok bool) {
	inner := s[len(delim):]
	end := strings.Index(inner, delim)
	if end <= 0 {
		return "", 0, false
	}
	content = inner[:end]
	if strings.HasPrefix(content, " ") || strings.HasSuffix(content, " ") {
		return "", 0, false
	}
	return content, len(delim)*2 + end, true
}

// scanDollarMath matches $...$ with non-empty content containing no
// whitespace, which keeps money amounts like "$100 and $200" literal while
// preserving subscript math such as $T_0$.
func scanDollarMath(s string) (content string, width int, ok bool) {
	end := strings.IndexByte(s[1:], '$')
	if end <= 0 {
		return "", 0, false
	}
	inner := s[1 : 1+end]
	if strings.ContainsAny(inner, " \t") {
		return "", 0, false
	}
	return s[:end+2], end + 2, true
}
