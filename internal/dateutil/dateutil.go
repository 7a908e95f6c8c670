// Package dateutil parses the publication dates attached to cited-source
// records. Upstream search providers are inconsistent about the format, so
// parsing tries a fixed list of layouts before degrading.
package dateutil

import (
	"strings"
	"time"
)

// publishedLayouts are tried in order against paper publication dates.
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParsePublished parses a paper's publication date. Returns false when no
// known layout matches.
func ParsePublished(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Year extracts the publication year for BibTeX entries. When the date
// cannot be parsed it falls back to a leading 4-digit run if one exists,
// and otherwise returns the empty string.
func Year(value string) string {
	if t, ok := ParsePublished(value); ok {
		return t.Format("2006")
	}
	value = strings.TrimSpace(value)
	if len(value) >= 4 && allDigits(value[:4]) {
		return value[:4]
	}
	return ""
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Stamp renders t in the compact form used for filename stems.
func Stamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// Display renders t in the human form used in rendered report headers.
func Display(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// DisplayLong renders t in the long form used on the PDF title page.
func DisplayLong(t time.Time) string {
	return t.Format("January 2, 2006 at 15:04")
}
