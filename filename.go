package reportgen

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arxival/reportgen/internal/dateutil"
	"github.com/arxival/reportgen/internal/fileutil"
)

// maxQueryLen bounds the sanitized query portion of a filename stem.
const maxQueryLen = 50

// sanitizeQuery maps a query to a filesystem-safe fragment: alphanumerics,
// space, hyphen, and underscore pass through, everything else becomes an
// underscore, truncated to maxQueryLen runes.
func sanitizeQuery(query string) string {
	runes := []rune(query)
	if len(runes) > maxQueryLen {
		runes = runes[:maxQueryLen]
	}
	out := make([]rune, len(runes))
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out[i] = r
		case r == ' ', r == '-', r == '_':
			out[i] = r
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// filenameStem builds the timestamped stem shared by every artifact of one
// render: {YYYYMMDD_HHMMSS}_{sanitized query}.
func filenameStem(t time.Time, query string) string {
	return dateutil.Stamp(t) + "_" + sanitizeQuery(query)
}

// uniqueStem returns a stem whose candidate files do not yet exist in dir.
// A same-second render of the same query must never silently overwrite, so
// a colliding stem is disambiguated with a short random suffix.
func uniqueStem(dir, stem string, exts ...string) string {
	if !stemTaken(dir, stem, exts) {
		return stem
	}
	return stem + "_" + uuid.NewString()[:8]
}

func stemTaken(dir, stem string, exts []string) bool {
	for _, ext := range exts {
		if fileutil.FileExists(filepath.Join(dir, stem+"."+ext)) {
			return true
		}
	}
	return false
}
