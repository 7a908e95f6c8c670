// Package catalog maintains a SQLite index of rendered report artifacts so
// callers can list, retrieve, and delete past renders without walking the
// output directory.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested artifact is not in the catalog.
var ErrNotFound = errors.New("catalog: artifact not found")

// Entry describes one rendered artifact.
type Entry struct {
	Filename  string
	Filepath  string
	Format    string
	Query     string
	SizeBytes int64
	CreatedAt time.Time
}

// Info summarizes catalog contents.
type Info struct {
	TotalReports int
	TotalBytes   int64
}

// Catalog wraps a SQLite database of rendered artifacts.
type Catalog struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	filename   TEXT PRIMARY KEY,
	filepath   TEXT NOT NULL,
	format     TEXT NOT NULL,
	query      TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_created ON artifacts(created_at);
`

// Open opens or creates a catalog database at the given path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record inserts or replaces the entry for an artifact.
func (c *Catalog) Record(e Entry) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO artifacts
		 (filename, filepath, format, query, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Filename, e.Filepath, e.Format, e.Query, e.SizeBytes,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording artifact %s: %w", e.Filename, err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (c *Catalog) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := c.db.Query(
		`SELECT filename, filepath, format, query, size_bytes, created_at
		 FROM artifacts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for a filename.
func (c *Catalog) Get(filename string) (Entry, error) {
	row := c.db.QueryRow(
		`SELECT filename, filepath, format, query, size_bytes, created_at
		 FROM artifacts WHERE filename = ?`, filename)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return e, err
}

// Delete removes an artifact from disk and from the catalog. The catalog
// row is removed even when the file is already gone.
func (c *Catalog) Delete(filename string) error {
	e, err := c.Get(filename)
	if err != nil {
		return err
	}
	if rmErr := os.Remove(e.Filepath); rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("deleting %s: %w", e.Filepath, rmErr)
	}
	if _, err := c.db.Exec(`DELETE FROM artifacts WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("deleting catalog row %s: %w", filename, err)
	}
	return nil
}

// Stats reports the number of indexed artifacts and their total size.
func (c *Catalog) Stats() (Info, error) {
	row := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM artifacts`)
	var info Info
	if err := row.Scan(&info.TotalReports, &info.TotalBytes); err != nil {
		return Info{}, fmt.Errorf("reading catalog stats: %w", err)
	}
	return info, nil
}

// DefaultPath returns the catalog location inside an output directory.
func DefaultPath(outputDir string) string {
	return filepath.Join(outputDir, "reports.db")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (Entry, error) {
	var e Entry
	var created string
	if err := r.Scan(&e.Filename, &e.Filepath, &e.Format, &e.Query, &e.SizeBytes, &created); err != nil {
		return Entry{}, err
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}
