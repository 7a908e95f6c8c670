package main

import (
	"errors"
	"os"

	reportgen "github.com/arxival/reportgen"
	"github.com/arxival/reportgen/internal/catalog"
	"github.com/arxival/reportgen/internal/config"
)

// Exit codes for the reportgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All requested artifacts written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitPartial = 5 // Some formats failed, others succeeded
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read report file")
	ErrReadPapers      = errors.New("failed to read papers file")
	ErrReadMetadata    = errors.New("failed to read metadata file")
	ErrPartialFailure  = errors.New("some formats failed")
	ErrMissingFilename = errors.New("filename argument required")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrPartialFailure) {
		return ExitPartial
	}

	// Browser errors (exit 4)
	if errors.Is(err, reportgen.ErrBrowserConnect) ||
		errors.Is(err, reportgen.ErrPageCreate) ||
		errors.Is(err, reportgen.ErrPageLoad) ||
		errors.Is(err, reportgen.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadPapers) ||
		errors.Is(err, ErrReadMetadata) ||
		errors.Is(err, catalog.ErrNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, reportgen.ErrEmptyContent) ||
		errors.Is(err, reportgen.ErrEmptyQuery) ||
		errors.Is(err, reportgen.ErrNoFormats) ||
		errors.Is(err, reportgen.ErrUnknownFormat) ||
		errors.Is(err, ErrMissingFilename) {
		return ExitUsage
	}

	return ExitGeneral
}
