package reportgen

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyContent  = errors.New("report content cannot be empty")
	ErrEmptyQuery    = errors.New("query cannot be empty")
	ErrNoFormats     = errors.New("at least one target format is required")
	ErrUnknownFormat = errors.New("unknown output format")

	// PDF backend errors.
	ErrBackendUnavailable = errors.New("pdf layout backend unavailable")
	ErrBrowserConnect     = errors.New("failed to connect to browser")
	ErrPageCreate         = errors.New("failed to create browser page")
	ErrPageLoad           = errors.New("failed to load page")
	ErrPDFGeneration      = errors.New("PDF generation failed")
)
