package paperlens

import "errors"

var (
	// ErrPaperNotFound is returned when a paper name is not in the session.
	ErrPaperNotFound = errors.New("paperlens: paper not found")

	// ErrInvalidPDF is returned when an upload fails validation or text
	// extraction.
	ErrInvalidPDF = errors.New("paperlens: invalid PDF upload")

	// ErrNotEnoughPapers is returned when a comparison names fewer than
	// two papers.
	ErrNotEnoughPapers = errors.New("paperlens: comparison needs at least two papers")

	// ErrUnsupportedFormat is returned for unrecognized export formats.
	ErrUnsupportedFormat = errors.New("paperlens: unsupported export format")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("paperlens: invalid configuration")
)
