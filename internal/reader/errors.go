package reader

import "errors"

var (
	// ErrNilSource is returned by New when no line source is supplied.
	ErrNilSource = errors.New("line source must not be nil")

	// ErrBlankPath is returned by Open when the path is empty or whitespace-only.
	ErrBlankPath = errors.New("path must not be empty or blank")

	// ErrClosed is returned by read operations after Close has been called.
	ErrClosed = errors.New("reader is closed")
)
