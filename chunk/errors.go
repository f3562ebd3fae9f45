package chunk

import "errors"

var (
	// ErrEmptyInput is returned when the input text is empty or blank.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInvalidMaxChars is returned when the configured chunk size cannot
	// hold a whole rune.
	ErrInvalidMaxChars = errors.New("max chunk size too small")
)
