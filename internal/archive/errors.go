package archive

import "errors"

// Sentinel error kinds. Callers match them with errors.Is.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrParse      = errors.New("parse failed")
	ErrNotFound   = errors.New("no results table found")
	ErrValidation = errors.New("invalid input")
)
