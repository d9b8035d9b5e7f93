package requirement

import "errors"

// Sentinel kinds for malformed requirement specifications.
var (
	ErrMalformed     = errors.New("malformed requirement")
	ErrMalformedYear = errors.New("malformed per-year test")
)
