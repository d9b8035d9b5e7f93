package catalog

import "errors"

// Sentinel kinds for catalog load errors.
var (
	ErrDuplicateAward    = errors.New("duplicate award id")
	ErrInvalidAward      = errors.New("invalid award definition")
	ErrUnknownReference  = errors.New("unknown award reference")
	ErrReferenceCycle    = errors.New("award reference cycle")
	ErrSchema            = errors.New("catalog does not match schema")
	ErrInvalidVersion    = errors.New("invalid catalog version")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)
