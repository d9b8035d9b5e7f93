package criteria

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrEmptyName    = errors.New("criterion name is empty")
	ErrNilPredicate = errors.New("criterion predicate is nil")
	ErrDuplicate    = errors.New("criterion already registered")
	ErrCompile      = errors.New("criterion expression invalid")
)
