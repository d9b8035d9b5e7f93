package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("profile not found")
	ErrInvalidRecord = errors.New("invalid activity record")
	ErrEmptyID       = errors.New("profile id is empty")
)
