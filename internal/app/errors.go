package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoCatalog     = errors.New("no award catalog configured")
	ErrNotStarted    = errors.New("service not started")
	ErrNotAchievable = errors.New("award not achievable")
)
