package eligibility

import (
	"time"

	"github.com/okian/medalist/internal/domain/criteria"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedYear returns a clock pinned to the middle of year.
func FixedYear(year int) Clock {
	t := time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
	return ClockFunc(func() time.Time { return t })
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRegistry sets the registry consulted by custom leaves and per-year tests.
func WithRegistry(r *criteria.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithClock sets the clock that defines the current year.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithCurrentYearEnforced restricts every sustained requirement to end in
// the current year, as if each profile had the feature enabled.
func WithCurrentYearEnforced(enforce bool) Option {
	return func(e *Engine) {
		e.enforceCurrentYear = enforce
	}
}

// EvalOption tunes a single award evaluation.
type EvalOption func(*evalOptions)

type evalOptions struct {
	endYear *int
}

// WithEndYear evaluates the award for exactly year instead of scanning.
func WithEndYear(year int) EvalOption {
	return func(o *evalOptions) {
		o.endYear = &year
	}
}
