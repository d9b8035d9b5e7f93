// Package repository stores profiles for evaluation.
package repository

import (
	"context"

	"github.com/okian/medalist/internal/domain/model"
)

// Store provides read/write access to profiles. Implementations return
// copies so callers can never mutate stored state.
type Store interface {
	// Put creates or replaces a profile.
	Put(ctx context.Context, p model.Profile) error

	// Get returns the profile or ErrNotFound.
	Get(ctx context.Context, id string) (model.Profile, error)

	// AppendActivity adds a record to the profile's log and returns the
	// stored record. Records without an id are assigned one.
	AppendActivity(ctx context.Context, id string, rec model.ActivityRecord) (model.ActivityRecord, error)

	// Unlock records awardID as unlocked in year. It is a no-op when the
	// award is already unlocked; the returned flag reports whether it changed.
	Unlock(ctx context.Context, id, awardID string, year int) (bool, error)

	// Count returns the number of stored profiles.
	Count(ctx context.Context) int
}
