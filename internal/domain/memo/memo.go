// Package memo caches evaluation results per profile snapshot.
//
// Entries are keyed by a digest of everything evaluation reads from a
// profile, so any change to the activity log, unlocks, birth date or
// feature flags yields a new key and stale results are never served.
package memo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/gowebpki/jcs"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/medalist/internal/domain/model"
)

// Key identifies one memoized evaluation. EndYear is zero for scans.
type Key struct {
	ProfileID string
	Digest    string
	AwardID   string
	EndYear   int
}

// Cache memoizes values by Key.
type Cache[V any] interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, k Key) (V, bool)
	// Put stores v, evicting the least recently used entry when full.
	Put(ctx context.Context, k Key, v V)
	// Forget drops every entry of the profile.
	Forget(ctx context.Context, profileID string)
	Size() int
}

// lruCache implements Cache on a thread-safe LRU.
// For bounded mode (maxSize > 0) the least recently used entry is evicted.
// For unbounded mode (maxSize <= 0) nothing is evicted.
type lruCache[V any] struct {
	entries *lru.Cache[Key, V]
}

// New creates an in-memory cache.
func New[V any](opts ...Option) Cache[V] {
	cfg := config{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	size := cfg.maxSize
	if size <= 0 {
		size = math.MaxInt
	}
	entries, err := lru.New[Key, V](size)
	if err != nil {
		// unreachable: size is always positive here
		panic(err)
	}
	return &lruCache[V]{entries: entries}
}

func (c *lruCache[V]) Get(_ context.Context, k Key) (V, bool) {
	return c.entries.Get(k)
}

func (c *lruCache[V]) Put(_ context.Context, k Key, v V) {
	c.entries.Add(k, v)
}

func (c *lruCache[V]) Forget(_ context.Context, profileID string) {
	for _, k := range c.entries.Keys() {
		if k.ProfileID == profileID {
			c.entries.Remove(k)
		}
	}
}

func (c *lruCache[V]) Size() int {
	return c.entries.Len()
}

// snapshot is the part of a profile that evaluation depends on.
type snapshot struct {
	DateOfBirth    *time.Time             `json:"dateOfBirth"`
	UnlockedAwards []model.UnlockedAward  `json:"unlockedAwards"`
	ActivityLog    []model.ActivityRecord `json:"activityLog"`
	Features       model.Features         `json:"features"`
}

// Digest returns the hex SHA-256 of the profile's canonical JSON form.
func Digest(p model.Profile) (string, error) {
	raw, err := json.Marshal(snapshot{
		DateOfBirth:    p.DateOfBirth,
		UnlockedAwards: p.UnlockedAwards,
		ActivityLog:    p.ActivityLog,
		Features:       p.Features,
	})
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize profile: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
