package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/pkg/metrics"
)

// InMemoryStore keeps profiles in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu                    sync.RWMutex
	profiles              map[string]model.Profile
	newID                 func() string
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewInMemoryStore constructs a store and starts its metrics updater.
func NewInMemoryStore(ctx context.Context, opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		profiles:              make(map[string]model.Profile),
		newID:                 uuid.NewString,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops background work.
func (s *InMemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Put implements Store.Put.
func (s *InMemoryStore) Put(_ context.Context, p model.Profile) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	p = p.Clone()
	for i := range p.ActivityLog {
		if p.ActivityLog[i].ID == "" {
			p.ActivityLog[i].ID = s.newID()
		}
	}
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()
	return nil
}

// Get implements Store.Get.
func (s *InMemoryStore) Get(_ context.Context, id string) (model.Profile, error) {
	s.mu.RLock()
	p, ok := s.profiles[id]
	s.mu.RUnlock()
	if !ok {
		return model.Profile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.Clone(), nil
}

// AppendActivity implements Store.AppendActivity.
func (s *InMemoryStore) AppendActivity(_ context.Context, id string, rec model.ActivityRecord) (model.ActivityRecord, error) {
	if !rec.Valid() {
		return model.ActivityRecord{}, fmt.Errorf("%w: kind and year are required", ErrInvalidRecord)
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return model.ActivityRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	// copy on write so earlier Get results stay untouched
	p = p.Clone()
	p.ActivityLog = append(p.ActivityLog, rec.Clone())
	s.profiles[id] = p
	return rec, nil
}

// Unlock implements Store.Unlock.
func (s *InMemoryStore) Unlock(_ context.Context, id, awardID string, year int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, unlocked := p.UnlockYear(awardID); unlocked {
		return false, nil
	}
	p = p.Clone()
	p.UnlockedAwards = append(p.UnlockedAwards, model.UnlockedAward{AwardID: awardID, Year: year})
	s.profiles[id] = p
	return true, nil
}

// Count implements Store.Count.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *InMemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateProfilesStored(s.Count(ctx))
			}
		}
	}()
}
