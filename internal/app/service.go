// Package service wires the award catalog, the eligibility engine, profile
// storage and bulk evaluation into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/medalist/internal/adapters/mq/queue"
	"github.com/okian/medalist/internal/adapters/mq/worker"
	"github.com/okian/medalist/internal/adapters/repository"
	"github.com/okian/medalist/internal/domain/catalog"
	"github.com/okian/medalist/internal/domain/criteria"
	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/internal/domain/memo"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/pkg/logger"
	"github.com/okian/medalist/pkg/metrics"
)

// Service implements the API dependencies for award evaluation.
type Service struct {
	mu sync.RWMutex

	catalog   *catalog.Catalog
	registry  *criteria.Registry
	engine    *eligibility.Engine
	store     repository.Store
	results   memo.Cache[eligibility.Result]
	summaries memo.Cache[eligibility.Summary]

	// bulk evaluation
	jobs       *queue.InMemoryQueue
	pool       *worker.Pool
	pendingMu  sync.Mutex
	pending    map[string]chan worker.Outcome
	poolCancel context.CancelFunc

	criteria           map[string]string
	enforceCurrentYear bool
	clock              eligibility.Clock
	workerCount        int
	queueSize          int
	cacheSize          int

	started bool
	logger  logger.Logger
}

// Stats is a point-in-time view of the service.
type Stats struct {
	Started        bool   `json:"started"`
	CurrentYear    int    `json:"currentYear"`
	CatalogVersion string `json:"catalogVersion,omitempty"`
	CatalogAwards  int    `json:"catalogAwards"`
	Profiles       int    `json:"profiles"`
	CacheEntries   int    `json:"cacheEntries"`
	WorkerCount    int    `json:"workerCount"`
	QueueSize      int    `json:"queueSize"`
	QueueLength    int    `json:"queueLength"`
}

// New constructs a Service. The evaluation path is usable right away; bulk
// evaluation needs Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		cacheSize:   10_000,
		pending:     make(map[string]chan worker.Outcome),
		logger:      logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		return nil, ErrNoCatalog
	}

	s.registry = criteria.NewRegistry()
	if err := s.registry.RegisterCEL(s.criteria); err != nil {
		return nil, fmt.Errorf("register criteria: %w", err)
	}

	engineOpts := []eligibility.Option{
		eligibility.WithRegistry(s.registry),
		eligibility.WithCurrentYearEnforced(s.enforceCurrentYear),
	}
	if s.clock != nil {
		engineOpts = append(engineOpts, eligibility.WithClock(s.clock))
	}
	s.engine = eligibility.New(s.catalog, engineOpts...)

	if s.store == nil {
		s.store = repository.NewInMemoryStore(context.Background())
	}
	s.results = memo.New[eligibility.Result](memo.WithMaxSize(s.cacheSize))
	s.summaries = memo.New[eligibility.Summary](memo.WithMaxSize(s.cacheSize))

	metrics.UpdateCatalogAwards(s.catalog.Len())
	return s, nil
}

// Start launches the bulk evaluation workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	// workers outlive the caller's ctx and stop on Stop
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.poolCancel = cancel
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s, s)
	s.pool.Start(poolCtx)
	s.started = true

	s.logger.Info(ctx, "award service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("awards", s.catalog.Len()),
		logger.String("catalogVersion", s.catalog.Version()),
	)
	return nil
}

// Stop lets the workers drain queued jobs, then shuts down the profile
// store. Bulk callers whose jobs could not finish receive queue.ErrClosed.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.poolCancel()
	s.failPending(ctx, queue.ErrClosed)
	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.started = false
	s.logger.Info(ctx, "award service stopped")
	return errors.Join(errs...)
}

// Catalog returns the award catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// PutProfile creates or replaces a profile.
func (s *Service) PutProfile(ctx context.Context, p model.Profile) error {
	if err := s.store.Put(ctx, p); err != nil {
		return err
	}
	s.forget(ctx, p.ID)
	return nil
}

// GetProfile returns a stored profile.
func (s *Service) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	return s.store.Get(ctx, id)
}

// AppendActivity adds one record to a profile's log.
func (s *Service) AppendActivity(ctx context.Context, profileID string, rec model.ActivityRecord) (model.ActivityRecord, error) {
	stored, err := s.store.AppendActivity(ctx, profileID, rec)
	if err != nil {
		return model.ActivityRecord{}, err
	}
	metrics.RecordActivityAppended()
	s.forget(ctx, profileID)
	return stored, nil
}

// EvaluateAward classifies one award. A nil endYear scans for the newest
// achievable year.
func (s *Service) EvaluateAward(ctx context.Context, profileID, awardID string, endYear *int) (eligibility.Result, error) {
	p, err := s.store.Get(ctx, profileID)
	if err != nil {
		return eligibility.Result{}, err
	}
	key, cacheable := s.key(ctx, p, awardID, endYear)
	if cacheable {
		if r, ok := s.results.Get(ctx, key); ok {
			metrics.RecordCacheHit()
			return r, nil
		}
		metrics.RecordCacheMiss()
	}

	var opts []eligibility.EvalOption
	if endYear != nil {
		opts = append(opts, eligibility.WithEndYear(*endYear))
	}
	start := time.Now()
	r, err := s.engine.EvaluateAward(p, awardID, opts...)
	if err != nil {
		return eligibility.Result{}, err
	}
	metrics.RecordEvaluation(string(r.Status), float64(time.Since(start).Milliseconds()))

	if cacheable {
		s.results.Put(ctx, key, r)
		s.updateCacheMetrics()
	}
	return r, nil
}

// EvaluateAll classifies every catalog award for a stored profile.
func (s *Service) EvaluateAll(ctx context.Context, profileID string) (eligibility.Summary, error) {
	p, err := s.store.Get(ctx, profileID)
	if err != nil {
		return eligibility.Summary{}, err
	}
	key, cacheable := s.key(ctx, p, "", nil)
	if cacheable {
		if sum, ok := s.summaries.Get(ctx, key); ok {
			metrics.RecordCacheHit()
			return sum, nil
		}
		metrics.RecordCacheMiss()
	}

	start := time.Now()
	sum := s.engine.EvaluateAll(p)
	elapsed := float64(time.Since(start).Milliseconds())
	for _, group := range [][]eligibility.Result{sum.Unlocked, sum.Achievable, sum.Locked} {
		for _, r := range group {
			metrics.RecordEvaluation(string(r.Status), elapsed)
		}
	}

	if cacheable {
		s.summaries.Put(ctx, key, sum)
		s.updateCacheMetrics()
	}
	return sum, nil
}

// EligibleYears lists, newest first, the years in which the award would be
// achievable for a stored profile.
func (s *Service) EligibleYears(ctx context.Context, profileID, awardID string) ([]int, error) {
	p, err := s.store.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.engine.EligibleYears(p, awardID)
}

// UnlockAward records an achievable award as unlocked in its achievable
// year. Awards that are already unlocked are returned unchanged. Locked
// awards yield ErrNotAchievable alongside their result.
func (s *Service) UnlockAward(ctx context.Context, profileID, awardID string) (eligibility.Result, error) {
	p, err := s.store.Get(ctx, profileID)
	if err != nil {
		return eligibility.Result{}, err
	}
	r, err := s.engine.EvaluateAward(p, awardID)
	if err != nil {
		return eligibility.Result{}, err
	}
	switch r.Status {
	case eligibility.StatusUnlocked:
		return r, nil
	case eligibility.StatusLocked:
		return r, fmt.Errorf("%w: %s (%s)", ErrNotAchievable, awardID, r.Reason)
	}

	year := *r.AchievableYear
	changed, err := s.store.Unlock(ctx, profileID, awardID, year)
	if err != nil {
		return eligibility.Result{}, err
	}
	if changed {
		metrics.RecordAwardUnlocked()
		s.forget(ctx, profileID)
		s.logger.Info(ctx, "award unlocked",
			logger.String("profileID", profileID),
			logger.String("awardID", awardID),
			logger.Int("year", year),
		)
	}

	// a concurrent unlock may have won; report what is stored
	stored, err := s.store.Get(ctx, profileID)
	if err != nil {
		return eligibility.Result{}, err
	}
	unlockYear, _ := stored.UnlockYear(awardID)
	return eligibility.Result{
		AwardID:      awardID,
		Status:       eligibility.StatusUnlocked,
		UnlockedYear: &unlockYear,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := s.store.Count(ctx)
	metrics.UpdateProfilesStored(profiles)

	st := Stats{
		Started:        s.started,
		CurrentYear:    s.engine.CurrentYear(),
		CatalogVersion: s.catalog.Version(),
		CatalogAwards:  s.catalog.Len(),
		Profiles:       profiles,
		CacheEntries:   s.results.Size() + s.summaries.Size(),
		WorkerCount:    s.workerCount,
		QueueSize:      s.queueSize,
	}
	if s.started {
		st.QueueLength = s.jobs.Len(ctx)
	}
	return st
}

// key builds the cache key for an evaluation. The current year is folded
// into the digest since scans and sustained windows depend on it.
func (s *Service) key(ctx context.Context, p model.Profile, awardID string, endYear *int) (memo.Key, bool) {
	digest, err := memo.Digest(p)
	if err != nil {
		s.logger.Warn(ctx, "profile digest failed, skipping cache",
			logger.String("profileID", p.ID),
			logger.Error(err),
		)
		return memo.Key{}, false
	}
	k := memo.Key{
		ProfileID: p.ID,
		Digest:    fmt.Sprintf("%s@%d", digest, s.engine.CurrentYear()),
		AwardID:   awardID,
	}
	if endYear != nil {
		k.EndYear = *endYear
	}
	return k, true
}

func (s *Service) forget(ctx context.Context, profileID string) {
	s.results.Forget(ctx, profileID)
	s.summaries.Forget(ctx, profileID)
	s.updateCacheMetrics()
}

func (s *Service) updateCacheMetrics() {
	metrics.UpdateCacheEntries(s.results.Size() + s.summaries.Size())
}
