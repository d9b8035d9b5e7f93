package service

import (
	"github.com/okian/medalist/internal/adapters/repository"
	"github.com/okian/medalist/internal/domain/catalog"
	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the award catalog. It is required.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithStore replaces the default in-memory profile store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCriteria registers CEL expressions as named custom criteria.
func WithCriteria(exprs map[string]string) Option {
	return func(s *Service) {
		s.criteria = exprs
	}
}

// WithCurrentYearEnforced restricts sustained requirements to the current
// year for every profile.
func WithCurrentYearEnforced(enforce bool) Option {
	return func(s *Service) {
		s.enforceCurrentYear = enforce
	}
}

// WithClock sets the clock that defines the current year.
func WithClock(c eligibility.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithWorkerCount sets the number of bulk evaluation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the bulk evaluation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize bounds the result cache. Zero or less disables eviction.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
